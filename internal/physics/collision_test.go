package physics

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("ResolvePairs", func() {
	var prm Params

	BeforeEach(func() {
		prm = DefaultParams()
	})

	It("swaps velocities in a head-on elastic collision", func() {
		ps := []Particle{
			{Pos: r2.Vec{X: 0, Y: 0}, Vel: r2.Vec{X: 4, Y: 0}, Radius: 10},
			{Pos: r2.Vec{X: 15, Y: 0}, Vel: r2.Vec{X: -4, Y: 0}, Radius: 10},
		}
		Expect(ResolvePairs(ps, prm)).To(Equal(1))

		Expect(ps[0].Vel.X).To(BeNumerically("~", -4, 1e-6))
		Expect(ps[0].Vel.Y).To(BeNumerically("~", 0, 1e-6))
		Expect(ps[1].Vel.X).To(BeNumerically("~", 4, 1e-6))
		Expect(ps[1].Vel.Y).To(BeNumerically("~", 0, 1e-6))
		Expect(ps[0].Speed()).To(BeNumerically("~", prm.Speed, 1e-6))
		Expect(ps[1].Speed()).To(BeNumerically("~", prm.Speed, 1e-6))
	})

	It("splits the overlap symmetrically", func() {
		ps := []Particle{
			{Pos: r2.Vec{X: 0, Y: 0}, Vel: r2.Vec{X: 4, Y: 0}, Radius: 10},
			{Pos: r2.Vec{X: 15, Y: 0}, Vel: r2.Vec{X: -4, Y: 0}, Radius: 10},
		}
		ResolvePairs(ps, prm)
		Expect(ps[0].Pos.X).To(BeNumerically("~", -2.5, tol))
		Expect(ps[1].Pos.X).To(BeNumerically("~", 17.5, tol))
		Expect(r2.Norm(r2.Sub(ps[0].Pos, ps[1].Pos))).To(BeNumerically("~", 20, tol))
	})

	It("ignores pairs that do not overlap", func() {
		ps := []Particle{
			{Pos: r2.Vec{X: 0, Y: 0}, Vel: r2.Vec{X: 4, Y: 0}, Radius: 10},
			{Pos: r2.Vec{X: 20, Y: 0}, Vel: r2.Vec{X: -4, Y: 0}, Radius: 10},
		}
		Expect(ResolvePairs(ps, prm)).To(Equal(0))
		Expect(ps[0].Vel).To(Equal(r2.Vec{X: 4, Y: 0}))
	})

	It("skips coincident centres", func() {
		ps := []Particle{
			{Pos: r2.Vec{X: 5, Y: 5}, Vel: r2.Vec{X: 4, Y: 0}, Radius: 10},
			{Pos: r2.Vec{X: 5, Y: 5}, Vel: r2.Vec{X: 0, Y: 4}, Radius: 10},
		}
		Expect(ResolvePairs(ps, prm)).To(Equal(0))
		Expect(ps[0].Pos).To(Equal(ps[1].Pos))
	})

	It("leaves separating pairs overlapped and untouched", func() {
		ps := []Particle{
			{Pos: r2.Vec{X: 0, Y: 0}, Vel: r2.Vec{X: -4, Y: 0}, Radius: 10},
			{Pos: r2.Vec{X: 15, Y: 0}, Vel: r2.Vec{X: 4, Y: 0}, Radius: 10},
		}
		Expect(ResolvePairs(ps, prm)).To(Equal(0))
		Expect(ps[0].Pos).To(Equal(r2.Vec{X: 0, Y: 0}))
		Expect(ps[1].Pos).To(Equal(r2.Vec{X: 15, Y: 0}))
		Expect(ps[0].Vel).To(Equal(r2.Vec{X: -4, Y: 0}))
	})

	It("exempts falling particles from the impulse but not from separation", func() {
		ps := []Particle{
			{Pos: r2.Vec{X: 0, Y: 0}, Vel: r2.Vec{X: 4, Y: 0}, Radius: 10},
			{Pos: r2.Vec{X: 15, Y: 0}, Vel: r2.Vec{X: 0, Y: 2}, Radius: 10, Phase: Falling},
		}
		Expect(ResolvePairs(ps, prm)).To(Equal(1))
		Expect(ps[0].Vel.X).To(BeNumerically("~", -4, 1e-6))
		Expect(ps[1].Vel).To(Equal(r2.Vec{X: 0, Y: 2}))
		Expect(ps[0].Pos.X).To(BeNumerically("~", -2.5, tol))
		Expect(ps[1].Pos.X).To(BeNumerically("~", 17.5, tol))
	})

	It("excludes settled particles entirely", func() {
		ps := []Particle{
			{Pos: r2.Vec{X: 0, Y: 0}, Vel: r2.Vec{X: 4, Y: 0}, Radius: 10},
			{Pos: r2.Vec{X: 15, Y: 0}, Radius: 10, Phase: Settled},
		}
		Expect(ResolvePairs(ps, prm)).To(Equal(0))
		Expect(ps[0].Vel).To(Equal(r2.Vec{X: 4, Y: 0}))
		Expect(ps[1].Pos).To(Equal(r2.Vec{X: 15, Y: 0}))
	})

	It("keeps bouncing speed constant through a glancing hit", func() {
		ps := []Particle{
			{Pos: r2.Vec{X: 0, Y: 0}, Vel: r2.Vec{X: 4, Y: 0}, Radius: 10},
			{Pos: r2.Vec{X: 12, Y: 9}, Vel: r2.Vec{X: 0, Y: -4}, Radius: 10},
		}
		Expect(ResolvePairs(ps, prm)).To(Equal(1))
		Expect(ps[0].Speed()).To(BeNumerically("~", prm.Speed, 1e-6))
		Expect(ps[1].Speed()).To(BeNumerically("~", prm.Speed, 1e-6))
	})
})
