package physics

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"
)

const tol = 1e-9

var _ = Describe("Integrate", func() {
	var (
		arena Arena
		prm   Params
	)

	BeforeEach(func() {
		arena = Arena{Width: 780, Height: 450}
		prm = DefaultParams()
	})

	Context("bouncing", func() {
		It("moves by its velocity in open space", func() {
			p := Particle{Pos: r2.Vec{X: 100, Y: 100}, Vel: r2.Vec{X: 4, Y: 0}, Radius: 10}
			Expect(Integrate(&p, arena, prm)).To(BeFalse())
			Expect(p.Pos.X).To(BeNumerically("~", 104, tol))
			Expect(p.Pos.Y).To(BeNumerically("~", 100, tol))
		})

		It("reflects off the left wall and clamps to the boundary", func() {
			p := Particle{Pos: r2.Vec{X: 9, Y: 200}, Vel: r2.Vec{X: -4, Y: 0}, Radius: 10}
			Integrate(&p, arena, prm)
			Expect(p.Pos.X).To(Equal(10.0))
			Expect(p.Vel.X).To(BeNumerically(">", 0))
			Expect(p.Speed()).To(BeNumerically("~", prm.Speed, 1e-6))
		})

		It("reflects off the right and bottom walls", func() {
			p := Particle{Pos: r2.Vec{X: 768, Y: 438}, Vel: r2.Vec{X: 2.4, Y: 3.2}, Radius: 10}
			Integrate(&p, arena, prm)
			Expect(p.Pos).To(Equal(r2.Vec{X: 770, Y: 440}))
			Expect(p.Vel.X).To(BeNumerically("<", 0))
			Expect(p.Vel.Y).To(BeNumerically("<", 0))
		})

		It("reflects both axes in a corner and renormalizes once", func() {
			p := Particle{Pos: r2.Vec{X: 11, Y: 11}, Vel: r2.Vec{X: -2.4, Y: -3.2}, Radius: 10}
			Integrate(&p, arena, prm)
			Expect(p.Pos).To(Equal(r2.Vec{X: 10, Y: 10}))
			Expect(p.Vel.X).To(BeNumerically("~", 2.4, tol))
			Expect(p.Vel.Y).To(BeNumerically("~", 3.2, tol))
		})

		It("pulls a drifted speed back to the constant on a wall hit", func() {
			p := Particle{Pos: r2.Vec{X: 12, Y: 200}, Vel: r2.Vec{X: -5, Y: 1}, Radius: 10}
			Integrate(&p, arena, prm)
			Expect(p.Speed()).To(BeNumerically("~", prm.Speed, 1e-9))
		})
	})

	Context("falling", func() {
		It("accelerates downwards and damps horizontal travel", func() {
			p := Particle{Pos: r2.Vec{X: 100, Y: 100}, Vel: r2.Vec{X: 2, Y: 0}, Radius: 10, Phase: Falling}
			Integrate(&p, arena, prm)
			Expect(p.Vel.Y).To(BeNumerically("~", 0.5, tol))
			Expect(p.Vel.X).To(BeNumerically("~", 2, tol))
			Expect(p.Pos.X).To(BeNumerically("~", 101.98, tol))
			Expect(p.Pos.Y).To(BeNumerically("~", 100.5, tol))
		})

		It("bounces off the floor losing energy", func() {
			p := Particle{Pos: r2.Vec{X: 100, Y: 438}, Vel: r2.Vec{X: 1, Y: 3.5}, Radius: 10, Phase: Falling}
			Expect(Integrate(&p, arena, prm)).To(BeFalse())
			Expect(p.Pos.Y).To(Equal(440.0))
			Expect(p.Vel.Y).To(BeNumerically("~", -2, tol))
			Expect(p.Vel.X).To(BeNumerically("~", 0.8, tol))
			Expect(p.Phase).To(Equal(Falling))
		})

		It("settles when the bounce leaves both components under the threshold", func() {
			p := Particle{Pos: r2.Vec{X: 100, Y: 440}, Vel: r2.Vec{X: 0.05, Y: -0.45}, Radius: 10, Phase: Falling}
			Expect(Integrate(&p, arena, prm)).To(BeTrue())
			Expect(p.Phase).To(Equal(Settled))

			pos, vel := p.Pos, p.Vel
			for i := 0; i < 10; i++ {
				Expect(Integrate(&p, arena, prm)).To(BeFalse())
			}
			Expect(p.Pos).To(Equal(pos))
			Expect(p.Vel).To(Equal(vel))
		})

		It("stays inside the side walls", func() {
			p := Particle{Pos: r2.Vec{X: 11, Y: 100}, Vel: r2.Vec{X: -4, Y: 0}, Radius: 10, Phase: Falling}
			Integrate(&p, arena, prm)
			Expect(p.Pos.X).To(Equal(10.0))
			Expect(p.Vel.X).To(BeNumerically(">", 0))
		})

		It("never settles at reference gravity", func() {
			p := Particle{Pos: r2.Vec{X: 390, Y: 200}, Vel: r2.Vec{X: 0, Y: 0}, Radius: 10, Phase: Falling}
			for i := 0; i < 2000; i++ {
				Expect(Integrate(&p, arena, prm)).To(BeFalse())
			}
			Expect(math.Abs(p.Vel.Y)).To(BeNumerically("~", 1.0/6, 1e-3))
		})

		It("comes to rest under weak gravity", func() {
			prm.Gravity = 0.1
			p := Particle{Pos: r2.Vec{X: 390, Y: 200}, Vel: r2.Vec{X: 1, Y: 0}, Radius: 10, Phase: Falling}
			settled := 0
			for i := 0; i < 2000; i++ {
				if Integrate(&p, arena, prm) {
					settled++
				}
			}
			Expect(settled).To(Equal(1))
			Expect(p.Phase).To(Equal(Settled))
			Expect(arena.Contains(p.Pos, p.Radius)).To(BeTrue())
		})
	})
})

var _ = DescribeTable("Renormalize",
	func(v r2.Vec, speed float64, want r2.Vec) {
		got := Renormalize(v, speed)
		Expect(got.X).To(BeNumerically("~", want.X, tol))
		Expect(got.Y).To(BeNumerically("~", want.Y, tol))
	},
	Entry("scales up", r2.Vec{X: 3, Y: 4}, 10.0, r2.Vec{X: 6, Y: 8}),
	Entry("scales down", r2.Vec{X: 0, Y: -8}, 4.0, r2.Vec{X: 0, Y: -4}),
	Entry("zero vector is left alone", r2.Vec{}, 4.0, r2.Vec{}),
)
