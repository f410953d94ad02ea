package sim

import (
	"math"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/pursuit/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

func countPhase(bodies []Body, ph physics.Phase) int {
	n := 0
	for _, b := range bodies {
		if b.Phase == ph {
			n++
		}
	}
	return n
}

type tickRecorder struct {
	ticks []int
	sizes []int
}

func (r *tickRecorder) OnTick(tick int, bodies []Body) {
	r.ticks = append(r.ticks, tick)
	r.sizes = append(r.sizes, len(bodies))
}

var _ = Describe("Simulation", func() {
	var (
		s   *Simulation
		cfg Config
		now time.Time
	)

	BeforeEach(func() {
		cfg = DefaultConfig()
		cfg.Seed = 42
		now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	})

	JustBeforeEach(func() {
		var err error
		s, err = New(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts with the full population bouncing at constant speed", func() {
		bodies := s.Snapshot()
		Expect(bodies).To(HaveLen(100))
		Expect(s.LiveCount()).To(Equal(100))
		for i, b := range bodies {
			Expect(b.Phase).To(Equal(physics.Bouncing))
			Expect(b.Tag).To(Equal(i))
			Expect(b.Radius).To(Equal(10.0))
			Expect(r2.Norm(b.Vel)).To(BeNumerically("~", 4, 1e-9))
			Expect(s.Arena().Contains(b.Pos, b.Radius)).To(BeTrue())
		}
	})

	It("keeps bouncing speed and containment across many ticks", func() {
		for tick := 0; tick < 600; tick++ {
			if tick%60 == 59 {
				s.CullTick(now)
			}
			s.Tick()
			for _, b := range s.Snapshot() {
				Expect(s.Arena().Contains(b.Pos, b.Radius)).To(BeTrue(), "tag %d at tick %d", b.Tag, tick)
				if b.Phase == physics.Bouncing {
					Expect(r2.Norm(b.Vel)).To(BeNumerically("~", 4, 1e-6))
				}
			}
		}
		Expect(s.Ticks()).To(Equal(600))
	})

	It("leaves the live count alone when converting", func() {
		for i := 0; i < 30; i++ {
			Expect(s.CullTick(now)).To(BeTrue())
		}
		Expect(s.LiveCount()).To(Equal(100))
		Expect(countPhase(s.Snapshot(), physics.Falling)).To(Equal(30))
		Expect(s.Stats().Conversions).To(Equal(30))
	})

	It("stops culling once no bouncing particle is left", func() {
		conversions := 0
		for s.CullTick(now) {
			conversions++
			Expect(conversions).To(BeNumerically("<=", 100))
		}
		Expect(conversions).To(Equal(100))
		Expect(s.CullArmed()).To(BeFalse())
		Expect(s.CullTick(now)).To(BeFalse())
	})

	It("is reproducible for a fixed seed", func() {
		other, err := New(cfg)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 200; i++ {
			if i%50 == 0 {
				s.CullTick(now)
				other.CullTick(now)
			}
			s.Tick()
			other.Tick()
		}
		Expect(other.Snapshot()).To(Equal(s.Snapshot()))
	})

	It("notifies observers after each tick", func() {
		rec := &tickRecorder{}
		s.AddObserver(rec)
		s.Tick()
		s.Tick()
		Expect(rec.ticks).To(Equal([]int{1, 2}))
		Expect(rec.sizes).To(Equal([]int{100, 100}))
	})

	It("accepts observers at construction", func() {
		rec := &tickRecorder{}
		withObs, err := New(cfg, WithObserver(rec))
		Expect(err).NotTo(HaveOccurred())
		withObs.Tick()
		Expect(rec.ticks).To(Equal([]int{1}))
		Expect(rec.sizes).To(Equal([]int{cfg.Population}))
	})

	It("returns snapshots that do not alias internal state", func() {
		bodies := s.Snapshot()
		bodies[0].Pos = r2.Vec{X: -1000, Y: -1000}
		Expect(s.Snapshot()[0].Pos).NotTo(Equal(bodies[0].Pos))
	})

	Context("with weak gravity", func() {
		BeforeEach(func() {
			cfg.Physics.Gravity = 0.25
		})

		It("only ever lowers the live count, once per settle", func() {
			for s.CullTick(now) {
			}
			prev := s.LiveCount()
			for tick := 0; tick < 2000; tick++ {
				s.Tick()
				live := s.LiveCount()
				Expect(live).To(BeNumerically("<=", prev))
				Expect(live).To(Equal(100 - countPhase(s.Snapshot(), physics.Settled)))
				prev = live
			}
			Expect(s.Stats().Settles).To(Equal(100 - s.LiveCount()))
			Expect(s.Stats().Settles).To(BeNumerically(">", 0))
		})

		It("freezes settled particles", func() {
			s.particles[0].Phase = physics.Falling
			s.particles[0].Pos = r2.Vec{X: 100, Y: 440}
			s.particles[0].Vel = r2.Vec{X: 0.05, Y: -0.2}

			s.Tick()
			Expect(s.particles[0].Phase).To(Equal(physics.Settled))
			Expect(s.LiveCount()).To(Equal(99))

			frozen := s.particles[0]
			for i := 0; i < 50; i++ {
				s.Tick()
			}
			Expect(s.particles[0]).To(Equal(frozen))
			Expect(s.LiveCount()).To(BeNumerically("<=", 99))
		})
	})

	Context("with a cull floor", func() {
		BeforeEach(func() {
			cfg.Population = 10
			cfg.CullFloor = 5
			cfg.Physics.Gravity = 0.1
		})

		It("converts nothing at or below the floor but still lets particles settle", func() {
			for i := range s.particles {
				s.particles[i].Pos = r2.Vec{X: 40 + float64(i)*70, Y: 200}
				s.particles[i].Vel = r2.Vec{X: 0, Y: 4}
			}
			for i := 0; i < 6; i++ {
				Expect(s.CullTick(now)).To(BeTrue())
			}
			Expect(s.LiveCount()).To(Equal(10))

			for i := 0; i < 1000; i++ {
				s.Tick()
			}
			Expect(s.LiveCount()).To(Equal(4))
			Expect(s.LiveCount()).To(BeNumerically("<", s.Config().CullFloor))

			bouncing := countPhase(s.Snapshot(), physics.Bouncing)
			Expect(bouncing).To(Equal(4))
			Expect(s.CullTick(now)).To(BeFalse())
			Expect(countPhase(s.Snapshot(), physics.Bouncing)).To(Equal(bouncing))
		})
	})

	Describe("Reset", func() {
		It("restores a full bouncing population and rearms culling", func() {
			for s.CullTick(now) {
			}
			for i := 0; i < 100; i++ {
				s.Tick()
			}
			before := s.Snapshot()

			s.Reset()
			first := s.Snapshot()
			s.Reset()
			second := s.Snapshot()

			for _, bodies := range [][]Body{first, second} {
				Expect(bodies).To(HaveLen(100))
				Expect(countPhase(bodies, physics.Bouncing)).To(Equal(100))
			}
			Expect(second).NotTo(Equal(first))
			Expect(first).NotTo(Equal(before))
			Expect(s.LiveCount()).To(Equal(100))
			Expect(s.Ticks()).To(Equal(0))
			Expect(s.Stats()).To(Equal(Stats{}))
			Expect(s.CullArmed()).To(BeTrue())
			Expect(s.CullTick(now)).To(BeTrue())
		})
	})
})

var _ = Describe("Create", func() {
	It("builds a reference simulation", func() {
		s, err := Create(100, 780, 450, 4, 0.5, 10, WithRand(rand.New(rand.NewSource(1))))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Population()).To(Equal(100))
		Expect(s.Params().Speed).To(Equal(4.0))
		Expect(s.Params().Gravity).To(Equal(0.5))
		Expect(s.Config().CullFloor).To(Equal(40))
	})

	It("caps the cull floor for small populations", func() {
		s, err := Create(10, 200, 200, 2, 0.5, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Config().CullFloor).To(Equal(10))
		Expect(s.CullTick(time.Now())).To(BeFalse())
	})

	DescribeTable("rejects invalid parameters",
		func(population int, width, height, speed, radius float64, field string) {
			_, err := Create(population, width, height, speed, 0.5, radius)
			Expect(err).To(MatchError(ErrInvalidConfig))
			var cerr *ConfigError
			Expect(err).To(BeAssignableToTypeOf(cerr))
			Expect(err.(*ConfigError).Field).To(Equal(field))
		},
		Entry("zero population", 0, 780.0, 450.0, 4.0, 10.0, "population"),
		Entry("zero radius", 100, 780.0, 450.0, 4.0, 0.0, "radius"),
		Entry("negative radius", 100, 780.0, 450.0, 4.0, -1.0, "radius"),
		Entry("zero width", 100, 0.0, 450.0, 4.0, 10.0, "width"),
		Entry("negative height", 100, 780.0, -5.0, 4.0, 10.0, "height"),
		Entry("arena narrower than a particle", 100, 15.0, 450.0, 4.0, 10.0, "width"),
		Entry("zero speed", 100, 780.0, 450.0, 0.0, 10.0, "speed"),
		Entry("infinite speed", 100, 780.0, 450.0, math.Inf(1), 10.0, "speed"),
	)
})
