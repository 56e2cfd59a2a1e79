package sim_test

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/go-kit/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/tethersim/internal/dynamo"
	"github.com/san-kum/tethersim/internal/integrators"
	"github.com/san-kum/tethersim/internal/metrics"
	"github.com/san-kum/tethersim/internal/numeric"
	"github.com/san-kum/tethersim/internal/physics"
	"github.com/san-kum/tethersim/internal/sim"
	"github.com/san-kum/tethersim/internal/thrust"
)

// draining loses mass linearly and runs out at t=100.
type draining struct{}

func (draining) Acceleration(t, v float64) float64 { return 0.01 }
func (draining) Degraded() bool                    { return false }
func (draining) Forces(t, v float64) dynamo.Forces {
	return dynamo.Forces{Mass: 100 - t}
}

var _ = Describe("Simulator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("constant force against quadratic drag", func() {
		// terminal velocity sqrt(F*1000/k) approached as vt*tanh(a*t/vt)
		const a = 2.0 / 50
		vt := math.Sqrt(2000)

		var result *sim.Result

		BeforeEach(func() {
			pm, err := physics.NewPointMass(physics.DefaultPointMassParams(), 0)
			Expect(err).NotTo(HaveOccurred())

			cfg := sim.DefaultConfig()
			cfg.StepsPerMs = 50
			result, err = sim.New(pm, integrators.NewRK4()).Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("produces one sample per grid point", func() {
			Expect(result.Len()).To(Equal(150000))
			Expect(result.Velocity).To(HaveLen(150000))
			Expect(result.Displacement).To(HaveLen(150000))
			Expect(result.Samples).To(HaveLen(150000))
			Expect(result.Times[0]).To(Equal(0.0))
			Expect(result.Times[result.Len()-1]).To(BeNumerically("~", 3000, 1e-9))
		})

		It("approaches terminal velocity", func() {
			want := vt * math.Tanh(a*3000/vt)
			Expect(result.Metrics[metrics.FinalVelocity]).To(BeNumerically("~", want, 1e-6))
			Expect(want / vt).To(BeNumerically(">", 0.99))
			Expect(result.Metrics[metrics.MaxVelocity]).To(BeNumerically("<", vt))
		})

		It("increases velocity monotonically", func() {
			for i := 1; i < result.Len(); i++ {
				if result.Velocity[i] <= result.Velocity[i-1] {
					Fail(fmt.Sprintf("velocity fell at sample %d: %g after %g", i, result.Velocity[i], result.Velocity[i-1]))
				}
			}
		})

		It("integrates displacement in metres", func() {
			want := vt * vt / a * math.Log(math.Cosh(a*3000/vt)) * 0.001
			Expect(result.Metrics[metrics.FinalDisplacement]).To(BeNumerically("~", want, 1e-3))
		})

		It("reports the time the distance threshold is crossed", func() {
			// 20 m = (vt²/a)·ln cosh(a·t/vt) · 0.001
			want := math.Acosh(math.Exp(20/(vt*vt/a*0.001))) * vt / a
			Expect(result.Metrics[metrics.TimeToDistance]).To(BeNumerically("~", want, 0.1))
		})

		It("samples every force component", func() {
			s := result.Samples[100]
			Expect(s.Thrust).To(Equal(2.0))
			Expect(s.Mass).To(Equal(50.0))
			Expect(s.Drag).To(BeNumerically("~", 0.001*s.V*s.V, 1e-12))
			Expect(result.Metrics[metrics.PeakThrust]).To(Equal(2.0))
			Expect(result.Metrics[metrics.AvgBurnThrust]).To(Equal(2.0))
			Expect(result.Metrics[metrics.TotalImpulse]).To(BeNumerically("~", 6, 1e-9))
		})

		It("is not degraded", func() {
			Expect(result.Degraded).To(BeFalse())
		})
	})

	Describe("cutoff", func() {
		var (
			pm  *physics.PointMass
			cfg sim.Config
		)

		BeforeEach(func() {
			var err error
			pm, err = physics.NewPointMass(physics.DefaultPointMassParams(), 1500)
			Expect(err).NotTo(HaveOccurred())
			cfg = sim.DefaultConfig()
			cfg.StepsPerMs = 50
			cfg.Cutoff = 1500
			cfg.InitialVelocity = 0.5
			cfg.InitialDisplacement = 0.5
		})

		It("concatenates the phases with a repeated boundary sample", func() {
			result, err := sim.New(pm, integrators.NewRK4()).Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Len()).To(Equal(150000))
			Expect(result.Times[74999]).To(BeNumerically("~", 1500, 1e-9))
			Expect(result.Times[75000]).To(BeNumerically("~", 1500, 1e-9))
			Expect(result.Velocity[75000]).To(Equal(result.Velocity[74999]))
			Expect(result.Velocity[0]).To(Equal(0.5))
			Expect(result.Displacement[0]).To(BeNumerically("~", 0.0005, 1e-15))
		})

		It("decays thrust after the cutoff", func() {
			result, err := sim.New(pm, integrators.NewRK4()).Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())

			last := result.Samples[result.Len()-1]
			Expect(last.Thrust).To(BeNumerically("<", 2))
			Expect(last.Thrust).To(BeNumerically("~", 2*math.Pow(300.0/1800, 1.5), 1e-9))
			Expect(result.Metrics[metrics.FinalVelocity]).To(BeNumerically("<", result.Metrics[metrics.MaxVelocity]))
		})

		It("is not sensitive to how the phases are supplied", func() {
			phased, err := sim.New(pm, integrators.NewRK4()).Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())

			plain := struct{ dynamo.Model }{pm}
			single, err := sim.New(plain, integrators.NewRK4()).Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(single.Metrics[metrics.FinalVelocity]).To(
				BeNumerically("~", phased.Metrics[metrics.FinalVelocity], 1e-6))
		})
	})

	Describe("invalid configuration", func() {
		It("rejects an empty grid before running", func() {
			pm, _ := physics.NewPointMass(physics.DefaultPointMassParams(), 0)
			cfg := sim.DefaultConfig()
			cfg.EndTime = 0

			result, err := sim.New(pm, integrators.NewRK4()).Run(ctx, cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidGrid))
			Expect(result).To(BeNil())
		})

		It("aborts when the mass reaches zero", func() {
			cfg := sim.DefaultConfig()
			cfg.EndTime = 200

			result, err := sim.New(draining{}, integrators.NewEuler()).Run(ctx, cfg)
			Expect(err).To(MatchError(dynamo.ErrNegativeMass))
			Expect(result).To(BeNil())

			var simErr *dynamo.SimulationError
			Expect(err).To(BeAssignableToTypeOf(simErr))
			Expect(err.(*dynamo.SimulationError).Time).To(BeNumerically(">=", 100))
		})

		It("stops when the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			pm, _ := physics.NewPointMass(physics.DefaultPointMassParams(), 0)

			_, err := sim.New(pm, integrators.NewRK4()).Run(cctx, sim.DefaultConfig())
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("missing thrust data", func() {
		It("completes a degraded run and warns", func() {
			var buf bytes.Buffer
			veh, err := physics.NewVehicle(physics.DefaultVehicleParams(), thrust.Missing{Location: "absent.json"}, 3000)
			Expect(err).NotTo(HaveOccurred())

			result, err := sim.New(veh, integrators.NewRK4(), sim.WithLogger(log.NewLogfmtLogger(&buf))).
				Run(ctx, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Degraded).To(BeTrue())
			Expect(result.Metrics[metrics.PeakThrust]).To(Equal(0.0))
			Expect(result.Metrics[metrics.AvgBurnThrust]).To(Equal(0.0))
			Expect(result.Metrics[metrics.TimeToDistance]).To(Equal(numeric.NotReached))
			Expect(buf.String()).To(ContainSubstring("level=warn"))
		})
	})

	Describe("baseline vehicle", func() {
		It("accelerates under placeholder thrust", func() {
			veh, err := physics.NewVehicle(physics.DefaultVehicleParams(), thrust.NewPlaceholder(5), 3000)
			Expect(err).NotTo(HaveOccurred())

			result, err := sim.New(veh, integrators.NewRK4()).Run(ctx, sim.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Len()).To(Equal(30000))
			Expect(result.Metrics[metrics.FinalVelocity]).To(BeNumerically(">", 0))
			Expect(result.Metrics[metrics.TetherEnergy]).To(
				BeNumerically("~", 2*(result.Metrics[metrics.FinalDisplacement]-result.Displacement[0]), 1e-9))
			Expect(result.Metrics).To(HaveKey(metrics.DragAtMaxVelocity))
		})
	})

	Describe("RunBatch", func() {
		It("runs every job and keeps their order", func() {
			src := thrust.NewPlaceholder(5)
			var jobs []sim.Job
			for _, name := range []string{"euler", "rk4"} {
				veh, err := physics.NewVehicle(physics.DefaultVehicleParams(), src, 3000)
				Expect(err).NotTo(HaveOccurred())
				var integ dynamo.Integrator = integrators.NewRK4()
				if name == "euler" {
					integ = integrators.NewEuler()
				}
				jobs = append(jobs, sim.Job{Name: name, Sim: sim.New(veh, integ), Config: sim.DefaultConfig()})
			}
			bad := sim.DefaultConfig()
			bad.EndTime = -1
			jobs = append(jobs, sim.Job{Name: "bad", Sim: jobs[0].Sim, Config: bad})

			out := sim.RunBatch(ctx, jobs)
			Expect(out).To(HaveLen(3))
			Expect(out[0].Name).To(Equal("euler"))
			Expect(out[1].Err).NotTo(HaveOccurred())
			Expect(out[0].Result.Metrics[metrics.FinalVelocity]).To(
				BeNumerically("~", out[1].Result.Metrics[metrics.FinalVelocity], 1e-3))
			Expect(out[2].Err).To(MatchError(dynamo.ErrInvalidGrid))
		})

		It("skips remaining jobs once cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			pm, _ := physics.NewPointMass(physics.DefaultPointMassParams(), 0)
			out := sim.RunBatch(cctx, []sim.Job{{Name: "a", Sim: sim.New(pm, integrators.NewRK4()), Config: sim.DefaultConfig()}})
			Expect(out[0].Name).To(Equal("a"))
			Expect(out[0].Err).To(MatchError(context.Canceled))
			Expect(out[0].Result).To(BeNil())
		})
	})
})
