package sim_test

import (
	"bytes"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/odecmp/internal/analysis"
	"github.com/san-kum/odecmp/internal/dynamo"
	"github.com/san-kum/odecmp/internal/observability"
	"github.com/san-kum/odecmp/internal/physics"
	"github.com/san-kum/odecmp/internal/sim"
)

func nonDecreasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[i-1] {
			return false
		}
	}
	return true
}

var _ = Describe("Driver", func() {
	var (
		driver *sim.Driver
		grid   dynamo.Grid
	)

	BeforeEach(func() {
		driver = sim.New()
		var err error
		grid, err = dynamo.NewGrid(0, 10, 0.1)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("the drag equation", func() {
		It("agrees between methods and approaches terminal velocity monotonically", func() {
			c, err := driver.Run(physics.NewDrag(), dynamo.FirstOrder, grid)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.MSE).To(BeNumerically("<", 1e-6))
			Expect(nonDecreasing(c.RK4.Primary())).To(BeTrue())
			Expect(nonDecreasing(c.AB4.Primary())).To(BeTrue())
			Expect(c.RK4.Last().Component(0)).To(BeNumerically("<", physics.NewDrag().TerminalVelocity()))
		})

		It("produces scalar states on every grid point", func() {
			c, err := driver.Run(physics.NewDrag(), dynamo.FirstOrder, grid)
			Expect(err).NotTo(HaveOccurred())

			for _, traj := range []*dynamo.Trajectory{c.RK4, c.AB4} {
				Expect(traj.Len()).To(Equal(grid.Len()))
				for _, s := range traj.States() {
					Expect(s).To(BeAssignableToTypeOf(dynamo.Scalar(0)))
				}
			}
		})
	})

	Describe("the harmonic oscillator", func() {
		It("keeps every peak within 1% of the initial amplitude", func() {
			c, err := driver.Run(physics.NewHarmonicOscillator(), dynamo.SecondOrder, grid)
			Expect(err).NotTo(HaveOccurred())

			for _, traj := range []*dynamo.Trajectory{c.RK4, c.AB4} {
				amp, err := analysis.MaxAmplitudeError(traj.Primary(), 1)
				Expect(err).NotTo(HaveOccurred())
				Expect(amp).To(BeNumerically("<=", 0.01))
			}
		})

		It("produces two-component states", func() {
			c, err := driver.Run(physics.NewHarmonicOscillator(), dynamo.SecondOrder, grid)
			Expect(err).NotTo(HaveOccurred())

			for _, s := range c.AB4.States() {
				Expect(s.Dim()).To(Equal(2))
			}
			Expect(c.ComponentMSE).To(HaveLen(2))
		})
	})

	Describe("the coupled system", func() {
		It("integrates from the default initial condition", func() {
			sys := physics.NewReciprocalFeedback(1, -1)
			c, err := driver.Run(sys, dynamo.System, grid)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.RK4.At(0)).To(Equal(dynamo.Vector{1, 1}))
			for _, s := range c.RK4.States() {
				Expect(s.Dim()).To(Equal(2))
			}
			Expect(c.MSE).To(BeNumerically("<", 1e-4))
		})
	})

	Describe("bootstrap and determinism", func() {
		It("matches RK4 exactly on the first four entries", func() {
			c, err := driver.Run(physics.NewHarmonicOscillator(), dynamo.SecondOrder, grid)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 4; i++ {
				Expect(c.AB4.At(i)).To(Equal(c.RK4.At(i)))
			}
		})

		It("is bit-identical across runs", func() {
			a, err := driver.Run(physics.NewDrag(), dynamo.FirstOrder, grid)
			Expect(err).NotTo(HaveOccurred())
			b, err := driver.Run(physics.NewDrag(), dynamo.FirstOrder, grid)
			Expect(err).NotTo(HaveOccurred())

			Expect(a.RK4.States()).To(Equal(b.RK4.States()))
			Expect(a.AB4.States()).To(Equal(b.AB4.States()))
			Expect(a.MSE).To(Equal(b.MSE))
		})

		It("counts one evaluation per AB4 steady step", func() {
			c, err := driver.Run(physics.NewDrag(), dynamo.FirstOrder, grid)
			Expect(err).NotTo(HaveOccurred())

			n := grid.Len()
			Expect(c.Evaluations["rk4"]).To(Equal(4 * (n - 1)))
			Expect(c.Evaluations["ab4"]).To(Equal(12 + n - 4))
		})
	})

	Describe("RunFrom", func() {
		It("infers the family from the initial state", func() {
			osc := physics.NewHarmonicOscillator()
			osc.X0 = 2
			c, err := driver.RunFrom(osc, osc.InitialState(), grid)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Family).To(Equal(dynamo.SecondOrder))
			Expect(c.RK4.At(0)).To(Equal(dynamo.Pair{X: 2}))
		})

		It("rejects a nil initial state", func() {
			_, err := driver.RunFrom(physics.NewDrag(), nil, grid)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
		})

		DescribeTable("rejects system states without two components",
			func(s0 dynamo.Vector) {
				calls := 0
				f := dynamo.DerivativeFunc(func(_ float64, s dynamo.State) (dynamo.State, error) {
					calls++
					return s, nil
				})
				c, err := driver.RunFrom(f, s0, grid)
				Expect(err).To(MatchError(dynamo.ErrShapeMismatch))
				Expect(c).To(BeNil())
				Expect(calls).To(BeZero())
			},
			Entry("one component", dynamo.Vector{1}),
			Entry("three components", dynamo.Vector{1, 1, 1}),
		)
	})

	DescribeTable("default initial conditions",
		func(f dynamo.Family, want dynamo.State) {
			s0, err := sim.InitialState(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(s0).To(Equal(want))
		},
		Entry("first order", dynamo.FirstOrder, dynamo.Scalar(0)),
		Entry("second order", dynamo.SecondOrder, dynamo.Pair{X: 1, V: 0}),
		Entry("system", dynamo.System, dynamo.Vector{1, 1}),
	)

	Describe("errors", func() {
		It("rejects an unknown family before integrating", func() {
			calls := 0
			f := dynamo.DerivativeFunc(func(_ float64, s dynamo.State) (dynamo.State, error) {
				calls++
				return s, nil
			})
			c, err := driver.Run(f, dynamo.Family("chaotic"), grid)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
			Expect(c).To(BeNil())
			Expect(calls).To(BeZero())
		})

		DescribeTable("rejects bad grids",
			func(g dynamo.Grid) {
				_, err := driver.Run(physics.NewDrag(), dynamo.FirstOrder, g)
				Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
			},
			Entry("step equal to span", dynamo.Grid{T0: 0, Tf: 1, H: 1}),
			Entry("step beyond span", dynamo.Grid{T0: 0, Tf: 1, H: 2}),
			Entry("zero step", dynamo.Grid{T0: 0, Tf: 1, H: 0}),
			Entry("reversed span", dynamo.Grid{T0: 1, Tf: 0, H: 0.1}),
		)

		It("reports a shape mismatch between family and provider", func() {
			_, err := driver.Run(physics.NewDrag(), dynamo.SecondOrder, grid)
			Expect(err).To(MatchError(dynamo.ErrShapeMismatch))
		})

		It("propagates derivative failures without a trajectory", func() {
			overflow := errors.New("overflow")
			f := dynamo.DerivativeFunc(func(t float64, s dynamo.State) (dynamo.State, error) {
				if t > 5 {
					return nil, overflow
				}
				return dynamo.Scalar(1), nil
			})
			c, err := driver.Run(f, dynamo.FirstOrder, grid)
			Expect(c).To(BeNil())
			Expect(err).To(MatchError(dynamo.ErrDerivativeEvaluation))
			Expect(errors.Is(err, overflow)).To(BeTrue())
		})

		It("fails on non-finite derivatives", func() {
			f := dynamo.DerivativeFunc(func(_ float64, _ dynamo.State) (dynamo.State, error) {
				return dynamo.Scalar(math.Inf(1)), nil
			})
			_, err := driver.Run(f, dynamo.FirstOrder, grid)
			Expect(err).To(MatchError(dynamo.ErrNonFinite))
		})
	})

	Describe("collaborators", func() {
		It("hands each comparison to the renderers in order", func() {
			var order []string
			first := sim.RendererFunc(func(c *sim.Comparison) error {
				order = append(order, "first")
				Expect(c.RK4.Len()).To(Equal(grid.Len()))
				return nil
			})
			second := sim.RendererFunc(func(*sim.Comparison) error {
				order = append(order, "second")
				return nil
			})

			d := sim.New(sim.WithRenderers(first, second))
			_, err := d.Run(physics.NewDrag(), dynamo.FirstOrder, grid)
			Expect(err).NotTo(HaveOccurred())
			Expect(order).To(Equal([]string{"first", "second"}))
		})

		It("wraps renderer failures but keeps the comparison", func() {
			broken := errors.New("terminal closed")
			d := sim.New(sim.WithRenderers(sim.RendererFunc(func(*sim.Comparison) error {
				return broken
			})))

			c, err := d.Run(physics.NewDrag(), dynamo.FirstOrder, grid)
			Expect(err).To(MatchError(broken))
			Expect(c).NotTo(BeNil())
		})

		It("records metrics and logs the MSE", func() {
			reg := prometheus.NewRegistry()
			collector, err := observability.NewCollector(reg)
			Expect(err).NotTo(HaveOccurred())

			var buf bytes.Buffer
			logger := logrus.New()
			logger.SetOutput(&buf)
			logger.SetFormatter(&logrus.JSONFormatter{})

			d := sim.New(sim.WithCollector(collector), sim.WithLogger(logger))
			c, err := d.Run(physics.NewDrag(), dynamo.FirstOrder, grid)
			Expect(err).NotTo(HaveOccurred())

			Expect(testutil.ToFloat64(collector.Runs.WithLabelValues("first_order", observability.OutcomeOK))).To(Equal(1.0))
			Expect(testutil.ToFloat64(collector.DerivativeEvaluations.WithLabelValues("ab4"))).To(Equal(float64(c.Evaluations["ab4"])))
			Expect(testutil.ToFloat64(collector.LastMSE)).To(Equal(c.MSE))
			Expect(buf.String()).To(ContainSubstring(`"mse"`))
			Expect(buf.String()).To(ContainSubstring("comparison finished"))
		})
	})
})
