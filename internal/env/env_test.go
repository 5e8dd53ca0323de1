package env_test

import (
	"context"
	"math/rand"

	"github.com/golang/geo/r3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/quadsim/internal/control"
	"github.com/san-kum/quadsim/internal/dynamics"
	"github.com/san-kum/quadsim/internal/env"
	"github.com/san-kum/quadsim/internal/spatial"
)

type countingObserver struct {
	snaps []env.Snapshot
}

func (c *countingObserver) OnStep(s env.Snapshot) { c.snaps = append(c.snaps, s) }

func newSession(opts ...env.Option) *env.Env {
	p := dynamics.DefaultParams()
	ref := dynamics.Reference{Pos: r3.Vector{Z: 2}}
	ctrl := control.NewGeometric(control.DefaultGains(), p.Gravity)
	return env.New(p, ctrl, ref, rand.New(rand.NewSource(7)), opts...)
}

var _ = Describe("Env", func() {
	Describe("Reset", func() {
		It("draws every state component uniformly from [-1, 1]", func() {
			e := newSession()
			for i := 0; i < 50; i++ {
				s := e.Reset()
				for j, v := range s.Vector() {
					Expect(v).To(And(
						BeNumerically(">=", -1.0),
						BeNumerically("<=", 1.0),
					), "component %d out of bounds", j)
				}
			}
		})

		It("replaces the state wholesale between episodes", func() {
			e := newSession()
			first := e.Reset()
			second := e.Reset()
			Expect(second).NotTo(Equal(first))
		})
	})

	Describe("Step", func() {
		It("returns an always-empty info record", func() {
			e := newSession()
			e.Reset()
			_, _, _, info := e.Step(dynamics.Action{Thrust: 9.8})
			Expect(info).To(BeEmpty())
		})

		It("rewards the negative distance from the origin while running", func() {
			e := newSession()
			e.Reset()
			e.SetState(dynamics.VehicleState{Pos: r3.Vector{Z: 2}, Att: spatial.Identity()})

			state, reward, terminated, _ := e.Step(dynamics.Action{Thrust: e.Params().HoverThrust()})

			Expect(terminated).To(BeFalse())
			Expect(reward).To(BeNumerically("~", -state.Pos.Norm(), 1e-12))
		})

		It("pays the terminal bonus exactly once, then zero with one advisory", func() {
			core, logs := observer.New(zapcore.WarnLevel)
			logger := zap.New(core).Sugar()

			e := newSession(env.WithLogger(logger))
			e.Reset()
			// Just inside the position bound, moving fast enough to cross it.
			e.SetState(dynamics.VehicleState{
				Pos: r3.Vector{X: 2.99},
				Att: spatial.Identity(),
				Vel: r3.Vector{X: 5},
			})
			hover := dynamics.Action{Thrust: e.Params().HoverThrust()}

			_, reward, terminated, _ := e.Step(hover)
			Expect(terminated).To(BeTrue())
			Expect(reward).To(Equal(1.0))
			Expect(logs.Len()).To(BeZero())

			_, reward, terminated, _ = e.Step(hover)
			Expect(terminated).To(BeTrue())
			Expect(reward).To(BeZero())
			Expect(logs.Len()).To(Equal(1))

			_, reward, _, _ = e.Step(hover)
			Expect(reward).To(BeZero())
			Expect(logs.Len()).To(Equal(1), "advisory should fire only once per episode")
		})

		It("notifies observers with one snapshot per step", func() {
			obs := &countingObserver{}
			e := newSession(env.WithObserver(obs))
			e.Reset()
			e.SetState(dynamics.VehicleState{Pos: r3.Vector{Z: 2}, Att: spatial.Identity()})

			a := dynamics.Action{Thrust: e.Params().HoverThrust()}
			e.Step(a)
			e.Step(a)

			Expect(obs.snaps).To(HaveLen(2))
			Expect(obs.snaps[0].Action).To(Equal(a))
			Expect(obs.snaps[1].Time).To(BeNumerically("~", 0.02, 1e-12))
		})
	})

	Describe("ComputeAction", func() {
		It("hovers exactly at the setpoint", func() {
			e := newSession()
			e.Reset()
			e.SetState(dynamics.VehicleState{Pos: r3.Vector{Z: 2}, Att: spatial.Identity()})

			a, err := e.ComputeAction()
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Thrust).To(BeNumerically("~", 9.8, 1e-9))
			Expect(a.Rates.Norm()).To(BeNumerically("<", 1e-9))
		})

		It("holds a hover for 100 steps", func() {
			e := newSession()
			e.Reset()
			e.SetState(dynamics.VehicleState{Pos: r3.Vector{Z: 2}, Att: spatial.Identity()})

			for i := 0; i < 100; i++ {
				a, err := e.ComputeAction()
				Expect(err).NotTo(HaveOccurred())
				_, _, terminated, _ := e.Step(a)
				Expect(terminated).To(BeFalse())
			}

			Expect(e.State().Pos.Sub(r3.Vector{Z: 2}).Norm()).To(BeNumerically("<", 1e-6))
		})
	})

	Describe("RunEpisode", func() {
		It("rolls out under the geometric controller and fills metrics", func() {
			e := newSession()
			e.AddMetric(&sumMetric{})

			result, err := env.RunEpisode(context.Background(), e, 500)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(BeNumerically(">", 0))
			Expect(result.States).To(HaveLen(result.StepsTaken + 1))
			Expect(result.Rewards).To(HaveLen(result.StepsTaken))
			Expect(result.Metrics).To(HaveKey("reward_sum"))
		})

		It("rejects a non-positive step budget", func() {
			_, err := env.RunEpisode(context.Background(), newSession(), 0)
			Expect(err).To(HaveOccurred())
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := env.RunEpisode(ctx, newSession(), 100)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})

type sumMetric struct{ sum float64 }

func (m *sumMetric) Name() string           { return "reward_sum" }
func (m *sumMetric) Observe(s env.Snapshot) { m.sum += s.Reward }
func (m *sumMetric) Value() float64         { return m.sum }
func (m *sumMetric) Reset()                 { m.sum = 0 }
