package env

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/san-kum/quadsim/internal/dynamics"
)

// Controller produces the action for the current state and reference.
// Both the geometric controller and open-loop policies satisfy it; an
// externally supplied policy can bypass it entirely by feeding actions
// straight into Step.
type Controller interface {
	Compute(dynamics.VehicleState, dynamics.Reference) (dynamics.Action, error)
}

// Env is one episodic simulation session. It owns exactly one
// VehicleState and is not safe for concurrent use: parallel rollouts
// must each hold their own Env.
type Env struct {
	params dynamics.Params
	ctrl   Controller
	ref    dynamics.Reference
	rng    *rand.Rand
	logger *zap.SugaredLogger

	state     dynamics.VehicleState
	t         float64
	steps     int
	beyondEnd int // steps taken after termination; -1 while running

	observers []Observer
	metrics   []Metric
}

// Option configures an Env at construction.
type Option func(*Env)

// WithLogger routes advisories (e.g. stepping a finished episode)
// through the given logger instead of discarding them.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Env) { e.logger = l }
}

// WithObserver attaches a per-step snapshot sink.
func WithObserver(o Observer) Option {
	return func(e *Env) { e.observers = append(e.observers, o) }
}

// New builds an episodic session. The caller supplies the random source
// used to seed episodes, keeping the core itself deterministic.
func New(p dynamics.Params, ctrl Controller, ref dynamics.Reference, rng *rand.Rand, opts ...Option) *Env {
	e := &Env{
		params:    p,
		ctrl:      ctrl,
		ref:       ref,
		rng:       rng,
		logger:    zap.NewNop().Sugar(),
		beyondEnd: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddObserver attaches a snapshot sink after construction.
func (e *Env) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// AddMetric attaches a metric accumulated over the episode.
func (e *Env) AddMetric(m Metric) { e.metrics = append(e.metrics, m) }

// State returns the current vehicle state.
func (e *Env) State() dynamics.VehicleState { return e.state }

// Reference returns the episode's static setpoint.
func (e *Env) Reference() dynamics.Reference { return e.ref }

// Params returns the physical constants of this session.
func (e *Env) Params() dynamics.Params { return e.params }

// Time returns the simulated time since the last Reset.
func (e *Env) Time() float64 { return e.t }

// Reset reseeds the state with each of the 10 components drawn
// independently and uniformly from [-1, 1], clears the episode
// bookkeeping, and returns the fresh state.
func (e *Env) Reset() dynamics.VehicleState {
	v := make([]float64, dynamics.StateDim)
	for i := range v {
		v[i] = e.rng.Float64()*2 - 1
	}
	s, _ := dynamics.StateFromVector(v)

	e.state = s
	e.t = 0
	e.steps = 0
	e.beyondEnd = -1

	for _, m := range e.metrics {
		m.Reset()
	}

	return e.state
}

// SetState replaces the current state wholesale, for callers that start
// episodes from a known configuration instead of a random seed.
func (e *Env) SetState(s dynamics.VehicleState) {
	e.state = s
}

// Step integrates one time step under the given action and returns the
// next state, the reward, the termination flag, and an auxiliary info
// record (always empty; extension point).
//
// While running, reward is the negative distance of the new position
// from the world origin. The step that first reports termination earns
// a one-time bonus of 1.0. Stepping a finished episode is unspecified
// usage: it stays well-defined (zero reward) and logs a one-time
// advisory instead of failing.
func (e *Env) Step(a dynamics.Action) (dynamics.VehicleState, float64, bool, map[string]any) {
	next, terminated := dynamics.Step(e.state, a, e.params)
	e.state = next
	e.t += e.params.Dt
	e.steps++

	var reward float64
	switch {
	case !terminated:
		reward = -next.Pos.Norm()
	case e.beyondEnd < 0:
		e.beyondEnd = 0
		reward = 1.0
	default:
		if e.beyondEnd == 0 {
			e.logger.Warnw("step called on a terminated episode; further steps are undefined, call Reset",
				"step", e.steps, "t", e.t)
		}
		e.beyondEnd++
		reward = 0.0
	}

	snap := Snapshot{
		Time:       e.t,
		State:      next,
		Action:     a,
		Reward:     reward,
		Terminated: terminated,
		Ref:        e.ref,
	}
	for _, m := range e.metrics {
		m.Observe(snap)
	}
	for _, o := range e.observers {
		o.OnStep(snap)
	}

	return next, reward, terminated, map[string]any{}
}

// ComputeAction runs the attached controller against the current state.
func (e *Env) ComputeAction() (dynamics.Action, error) {
	return e.ctrl.Compute(e.state, e.ref)
}
