package env

import (
	"context"
	"fmt"

	"github.com/san-kum/quadsim/internal/dynamics"
)

// Result collects one episode's trajectory and summary values.
type Result struct {
	Times      []float64
	States     []dynamics.VehicleState
	Actions    []dynamics.Action
	Rewards    []float64
	Return     float64
	StepsTaken int
	Terminated bool
	Metrics    map[string]float64
}

// RunEpisode resets the session and rolls it out with the attached
// controller until termination or maxSteps, whichever comes first. The
// recorded trajectory starts at the post-reset state; actions and
// rewards align with the transition out of each state.
func RunEpisode(ctx context.Context, e *Env, maxSteps int) (*Result, error) {
	if maxSteps <= 0 {
		return nil, fmt.Errorf("maxSteps must be positive, got %d", maxSteps)
	}

	result := &Result{
		Times:   make([]float64, 0, maxSteps+1),
		States:  make([]dynamics.VehicleState, 0, maxSteps+1),
		Actions: make([]dynamics.Action, 0, maxSteps),
		Rewards: make([]float64, 0, maxSteps),
		Metrics: make(map[string]float64),
	}

	e.Reset()
	result.Times = append(result.Times, e.Time())
	result.States = append(result.States, e.State())

	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		a, err := e.ComputeAction()
		if err != nil {
			return result, fmt.Errorf("controller failed at step %d: %w", i, err)
		}

		state, reward, terminated, _ := e.Step(a)

		result.Times = append(result.Times, e.Time())
		result.States = append(result.States, state)
		result.Actions = append(result.Actions, a)
		result.Rewards = append(result.Rewards, reward)
		result.Return += reward
		result.StepsTaken++

		if terminated {
			result.Terminated = true
			break
		}
	}

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
