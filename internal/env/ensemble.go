package env

import (
	"context"
	"sync"
)

// Ensemble runs independent episodes concurrently. Each rollout gets
// its own Env from the factory, so no vehicle state ever crosses a
// goroutine boundary; seeds are assigned sequentially from seedStart.
type Ensemble struct {
	factory   func(seed int64) *Env
	runs      int
	seedStart int64
	maxSteps  int
}

// NewEnsemble builds a parallel rollout of n episodes.
func NewEnsemble(factory func(seed int64) *Env, runs int, seedStart int64, maxSteps int) *Ensemble {
	return &Ensemble{factory: factory, runs: runs, seedStart: seedStart, maxSteps: maxSteps}
}

// Run executes every episode and returns the results in seed order.
// The first episode error, if any, is returned after all rollouts
// finish.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.runs)
	errs := make([]error, e.runs)

	var wg sync.WaitGroup
	for i := 0; i < e.runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			session := e.factory(e.seedStart + int64(idx))
			results[idx], errs[idx] = RunEpisode(ctx, session, e.maxSteps)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
