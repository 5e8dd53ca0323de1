// Package metrics provides per-episode scalar metrics implementing the
// env.Metric interface: episode return, setpoint tracking error, and
// control effort.
package metrics

import "github.com/san-kum/quadsim/internal/env"

// EpisodeReturn accumulates the undiscounted sum of rewards.
type EpisodeReturn struct {
	sum float64
}

func NewEpisodeReturn() *EpisodeReturn {
	return &EpisodeReturn{}
}

func (r *EpisodeReturn) Name() string {
	return "episode_return"
}

func (r *EpisodeReturn) Observe(s env.Snapshot) {
	r.sum += s.Reward
}

func (r *EpisodeReturn) Value() float64 {
	return r.sum
}

func (r *EpisodeReturn) Reset() {
	r.sum = 0
}
