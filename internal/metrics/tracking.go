package metrics

import "github.com/san-kum/quadsim/internal/env"

// TrackingError averages the distance between the vehicle and the
// episode setpoint. Distinct from the reward, which is origin-referenced.
type TrackingError struct {
	sum     float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{}
}

func (t *TrackingError) Name() string {
	return "tracking_error"
}

func (t *TrackingError) Observe(s env.Snapshot) {
	t.sum += s.State.Pos.Sub(s.Ref.Pos).Norm()
	t.samples++
}

func (t *TrackingError) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return t.sum / float64(t.samples)
}

func (t *TrackingError) Reset() {
	t.sum = 0
	t.samples = 0
}
