package metrics

import (
	"math"

	"github.com/san-kum/quadsim/internal/env"
)

// ControlEffort averages the magnitude of the commanded action:
// |thrust| plus the L1 norm of the body rates.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string {
	return "control_effort"
}

func (c *ControlEffort) Observe(s env.Snapshot) {
	for _, v := range s.Action.Vector() {
		c.sum += math.Abs(v)
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
