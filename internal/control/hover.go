package control

import (
	"github.com/san-kum/quadsim/internal/dynamics"
)

// Hover emits the constant action that cancels gravity for a level
// vehicle: open-loop, no feedback. Useful as a baseline policy and for
// exercising the integrator without the geometric loop.
type Hover struct {
	thrust float64
}

// NewHover builds the open-loop hover policy for the given constants.
func NewHover(p dynamics.Params) *Hover {
	return &Hover{thrust: p.HoverThrust()}
}

// Compute returns gravity-canceling thrust and zero body rates,
// regardless of state or reference.
func (h *Hover) Compute(dynamics.VehicleState, dynamics.Reference) (dynamics.Action, error) {
	return dynamics.Action{Thrust: h.thrust}, nil
}
