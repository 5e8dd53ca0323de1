package env

import "github.com/san-kum/quadsim/internal/dynamics"

// Snapshot is what observers and metrics see after every step. Purely
// observational: nothing flows back into the session.
type Snapshot struct {
	Time       float64
	State      dynamics.VehicleState
	Action     dynamics.Action
	Reward     float64
	Terminated bool
	Ref        dynamics.Reference
}

// Observer receives one snapshot per step. Implementations must not
// retain the Env; the core runs headless when none are attached.
type Observer interface {
	OnStep(Snapshot)
}

// Metric accumulates a scalar over an episode. Reset is called on every
// env Reset.
type Metric interface {
	Name() string
	Observe(Snapshot)
	Value() float64
	Reset()
}
