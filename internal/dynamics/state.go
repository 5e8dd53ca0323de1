package dynamics

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/san-kum/quadsim/internal/spatial"
)

// StateDim is the number of scalar components in a flattened VehicleState.
const StateDim = 10

// VehicleState is the rigid-body state of the vehicle: world-frame
// position and velocity plus a scalar-first body→world quaternion.
// Values are passed around, never shared; Step is the only mutator.
type VehicleState struct {
	Pos r3.Vector
	Att quat.Number
	Vel r3.Vector
}

// Vector flattens the state to [px py pz qw qx qy qz vx vy vz].
func (s VehicleState) Vector() []float64 {
	return []float64{
		s.Pos.X, s.Pos.Y, s.Pos.Z,
		s.Att.Real, s.Att.Imag, s.Att.Jmag, s.Att.Kmag,
		s.Vel.X, s.Vel.Y, s.Vel.Z,
	}
}

// StateFromVector rebuilds a VehicleState from its flattened form.
func StateFromVector(v []float64) (VehicleState, error) {
	if len(v) != StateDim {
		return VehicleState{}, fmt.Errorf("state vector must have %d components, got %d", StateDim, len(v))
	}
	return VehicleState{
		Pos: r3.Vector{X: v[0], Y: v[1], Z: v[2]},
		Att: quat.Number{Real: v[3], Imag: v[4], Jmag: v[5], Kmag: v[6]},
		Vel: r3.Vector{X: v[7], Y: v[8], Z: v[9]},
	}, nil
}

// IsValid reports whether every component is finite.
func (s VehicleState) IsValid() bool {
	for _, v := range s.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// AttNorm returns the quaternion magnitude; it drifts from 1 under the
// unnormalized Euler update (see Params.Renormalize).
func (s VehicleState) AttNorm() float64 {
	return spatial.Norm(s.Att)
}

// Action is the command consumed by one integration step: a collective
// thrust magnitude along the body z-axis and commanded body rates.
type Action struct {
	Thrust float64
	Rates  r3.Vector
}

// Vector flattens the action to [thrust wx wy wz].
func (a Action) Vector() []float64 {
	return []float64{a.Thrust, a.Rates.X, a.Rates.Y, a.Rates.Z}
}

// Reference is the static setpoint a controller steers toward. Velocity
// is zero for a position hold but kept explicit in the error terms.
type Reference struct {
	Pos r3.Vector
	Vel r3.Vector
}

// Params holds the physical constants shared by the integrator and the
// controller, fixed at construction.
type Params struct {
	Mass         float64
	Gravity      r3.Vector
	Dt           float64
	PosThreshold float64
	VelThreshold float64

	// Renormalize rescales the quaternion to unit norm after each step.
	// Off by default: the plain first-order update lets the norm drift,
	// which is the intended character of this model.
	Renormalize bool
}

// DefaultParams returns the stock quadrotor constants.
func DefaultParams() Params {
	return Params{
		Mass:         1.0,
		Gravity:      r3.Vector{Z: -9.8},
		Dt:           0.01,
		PosThreshold: 3.0,
		VelThreshold: 10.0,
	}
}

// HoverThrust returns the thrust that exactly cancels gravity for a
// level vehicle.
func (p Params) HoverThrust() float64 {
	return p.Mass * p.Gravity.Norm()
}
