package dynamics

import (
	"gonum.org/v1/gonum/num/quat"

	"github.com/san-kum/quadsim/internal/spatial"
)

// Step advances the state by one fixed time step under the given action.
// Translation uses constant-acceleration kinematics over the step;
// attitude uses a first-order Euler update of the kinematic quaternion
// derivative. The returned flag reports termination: the position or
// velocity norm leaving its threshold.
//
// Step is a pure function. Identical inputs produce bit-identical
// outputs, and the action is taken as-is: no clipping, no bounds.
func Step(s VehicleState, a Action, p Params) (VehicleState, bool) {
	// World-frame acceleration from body z-axis thrust.
	acc := spatial.BodyZ(s.Att).Mul(a.Thrust / p.Mass).Add(p.Gravity)

	pos := s.Pos.Add(s.Vel.Mul(p.Dt)).Add(acc.Mul(0.5 * p.Dt * p.Dt))
	vel := s.Vel.Add(acc.Mul(p.Dt))

	qdot := spatial.Derivative(s.Att, a.Rates)
	att := spatial.Add(s.Att, quat.Scale(p.Dt, qdot))
	if p.Renormalize {
		att = spatial.Normalize(att)
	}

	next := VehicleState{Pos: pos, Att: att, Vel: vel}
	terminated := pos.Norm() > p.PosThreshold || vel.Norm() > p.VelThreshold

	return next, terminated
}
