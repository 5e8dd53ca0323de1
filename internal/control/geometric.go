package control

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/san-kum/quadsim/internal/dynamics"
	"github.com/san-kum/quadsim/internal/spatial"
)

// degenerateNorm is the smallest acceptable norm for the desired
// acceleration and the constructed body x-axis; anything below it would
// divide into noise.
const degenerateNorm = 1e-9

// Gains parameterizes the cascaded position→attitude→rate law. Kp and
// Kv are diagonal feedback gains; the negative sign making the feedback
// attractive is packed into the gain values themselves. Tau is the
// attitude-error time constant.
type Gains struct {
	Kp  r3.Vector
	Kv  r3.Vector
	Tau float64
}

// DefaultGains returns the stock tuning for the unit-mass quadrotor.
func DefaultGains() Gains {
	return Gains{
		Kp:  r3.Vector{X: -5, Y: -5, Z: -5},
		Kv:  r3.Vector{X: -4, Y: -4, Z: -4},
		Tau: 0.3,
	}
}

// Geometric computes thrust and body-rate commands toward a static
// reference by constructing the desired attitude directly from the
// desired acceleration vector, avoiding Euler-angle singularities.
// It carries no state between calls.
type Geometric struct {
	gains   Gains
	gravity r3.Vector
}

// NewGeometric builds a controller from gains and the world gravity
// vector the vehicle must counteract.
func NewGeometric(g Gains, gravity r3.Vector) *Geometric {
	return &Geometric{gains: g, gravity: gravity}
}

// Compute returns the action steering the vehicle toward ref. It fails
// if the desired acceleration is degenerate (zero norm, or parallel to
// the yaw reference axis), which would make the attitude construction
// undefined; it never returns NaN.
func (c *Geometric) Compute(s dynamics.VehicleState, ref dynamics.Reference) (dynamics.Action, error) {
	errPos := s.Pos.Sub(ref.Pos)
	errVel := s.Vel.Sub(ref.Vel)

	feedback := r3.Vector{
		X: c.gains.Kp.X*errPos.X + c.gains.Kv.X*errVel.X,
		Y: c.gains.Kp.Y*errPos.Y + c.gains.Kv.Y*errVel.Y,
		Z: c.gains.Kp.Z*errPos.Z + c.gains.Kv.Z*errVel.Z,
	}

	// Static setpoint: no feedforward acceleration.
	desiredAcc := feedback.Sub(c.gravity)

	desiredAtt, err := accToAttitude(desiredAcc)
	if err != nil {
		return dynamics.Action{}, err
	}

	// Shortest-arc attitude error, resolving the q/-q double cover.
	qe := quat.Mul(quat.Conj(s.Att), desiredAtt)
	rates := r3.Vector{X: qe.Imag, Y: qe.Jmag, Z: qe.Kmag}.Mul(2 / c.gains.Tau * sign(qe.Real))

	thrust := desiredAcc.Dot(spatial.BodyZ(s.Att))

	return dynamics.Action{Thrust: thrust, Rates: rates}, nil
}

// accToAttitude maps a desired acceleration to a desired attitude via
// the yaw-free cross-product frame construction: body z along the
// acceleration, body x orthogonal to the world y-axis.
// TODO: yaw tracking; the auxiliary (0,1,0) axis pins yaw implicitly.
func accToAttitude(desiredAcc r3.Vector) (quat.Number, error) {
	n := desiredAcc.Norm()
	if n < degenerateNorm {
		return quat.Number{}, fmt.Errorf("desired acceleration is degenerate (norm %g)", n)
	}
	zb := desiredAcc.Mul(1 / n)

	yc := r3.Vector{Y: 1}
	xb := yc.Cross(zb)
	if xb.Norm() < degenerateNorm {
		return quat.Number{}, fmt.Errorf("desired acceleration %v is parallel to the yaw reference axis", desiredAcc)
	}
	xb = xb.Normalize()
	yb := zb.Cross(xb)

	m := [3][3]float64{
		{xb.X, yb.X, zb.X},
		{xb.Y, yb.Y, zb.Y},
		{xb.Z, yb.Z, zb.Z},
	}
	return spatial.FromRotationMatrix(m), nil
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
