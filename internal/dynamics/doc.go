// Package dynamics implements the discrete-time rigid-body model of a
// quadrotor: a 10-dimensional state (position, scalar-first quaternion,
// velocity) advanced by [Step] under a thrust/body-rate [Action].
//
// The model is deliberately minimal: no motor dynamics, no drag, no
// multi-body coupling. Thrust acts along the body z-axis, gravity is a
// constant world-frame vector, and the commanded body rates are tracked
// perfectly within a step.
//
// # Quaternion drift
//
// The attitude update is a plain first-order Euler step of the
// kinematic quaternion derivative and does not renormalize, so the
// quaternion norm drifts over long rollouts. Set
// [Params].Renormalize to trade that fidelity for numerical stability.
package dynamics
