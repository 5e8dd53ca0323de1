// Package spatial provides the quaternion and rotation-matrix algebra
// shared by the dynamics integrator and the geometric controller.
//
// Quaternions are gonum [quat.Number] values, scalar-first, representing
// body→world rotations. The package deliberately performs no implicit
// renormalization: callers that integrate quaternions choose whether to
// renormalize (see dynamics.Params.Renormalize).
package spatial
