package spatial

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Quaternions are scalar-first (Real is w) and represent body→world
// rotations. Multiplication and conjugation come straight from
// gonum's quat package; everything here is what gonum does not ship.

// Identity returns the no-rotation quaternion.
func Identity() quat.Number {
	return quat.Number{Real: 1}
}

// RotationMatrix converts a unit quaternion to its 3x3 rotation matrix,
// indexed [row][col].
func RotationMatrix(q quat.Number) [3][3]float64 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return [3][3]float64{
		{1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy)},
		{2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx)},
		{2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy)},
	}
}

// FromRotationMatrix converts an orthonormal rotation matrix to a unit
// quaternion, branching on the largest diagonal term for stability.
func FromRotationMatrix(m [3][3]float64) quat.Number {
	tr := m[0][0] + m[1][1] + m[2][2]

	switch {
	case tr > 0:
		s := 2 * math.Sqrt(tr+1)
		return quat.Number{
			Real: 0.25 * s,
			Imag: (m[2][1] - m[1][2]) / s,
			Jmag: (m[0][2] - m[2][0]) / s,
			Kmag: (m[1][0] - m[0][1]) / s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2 * math.Sqrt(1+m[0][0]-m[1][1]-m[2][2])
		return quat.Number{
			Real: (m[2][1] - m[1][2]) / s,
			Imag: 0.25 * s,
			Jmag: (m[0][1] + m[1][0]) / s,
			Kmag: (m[0][2] + m[2][0]) / s,
		}
	case m[1][1] > m[2][2]:
		s := 2 * math.Sqrt(1+m[1][1]-m[0][0]-m[2][2])
		return quat.Number{
			Real: (m[0][2] - m[2][0]) / s,
			Imag: (m[0][1] + m[1][0]) / s,
			Jmag: 0.25 * s,
			Kmag: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m[2][2]-m[0][0]-m[1][1])
		return quat.Number{
			Real: (m[1][0] - m[0][1]) / s,
			Imag: (m[0][2] + m[2][0]) / s,
			Jmag: (m[1][2] + m[2][1]) / s,
			Kmag: 0.25 * s,
		}
	}
}

// Rotate applies R(q) to a world-frame vector.
func Rotate(q quat.Number, v r3.Vector) r3.Vector {
	m := RotationMatrix(q)
	return r3.Vector{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// BodyX returns the body x-axis expressed in the world frame.
func BodyX(q quat.Number) r3.Vector {
	return Rotate(q, r3.Vector{X: 1})
}

// BodyY returns the body y-axis expressed in the world frame.
func BodyY(q quat.Number) r3.Vector {
	return Rotate(q, r3.Vector{Y: 1})
}

// BodyZ returns the body z-axis (thrust axis) expressed in the world frame.
func BodyZ(q quat.Number) r3.Vector {
	return Rotate(q, r3.Vector{Z: 1})
}

// Derivative returns the kinematic quaternion derivative 0.5 * q ⊗ (0, w)
// for a body angular velocity w in rad/s.
func Derivative(q quat.Number, w r3.Vector) quat.Number {
	omega := quat.Number{Imag: w.X, Jmag: w.Y, Kmag: w.Z}
	return quat.Scale(0.5, quat.Mul(q, omega))
}

// Add returns the component-wise sum q1 + q2.
func Add(q1, q2 quat.Number) quat.Number {
	return quat.Number{
		Real: q1.Real + q2.Real,
		Imag: q1.Imag + q2.Imag,
		Jmag: q1.Jmag + q2.Jmag,
		Kmag: q1.Kmag + q2.Kmag,
	}
}

// Norm returns the Euclidean norm of q's four components.
func Norm(q quat.Number) float64 {
	return math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
}

// Normalize rescales q to unit norm. A zero quaternion is returned unchanged.
func Normalize(q quat.Number) quat.Number {
	n := Norm(q)
	if n == 0 {
		return q
	}
	return quat.Scale(1/n, q)
}
