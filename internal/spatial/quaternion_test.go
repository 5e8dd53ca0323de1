package spatial

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

const eps = 1e-12

func quatEq(a, b quat.Number, tol float64) bool {
	return math.Abs(a.Real-b.Real) < tol &&
		math.Abs(a.Imag-b.Imag) < tol &&
		math.Abs(a.Jmag-b.Jmag) < tol &&
		math.Abs(a.Kmag-b.Kmag) < tol
}

func vecEq(a, b r3.Vector, tol float64) bool {
	return a.Sub(b).Norm() < tol
}

func axisAngle(axis r3.Vector, theta float64) quat.Number {
	u := axis.Normalize()
	s := math.Sin(theta / 2)
	return quat.Number{Real: math.Cos(theta / 2), Imag: s * u.X, Jmag: s * u.Y, Kmag: s * u.Z}
}

func TestRotationMatrixIdentity(t *testing.T) {
	m := RotationMatrix(Identity())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(m[i][j]-want) > eps {
				t.Errorf("m[%d][%d] = %f, want %f", i, j, m[i][j], want)
			}
		}
	}
}

func TestRotateAboutZ(t *testing.T) {
	q := axisAngle(r3.Vector{Z: 1}, math.Pi/2)
	got := Rotate(q, r3.Vector{X: 1})
	if !vecEq(got, r3.Vector{Y: 1}, 1e-9) {
		t.Errorf("rotating ex by 90deg about z: got %v, want ey", got)
	}
}

func TestBodyAxesOrthonormal(t *testing.T) {
	q := axisAngle(r3.Vector{X: 1, Y: 2, Z: -1}, 1.3)

	x, y, z := BodyX(q), BodyY(q), BodyZ(q)

	if math.Abs(x.Norm()-1) > 1e-9 || math.Abs(y.Norm()-1) > 1e-9 || math.Abs(z.Norm()-1) > 1e-9 {
		t.Error("body axes should be unit length")
	}
	if math.Abs(x.Dot(y)) > 1e-9 || math.Abs(y.Dot(z)) > 1e-9 || math.Abs(z.Dot(x)) > 1e-9 {
		t.Error("body axes should be mutually orthogonal")
	}
	if !vecEq(x.Cross(y), z, 1e-9) {
		t.Error("body frame should be right-handed")
	}
}

func TestFromRotationMatrixRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		q    quat.Number
	}{
		{"identity", Identity()},
		{"small z", axisAngle(r3.Vector{Z: 1}, 0.1)},
		{"large x", axisAngle(r3.Vector{X: 1}, 2.9)},
		{"large y", axisAngle(r3.Vector{Y: 1}, 2.9)},
		{"large z", axisAngle(r3.Vector{Z: 1}, 2.9)},
		{"half turn x", axisAngle(r3.Vector{X: 1}, math.Pi)},
		{"half turn y", axisAngle(r3.Vector{Y: 1}, math.Pi)},
		{"skew", axisAngle(r3.Vector{X: 1, Y: -1, Z: 0.5}, 1.7)},
	}

	for _, tt := range tests {
		got := FromRotationMatrix(RotationMatrix(tt.q))
		neg := quat.Scale(-1, got)
		if !quatEq(got, tt.q, 1e-9) && !quatEq(neg, tt.q, 1e-9) {
			t.Errorf("%s: round trip gave %v, want %v (up to sign)", tt.name, got, tt.q)
		}
	}
}

func TestDerivative(t *testing.T) {
	// At identity attitude, q_dot = 0.5 * (0, w).
	w := r3.Vector{X: 0.4, Y: -1.2, Z: 2.0}
	got := Derivative(Identity(), w)
	want := quat.Number{Imag: 0.2, Jmag: -0.6, Kmag: 1.0}
	if !quatEq(got, want, eps) {
		t.Errorf("derivative at identity: got %v, want %v", got, want)
	}

	if got := Derivative(Identity(), r3.Vector{}); !quatEq(got, quat.Number{}, eps) {
		t.Errorf("derivative with zero rates should vanish, got %v", got)
	}
}

func TestNormalize(t *testing.T) {
	q := quat.Number{Real: 2, Imag: 0, Jmag: 0, Kmag: 0}
	if got := Normalize(q); !quatEq(got, Identity(), eps) {
		t.Errorf("normalize(2,0,0,0) = %v, want identity", got)
	}

	zero := quat.Number{}
	if got := Normalize(zero); !quatEq(got, zero, eps) {
		t.Errorf("normalize of zero quaternion should be a no-op, got %v", got)
	}

	if n := Norm(axisAngle(r3.Vector{X: 3, Y: 4, Z: 0}, 0.7)); math.Abs(n-1) > 1e-12 {
		t.Errorf("axis-angle quaternion should be unit norm, got %f", n)
	}
}
