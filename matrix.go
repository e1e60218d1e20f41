package canvas

// Matrix3x2 is a 2D affine transform in row-vector convention:
//
//	x' = x*M11 + y*M21 + M31
//	y' = x*M12 + y*M22 + M32
//
// M31 and M32 are the translation components.
type Matrix3x2 struct {
	M11, M12 float32
	M21, M22 float32
	M31, M32 float32
}

// Identity returns the identity transform.
func Identity() Matrix3x2 {
	return Matrix3x2{M11: 1, M22: 1}
}

// Translation returns a transform that moves points by (x, y).
func Translation(x, y float32) Matrix3x2 {
	return Matrix3x2{M11: 1, M22: 1, M31: x, M32: y}
}

// Scaling returns a transform that scales points by (sx, sy).
func Scaling(sx, sy float32) Matrix3x2 {
	return Matrix3x2{M11: sx, M22: sy}
}

// Skew returns a transform with the given shear components.
func Skew(x, y float32) Matrix3x2 {
	return Matrix3x2{M11: 1, M12: y, M21: x, M22: 1}
}

// Multiply returns m followed by other: points are transformed by m first.
func (m Matrix3x2) Multiply(other Matrix3x2) Matrix3x2 {
	return Matrix3x2{
		M11: m.M11*other.M11 + m.M12*other.M21,
		M12: m.M11*other.M12 + m.M12*other.M22,
		M21: m.M21*other.M11 + m.M22*other.M21,
		M22: m.M21*other.M12 + m.M22*other.M22,
		M31: m.M31*other.M11 + m.M32*other.M21 + other.M31,
		M32: m.M31*other.M12 + m.M32*other.M22 + other.M32,
	}
}

// TransformPoint applies m to p.
func (m Matrix3x2) TransformPoint(p Vector2) Vector2 {
	return Vector2{
		X: p.X*m.M11 + p.Y*m.M21 + m.M31,
		Y: p.X*m.M12 + p.Y*m.M22 + m.M32,
	}
}

// Invert returns the inverse of m and false if m is singular.
func (m Matrix3x2) Invert() (Matrix3x2, bool) {
	det := m.M11*m.M22 - m.M12*m.M21
	if det == 0 {
		return Identity(), false
	}
	inv := 1 / det
	return Matrix3x2{
		M11: m.M22 * inv,
		M12: -m.M12 * inv,
		M21: -m.M21 * inv,
		M22: m.M11 * inv,
		M31: (m.M21*m.M32 - m.M22*m.M31) * inv,
		M32: (m.M12*m.M31 - m.M11*m.M32) * inv,
	}, true
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix3x2) IsIdentity() bool {
	return m == Identity()
}

// IsAxisPreserving reports whether m only scales and translates,
// with no rotation or skew.
func (m Matrix3x2) IsAxisPreserving() bool {
	return m.M12 == 0 && m.M21 == 0
}

// Matrix4x4 is a row-major 4x4 matrix used for perspective bitmap drawing.
type Matrix4x4 [4][4]float32

// Identity4x4 returns the 4x4 identity matrix.
func Identity4x4() Matrix4x4 {
	return Matrix4x4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}
