package core

import "math"

// Vec2 represents a 2D vector, typically a pair of uniform samples or angles
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Normalize returns a unit vector in the same direction
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{0, 0, 0}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// CosTheta returns the cosine of the angle between v and the +Z axis.
// Assumes v is a unit vector in the local Z-up frame.
func (v Vec3) CosTheta() float64 {
	return v.Z
}

// SinTheta returns the sine of the angle between v and the +Z axis
func (v Vec3) SinTheta() float64 {
	return math.Sqrt(math.Max(0, 1-v.Z*v.Z))
}

// SphericalDirection converts spherical angles to a unit vector in the
// local Z-up frame. Theta is measured from the +Z axis (zenith), phi from
// the +X axis toward +Y.
func SphericalDirection(theta, phi float64) Vec3 {
	sinTheta, cosTheta := math.Sincos(theta)
	sinPhi, cosPhi := math.Sincos(phi)
	return Vec3{X: sinTheta * cosPhi, Y: sinTheta * sinPhi, Z: cosTheta}
}

// SphericalAngles converts a unit direction to spherical angles (theta, phi)
// in the local Z-up frame, with phi wrapped to [0, 2pi)
func SphericalAngles(v Vec3) (theta, phi float64) {
	theta = math.Acos(math.Max(-1, math.Min(1, v.Z)))
	phi = math.Atan2(v.Y, v.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return theta, phi
}

// UnitAngle returns the angle between two unit vectors. This is numerically
// stable near 0 and pi, unlike acos of the dot product.
func UnitAngle(a, b Vec3) float64 {
	if a.Dot(b) >= 0 {
		return 2 * math.Asin(0.5*b.Subtract(a).Length())
	}
	return math.Pi - 2*math.Asin(0.5*b.Add(a).Length())
}

// OrthonormalBasis builds two unit vectors forming a right-handed frame
// with the given unit normal as the Z axis
func OrthonormalBasis(n Vec3) (tangent, bitangent Vec3) {
	var up Vec3
	if math.Abs(n.X) > 0.1 {
		up = NewVec3(0, 1, 0)
	} else {
		up = NewVec3(1, 0, 0)
	}
	tangent = up.Cross(n).Normalize()
	bitangent = n.Cross(tangent)
	return tangent, bitangent
}

// ToWorld transforms a vector from the frame with normal n to the frame
// n is expressed in
func ToWorld(n, v Vec3) Vec3 {
	tangent, bitangent := OrthonormalBasis(n)
	return tangent.Multiply(v.X).Add(bitangent.Multiply(v.Y)).Add(n.Multiply(v.Z))
}

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
