// Package vector provides 3D vector operations for trajectory samples.
package vector

import "math"

// NewVec3 creates a new 3D vector with the given components
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Vec3 represents a 3D vector in the simulator's planet-centered inertial
// frame. Components carry whatever unit the source trace uses (meters).
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns the sum of two vectors
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the difference between two vectors
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale scales a vector by a scalar
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Dot returns the dot product of two vectors
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Norm returns the vector's magnitude (Euclidean norm)
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }
