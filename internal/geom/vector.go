// Package geom holds the float32 geometry used for picking: vectors, rays, a perspective
// camera and the ray intersection tests run against markers and the ground.
package geom

import "github.com/chewxy/math32"

// Vec2 is a 2D point, used for normalized device coordinates (-1..+1 on both axes, +Y up).
type Vec2 struct {
	X, Y float32
}

// Vec3 is a point or direction in world space (Y up).
type Vec3 struct {
	X, Y, Z float32
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

// Scale returns a multiplied by s.
func (a Vec3) Scale(s float32) Vec3 {
	return Vec3{X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

// Dot returns the dot product of a and b.
func (a Vec3) Dot(b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{X: a.Y*b.Z - a.Z*b.Y, Y: a.Z*b.X - a.X*b.Z, Z: a.X*b.Y - a.Y*b.X}
}

// Length returns the euclidean length of a.
func (a Vec3) Length() float32 {
	return math32.Sqrt(a.Dot(a))
}

// Normalize returns a scaled to unit length. The zero vector is returned unchanged.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// Distance returns the distance between points a and b.
func (a Vec3) Distance(b Vec3) float32 {
	return a.Sub(b).Length()
}

// Array returns the vector as [x, y, z], the layout used by layouts and shader uniforms.
func (a Vec3) Array() [3]float32 {
	return [3]float32{a.X, a.Y, a.Z}
}

// FromArray converts [x, y, z] to a Vec3.
func FromArray(v [3]float32) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}
