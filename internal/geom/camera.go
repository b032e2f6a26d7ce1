package geom

import "github.com/chewxy/math32"

// Camera is a perspective camera described the same way as raylib's Camera3D:
// position, look-at target, up vector and vertical field of view in degrees.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	FovY     float32
	Near     float32
	Far      float32
}

// ScreenToNDC converts pixel coordinates (origin top-left, +Y down) on a w×h viewport to
// normalized device coordinates (-1..+1, +Y up). A zero-sized viewport maps to the center.
func ScreenToNDC(x, y, w, h float32) Vec2 {
	if w <= 0 || h <= 0 {
		return Vec2{}
	}
	return Vec2{X: x/w*2 - 1, Y: -(y/h)*2 + 1}
}

// PixelToScreen stretches a pixel index p in [0, size-1] onto [0, size], so the last row or
// column of a window reaches the viewport edge (NDC ±1). size <= 1 returns p unchanged.
func PixelToScreen(p, size float32) float32 {
	if size <= 1 {
		return p
	}
	return p * size / (size - 1)
}

// basis returns the camera's forward, right and up unit vectors.
func (c Camera) basis() (forward, right, up Vec3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

func (c Camera) tanHalfFov() float32 {
	return math32.Tan(c.FovY * math32.Pi / 360)
}

// Ray returns the world-space ray from the camera through the NDC point ndc.
// aspect is viewport width / height.
func (c Camera) Ray(ndc Vec2, aspect float32) Ray {
	forward, right, up := c.basis()
	th := c.tanHalfFov()
	dir := forward.
		Add(right.Scale(ndc.X * th * aspect)).
		Add(up.Scale(ndc.Y * th))
	return NewRay(c.Position, dir)
}

// Project maps the world point p to pixel coordinates on a w×h viewport.
// Returns false when p is behind the camera.
func (c Camera) Project(p Vec3, w, h float32) (float32, float32, bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	forward, right, up := c.basis()
	rel := p.Sub(c.Position)
	z := rel.Dot(forward)
	if z <= 0 {
		return 0, 0, false
	}
	th := c.tanHalfFov()
	nx := rel.Dot(right) / (z * th * (w / h))
	ny := rel.Dot(up) / (z * th)
	return (nx + 1) / 2 * w, (1 - ny) / 2 * h, true
}
