package geom

import "github.com/chewxy/math32"

// Ray is a half-line starting at Origin. Direction is kept normalized so t values are distances.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay returns a ray from origin along dir (normalized).
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectSphere returns the distance to the nearest intersection of r with the sphere, or
// false when the ray misses it or the sphere lies entirely behind the origin.
// A ray starting inside the sphere hits the far side.
func IntersectSphere(r Ray, center Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Quad is a bounded plane: a rectangle centered at Center spanning ±HalfU along U and ±HalfV
// along V. U and V must be unit length and orthogonal; the normal is U × V.
type Quad struct {
	Center Vec3
	U, V   Vec3
	HalfU  float32
	HalfV  float32
}

// HorizontalQuad returns a quad lying in the XZ plane at height y (normal +Y), sized w×d.
func HorizontalQuad(center Vec3, w, d float32) Quad {
	return Quad{
		Center: center,
		U:      V3(0, 0, 1),
		V:      V3(1, 0, 0),
		HalfU:  d / 2,
		HalfV:  w / 2,
	}
}

// Normal returns the quad's face normal.
func (q Quad) Normal() Vec3 {
	return q.U.Cross(q.V)
}

// IntersectQuad returns the point where r crosses q, or false when the ray is parallel to it,
// points away from it, or crosses the plane outside the rectangle. Both faces are hit.
func IntersectQuad(r Ray, q Quad) (Vec3, bool) {
	n := q.Normal()
	denom := n.Dot(r.Direction)
	if math32.Abs(denom) < 1e-6 {
		return Vec3{}, false
	}
	t := q.Center.Sub(r.Origin).Dot(n) / denom
	if t < 0 {
		return Vec3{}, false
	}
	p := r.At(t)
	local := p.Sub(q.Center)
	if math32.Abs(local.Dot(q.U)) > q.HalfU || math32.Abs(local.Dot(q.V)) > q.HalfV {
		return Vec3{}, false
	}
	return p, true
}
