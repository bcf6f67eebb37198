package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a mesh vertex in local space.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh is an indexed triangle list. Front faces wind counter-clockwise seen from outside.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Triangles returns the triangle count.
func (m *Mesh) Triangles() int { return len(m.Indices) / 3 }

// UVSphere tessellates a unit sphere into rings×segments quads. Longitude runs along u
// (0 at +X, increasing toward +Z) and latitude along v (0 at the north pole). The seam
// column is duplicated with u = 0 and u = 1, and pole rows emit one triangle per quad.
func UVSphere(rings, segments int) *Mesh {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}
	m := &Mesh{
		Vertices: make([]Vertex, 0, (rings+1)*(segments+1)),
		Indices:  make([]uint32, 0, rings*segments*6),
	}
	for i := 0; i <= rings; i++ {
		v := float32(i) / float32(rings)
		lat := math32.Pi/2 - v*math32.Pi
		for j := 0; j <= segments; j++ {
			u := float32(j) / float32(segments)
			lon := u * 2 * math32.Pi
			cl := math32.Cos(lat)
			p := mgl32.Vec3{cl * math32.Cos(lon), math32.Sin(lat), cl * math32.Sin(lon)}
			if j == segments {
				// Close the seam on exactly the same position as column 0.
				p = m.Vertices[len(m.Vertices)-segments].Position
			}
			m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: p, UV: mgl32.Vec2{u, v}})
		}
	}
	stride := uint32(segments + 1)
	for i := 0; i < rings; i++ {
		for j := 0; j < segments; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + stride
			c := b + 1
			d := a + 1
			if i != 0 {
				m.Indices = append(m.Indices, a, d, b)
			}
			if i != rings-1 {
				m.Indices = append(m.Indices, d, c, b)
			}
		}
	}
	return m
}

// ShipMesh builds a small faceted dart pointing along +Z with flat normals.
func ShipMesh() *Mesh {
	nose := mgl32.Vec3{0, 0, 1.2}
	left := mgl32.Vec3{-0.8, 0, -0.6}
	right := mgl32.Vec3{0.8, 0, -0.6}
	top := mgl32.Vec3{0, 0.35, -0.4}
	bottom := mgl32.Vec3{0, -0.25, -0.4}
	return faceted([][3]mgl32.Vec3{
		{nose, left, top},
		{nose, top, right},
		{nose, right, bottom},
		{nose, bottom, left},
		{left, right, top},
		{left, right, bottom},
	})
}

// faceted builds a flat-shaded mesh from a convex set of faces, orienting every face
// outward from the centroid. UVs are a planar projection onto XZ.
func faceted(faces [][3]mgl32.Vec3) *Mesh {
	var centroid mgl32.Vec3
	for _, f := range faces {
		centroid = centroid.Add(f[0]).Add(f[1]).Add(f[2])
	}
	centroid = centroid.Mul(1 / float32(len(faces)*3))

	m := &Mesh{}
	for _, f := range faces {
		a, b, c := f[0], f[1], f[2]
		n := b.Sub(a).Cross(c.Sub(a))
		mid := a.Add(b).Add(c).Mul(1.0 / 3)
		if n.Dot(mid.Sub(centroid)) < 0 {
			b, c = c, b
			n = n.Mul(-1)
		}
		n = n.Normalize()
		base := uint32(len(m.Vertices))
		for _, p := range []mgl32.Vec3{a, b, c} {
			m.Vertices = append(m.Vertices, Vertex{
				Position: p,
				Normal:   n,
				UV:       mgl32.Vec2{p.X()*0.5 + 0.5, p.Z()*0.5 + 0.5},
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2)
	}
	return m
}
