package mesh

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Translate moves every coordinate by d. Texture coordinates are
// untouched.
func (m *Mesh) Translate(d v2.Vec) {
	for i := range m.Coords {
		m.Coords[i] = m.Coords[i].Add(d)
	}
}

// Scale multiplies every coordinate component-wise by s.
func (m *Mesh) Scale(s v2.Vec) {
	for i := range m.Coords {
		m.Coords[i] = m.Coords[i].Mul(s)
	}
}

// Transform applies fn to every coordinate in place.
func (m *Mesh) Transform(fn func(v2.Vec) v2.Vec) {
	for i := range m.Coords {
		m.Coords[i] = fn(m.Coords[i])
	}
}

// TransformUV applies fn to every texture coordinate in place.
func (m *Mesh) TransformUV(fn func(v2.Vec) v2.Vec) {
	for i := range m.TexCoords {
		m.TexCoords[i] = fn(m.TexCoords[i])
	}
}

// ReverseFaces reverses the winding of every loop.
func (m *Mesh) ReverseFaces() {
	for _, loop := range m.Loops {
		for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
			loop[i], loop[j] = loop[j], loop[i]
		}
	}
}

// FlipX mirrors all coordinates across the Y axis. Winding is
// reversed so face orientation keeps its meaning after the mirror.
func (m *Mesh) FlipX() {
	for i := range m.Coords {
		m.Coords[i].X = -m.Coords[i].X
	}
	m.ReverseFaces()
}

// FlipY mirrors all coordinates across the X axis and reverses
// winding, as FlipX does.
func (m *Mesh) FlipY() {
	for i := range m.Coords {
		m.Coords[i].Y = -m.Coords[i].Y
	}
	m.ReverseFaces()
}

// FlipU mirrors the U texture axis about 0.5. Loops are untouched:
// a texture mirror does not change face orientation.
func (m *Mesh) FlipU() {
	for i := range m.TexCoords {
		m.TexCoords[i].X = 1 - m.TexCoords[i].X
	}
}

// FlipV mirrors the V texture axis about 0.5.
func (m *Mesh) FlipV() {
	for i := range m.TexCoords {
		m.TexCoords[i].Y = 1 - m.TexCoords[i].Y
	}
}
