package shape

import (
	"math"

	"github.com/chazu/veneer/pkg/mesh"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// GridHex tiles pointy-top hexagons in concentric rings around the
// origin: rings=1 is the single center cell, each further ring adds
// six more cells per side, for 1 + (rings-1)*rings*3 cells total.
// Cell spacing uses cellRadius; each cell is drawn with
// cellRadius-cellMargin so a positive margin opens gaps between
// cells. Every cell is an independent hexagon loop of six
// coordinates, all sharing one six-entry UV template.
func GridHex(m *mesh.Mesh, rings int, cellRadius, cellMargin float64) {
	if rings < 1 {
		rings = 1
	}
	cellRadius = clampRadius(cellRadius)
	drawRadius := cellRadius - cellMargin
	if drawRadius < MinRadius {
		drawRadius = MinRadius
	}

	// Shared UV template: hexagon corners inscribed in the texture
	// square, one entry per corner angle.
	var cornerAngles [6]float64
	uvs := make([]v2.Vec, 6)
	for k := 0; k < 6; k++ {
		cornerAngles[k] = math.Pi/6 + float64(k)*math.Pi/3
		uvs[k] = circleUV(cornerAngles[k])
	}

	var coords []v2.Vec
	var loops []mesh.Loop

	// Axial coordinates (i, j) bounded so all three cube axes stay
	// within rings-1.
	n := rings - 1
	for i := -n; i <= n; i++ {
		jMin := -n
		if -i-n > jMin {
			jMin = -i - n
		}
		jMax := n
		if -i+n < jMax {
			jMax = -i + n
		}
		for j := jMin; j <= jMax; j++ {
			center := v2.Vec{
				X: cellRadius * math.Sqrt(3) * (float64(i) + float64(j)/2),
				Y: cellRadius * 1.5 * float64(j),
			}
			base := len(coords)
			loop := make(mesh.Loop, 6)
			for k := 0; k < 6; k++ {
				coords = append(coords, center.Add(circlePoint(drawRadius, cornerAngles[k])))
				loop[k] = mesh.VertexRef{Coord: base + k, TexCoord: k}
			}
			loops = append(loops, loop)
		}
	}

	m.Coords = coords
	m.TexCoords = uvs
	m.Loops = loops
}
