// Package shading transforma vértices empacotados em arrays de malha coloridos
// e resolve qual bloco um raio atingiu. Não depende do Raylib.
package shading

import (
	"VoxelVision/shared/meshing"
)

// MaxQuadsPerMesh limita cada rl.Mesh a 65536 vértices (índices de 16 bits).
const MaxQuadsPerMesh = 65536 / 4

// Geometry são os arrays de uma malha já no formato que o Raylib consome.
// Posições são locais ao chunk; o modelo é desenhado na origem do chunk.
type Geometry struct {
	Vertices []float32 // xyz
	Normals  []float32 // xyz
	Colors   []uint8   // rgba
	Indices  []uint16
}

// VertexCount retorna o número de vértices.
func (g *Geometry) VertexCount() int {
	return len(g.Vertices) / 3
}

// BuildGeometry desempacota os vértices de um chunk em um ou mais lotes de Geometry.
func BuildGeometry(packed []uint32, palette *Palette) []Geometry {
	quads := len(packed) / 4
	if quads == 0 {
		return nil
	}

	var out []Geometry
	for start := 0; start < quads; start += MaxQuadsPerMesh {
		end := start + MaxQuadsPerMesh
		if end > quads {
			end = quads
		}
		out = append(out, buildBatch(packed[start*4:end*4], palette))
	}
	return out
}

func buildBatch(packed []uint32, palette *Palette) Geometry {
	n := len(packed)
	g := Geometry{
		Vertices: make([]float32, 0, n*3),
		Normals:  make([]float32, 0, n*3),
		Colors:   make([]uint8, 0, n*4),
		Indices:  make([]uint16, 0, n/4*6),
	}

	for _, p := range packed {
		v := meshing.DecodeVertex(p)
		normal := v.Face.Normal()
		c := palette.Shade(v.Block, v.Face, v.AO)

		g.Vertices = append(g.Vertices, v.Position.X(), v.Position.Y(), v.Position.Z())
		g.Normals = append(g.Normals, normal.X(), normal.Y(), normal.Z())
		g.Colors = append(g.Colors, c.R, c.G, c.B, c.A)
	}
	for _, i := range meshing.GenerateIndices(n) {
		g.Indices = append(g.Indices, uint16(i))
	}
	return g
}
