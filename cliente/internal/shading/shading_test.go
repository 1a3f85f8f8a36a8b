package shading

import (
	"image/color"
	"testing"

	"VoxelVision/cliente/internal/assets"
	"VoxelVision/shared/meshing"
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

func whitePalette(disableAO bool) *Palette {
	conf := assets.PaletteConfig{Colors: []assets.ColorEntry{{Tokens: []string{"*"}, Color: [3]uint8{200, 200, 200}}}}
	return NewPalette(assets.NewManagerFrom(conf), disableAO)
}

func TestAOFactor(t *testing.T) {
	last := float32(2)
	for ao := uint32(0); ao <= 3; ao++ {
		f := AOFactor(ao)
		if f >= last {
			t.Errorf("AOFactor(%d) = %v, deveria escurecer com mais oclusão", ao, f)
		}
		last = f
	}
	if AOFactor(7) != AOFactor(3) {
		t.Errorf("AOFactor fora do intervalo deveria saturar em 3")
	}
}

func TestShade(t *testing.T) {
	p := whitePalette(false)
	tests := []struct {
		face meshing.FaceDir
		ao   uint32
		want color.RGBA
	}{
		{meshing.FaceUp, 0, color.RGBA{200, 200, 200, 255}},
		{meshing.FaceUp, 3, color.RGBA{90, 90, 90, 255}},
		{meshing.FaceDown, 0, color.RGBA{110, 110, 110, 255}},
	}
	for _, tt := range tests {
		if got := p.Shade(voxel.BlockStone, tt.face, tt.ao); got != tt.want {
			t.Errorf("Shade(%v, ao=%d) = %v, want %v", tt.face, tt.ao, got, tt.want)
		}
	}

	noAO := whitePalette(true)
	if a, b := noAO.Shade(voxel.BlockStone, meshing.FaceUp, 0), noAO.Shade(voxel.BlockStone, meshing.FaceUp, 3); a != b {
		t.Errorf("com AO desligado: %v != %v", a, b)
	}
}

func cubeVertices() []uint32 {
	var out []uint32
	q := meshing.GreedyQuad{X: 0, Y: 0, W: 1, H: 1}
	for _, face := range meshing.AllFaceDirs {
		out = q.AppendVertices(out, face, 0, meshing.L32, 0, voxel.BlockSand)
	}
	return out
}

func TestBuildGeometry(t *testing.T) {
	packed := cubeVertices()
	geos := BuildGeometry(packed, whitePalette(false))
	if len(geos) != 1 {
		t.Fatalf("BuildGeometry = %d lotes, want 1", len(geos))
	}
	g := geos[0]
	if g.VertexCount() != 24 || len(g.Normals) != 72 || len(g.Colors) != 96 || len(g.Indices) != 36 {
		t.Fatalf("tamanhos: %d vértices, %d normais, %d cores, %d índices",
			g.VertexCount(), len(g.Normals)/3, len(g.Colors)/4, len(g.Indices))
	}

	for i, p := range packed {
		v := meshing.DecodeVertex(p)
		n := v.Face.Normal()
		got := mgl32.Vec3{g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2]}
		if !got.ApproxEqual(n) {
			t.Errorf("vértice %d: normal %v, want %v", i, got, n)
		}
		for _, c := range g.Vertices[i*3 : i*3+3] {
			if c != 0 && c != 1 {
				t.Errorf("vértice %d fora do cubo unitário: %v", i, g.Vertices[i*3:i*3+3])
				break
			}
		}
	}
}

func TestBuildGeometrySplitsLargeMeshes(t *testing.T) {
	if BuildGeometry(nil, whitePalette(false)) != nil {
		t.Errorf("malha vazia deveria gerar nil")
	}

	quads := MaxQuadsPerMesh + 10
	packed := make([]uint32, quads*4)
	geos := BuildGeometry(packed, whitePalette(false))
	if len(geos) != 2 {
		t.Fatalf("BuildGeometry = %d lotes, want 2", len(geos))
	}
	if geos[0].VertexCount() != 65536 || geos[1].VertexCount() != 40 {
		t.Errorf("lotes com %d e %d vértices", geos[0].VertexCount(), geos[1].VertexCount())
	}
	last := geos[0].Indices[len(geos[0].Indices)-1]
	if last != 65535 {
		t.Errorf("último índice do primeiro lote = %d, want 65535", last)
	}
	if geos[1].Indices[0] != 0 {
		t.Errorf("segundo lote deveria recomeçar os índices em 0")
	}
}

func TestPickBlock(t *testing.T) {
	tests := []struct {
		name   string
		point  mgl32.Vec3
		normal mgl32.Vec3
		place  bool
		want   util.IVec3
	}{
		{"topo, remover", mgl32.Vec3{3.2, 5, 7.9}, mgl32.Vec3{0, 1, 0}, false, util.NewIVec3(3, 4, 7)},
		{"topo, colocar", mgl32.Vec3{3.2, 5, 7.9}, mgl32.Vec3{0, 1, 0}, true, util.NewIVec3(3, 5, 7)},
		{"lado -X negativo", mgl32.Vec3{-4, 0.5, -0.5}, mgl32.Vec3{-1, 0, 0}, false, util.NewIVec3(-4, 0, -1)},
		{"lado -X, colocar", mgl32.Vec3{-4, 0.5, -0.5}, mgl32.Vec3{-1, 0, 0}, true, util.NewIVec3(-5, 0, -1)},
	}
	for _, tt := range tests {
		if got := PickBlock(tt.point, tt.normal, tt.place); got != tt.want {
			t.Errorf("%s: PickBlock = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestChunkOrigin(t *testing.T) {
	got := ChunkOrigin(util.NewIVec3(-1, 2, 0), voxel.ChunkSize)
	if want := (mgl32.Vec3{-32, 64, 0}); got != want {
		t.Errorf("ChunkOrigin = %v, want %v", got, want)
	}
}
