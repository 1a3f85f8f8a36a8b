package meshing

import (
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// Layout do vértice empacotado (uint32). Precisa bater bit a bit com o shader.
//
//	bits  0-5   posição x (0..63)
//	bits  6-11  posição y
//	bits 12-17  posição z
//	bits 18-20  intensidade de AO (0..3)
//	bits 21-24  índice da normal (0..5)
//	bits 25-31  tipo de bloco (0..127)
const (
	PosBits     = 6
	PosMask     = 1<<PosBits - 1
	AOShift     = 18
	AOMask      = 0x7
	NormalShift = 21
	NormalMask  = 0xF
	BlockShift  = 25
	BlockMask   = 0x7F
)

// MakeVertex empacota um vértice.
func MakeVertex(pos util.IVec3, ao, normal uint32, block voxel.BlockType) uint32 {
	return uint32(pos.X)&PosMask |
		(uint32(pos.Y)&PosMask)<<PosBits |
		(uint32(pos.Z)&PosMask)<<(2*PosBits) |
		(ao&AOMask)<<AOShift |
		(normal&NormalMask)<<NormalShift |
		(uint32(block)&BlockMask)<<BlockShift
}

// Vertex é um vértice desempacotado, do jeito que o renderizador consome.
type Vertex struct {
	Local    util.IVec3 // posição local no chunk (já escalada pelo LOD)
	Position mgl32.Vec3
	AO       uint32
	Face     FaceDir
	Block    voxel.BlockType
}

// DecodeVertex desempacota um vértice gerado por MakeVertex.
func DecodeVertex(v uint32) Vertex {
	local := util.IVec3{
		X: int32(v & PosMask),
		Y: int32((v >> PosBits) & PosMask),
		Z: int32((v >> (2 * PosBits)) & PosMask),
	}
	return Vertex{
		Local:    local,
		Position: mgl32.Vec3{float32(local.X), float32(local.Y), float32(local.Z)},
		AO:       (v >> AOShift) & AOMask,
		Face:     FaceDirFromNormalIndex((v >> NormalShift) & NormalMask),
		Block:    voxel.BlockType((v >> BlockShift) & BlockMask),
	}
}

func aoBit(ao uint32, i uint) uint32 {
	return (ao >> i) & 1
}

// CornerAO calcula a intensidade de AO dos 4 cantos a partir do padrão de 9 bits.
// Cada canto soma as 3 células que o tocam (ver adjacentAODirs).
func CornerAO(ao uint32) (v1, v2, v3, v4 uint32) {
	v1 = aoBit(ao, 0) + aoBit(ao, 1) + aoBit(ao, 3)
	v2 = aoBit(ao, 3) + aoBit(ao, 6) + aoBit(ao, 7)
	v3 = aoBit(ao, 5) + aoBit(ao, 8) + aoBit(ao, 7)
	v4 = aoBit(ao, 1) + aoBit(ao, 2) + aoBit(ao, 5)
	return
}

// AppendVertices gera os 4 vértices do quad e os adiciona em dst.
// axis é o nível do plano ao longo do eixo da face.
func (q GreedyQuad) AppendVertices(dst []uint32, dir FaceDir, axis uint32, lod Lod, ao uint32, block voxel.BlockType) []uint32 {
	a := int32(axis)
	jump := lod.JumpIndex()
	normal := dir.NormalIndex()
	x, y := int32(q.X), int32(q.Y)
	w, h := int32(q.W), int32(q.H)

	v1ao, v2ao, v3ao, v4ao := CornerAO(ao)

	v1 := MakeVertex(dir.WorldToSample(a, x, y).Scale(jump), v1ao, normal, block)
	v2 := MakeVertex(dir.WorldToSample(a, x+w, y).Scale(jump), v2ao, normal, block)
	v3 := MakeVertex(dir.WorldToSample(a, x+w, y+h).Scale(jump), v3ao, normal, block)
	v4 := MakeVertex(dir.WorldToSample(a, x, y+h).Scale(jump), v4ao, normal, block)

	quad := [4]uint32{v1, v2, v3, v4}

	// Mantém o primeiro e inverte o resto: v1, v4, v3, v2
	if dir.ReverseOrder() {
		quad[1], quad[3] = quad[3], quad[1]
	}

	// Cantos opostos com AO discordante: gira para a diagonal da triangulação
	// acompanhar o gradiente de sombra.
	if (v1ao > 0) != (v3ao > 0) {
		quad = [4]uint32{quad[1], quad[2], quad[3], quad[0]}
	}

	return append(dst, quad[:]...)
}
