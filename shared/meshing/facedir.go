package meshing

import (
	"VoxelVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// FaceDir é uma das 6 direções de face. A ordem segue as máscaras de face:
// 2*eixo = sentido negativo, 2*eixo+1 = sentido positivo (eixos Y, X, Z).
type FaceDir uint8

const (
	FaceDown    FaceDir = iota // -Y
	FaceUp                     // +Y
	FaceLeft                   // -X
	FaceRight                  // +X
	FaceForward                // -Z
	FaceBack                   // +Z
)

// AllFaceDirs na ordem dos índices de máscara.
var AllFaceDirs = [6]FaceDir{FaceDown, FaceUp, FaceLeft, FaceRight, FaceForward, FaceBack}

var faceDirNames = [6]string{"down", "up", "left", "right", "forward", "back"}

func (d FaceDir) String() string {
	if int(d) < len(faceDirNames) {
		return faceDirNames[d]
	}
	return "invalid"
}

// NormalIndex é o índice de normal gravado no vértice (contrato com o shader).
func (d FaceDir) NormalIndex() uint32 {
	switch d {
	case FaceLeft:
		return 0
	case FaceRight:
		return 1
	case FaceDown:
		return 2
	case FaceUp:
		return 3
	case FaceForward:
		return 4
	default:
		return 5
	}
}

// FaceDirFromNormalIndex é o inverso de NormalIndex.
func FaceDirFromNormalIndex(n uint32) FaceDir {
	switch n {
	case 0:
		return FaceLeft
	case 1:
		return FaceRight
	case 2:
		return FaceDown
	case 3:
		return FaceUp
	case 4:
		return FaceForward
	default:
		return FaceBack
	}
}

// Normal retorna o vetor normal unitário da face.
func (d FaceDir) Normal() mgl32.Vec3 {
	switch d {
	case FaceDown:
		return mgl32.Vec3{0, -1, 0}
	case FaceUp:
		return mgl32.Vec3{0, 1, 0}
	case FaceLeft:
		return mgl32.Vec3{-1, 0, 0}
	case FaceRight:
		return mgl32.Vec3{1, 0, 0}
	case FaceForward:
		return mgl32.Vec3{0, 0, -1}
	default:
		return mgl32.Vec3{0, 0, 1}
	}
}

// ReverseOrder indica as direções cuja ordem base (v1,v2,v3,v4) sai
// com a frente virada para dentro e precisa ser invertida.
func (d FaceDir) ReverseOrder() bool {
	switch d {
	case FaceUp, FaceRight, FaceForward:
		return true
	default:
		return false
	}
}

// VoxelPos recupera a posição do voxel a partir dos índices da coluna
// (outer, inner) e do bit dentro dela.
func (d FaceDir) VoxelPos(outer, inner, bit int32) util.IVec3 {
	switch d {
	case FaceDown, FaceUp:
		return util.IVec3{X: inner, Y: bit, Z: outer}
	case FaceLeft, FaceRight:
		return util.IVec3{X: bit, Y: outer, Z: inner}
	default:
		return util.IVec3{X: inner, Y: outer, Z: bit}
	}
}

// AOSampleOffset converte um deslocamento 2D da face em deslocamento 3D,
// sempre uma célula à frente da face.
func (d FaceDir) AOSampleOffset(ox, oy int32) util.IVec3 {
	switch d {
	case FaceDown:
		return util.IVec3{X: ox, Y: -1, Z: oy}
	case FaceUp:
		return util.IVec3{X: ox, Y: 1, Z: oy}
	case FaceLeft:
		return util.IVec3{X: -1, Y: oy, Z: ox}
	case FaceRight:
		return util.IVec3{X: 1, Y: oy, Z: ox}
	case FaceForward:
		return util.IVec3{X: ox, Y: oy, Z: -1}
	default:
		return util.IVec3{X: ox, Y: oy, Z: 1}
	}
}

// WorldToSample leva (x, y) do plano e o nível ao longo do eixo para
// coordenadas locais do chunk.
func (d FaceDir) WorldToSample(axis, x, y int32) util.IVec3 {
	switch d {
	case FaceUp:
		return util.IVec3{X: x, Y: axis + 1, Z: y}
	case FaceDown:
		return util.IVec3{X: x, Y: axis, Z: y}
	case FaceLeft:
		return util.IVec3{X: axis, Y: y, Z: x}
	case FaceRight:
		return util.IVec3{X: axis + 1, Y: y, Z: x}
	case FaceForward:
		return util.IVec3{X: x, Y: y, Z: axis}
	default:
		return util.IVec3{X: x, Y: y, Z: axis + 1}
	}
}

// Lod é o nível de detalhe de um chunk.
type Lod uint8

const (
	L32 Lod = iota
	L16
	L8
	L4
	L2
)

// Size é a extensão do plano binário neste nível.
func (l Lod) Size() uint32 {
	return 32 >> l
}

// JumpIndex é o fator de escala das posições dos vértices (1 em resolução total).
func (l Lod) JumpIndex() int32 {
	return 1 << l
}

// ParseLod converte um tamanho (32, 16, ...) em Lod.
func ParseLod(size int) (Lod, bool) {
	for l := L32; l <= L2; l++ {
		if int(l.Size()) == size {
			return l, true
		}
	}
	return L32, false
}
