package shading

import (
	"math"

	"VoxelVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// PickBlock converte o ponto de colisão de um raio com uma face no voxel atingido
// (place=false) ou na célula vazia encostada na face (place=true).
func PickBlock(point, normal mgl32.Vec3, place bool) util.IVec3 {
	offset := normal.Mul(-0.5)
	if place {
		offset = normal.Mul(0.5)
	}
	p := point.Add(offset)
	return util.NewIVec3(
		int32(math.Floor(float64(p.X()))),
		int32(math.Floor(float64(p.Y()))),
		int32(math.Floor(float64(p.Z()))),
	)
}

// ChunkOrigin é a posição em mundo do canto mínimo de um chunk.
func ChunkOrigin(coord util.IVec3, size int32) mgl32.Vec3 {
	o := coord.Scale(size)
	return mgl32.Vec3{float32(o.X), float32(o.Y), float32(o.Z)}
}
