package meshing

import (
	"fmt"

	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"
)

const (
	chunkSize  = voxel.ChunkSize
	chunkSizeP = voxel.ChunkSizeP
)

// axisCols guarda a solidez do grid com borda em colunas de bits, uma família por eixo:
//
//	[0][z][x] coluna ao longo de Y
//	[1][y][z] coluna ao longo de X
//	[2][y][x] coluna ao longo de Z
type axisCols [3][chunkSizeP][chunkSizeP]uint64

// add marca o voxel sólido (coordenadas do grid com borda) nas 3 famílias.
func (a *axisCols) add(b voxel.BlockData, x, y, z int) {
	if !b.BlockType.IsSolid() {
		return
	}
	a[0][z][x] |= 1 << uint(y)
	a[1][y][z] |= 1 << uint(x)
	a[2][y][x] |= 1 << uint(z)
}

// encodeSolids monta as colunas para o chunk central e a borda de 1 voxel.
func encodeSolids(n Neighborhood) *axisCols {
	cols := &axisCols{}

	chunk := n.Center()
	uniform := false
	switch len(chunk.Voxels) {
	case 1:
		uniform = true
	case voxel.ChunkVolume:
	default:
		panic(fmt.Sprintf("meshing: chunk com %d voxels (esperado 1 ou %d)", len(chunk.Voxels), voxel.ChunkVolume))
	}

	// Interior: iteração direta nos voxels do chunk (+1 por causa da borda)
	for z := 0; z < chunkSize; z++ {
		for y := 0; y < chunkSize; y++ {
			for x := 0; x < chunkSize; x++ {
				i := 0
				if !uniform {
					i = (z*chunkSize+y)*chunkSize + x
				}
				cols.add(chunk.Voxels[i], x+1, y+1, z+1)
			}
		}
	}

	// Borda: consulta aos vizinhos. Arestas e cantos são visitados mais de uma vez.
	sample := func(x, y, z int) {
		pos := util.NewIVec3(int32(x), int32(y), int32(z)).Sub(util.Ones)
		cols.add(n.GetBlock(pos), x, y, z)
	}
	for _, z := range [2]int{0, chunkSizeP - 1} {
		for y := 0; y < chunkSizeP; y++ {
			for x := 0; x < chunkSizeP; x++ {
				sample(x, y, z)
			}
		}
	}
	for z := 0; z < chunkSizeP; z++ {
		for _, y := range [2]int{0, chunkSizeP - 1} {
			for x := 0; x < chunkSizeP; x++ {
				sample(x, y, z)
			}
		}
	}
	for z := 0; z < chunkSizeP; z++ {
		for _, x := range [2]int{0, chunkSizeP - 1} {
			for y := 0; y < chunkSizeP; y++ {
				sample(x, y, z)
			}
		}
	}

	return cols
}
