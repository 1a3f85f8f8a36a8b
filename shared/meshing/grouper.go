package meshing

import (
	"math/bits"
	"sort"

	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"
)

// adjacentAODirs são os 9 deslocamentos 2D em volta de uma face; o índice é o bit
// no padrão de AO:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// O centro (bit 4) é a célula logo à frente da face, que é sempre ar quando a
// face é visível. Ele não é amostrado e o bit fica reservado.
var adjacentAODirs = [9][2]int32{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 0}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

const (
	aoCenterBit = 4
	aoBits      = 9
	aoMask      = 1<<aoBits - 1
)

// GroupKey combina padrão de AO e tipo de bloco. Faces com a mesma chave podem ser fundidas.
func GroupKey(ao uint32, block voxel.BlockType) uint32 {
	return ao | uint32(block)<<aoBits
}

// SplitGroupKey é o inverso de GroupKey.
func SplitGroupKey(key uint32) (ao uint32, block voxel.BlockType) {
	return key & aoMask, voxel.BlockType(key >> aoBits)
}

// sampleAO amostra as 8 células em volta da face do voxel em pos.
func sampleAO(n Neighborhood, dir FaceDir, pos util.IVec3) uint32 {
	var ao uint32
	for i, off := range adjacentAODirs {
		if i == aoCenterBit {
			continue
		}
		if n.GetBlock(pos.Add(dir.AOSampleOffset(off[0], off[1]))).BlockType.IsSolid() {
			ao |= 1 << uint(i)
		}
	}
	return ao
}

// binaryPlane é um bitmap 32x32: bit c da linha r indica uma face em (r, c).
type binaryPlane = [chunkSize]uint32

// faceGroups agrupa as faces por direção, chave (AO + bloco) e nível ao longo do eixo.
type faceGroups struct {
	planes [6]map[uint32]map[uint32]*binaryPlane
}

func newFaceGroups() *faceGroups {
	g := &faceGroups{}
	for i := range g.planes {
		g.planes[i] = make(map[uint32]map[uint32]*binaryPlane)
	}
	return g
}

func (g *faceGroups) set(dir FaceDir, key, level uint32, row, col int) {
	levels, ok := g.planes[dir][key]
	if !ok {
		levels = make(map[uint32]*binaryPlane)
		g.planes[dir][key] = levels
	}
	plane, ok := levels[level]
	if !ok {
		plane = &binaryPlane{}
		levels[level] = plane
	}
	plane[row] |= 1 << uint(col)
}

// each visita os planos em ordem determinística (direção, chave, nível).
func (g *faceGroups) each(fn func(dir FaceDir, key, level uint32, plane *binaryPlane)) {
	for _, dir := range AllFaceDirs {
		byKey := g.planes[dir]
		keys := make([]uint32, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		for _, key := range keys {
			byLevel := byKey[key]
			levels := make([]uint32, 0, len(byLevel))
			for l := range byLevel {
				levels = append(levels, l)
			}
			sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

			for _, level := range levels {
				fn(dir, key, level, byLevel[level])
			}
		}
	}
}

// groupFaces percorre todas as faces visíveis e as distribui nos planos binários.
func groupFaces(n Neighborhood, masks *faceMasks) *faceGroups {
	groups := newFaceGroups()
	for _, dir := range AllFaceDirs {
		for z := 0; z < chunkSize; z++ {
			for x := 0; x < chunkSize; x++ {
				col := stripPadding(masks[dir][z+1][x+1])
				for col != 0 {
					y := bits.TrailingZeros64(col)
					col &= col - 1

					pos := dir.VoxelPos(int32(z), int32(x), int32(y))
					ao := sampleAO(n, dir, pos)
					block := n.GetBlockNoNeighbour(pos)

					groups.set(dir, GroupKey(ao, block.BlockType), uint32(y), x, z)
				}
			}
		}
	}
	return groups
}
