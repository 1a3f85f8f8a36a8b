package voxel

import "VoxelVision/shared/util"

// centerIndex é a posição do chunk principal dentro da vizinhança 3x3x3.
const centerIndex = 13

// ChunksRefs é um snapshot imutável de um chunk e seus 26 vizinhos.
// Os ponteiros nunca são alterados depois de criados: o store faz copy-on-write
// nos dados, então um snapshot continua consistente durante o meshing.
type ChunksRefs struct {
	chunks [27]*ChunkData
}

// NeighborIndex converte um deslocamento (0..2 em cada eixo) no índice da vizinhança.
func NeighborIndex(x, y, z int) int {
	return x + y*3 + z*9
}

var airChunk = NewUniformChunk(Air)

// NewChunksRefs cria o snapshot. Entradas nil são tratadas como chunks de ar.
func NewChunksRefs(chunks [27]*ChunkData) *ChunksRefs {
	r := &ChunksRefs{}
	for i, c := range chunks {
		if c == nil {
			c = airChunk
		}
		r.chunks[i] = c
	}
	return r
}

// Center retorna o chunk principal.
func (r *ChunksRefs) Center() *ChunkData {
	return r.chunks[centerIndex]
}

// Chunk retorna o chunk no deslocamento (0..2, 0..2, 0..2).
func (r *ChunksRefs) Chunk(x, y, z int) *ChunkData {
	return r.chunks[NeighborIndex(x, y, z)]
}

// GetBlock retorna o voxel em uma posição relativa ao chunk principal,
// atravessando a fronteira para os vizinhos. Posições fora da vizinhança
// 3x3x3 são lidas como ar.
func (r *ChunksRefs) GetBlock(pos util.IVec3) BlockData {
	x := pos.X + ChunkSize
	y := pos.Y + ChunkSize
	z := pos.Z + ChunkSize
	if x < 0 || y < 0 || z < 0 || x >= 3*ChunkSize || y >= 3*ChunkSize || z >= 3*ChunkSize {
		return Air
	}
	c := r.chunks[NeighborIndex(int(x/ChunkSize), int(y/ChunkSize), int(z/ChunkSize))]
	return c.Get(int(x%ChunkSize), int(y%ChunkSize), int(z%ChunkSize))
}

// GetBlockNoNeighbour lê direto do chunk principal; pos precisa estar em 0..31.
func (r *ChunksRefs) GetBlockNoNeighbour(pos util.IVec3) BlockData {
	return r.Center().Get(int(pos.X), int(pos.Y), int(pos.Z))
}

// IsAllVoxelsSame indica se os 27 chunks são compactos e do mesmo tipo de bloco.
// Nesse caso não existe nenhuma face visível (tudo ar ou tudo sólido).
func (r *ChunksRefs) IsAllVoxelsSame() bool {
	first := r.chunks[0]
	if !first.IsUniform() {
		return false
	}
	blockType := first.Voxels[0].BlockType
	for _, c := range r.chunks[1:] {
		if !c.IsUniform() || c.Voxels[0].BlockType != blockType {
			return false
		}
	}
	return true
}
