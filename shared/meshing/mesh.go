package meshing

import (
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"
)

// Neighborhood é o acesso somente-leitura a um chunk e seus 26 vizinhos.
// Deve permanecer imutável durante um BuildChunkMesh.
type Neighborhood interface {
	// IsAllVoxelsSame indica que não há nenhuma face a gerar (tudo ar ou tudo sólido).
	IsAllVoxelsSame() bool
	// GetBlock lê qualquer posição relativa ao chunk central; fora da vizinhança é ar.
	GetBlock(pos util.IVec3) voxel.BlockData
	// GetBlockNoNeighbour lê só o chunk central (pos em 0..31).
	GetBlockNoNeighbour(pos util.IVec3) voxel.BlockData
	// Center expõe o armazenamento do chunk central (32³ ou 1 voxel).
	Center() *voxel.ChunkData
}

// ChunkMesh é a malha final de um chunk, pronta para upload.
type ChunkMesh struct {
	Vertices []uint32
	Indices  []uint32
}

// QuadCount retorna o número de quads da malha.
func (m *ChunkMesh) QuadCount() int {
	return len(m.Vertices) / 4
}

// Clone cria uma cópia profunda da malha.
func (m *ChunkMesh) Clone() *ChunkMesh {
	if m == nil {
		return nil
	}
	clone := &ChunkMesh{}
	if len(m.Vertices) > 0 {
		clone.Vertices = make([]uint32, len(m.Vertices))
		copy(clone.Vertices, m.Vertices)
	}
	if len(m.Indices) > 0 {
		clone.Indices = make([]uint32, len(m.Indices))
		copy(clone.Indices, m.Indices)
	}
	return clone
}

// GenerateIndices gera os índices de quads (2 triângulos, 6 índices por 4 vértices).
func GenerateIndices(vertexCount int) []uint32 {
	quads := vertexCount / 4
	indices := make([]uint32, 0, quads*6)
	for q := 0; q < quads; q++ {
		i := uint32(q * 4)
		indices = append(indices, i, i+1, i+2, i, i+2, i+3)
	}
	return indices
}

// BuildChunkMesh gera a malha do chunk central da vizinhança.
// Retorna nil quando nenhuma face é visível (chunk todo ar ou todo oculto).
//
// lod escala as posições dos vértices e limita a extensão dos planos; o
// chamador é responsável por fornecer voxels já amostrados nesse nível.
func BuildChunkMesh(n Neighborhood, lod Lod) *ChunkMesh {
	if n.IsAllVoxelsSame() {
		return nil
	}

	cols := encodeSolids(n)
	masks := cullFaces(cols)
	groups := groupFaces(n, masks)

	var vertices []uint32
	groups.each(func(dir FaceDir, key, level uint32, plane *binaryPlane) {
		ao, block := SplitGroupKey(key)
		for _, q := range GreedyMeshBinaryPlane(*plane, lod.Size()) {
			vertices = q.AppendVertices(vertices, dir, level, lod, ao, block)
		}
	})

	if len(vertices) == 0 {
		return nil
	}
	return &ChunkMesh{
		Vertices: vertices,
		Indices:  GenerateIndices(len(vertices)),
	}
}
