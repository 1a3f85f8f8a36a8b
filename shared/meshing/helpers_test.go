package meshing

import (
	"math/rand"

	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"
)

// refsWith monta uma vizinhança só de ar com os voxels dados.
// As posições são relativas ao chunk central e podem cair nos vizinhos.
func refsWith(blocks map[util.IVec3]voxel.BlockType) *voxel.ChunksRefs {
	var chunks [27]*voxel.ChunkData
	for pos, b := range blocks {
		cc := pos.ChunkCoord(voxel.ChunkSize)
		local := pos.LocalCoord(voxel.ChunkSize)
		idx := voxel.NeighborIndex(int(cc.X+1), int(cc.Y+1), int(cc.Z+1))
		if chunks[idx] == nil {
			chunks[idx] = voxel.NewFilledChunk()
		}
		chunks[idx].Set(int(local.X), int(local.Y), int(local.Z), voxel.Block(b))
	}
	return voxel.NewChunksRefs(chunks)
}

// uniformRefs cria uma vizinhança onde os 27 chunks são compactos do mesmo tipo.
func uniformRefs(b voxel.BlockType) [27]*voxel.ChunkData {
	var chunks [27]*voxel.ChunkData
	for i := range chunks {
		chunks[i] = voxel.NewUniformChunk(voxel.Block(b))
	}
	return chunks
}

// randomRefs preenche os 27 chunks com voxels aleatórios (determinístico pela seed).
func randomRefs(seed int64, density float64) *voxel.ChunksRefs {
	rng := rand.New(rand.NewSource(seed))
	types := []voxel.BlockType{voxel.BlockStone, voxel.BlockDirt, voxel.BlockGrass}

	var chunks [27]*voxel.ChunkData
	for i := range chunks {
		c := voxel.NewFilledChunk()
		for j := range c.Voxels {
			if rng.Float64() < density {
				c.Voxels[j] = voxel.Block(types[rng.Intn(len(types))])
			}
		}
		chunks[i] = c
	}
	return voxel.NewChunksRefs(chunks)
}

// terrainRefs gera um relevo simples em degraus, bom para quads grandes.
func terrainRefs() *voxel.ChunksRefs {
	var chunks [27]*voxel.ChunkData
	for cz := 0; cz < 3; cz++ {
		for cy := 0; cy < 3; cy++ {
			for cx := 0; cx < 3; cx++ {
				c := voxel.NewFilledChunk()
				for z := 0; z < voxel.ChunkSize; z++ {
					for x := 0; x < voxel.ChunkSize; x++ {
						wx, wz := (cx-1)*voxel.ChunkSize+x, (cz-1)*voxel.ChunkSize+z
						height := 8 + (wx/6+wz/9)%7
						for y := 0; y < voxel.ChunkSize; y++ {
							wy := (cy-1)*voxel.ChunkSize + y
							switch {
							case wy < height-3:
								c.Set(x, y, z, voxel.Block(voxel.BlockStone))
							case wy < height:
								c.Set(x, y, z, voxel.Block(voxel.BlockDirt))
							case wy == height:
								c.Set(x, y, z, voxel.Block(voxel.BlockGrass))
							}
						}
					}
				}
				c.Compact()
				chunks[voxel.NeighborIndex(cx, cy, cz)] = c
			}
		}
	}
	return voxel.NewChunksRefs(chunks)
}

// verticesByFace agrupa os vértices decodificados pela face.
func verticesByFace(mesh *ChunkMesh) map[FaceDir][]Vertex {
	out := make(map[FaceDir][]Vertex)
	for _, v := range mesh.Vertices {
		d := DecodeVertex(v)
		out[d.Face] = append(out[d.Face], d)
	}
	return out
}
