package render

import (
	"VoxelVision/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ChunkModel é a geometria renderizável de um chunk.
// Um chunk grande pode ocupar mais de um rl.Model (índices de 16 bits).
type ChunkModel struct {
	Coord  util.IVec3
	MTime  int64 // versão da malha (para cache)
	Models []rl.Model
	Quads  int
}

func (cm *ChunkModel) unload() {
	for _, m := range cm.Models {
		rl.UnloadModel(m)
	}
	cm.Models = nil
}
