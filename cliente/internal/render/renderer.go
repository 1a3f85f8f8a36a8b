package render

/*
#include <stdlib.h>
*/
import "C"

import (
	"log"
	"sort"
	"sync"
	"unsafe"

	"VoxelVision/cliente/internal/camera"
	"VoxelVision/cliente/internal/shading"
	"VoxelVision/shared/proto/meshnet"
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// purgePerFrame limita quantos chunks são descarregados por frame (evita stutter).
const purgePerFrame = 4

type Renderer struct {
	mu     sync.RWMutex
	Models map[util.IVec3]*ChunkModel

	Palette *shading.Palette

	// Shaders e Uniforms
	TerrainShader rl.Shader
	camPosLoc     int32
	fogColorLoc   int32
	fogDensityLoc int32

	FogColor   rl.Color
	FogDensity float32
	Wireframe  bool

	// Fila de modelos para purga e a última área mantida
	purgeQueue []util.IVec3
	keepCenter util.IVec3
	keepRadius int32
}

// NewRenderer cria um novo renderizador. Os shaders só são carregados com janela aberta.
func NewRenderer(palette *shading.Palette) *Renderer {
	r := &Renderer{
		Models:     make(map[util.IVec3]*ChunkModel),
		Palette:    palette,
		FogColor:   rl.NewColor(150, 190, 230, 255),
		FogDensity: 0.006,
	}

	if rl.IsWindowReady() {
		r.TerrainShader = rl.LoadShaderFromMemory(terrainVertexShader, terrainFragmentShader)
		// Locs é um ponteiro bruto (*int32) que aponta para um array em C (32 ints)
		locs := unsafe.Slice(r.TerrainShader.Locs, 32)
		locs[12] = rl.GetShaderLocation(r.TerrainShader, "colDiffuse") // SHADER_LOC_COLOR_DIFFUSE

		r.camPosLoc = rl.GetShaderLocation(r.TerrainShader, "camPos")
		r.fogColorLoc = rl.GetShaderLocation(r.TerrainShader, "fogColor")
		r.fogDensityLoc = rl.GetShaderLocation(r.TerrainShader, "fogDensity")
		log.Printf("[Renderer] Shader de terreno carregado (id=%d)", r.TerrainShader.ID)
	}
	return r
}

// GetModelVersion retorna a versão do modelo carregado para o chunk, ou -1.
func (r *Renderer) GetModelVersion(coord util.IVec3) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cm, ok := r.Models[coord]; ok {
		return cm.MTime
	}
	return -1
}

// UploadChunk converte a malha recebida do servidor em modelos na GPU.
// Deve ser chamado na thread principal (OpenGL).
func (r *Renderer) UploadChunk(msg *meshnet.ChunkMeshMessage) {
	if !rl.IsWindowReady() {
		return
	}
	coord := util.NewIVec3(msg.ChunkX, msg.ChunkY, msg.ChunkZ)

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.Models[coord]; ok {
		if old.MTime > msg.MTime {
			return
		}
		old.unload()
		delete(r.Models, coord)
	}

	cm := &ChunkModel{Coord: coord, MTime: msg.MTime, Quads: len(msg.Vertices) / 4}
	origin := shading.ChunkOrigin(coord, voxel.ChunkSize)
	transform := rl.MatrixTranslate(origin.X(), origin.Y(), origin.Z())

	for _, geo := range shading.BuildGeometry(msg.Vertices, r.Palette) {
		mesh := r.geometryToMesh(geo)
		// A RAM da malha fica alocada: o raycast usa vértices e índices na CPU.
		rl.UploadMesh(&mesh, false)
		model := rl.LoadModelFromMesh(mesh)
		model.Transform = transform
		if r.TerrainShader.ID != 0 && model.MaterialCount > 0 {
			materials := unsafe.Slice(model.Materials, model.MaterialCount)
			materials[0].Shader = r.TerrainShader
		}
		cm.Models = append(cm.Models, model)
	}

	// Chunk vazio também fica registrado, para guardar a versão.
	r.Models[coord] = cm
}

func (r *Renderer) geometryToMesh(geo shading.Geometry) rl.Mesh {
	var mesh rl.Mesh
	mesh.VertexCount = int32(geo.VertexCount())
	mesh.TriangleCount = int32(len(geo.Indices) / 3)

	mesh.Vertices = (*float32)(r.copyToC(unsafe.Pointer(&geo.Vertices[0]), len(geo.Vertices)*4))
	mesh.Normals = (*float32)(r.copyToC(unsafe.Pointer(&geo.Normals[0]), len(geo.Normals)*4))
	mesh.Colors = (*uint8)(r.copyToC(unsafe.Pointer(&geo.Colors[0]), len(geo.Colors)))
	mesh.Indices = (*uint16)(r.copyToC(unsafe.Pointer(&geo.Indices[0]), len(geo.Indices)*2))
	return mesh
}

func (r *Renderer) copyToC(data unsafe.Pointer, size int) unsafe.Pointer {
	if size <= 0 || data == nil {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		return nil
	}
	cSlice := unsafe.Slice((*byte)(ptr), size)
	goSlice := unsafe.Slice((*byte)(data), size)
	copy(cSlice, goSlice)
	return ptr
}

// Camera3D converte a view da câmera para o Raylib.
func Camera3D(v camera.View) rl.Camera3D {
	cam := rl.Camera3D{
		Position:   rl.NewVector3(v.Position.X(), v.Position.Y(), v.Position.Z()),
		Target:     rl.NewVector3(v.Target.X(), v.Target.Y(), v.Target.Z()),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       v.Fovy,
		Projection: rl.CameraPerspective,
	}
	if v.Orthogonal {
		cam.Projection = rl.CameraOrthographic
	}
	return cam
}

// Draw renderiza os chunks dentro do raio (em chunks) em volta de center.
// Retorna quantos chunks foram desenhados.
func (r *Renderer) Draw(cam rl.Camera3D, center util.IVec3, radius int32) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.TerrainShader.ID != 0 {
		camPos := cam.Position
		fog := rl.ColorNormalize(r.FogColor)
		rl.SetShaderValue(r.TerrainShader, r.camPosLoc, []float32{camPos.X, camPos.Y, camPos.Z}, rl.ShaderUniformVec3)
		rl.SetShaderValue(r.TerrainShader, r.fogColorLoc, []float32{fog.X, fog.Y, fog.Z}, rl.ShaderUniformVec3)
		rl.SetShaderValue(r.TerrainShader, r.fogDensityLoc, []float32{r.FogDensity}, rl.ShaderUniformFloat)
	}

	drawn := 0
	for coord, cm := range r.Models {
		if len(cm.Models) == 0 || coord.Chebyshev(center) > radius {
			continue
		}
		for _, m := range cm.Models {
			if r.Wireframe {
				rl.DrawModelWires(m, rl.Vector3{}, 1.0, rl.DarkGray)
			} else {
				rl.DrawModel(m, rl.Vector3{}, 1.0, rl.White)
			}
		}
		drawn++
	}
	return drawn
}

// Stats retorna quantos chunks e quads estão na GPU.
func (r *Renderer) Stats() (chunks, quads int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cm := range r.Models {
		if len(cm.Models) > 0 {
			chunks++
		}
		quads += cm.Quads
	}
	return chunks, quads
}

// Purge agenda a descarga dos chunks fora do raio e retorna suas coordenadas.
func (r *Renderer) Purge(center util.IVec3, radius int32) []util.IVec3 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keepCenter, r.keepRadius = center, radius
	queued := make(map[util.IVec3]bool, len(r.purgeQueue))
	for _, c := range r.purgeQueue {
		queued[c] = true
	}

	var out []util.IVec3
	for coord := range r.Models {
		if coord.Chebyshev(center) > radius && !queued[coord] {
			out = append(out, coord)
		}
	}
	// Os mais distantes saem primeiro.
	sort.Slice(out, func(i, j int) bool {
		return out[i].DistSq(center) > out[j].DistSq(center)
	})
	r.purgeQueue = append(r.purgeQueue, out...)
	return out
}

// ProcessPurge descarrega alguns chunks da fila. Deve rodar na thread principal.
func (r *Renderer) ProcessPurge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	limit := purgePerFrame
	if len(r.purgeQueue) < limit {
		limit = len(r.purgeQueue)
	}
	for i := 0; i < limit; i++ {
		coord := r.purgeQueue[0]
		r.purgeQueue = r.purgeQueue[1:]
		// A câmera pode ter voltado antes da vez deste chunk.
		if coord.Chebyshev(r.keepCenter) <= r.keepRadius {
			continue
		}
		if cm, ok := r.Models[coord]; ok {
			cm.unload()
			delete(r.Models, coord)
		}
	}
}

func (r *Renderer) Unload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cm := range r.Models {
		cm.unload()
	}
	r.Models = make(map[util.IVec3]*ChunkModel)
	r.purgeQueue = nil
	if r.TerrainShader.ID != 0 {
		rl.UnloadShader(r.TerrainShader)
	}
}

// GetRayCollision retorna o ponto e a normal da face de terreno mais próxima atingida pelo raio.
func (r *Renderer) GetRayCollision(ray rl.Ray) (point, normal mgl32.Vec3, hit bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	closest := float32(1e9)
	for _, cm := range r.Models {
		for _, m := range cm.Models {
			meshes := unsafe.Slice(m.Meshes, m.MeshCount)
			for i := range meshes {
				col := rl.GetRayCollisionMesh(ray, meshes[i], m.Transform)
				if col.Hit && col.Distance < closest {
					closest = col.Distance
					point = mgl32.Vec3{col.Point.X, col.Point.Y, col.Point.Z}
					normal = mgl32.Vec3{col.Normal.X, col.Normal.Y, col.Normal.Z}
					hit = true
				}
			}
		}
	}
	return point, normal, hit
}

// DrawSelection desenha um cubo de destaque no bloco selecionado.
func (r *Renderer) DrawSelection(block util.IVec3) {
	pos := rl.NewVector3(float32(block.X)+0.5, float32(block.Y)+0.5, float32(block.Z)+0.5)
	rl.DrawCubeWires(pos, 1.01, 1.01, 1.01, rl.Yellow)
}
