package app

import (
	"log"

	"VoxelVision/cliente/internal/camera"
	"VoxelVision/cliente/internal/render"
	"VoxelVision/cliente/internal/shading"
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// hoverInterval é de quantos em quantos frames o bloco sob o cursor é recalculado.
const hoverInterval = 6

// placeKeys ligam as teclas numéricas aos blocos que o jogador pode colocar.
var placeKeys = []struct {
	key   int32
	block voxel.BlockType
}{
	{rl.KeyOne, voxel.BlockGrass},
	{rl.KeyTwo, voxel.BlockDirt},
	{rl.KeyThree, voxel.BlockStone},
	{rl.KeyFour, voxel.BlockSand},
	{rl.KeyFive, voxel.BlockWater},
	{rl.KeySix, voxel.BlockWood},
	{rl.KeySeven, voxel.BlockLeaves},
	{rl.KeyEight, voxel.BlockSnow},
}

// updateCamera atualiza a câmera baseado no input.
func (a *App) updateCamera() {
	dt := rl.GetFrameTime()
	delta := rl.GetMouseDelta()

	a.Cam.HandleInput(camera.Input{
		Forward:    rl.IsKeyDown(rl.KeyW),
		Back:       rl.IsKeyDown(rl.KeyS),
		Left:       rl.IsKeyDown(rl.KeyA),
		Right:      rl.IsKeyDown(rl.KeyD),
		Up:         rl.IsKeyDown(rl.KeyE),
		Down:       rl.IsKeyDown(rl.KeyQ),
		Wheel:      rl.GetMouseWheelMove(),
		MouseDelta: mgl32.Vec2{delta.X, delta.Y},
		Rotating:   rl.IsMouseButtonDown(rl.MouseMiddleButton) || rl.IsKeyDown(rl.KeyLeftAlt),
	}, dt)
	a.Cam.Update(dt)

	// Alternar projeção com P
	if rl.IsKeyPressed(rl.KeyP) {
		if a.Cam.Mode == camera.ModePerspective {
			a.Cam.SetMode(camera.ModeOrthographic)
			log.Println("[Camera] Modo Ortográfico")
		} else {
			a.Cam.SetMode(camera.ModePerspective)
			log.Println("[Camera] Modo Perspectiva")
		}
	}
}

// updateInput processa entradas de teclado e mouse gerais.
func (a *App) updateInput() {
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	if a.Loading && rl.IsKeyPressed(rl.KeySpace) {
		log.Println("[App] Loading pulado manualmente pelo usuário.")
		a.finishLoading()
	}

	if rl.IsKeyPressed(rl.KeyF4) {
		a.Config.WireframeMode = !a.Config.WireframeMode
		a.renderer.Wireframe = a.Config.WireframeMode
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// ESC: Alternar Pausa
	if rl.IsKeyPressed(rl.KeyEscape) {
		switch a.State {
		case StateViewing:
			a.State = StatePaused
			log.Println("[App] Jogo Pausado")
		case StatePaused:
			a.State = StateViewing
			log.Println("[App] Retomando Jogo")
		}
	}

	if a.State != StateViewing {
		return
	}

	for _, pk := range placeKeys {
		if rl.IsKeyPressed(pk.key) {
			a.PlaceBlock = pk.block
			log.Printf("[App] Bloco selecionado: %s", pk.block)
		}
	}

	left := rl.IsMouseButtonPressed(rl.MouseLeftButton)
	right := rl.IsMouseButtonPressed(rl.MouseRightButton)
	if !left && !right && a.frameCount%hoverInterval != 0 {
		return
	}

	point, normal, hit := a.mouseHit()
	if !hit {
		a.SelectedBlock = nil
		return
	}
	target := shading.PickBlock(point, normal, false)
	a.SelectedBlock = &target

	switch {
	case left:
		a.editBlock(target, voxel.BlockAir)
	case right:
		a.editBlock(shading.PickBlock(point, normal, true), a.PlaceBlock)
	}
}

func (a *App) mouseHit() (point, normal mgl32.Vec3, hit bool) {
	ray := rl.GetMouseRay(rl.GetMousePosition(), render.Camera3D(a.Cam.View()))
	return a.renderer.GetRayCollision(ray)
}

// editBlock envia a alteração; a malha nova chega pelo fluxo normal de CHUNK_MESH.
func (a *App) editBlock(pos util.IVec3, block voxel.BlockType) {
	if a.netClient == nil {
		return
	}
	if err := a.netClient.SetBlock(pos, block); err != nil {
		log.Printf("[App] Falha ao alterar bloco %v: %v", pos, err)
		return
	}
	log.Printf("[App] SET_BLOCK %v -> %s", pos, block)
}
