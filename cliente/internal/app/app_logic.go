package app

import (
	"log"

	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	pingInterval    = 5.0  // segundos entre PINGs (atualiza o HUD)
	loadingTimeout  = 20.0 // segundos até liberar a tela de carregamento
	loadingFraction = 0.9  // fração da região inicial que encerra o carregamento
)

// updateStreaming pede uma nova região quando a câmera muda de chunk.
func (a *App) updateStreaming() {
	if a.netClient == nil || !a.netClient.IsConnected() {
		return
	}

	chunk := a.Cam.ChunkCoord(voxel.ChunkSize)
	if !a.requested || chunk != a.centerChunk {
		radius := a.Config.DrawRadius
		if err := a.netClient.RequestRegion(chunk, radius); err != nil {
			log.Printf("[App] Falha ao pedir região %v: %v", chunk, err)
			return
		}
		if !a.requested && a.Loading {
			side := int(2*radius + 1)
			a.LoadingExpected = side * side * side
			log.Printf("[App] Esperando %d chunks para concluir a carga inicial", a.LoadingExpected)
		}
		a.requested = true
		a.centerChunk = chunk

		// Chunks que saíram do raio são descarregados aos poucos.
		for _, c := range a.renderer.Purge(chunk, radius+1) {
			a.netClient.Forget(c)
		}
	}

	if now := rl.GetTime(); now-a.lastPingTime > pingInterval {
		a.lastPingTime = now
		a.netClient.Ping()
	}
}

// processMeshQueue sobe as malhas recebidas para a GPU dentro de um orçamento de tempo.
func (a *App) processMeshQueue() {
	// 1 frame a 60FPS = 16.6ms. No jogo gastamos no máximo 4ms com upload.
	timeBudget := 0.004
	if a.Loading {
		timeBudget = 0.050
	}

	startTime := rl.GetTime()
	for rl.GetTime()-startTime <= timeBudget {
		select {
		case msg := <-a.meshQueue:
			coord := util.NewIVec3(msg.ChunkX, msg.ChunkY, msg.ChunkZ)
			if coord.Chebyshev(a.centerChunk) > a.Config.DrawRadius+1 {
				// Chegou depois que a câmera saiu de perto.
				a.netClient.Forget(coord)
				continue
			}
			a.renderer.UploadChunk(msg)
			if a.Loading {
				a.LoadingReceived++
			}
		default:
			a.checkLoadingDone()
			return
		}
	}
	a.checkLoadingDone()
}

// checkLoadingDone encerra a tela de carregamento quando a região inicial chegou.
func (a *App) checkLoadingDone() {
	if !a.Loading {
		return
	}
	if a.LoadingExpected > 0 {
		a.LoadingProgress = float32(a.LoadingReceived) / float32(a.LoadingExpected)
		a.setLoadingStatus("Construindo terreno: %d/%d chunks (%.1f%%)",
			a.LoadingReceived, a.LoadingExpected, a.LoadingProgress*100)
	}

	elapsed := rl.GetTime() - a.LoadingStartTime
	reached := a.LoadingExpected > 0 && a.LoadingProgress >= loadingFraction
	if reached || elapsed > loadingTimeout {
		a.finishLoading()
		log.Printf("[App] Loading concluído! (%d chunks em %.1fs, timeout: %v)",
			a.LoadingReceived, elapsed, !reached)
	}
}

func (a *App) finishLoading() {
	a.Loading = false
	a.LoadingProgress = 1.0
	if a.State == StateLoading {
		a.State = StateViewing
	}
}
