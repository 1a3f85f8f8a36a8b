package app

import (
	"fmt"
	"log"

	"VoxelVision/cliente/internal/client"
	"VoxelVision/shared/proto/meshnet"
)

// setupNetwork cria o cliente e registra os callbacks.
// Os callbacks rodam na goroutine de leitura: malhas vão para a fila da thread principal.
func (a *App) setupNetwork() {
	a.netClient = client.NewNetworkClient(a.Config.ServerURL)

	a.netClient.OnChunkMesh = func(msg *meshnet.ChunkMeshMessage) {
		a.meshQueue <- msg
	}

	a.netClient.OnStatus = func(status *meshnet.ServerStatus) {
		log.Printf("[Server] Status: %s (chunks=%d, pendentes=%d)", status.Message, status.Chunks, status.Pending)
		a.setServerStatus(status)
	}
	a.netClient.OnPong = a.setServerStatus
}

func (a *App) setServerStatus(status *meshnet.ServerStatus) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	if status.Message != "" {
		a.ServerMessage = status.Message
	}
	a.ServerChunks = status.Chunks
	a.ServerPending = status.Pending
}

func (a *App) setLoadingStatus(format string, args ...any) {
	a.statusMu.Lock()
	a.LoadingStatus = fmt.Sprintf(format, args...)
	a.statusMu.Unlock()
}

// connectServer tenta conectar ao Servidor VoxelVision.
func (a *App) connectServer() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro em connectServer: %v", r)
		}
	}()

	if err := a.netClient.Connect(); err != nil {
		log.Printf("[Server] Erro ao conectar: %v", err)
		a.setLoadingStatus("Erro ao conectar ao Servidor. Verifique se o servidor está rodando.")
		return
	}

	log.Println("[Network] Conectado ao Servidor VoxelVision!")
	a.setLoadingStatus("Recebendo malhas do mundo...")
}
