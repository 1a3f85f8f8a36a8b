package app

import (
	"log"
	"sync"

	"VoxelVision/cliente/internal/assets"
	"VoxelVision/cliente/internal/camera"
	"VoxelVision/cliente/internal/client"
	"VoxelVision/cliente/internal/render"
	"VoxelVision/cliente/internal/shading"
	"VoxelVision/shared/config"
	"VoxelVision/shared/proto/meshnet"
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// AppState representa os estados possíveis da aplicação.
type AppState int

const (
	StateLoading AppState = iota // Esperando as primeiras malhas
	StateViewing                 // Visualizando o mundo
	StatePaused                  // Pausado
)

// meshQueueSize é quantas malhas podem esperar pelo upload na thread principal.
const meshQueueSize = 4096

// App é a aplicação principal do VoxelVision.
type App struct {
	Config *config.Config
	State  AppState

	Cam *camera.CameraController

	frameCount int
	quitting   bool

	// Bloco sob o cursor e o tipo usado para colocar
	SelectedBlock *util.IVec3
	PlaceBlock    voxel.BlockType

	// Comunicação e renderização
	netClient *client.NetworkClient
	renderer  *render.Renderer
	meshQueue chan *meshnet.ChunkMeshMessage

	// Streaming de regiões
	centerChunk  util.IVec3
	requested    bool
	lastPingTime float64

	// Estado do servidor (último SERVER_STATUS / PONG), escrito pela goroutine de rede
	statusMu      sync.Mutex
	ServerMessage string
	ServerChunks  int32
	ServerPending int32

	// Estado da tela de carregamento
	Loading          bool
	LoadingStatus    string
	LoadingProgress  float32
	LoadingExpected  int
	LoadingReceived  int
	LoadingStartTime float64
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	return &App{
		Config:        cfg,
		State:         StateLoading,
		PlaceBlock:    voxel.BlockStone,
		meshQueue:     make(chan *meshnet.ChunkMeshMessage, meshQueueSize),
		Loading:       true,
		LoadingStatus: "Conectando ao servidor...",
	}
}

// Run inicia o loop principal da aplicação.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}

	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(0) // ESC abre o menu de pausa

	a.Cam = camera.New(a.Config.FOV, a.Config.CameraSpeed, a.Config.CameraSensitivity)
	// Começa olhando um pouco acima do nível do mar.
	a.Cam.SetTarget(mgl32.Vec3{16, 40, 16})
	a.centerChunk = a.Cam.ChunkCoord(voxel.ChunkSize)

	log.Println("[VoxelVision] Janela inicializada com sucesso")
	log.Printf("[VoxelVision] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	colors, err := assets.NewManager("assets/config")
	if err != nil {
		log.Printf("[App] AVISO: paleta inválida, usando a padrão: %v", err)
		colors = assets.NewManagerFrom(assets.DefaultPalette)
	}
	a.renderer = render.NewRenderer(shading.NewPalette(colors, a.Config.DisableAO))
	a.renderer.Wireframe = a.Config.WireframeMode

	a.LoadingStartTime = rl.GetTime()
	a.setupNetwork()
	go a.connectServer()

	for !rl.WindowShouldClose() && !a.quitting {
		a.update()
		a.draw()
	}

	a.shutdown()
	rl.CloseWindow()
}

// update atualiza a lógica a cada frame.
func (a *App) update() {
	a.frameCount++

	switch a.State {
	case StateLoading, StateViewing:
		a.renderer.ProcessPurge()
		a.updateCamera()
		a.updateInput()
		a.updateStreaming()
		a.processMeshQueue()
	case StatePaused:
		a.updateInput()
		a.processMeshQueue()
	}
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	if a.netClient != nil {
		a.netClient.Close()
	}
	a.renderer.Unload()

	if err := a.Config.Save(); err != nil {
		log.Printf("[VoxelVision] Erro ao salvar configurações: %v", err)
	}
}
