package main

import (
	"flag"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"VoxelVision/shared/config"
	"VoxelVision/shared/mapdata"
	"VoxelVision/shared/meshing"
	"VoxelVision/shared/proto/meshnet"

	"github.com/gorilla/websocket"
)

func main() {
	// Garante que o working directory é o mesmo diretório do executável,
	// para que caminhos relativos (saves/, tmp/) funcionem corretamente.
	if exePath, err := os.Executable(); err == nil {
		os.Chdir(filepath.Dir(exePath))
	}

	log.SetFlags(log.Ltime | log.Lshortfile)

	// Log em arquivo para depuração de crash
	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/server.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			log.SetOutput(io.MultiWriter(os.Stdout, logFile))
		}
	}

	configFile := flag.String("config", "", "arquivo de configuração (.json, .yaml)")
	addr := flag.String("addr", "", "endereço de escuta (ex: :8080)")
	world := flag.String("world", "", "nome do mundo")
	seed := flag.Int64("seed", 0, "seed do gerador (só para mundos novos)")
	saves := flag.String("saves", "", "diretório dos saves")
	flag.Parse()

	cfg := config.Load()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			log.Fatalf("Erro fatal: %v", err)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}
	if *world != "" {
		cfg.WorldName = *world
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *saves != "" {
		cfg.SavesDir = *saves
	}

	log.Println("╔══════════════════════════════════════╗")
	log.Println("║      VoxelVision SERVER v0.1.0       ║")
	log.Println("╚══════════════════════════════════════╝")

	// Inicializar Store (SQLite)
	store := mapdata.NewWorldStore(nil)
	log.Printf("Inicializando banco de dados para o mundo: %s", cfg.WorldName)
	if err := store.OpenInitialize(cfg.SavesDir, cfg.WorldName); err != nil {
		log.Printf("Erro ao abrir SQLite, mundo só em memória: %v", err)
	}

	// A seed salva no mundo vence a da configuração
	if stored, ok := store.StoredSeed(); ok {
		if stored != cfg.Seed {
			log.Printf("[Startup] Usando a seed salva no mundo: %d", stored)
		}
		cfg.Seed = stored
	} else if err := store.SetMetadata("Seed", strconv.FormatInt(cfg.Seed, 10)); err != nil && store.DB != nil {
		log.Printf("[Startup] Falha ao salvar a seed: %v", err)
	}
	store.Generator = mapdata.NewGenerator(cfg.Seed)

	hub := newHub()
	go hub.run()

	mesher := meshing.NewBlockMesher(cfg.MesherThreads, meshing.NewResultStore())
	service := NewWorldService(store, mesher, hub, cfg.MaxRequestRad)
	hub.onLeave = service.Forget
	service.Start()

	if store.HasData() {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[Startup-Prewarm] Recuperado de pânico: %v", r)
				}
			}()
			n := service.Prewarm()
			log.Printf("[Startup] %d chunks salvos enviados ao mesher.", n)
		}()
	}

	// ---------------------------------------------------------
	// Auto-Save Periódico e Limpeza de Memória (Purge)
	// ---------------------------------------------------------
	go func() {
		interval := time.Duration(cfg.AutosaveSecs) * time.Second
		if interval <= 0 {
			interval = 30 * time.Second
		}
		for {
			time.Sleep(interval)
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("[AutoSave-Loop] Recuperado de pânico: %v", r)
					}
				}()
				if err := store.Save(); err != nil {
					log.Printf("[AutoSave] Erro ao salvar: %v", err)
				}
				// Mantém uma margem de 2 chunks além da maior região permitida
				if n := service.Purge(cfg.MaxRequestRad + 2); n > 0 {
					log.Printf("[AutoSave] %d chunks descarregados da RAM.", n)
				}
				if avg, n := service.MeshTiming(); n > 0 {
					log.Printf("[World] Tempo médio de malha: %v (%d amostras)", avg, n)
				}
				hub.Broadcast(meshnet.TypeServerStatus, service.Status("autosave"))
			}()
		}
	}()

	// Encerramento limpo: salva o mundo antes de sair
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Println("[Shutdown] Salvando o mundo...")
		service.Stop()
		if err := store.Save(); err != nil {
			log.Printf("[Shutdown] Erro ao salvar: %v", err)
		}
		store.Close()
		os.Exit(0)
	}()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, service, w, r)
	})

	// Verificação de porta antes do ListenAndServe
	ln, err := net.Listen("tcp", cfg.ServerAddr)
	if err != nil {
		log.Printf("╔══════════════════════════════════════════════════════════════╗")
		log.Printf("║ ERRO CRÍTICO: Não foi possível abrir o endereço %-13s║", cfg.ServerAddr)
		log.Printf("║ Provavelmente há outra instância do servidor rodando.        ║")
		log.Printf("╚══════════════════════════════════════════════════════════════╝")
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}
	ln.Close() // Fecha para o ListenAndServe reabrir

	log.Printf("Servidor VoxelVision iniciado em %s (seed %d)", cfg.ServerAddr, cfg.Seed)
	if err := http.ListenAndServe(cfg.ServerAddr, nil); err != nil {
		log.Fatalf("Erro fatal no servidor HTTP: %v", err)
	}
}

// serveWs maneja requisições websocket do peer.
func serveWs(hub *Hub, service *WorldService, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Erro no upgrade do WebSocket: %v", err)
		return
	}
	hub.Register(conn)

	hub.Send(conn, meshnet.TypeServerStatus, service.Status("Conectado ao Servidor VoxelVision"))

	go func() {
		defer func() {
			hub.unregister <- conn
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("[Network] Conexão encerrada: %v", err)
				break
			}

			var envelope meshnet.Envelope
			if err := envelope.Unmarshal(message); err != nil {
				log.Printf("[Network] Erro ao desempacotar envelope: %v", err)
				continue
			}

			handleClientMessage(hub, service, conn, &envelope)
		}
	}()
}

func handleClientMessage(hub *Hub, service *WorldService, conn *websocket.Conn, env *meshnet.Envelope) {
	switch env.Type {
	case meshnet.TypePing:
		hub.Send(conn, meshnet.TypePong, service.Status("pong"))
	case meshnet.TypeRequestRegion:
		var req meshnet.RequestRegion
		if err := req.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] Erro ao ler RequestRegion: %v", err)
			return
		}
		// Snapshots podem gerar muitos chunks: não segura o loop de leitura
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[PANIC] [Network] Erro ao atender região: %v", r)
				}
			}()
			n := service.RequestRegion(conn, &req)
			log.Printf("[Network] Região Center(%d,%d,%d) R:%d -> %d chunks",
				req.CenterX, req.CenterY, req.CenterZ, req.Radius, n)
		}()
	case meshnet.TypeSetBlock:
		var req meshnet.SetBlock
		if err := req.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] Erro ao ler SetBlock: %v", err)
			return
		}
		if err := service.SetBlock(&req); err != nil {
			log.Printf("[Network] SetBlock (%d,%d,%d) rejeitado: %v", req.X, req.Y, req.Z, err)
			hub.Send(conn, meshnet.TypeServerStatus, service.Status(err.Error()))
		}
	default:
		log.Printf("[Network] Mensagem ignorada: %v", env.Type)
	}
}
