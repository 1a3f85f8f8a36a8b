package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"VoxelVision/cliente/internal/app"
	"VoxelVision/shared/config"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	configFile := flag.String("config", "", "Arquivo de configuração (JSON ou YAML)")
	serverURL := flag.String("server", "", "URL do Servidor VoxelVision (padrão: ws://127.0.0.1:8080/ws)")
	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	radius := flag.Int("radius", -1, "Raio de desenho em chunks")
	noAO := flag.Bool("no-ao", false, "Desligar a oclusão ambiente")
	flag.Parse()

	f, err := os.OpenFile("debug_vv.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		log.SetOutput(f)
		log.Println("--- INICIANDO VOXELVISION ---")
	}

	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║         VoxelVision v0.1.0           ║")
	log.Println("║   Visualizador de terreno em voxels  ║")
	log.Println("╚══════════════════════════════════════╝")

	cfg := config.Load()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			log.Fatalf("[VoxelVision] %v", err)
		}
		cfg = loaded
	}

	// Flags sobrescrevem o config salvo
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}
	if *radius >= 0 {
		cfg.DrawRadius = int32(*radius)
	}
	if *noAO {
		cfg.DisableAO = true
	}

	application := app.New(cfg)
	application.Run()
}
