package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// exe devolve o nome do binário com a extensão da plataforma.
func exe(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// waitForServer tenta conectar em addr até o servidor aceitar ou o prazo acabar.
func waitForServer(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(250 * time.Millisecond)
	}
	return fmt.Errorf("servidor não respondeu em %s após %v", addr, timeout)
}

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "Endereço do servidor")
	world := flag.String("world", "", "Nome do mundo (repasse ao servidor)")
	seed := flag.Int64("seed", 0, "Seed do gerador (repasse ao servidor)")
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║        VoxelVision Launcher          ║")
	fmt.Println("╚══════════════════════════════════════╝")

	// 1. Servidor
	fmt.Println("[1/2] Iniciando Servidor...")
	serverArgs := []string{"-addr", *addr}
	if *world != "" {
		serverArgs = append(serverArgs, "-world", *world)
	}
	if *seed != 0 {
		serverArgs = append(serverArgs, "-seed", fmt.Sprint(*seed))
	}

	serverPath, err := filepath.Abs(filepath.Join("servidor", exe("server")))
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do servidor: %v", err)
	}
	serverCmd := exec.Command(serverPath, serverArgs...)
	serverCmd.Dir = "servidor"
	serverCmd.Stdout = os.Stdout
	serverCmd.Stderr = os.Stderr
	if err := serverCmd.Start(); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}

	fmt.Println("Aguardando o servidor abrir a porta...")
	if err := waitForServer(*addr, 30*time.Second); err != nil {
		serverCmd.Process.Kill()
		log.Fatalf("Erro: %v", err)
	}

	// 2. Cliente
	fmt.Println("[2/2] Abrindo Cliente...")
	clientPath, err := filepath.Abs(filepath.Join("cliente", exe("client")))
	if err != nil {
		log.Fatalf("Erro ao resolver caminho do cliente: %v", err)
	}

	clientCmd := exec.Command(clientPath, "-server", "ws://"+*addr+"/ws")
	clientCmd.Dir = "cliente" // diretório de trabalho para os assets

	if err := clientCmd.Run(); err != nil {
		fmt.Printf("ERRO: o cliente em %s terminou com falha: %v\n", clientPath, err)
	}

	// O servidor salva o mundo ao receber o sinal de término.
	fmt.Println("Cliente fechado. Encerrando servidor...")
	if runtime.GOOS == "windows" {
		serverCmd.Process.Kill()
	} else {
		serverCmd.Process.Signal(os.Interrupt)
	}
	serverCmd.Wait()
}
