package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// testPackages são os pacotes que rodam sem janela nem GPU.
var testPackages = []string{
	"./shared/...",
	"./servidor/...",
	"./cliente/internal/assets/...",
	"./cliente/internal/camera/...",
	"./cliente/internal/client/...",
	"./cliente/internal/shading/...",
}

func main() {
	runTests := flag.Bool("test", false, "Rodar os testes antes de compilar")
	noPause := flag.Bool("no-pause", false, "Não esperar Enter no final")
	flag.Parse()

	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║      VoxelVision Native Builder      ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	start := time.Now()

	// 1. Configurar Ambiente
	setupEnvironment()

	if *runTests {
		if err := runGoTests(); err != nil {
			fatal(err)
		}
	}

	// 2. Servidor (CGO por causa do SQLite)
	if err := buildComponent("SERVIDOR (CGO)", "servidor", "servidor/"+exe("server"), true, staticFlags("")); err != nil {
		fatal(err)
	}

	// 3. Cliente
	guiFlag := ""
	if runtime.GOOS == "windows" {
		guiFlag = " -H=windowsgui"
	}
	if err := buildComponent("CLIENTE (CGO + GUI)", "cliente", "cliente/"+exe("client"), true, staticFlags(guiFlag)); err != nil {
		fatal(err)
	}

	// 4. Launcher
	if err := buildComponent("LAUNCHER (Pure Go)", "launcher", exe("VoxelVision"), false, "-s -w"); err != nil {
		fatal(err)
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
	fmt.Printf(ColorYellow+"Dica: Execute o '%s' para abrir servidor e cliente."+ColorReset+"\n", exe("VoxelVision"))

	if !*noPause {
		fmt.Println("\nPressione Enter para sair...")
		fmt.Scanln()
	}
}

func exe(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// staticFlags liga o binário estaticamente só no Windows (MSYS2); no Linux o raylib usa libs do sistema.
func staticFlags(extra string) string {
	if runtime.GOOS == "windows" {
		return "-extldflags=-static -s -w" + extra
	}
	return "-s -w" + extra
}

func runGoTests() error {
	fmt.Println(ColorYellow + "\n[+] Rodando testes..." + ColorReset)
	os.Setenv("CGO_ENABLED", "1")
	args := append([]string{"test", "-count=1"}, testPackages...)
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha nos testes: %w", err)
	}
	fmt.Println(ColorGreen + "  - Testes OK" + ColorReset)
	return nil
}

func setupEnvironment() {
	fmt.Println(ColorYellow + "\n[0/3] Configurando ambiente de compilação..." + ColorReset)

	// Adicionar MSYS2 ao PATH se estiver no Windows
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		currentPath := os.Getenv("PATH")
		if !strings.Contains(currentPath, msysPath) {
			os.Setenv("PATH", msysPath+";"+currentPath)
			fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
		}
		os.Setenv("CC", "gcc")
		fmt.Println("  - Compilador C: gcc (MSYS2)")
	}
}

func buildComponent(name, dir, output string, useCgo bool, ldflags string) error {
	fmt.Printf(ColorYellow+"\n[+] Compilando %s..."+ColorReset+"\n", name)

	cgoValue := "0"
	if useCgo {
		cgoValue = "1"
	}
	os.Setenv("CGO_ENABLED", cgoValue)

	args := []string{"build", "-ldflags", ldflags, "-o", output, "./" + dir}
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha ao compilar %s: %w", name, err)
	}

	fmt.Printf(ColorGreen+"  - %s compilado com sucesso -> %s"+ColorReset+"\n", name, output)
	return nil
}

func fatal(err error) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	fmt.Println("Pressione Enter para sair...")
	fmt.Scanln()
	os.Exit(1)
}
