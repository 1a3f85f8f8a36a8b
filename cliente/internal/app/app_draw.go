package app

import (
	"fmt"
	"log"

	"VoxelVision/cliente/internal/render"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const appTitle = "VoxelVision v0.1.0 - Alpha"

var (
	panelColor   = rl.NewColor(30, 30, 35, 255)
	overlayColor = rl.NewColor(0, 0, 0, 150)
	dividerColor = rl.NewColor(100, 100, 100, 100)
)

// hudLine é uma linha do painel de debug. Linhas com separator só desenham um traço.
type hudLine struct {
	text      string
	size      int32
	color     rl.Color
	separator bool
}

// draw renderiza o frame.
func (a *App) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(a.renderer.FogColor)

	if a.Loading {
		a.drawLoadingScreen()
		return
	}

	drawn := a.drawScene()
	a.drawHUD(drawn)
	if a.State == StatePaused {
		a.drawPauseMenu()
	}
}

// drawScene renderiza a cena 3D e retorna quantos chunks foram desenhados.
func (a *App) drawScene() int {
	cam := render.Camera3D(a.Cam.View())
	rl.BeginMode3D(cam)
	defer rl.EndMode3D()

	drawn := a.renderer.Draw(cam, a.centerChunk, a.Config.DrawRadius)
	if a.SelectedBlock != nil {
		a.renderer.DrawSelection(*a.SelectedBlock)
	}
	return drawn
}

// drawHUD desenha a mira e, com F3, o painel de debug.
func (a *App) drawHUD(drawn int) {
	cx, cy := int32(rl.GetScreenWidth()/2), int32(rl.GetScreenHeight()/2)
	rl.DrawLine(cx-6, cy, cx+6, cy, rl.White)
	rl.DrawLine(cx, cy-6, cx, cy+6, rl.White)

	if !a.Config.ShowDebugInfo {
		return
	}

	const panelW = int32(340)
	x := int32(rl.GetScreenWidth()) - panelW - 10
	y := int32(10)

	lines := a.hudLines(drawn)
	panelH := int32(10)
	for _, l := range lines {
		panelH += l.height()
	}
	rl.DrawRectangle(x, y, panelW, panelH, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, panelW, panelH, rl.NewColor(50, 50, 50, 255))

	// Estado da conexão no canto do painel, ao lado do FPS.
	status, statusColor := "Offline", rl.Red
	if a.netClient != nil && a.netClient.IsConnected() {
		status, statusColor = "Conectado", rl.Green
	}
	rl.DrawText(status, x+panelW-rl.MeasureText(status, 20)-10, y+10, 20, statusColor)

	cursor := y + 10
	for _, l := range lines {
		if l.separator {
			rl.DrawLine(x+10, cursor+4, x+panelW-10, cursor+4, dividerColor)
		} else {
			rl.DrawText(l.text, x+10, cursor, l.size, l.color)
		}
		cursor += l.height()
	}

	titleW := rl.MeasureText(appTitle, 18)
	rl.DrawText(appTitle, int32(rl.GetScreenWidth())-titleW-20, int32(rl.GetScreenHeight())-30,
		18, rl.NewColor(200, 200, 200, 150))
}

func (l hudLine) height() int32 {
	if l.separator {
		return 10
	}
	return l.size + 4
}

// hudLines monta o conteúdo do painel de debug.
func (a *App) hudLines(drawn int) []hudLine {
	fps := rl.GetFPS()
	fpsColor := rl.Green
	switch {
	case fps < 30:
		fpsColor = rl.Red
	case fps < 50:
		fpsColor = rl.Yellow
	}

	look := a.Cam.CurrentLookAt
	chunks, quads := a.renderer.Stats()

	a.statusMu.Lock()
	server := fmt.Sprintf("Servidor: %d chunks, %d pendentes", a.ServerChunks, a.ServerPending)
	serverMsg := a.ServerMessage
	a.statusMu.Unlock()

	selected := "-"
	if a.SelectedBlock != nil {
		selected = a.SelectedBlock.String()
	}
	toggles := "F4: Wireframe | F11: Tela Cheia | F3: HUD"
	if a.Config.WireframeMode {
		toggles += " [WIREFRAME ON]"
	}

	lines := []hudLine{
		{text: fmt.Sprintf("FPS: %d", fps), size: 20, color: fpsColor},
		{separator: true},
		{text: "LOCALIZAÇÃO", size: 12, color: rl.Gray},
		{text: fmt.Sprintf("Alvo: (%.1f, %.1f, %.1f)", look.X(), look.Y(), look.Z()), size: 16, color: rl.White},
		{text: fmt.Sprintf("Chunk: %v  Raio: %d", a.centerChunk, a.Config.DrawRadius), size: 14, color: rl.LightGray},
		{separator: true},
		{text: fmt.Sprintf("Chunks na GPU: %d (desenhados: %d)", chunks, drawn), size: 14, color: rl.LightGray},
		{text: fmt.Sprintf("Quads: %d  Fila: %d", quads, len(a.meshQueue)), size: 14, color: rl.LightGray},
		{text: server, size: 14, color: rl.LightGray},
	}
	if serverMsg != "" {
		lines = append(lines, hudLine{text: serverMsg, size: 14, color: rl.Gold})
	}
	return append(lines,
		hudLine{separator: true},
		hudLine{text: fmt.Sprintf("Mira: %s  Colocar: %s", selected, a.PlaceBlock), size: 14, color: rl.White},
		hudLine{text: "WASD/QE: Mover | Alt/Meio: Girar | 1-8: Bloco", size: 14, color: rl.LightGray},
		hudLine{text: toggles, size: 14, color: rl.SkyBlue},
	)
}

// drawPauseMenu desenha o menu de pausa no centro da tela.
func (a *App) drawPauseMenu() {
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, sw, sh, overlayColor)

	const menuW, menuH = int32(400), int32(300)
	mx, my := (sw-menuW)/2, (sh-menuH)/2
	rl.DrawRectangle(mx, my, menuW, menuH, panelColor)
	rl.DrawRectangleLines(mx, my, menuW, menuH, rl.White)
	centerText("PAUSADO", mx, menuW, my+30, 24, rl.Gold)

	aoLabel := "AO: LIGADO"
	if a.renderer.Palette.DisableAO {
		aoLabel = "AO: DESLIGADO"
	}

	buttons := []struct {
		label  string
		color  rl.Color
		action func()
	}{
		{"RETOMAR (ESC)", rl.Green, func() { a.State = StateViewing }},
		{aoLabel, rl.Gray, func() {
			// Vale para as próximas malhas recebidas.
			a.renderer.Palette.DisableAO = !a.renderer.Palette.DisableAO
			a.Config.DisableAO = a.renderer.Palette.DisableAO
		}},
		{"SAIR", rl.Red, func() {
			log.Println("[App] Encerrando pelo menu de pausa.")
			a.quitting = true
		}},
	}
	for i, b := range buttons {
		by := my + 90 + int32(i)*55
		if button(mx+50, by, menuW-100, 40, b.label, b.color) {
			b.action()
		}
	}
}

// button desenha um botão com destaque sob o mouse e retorna true no clique.
func button(x, y, w, h int32, label string, color rl.Color) bool {
	hover := rl.CheckCollisionPointRec(rl.GetMousePosition(),
		rl.NewRectangle(float32(x), float32(y), float32(w), float32(h)))

	border := color
	if hover {
		border = rl.White
	}
	rl.DrawRectangle(x, y, w, h, rl.NewColor(50, 50, 50, 255))
	rl.DrawRectangleLines(x, y, w, h, border)
	centerText(label, x, w, y+(h-18)/2, 18, rl.White)

	return hover && rl.IsMouseButtonPressed(rl.MouseLeftButton)
}

// centerText desenha text centralizado na faixa horizontal [x, x+w).
func centerText(text string, x, w, y, size int32, color rl.Color) {
	rl.DrawText(text, x+(w-rl.MeasureText(text, size))/2, y, size, color)
}

// drawLoadingScreen mostra o progresso da região inicial.
func (a *App) drawLoadingScreen() {
	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, sw, sh, rl.NewColor(20, 20, 25, 255))
	centerText("VOXELVISION", 0, sw, sh/2-60, 40, rl.Gold)

	const barW, barH = int32(400), int32(30)
	bx, by := (sw-barW)/2, sh/2+20
	filled := int32(float32(barW) * min(a.LoadingProgress, 1))
	rl.DrawRectangle(bx, by, barW, barH, rl.DarkGray)
	rl.DrawRectangle(bx, by, filled, barH, rl.Orange)
	rl.DrawRectangleLines(bx, by, barW, barH, rl.White)

	a.statusMu.Lock()
	status := a.LoadingStatus
	a.statusMu.Unlock()
	centerText(status, 0, sw, by+45, 18, rl.LightGray)
	centerText("Pressione ESPAÇO para entrar imediatamente.", 0, sw, sh-50, 16, rl.Gray)
}
