package camera

import (
	"math"

	"VoxelVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode define o tipo de projeção estritamente.
type Mode int

const (
	ModePerspective Mode = iota
	ModeOrthographic
)

// Input é o estado dos controles num frame. A aplicação preenche a partir do Raylib.
type Input struct {
	Forward, Back, Left, Right bool
	Up, Down                   bool // Q / E
	Wheel                      float32
	MouseDelta                 mgl32.Vec2
	Rotating                   bool // botão de órbita pressionado
}

// View é o que o renderer precisa para montar a câmera do frame.
type View struct {
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	Fovy       float32
	Orthogonal bool
}

// CameraController gerencia a lógica de movimentação e projeção da câmera.
// Órbita em volta de um ponto de interesse, com movimento suave.
type CameraController struct {
	// Configurações
	Mode         Mode
	FOV          float32
	MinZoom      float32
	MaxZoom      float32
	MoveSpeed    float32
	RotateSpeed  float32 // radianos por pixel de mouse
	ZoomSpeed    float32
	SmoothFactor float32 // 0.0 a 1.0 (quanto menor, mais suave/lento)

	// Estado Alvo (para interpolação suave)
	TargetLookAt mgl32.Vec3
	TargetZoom   float32
	AngleY       float32 // azimute (radianos)
	AngleX       float32 // elevação (radianos, negativo olha para baixo)

	// Estado Atual (interpolado)
	CurrentLookAt mgl32.Vec3
	CurrentZoom   float32

	position mgl32.Vec3
}

const (
	maxElevation = -5.0 * math.Pi / 180
	minElevation = -89.0 * math.Pi / 180
)

// New cria um novo controlador de câmera.
func New(fov, moveSpeed, sensitivity float32) *CameraController {
	c := &CameraController{
		Mode:         ModePerspective,
		FOV:          fov,
		MinZoom:      5.0,
		MaxZoom:      200.0,
		MoveSpeed:    moveSpeed,
		RotateSpeed:  sensitivity,
		ZoomSpeed:    10.0,
		SmoothFactor: 0.1,

		TargetZoom: 50.0,
		AngleY:     45.0 * math.Pi / 180,
		AngleX:     -30.0 * math.Pi / 180,
	}
	c.CurrentLookAt = c.TargetLookAt
	c.CurrentZoom = c.TargetZoom
	c.updatePosition()
	return c
}

// SetTarget move o ponto de interesse imediatamente (sem suavização).
func (c *CameraController) SetTarget(pos mgl32.Vec3) {
	c.TargetLookAt = pos
	c.CurrentLookAt = pos
	c.updatePosition()
}

// HandleInput aplica os controles do frame aos alvos. Retorna true se houve movimento.
func (c *CameraController) HandleInput(in Input, dt float32) bool {
	moved := false

	if in.Wheel != 0 {
		moved = true
		c.TargetZoom = mgl32.Clamp(c.TargetZoom-in.Wheel*c.ZoomSpeed, c.MinZoom, c.MaxZoom)
	}

	if in.Rotating && (in.MouseDelta.X() != 0 || in.MouseDelta.Y() != 0) {
		moved = true
		c.AngleY -= in.MouseDelta.X() * c.RotateSpeed
		c.AngleX = mgl32.Clamp(c.AngleX-in.MouseDelta.Y()*c.RotateSpeed, minElevation, maxElevation)
	}

	// Frente e direita projetados no plano XZ (chão)
	forward := c.CurrentLookAt.Sub(c.position)
	forward[1] = 0
	if forward.Len() < 1e-6 {
		forward = mgl32.Vec3{0, 0, -1}
	}
	forward = forward.Normalize()
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()

	var move mgl32.Vec3
	if in.Forward {
		move = move.Add(forward)
	}
	if in.Back {
		move = move.Sub(forward)
	}
	if in.Right {
		move = move.Add(right)
	}
	if in.Left {
		move = move.Sub(right)
	}
	if in.Up {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if in.Down {
		move = move.Sub(mgl32.Vec3{0, 1, 0})
	}

	if move.Len() > 0 {
		// Quanto mais longe, mais rápido.
		speed := c.MoveSpeed * (c.CurrentZoom / 50.0) * dt
		c.TargetLookAt = c.TargetLookAt.Add(move.Normalize().Mul(speed))
		moved = true
	}
	return moved
}

// Update interpola o estado atual em direção aos alvos.
// Deve ser chamado a cada frame.
func (c *CameraController) Update(dt float32) {
	factor := c.SmoothFactor * 60.0 * dt // normaliza para 60 FPS
	if factor > 1.0 {
		factor = 1.0
	}
	c.CurrentLookAt = c.CurrentLookAt.Add(c.TargetLookAt.Sub(c.CurrentLookAt).Mul(factor))
	c.CurrentZoom = util.Lerp(c.CurrentZoom, c.TargetZoom, factor)
	c.updatePosition()
}

// updatePosition converte ângulos e zoom em posição (coordenadas esféricas).
func (c *CameraController) updatePosition() {
	dist := c.CurrentZoom
	if c.Mode == ModeOrthographic {
		// O zoom vira escala; a câmera fica longe para não cortar a geometria.
		dist = 200.0
	}

	cosX := float32(math.Cos(float64(c.AngleX)))
	sinX := float32(math.Sin(float64(c.AngleX)))
	cosY := float32(math.Cos(float64(c.AngleY)))
	sinY := float32(math.Sin(float64(c.AngleY)))

	offset := mgl32.Vec3{dist * cosX * sinY, dist * -sinX, dist * cosX * cosY}
	c.position = c.CurrentLookAt.Add(offset)
}

// SetMode alterna entre Perspectiva e Ortográfica.
func (c *CameraController) SetMode(mode Mode) {
	c.Mode = mode
	c.updatePosition()
}

// View retorna a câmera do frame.
func (c *CameraController) View() View {
	v := View{Position: c.position, Target: c.CurrentLookAt, Fovy: c.FOV}
	if c.Mode == ModeOrthographic {
		v.Fovy = c.CurrentZoom * 0.5
		v.Orthogonal = true
	}
	return v
}

// Position é a posição atual do olho.
func (c *CameraController) Position() mgl32.Vec3 {
	return c.position
}

// ChunkCoord é o chunk que contém o ponto de interesse.
func (c *CameraController) ChunkCoord(chunkSize int32) util.IVec3 {
	p := c.CurrentLookAt
	block := util.NewIVec3(
		int32(math.Floor(float64(p.X()))),
		int32(math.Floor(float64(p.Y()))),
		int32(math.Floor(float64(p.Z()))),
	)
	return block.ChunkCoord(chunkSize)
}
