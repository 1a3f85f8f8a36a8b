package camera

import (
	"testing"

	"VoxelVision/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewLooksDownAtTarget(t *testing.T) {
	c := New(70, 20, 0.003)
	v := c.View()
	if v.Target != (mgl32.Vec3{}) {
		t.Errorf("alvo inicial = %v, want origem", v.Target)
	}
	if v.Position.Y() <= 0 {
		t.Errorf("câmera deveria começar acima do alvo: %v", v.Position)
	}
	if d := v.Position.Sub(v.Target).Len(); mgl32.Abs(d-50) > 1e-3 {
		t.Errorf("distância = %v, want 50", d)
	}
	if v.Fovy != 70 || v.Orthogonal {
		t.Errorf("view = %+v", v)
	}
}

func TestHandleInputZoomClamps(t *testing.T) {
	c := New(70, 20, 0.003)
	tests := []struct {
		wheel float32
		want  float32
	}{
		{1, 40},
		{100, 5},
		{-100, 200},
	}
	for _, tt := range tests {
		if !c.HandleInput(Input{Wheel: tt.wheel}, 0.016) {
			t.Errorf("wheel %v deveria contar como movimento", tt.wheel)
		}
		if c.TargetZoom != tt.want {
			t.Errorf("wheel %v: zoom = %v, want %v", tt.wheel, c.TargetZoom, tt.want)
		}
	}
}

func TestHandleInputElevationClamp(t *testing.T) {
	c := New(70, 20, 0.01)
	c.HandleInput(Input{Rotating: true, MouseDelta: mgl32.Vec2{0, -10000}}, 0.016)
	if c.AngleX > maxElevation+1e-6 {
		t.Errorf("elevação %v passou do limite %v", c.AngleX, maxElevation)
	}
	c.HandleInput(Input{Rotating: true, MouseDelta: mgl32.Vec2{0, 10000}}, 0.016)
	if c.AngleX < minElevation-1e-6 {
		t.Errorf("elevação %v passou do limite %v", c.AngleX, minElevation)
	}

	before := c.AngleY
	if c.HandleInput(Input{MouseDelta: mgl32.Vec2{50, 0}}, 0.016) {
		t.Errorf("mouse sem botão não deveria girar")
	}
	if c.AngleY != before {
		t.Errorf("azimute mudou sem botão")
	}
}

func TestHandleInputMovesOnGround(t *testing.T) {
	c := New(70, 10, 0.003)
	if !c.HandleInput(Input{Forward: true}, 1) {
		t.Fatalf("W deveria mover")
	}
	moved := c.TargetLookAt
	if moved.Y() != 0 {
		t.Errorf("frente não deveria mudar a altura: %v", moved)
	}
	if d := moved.Len(); mgl32.Abs(d-10) > 1e-3 {
		t.Errorf("deslocamento = %v, want 10", d)
	}
	// A frente aponta para longe da câmera.
	toCam := c.Position().Sub(c.CurrentLookAt)
	if moved.Dot(toCam) >= 0 {
		t.Errorf("W andou em direção à câmera")
	}

	c.HandleInput(Input{Up: true}, 1)
	if c.TargetLookAt.Y() <= 0 {
		t.Errorf("Q deveria subir: %v", c.TargetLookAt)
	}

	if c.HandleInput(Input{}, 1) {
		t.Errorf("sem input não deveria mover")
	}
}

func TestUpdateConverges(t *testing.T) {
	c := New(70, 20, 0.003)
	c.TargetLookAt = mgl32.Vec3{64, 0, 0}
	c.Update(1) // fator saturado em 1
	if !c.CurrentLookAt.ApproxEqual(c.TargetLookAt) {
		t.Errorf("CurrentLookAt = %v, want %v", c.CurrentLookAt, c.TargetLookAt)
	}
	if got := c.View().Target; !got.ApproxEqual(c.TargetLookAt) {
		t.Errorf("View().Target = %v", got)
	}
}

func TestOrthographicView(t *testing.T) {
	c := New(70, 20, 0.003)
	c.SetMode(ModeOrthographic)
	v := c.View()
	if !v.Orthogonal || v.Fovy != 25 {
		t.Errorf("view ortográfica = %+v", v)
	}
	if d := v.Position.Sub(v.Target).Len(); mgl32.Abs(d-200) > 1e-2 {
		t.Errorf("distância ortográfica = %v, want 200", d)
	}
}

func TestChunkCoord(t *testing.T) {
	c := New(70, 20, 0.003)
	tests := []struct {
		target mgl32.Vec3
		want   util.IVec3
	}{
		{mgl32.Vec3{0, 0, 0}, util.NewIVec3(0, 0, 0)},
		{mgl32.Vec3{31.9, 32, -0.1}, util.NewIVec3(0, 1, -1)},
		{mgl32.Vec3{-33, 70, 100}, util.NewIVec3(-2, 2, 3)},
	}
	for _, tt := range tests {
		c.SetTarget(tt.target)
		if got := c.ChunkCoord(32); got != tt.want {
			t.Errorf("ChunkCoord(%v) = %v, want %v", tt.target, got, tt.want)
		}
	}
}
