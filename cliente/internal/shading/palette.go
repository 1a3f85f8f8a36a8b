package shading

import (
	"image/color"

	"VoxelVision/cliente/internal/assets"
	"VoxelVision/shared/meshing"
	"VoxelVision/shared/voxel"
)

// aoCurve é o brilho de um vértice pelo número de vizinhos sólidos no canto (0..3).
var aoCurve = [4]float32{1.0, 0.78, 0.6, 0.45}

// faceLight simula um sol fixo: topo claro, fundo escuro.
var faceLight = [6]float32{
	meshing.FaceDown:    0.55,
	meshing.FaceUp:      1.0,
	meshing.FaceLeft:    0.8,
	meshing.FaceRight:   0.8,
	meshing.FaceForward: 0.68,
	meshing.FaceBack:    0.68,
}

// Palette combina as cores do assets.Manager com a iluminação por face e o AO.
type Palette struct {
	Colors    *assets.Manager
	DisableAO bool
}

func NewPalette(colors *assets.Manager, disableAO bool) *Palette {
	return &Palette{Colors: colors, DisableAO: disableAO}
}

// AOFactor retorna o brilho de um valor de AO de vértice.
func AOFactor(ao uint32) float32 {
	if ao > 3 {
		ao = 3
	}
	return aoCurve[ao]
}

// Shade retorna a cor final de um vértice.
func (p *Palette) Shade(b voxel.BlockType, face meshing.FaceDir, ao uint32) color.RGBA {
	base := p.Colors.Color(b, face)
	k := faceLight[face]
	if !p.DisableAO {
		k *= AOFactor(ao)
	}
	return color.RGBA{
		R: scale(base.R, k),
		G: scale(base.G, k),
		B: scale(base.B, k),
		A: base.A,
	}
}

func scale(c uint8, k float32) uint8 {
	v := float32(c)*k + 0.5
	if v > 255 {
		return 255
	}
	return uint8(v)
}
