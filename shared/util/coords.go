package util

import (
	"fmt"
)

// IVec3 representa uma coordenada inteira no espaço de voxels.
// X = leste/oeste, Y = vertical, Z = norte/sul
type IVec3 struct {
	X, Y, Z int32
}

// NewIVec3 cria uma nova coordenada.
func NewIVec3(x, y, z int32) IVec3 {
	return IVec3{X: x, Y: y, Z: z}
}

// Ones é o vetor (1, 1, 1).
var Ones = IVec3{X: 1, Y: 1, Z: 1}

// Add soma duas coordenadas.
func (c IVec3) Add(other IVec3) IVec3 {
	return IVec3{
		X: c.X + other.X,
		Y: c.Y + other.Y,
		Z: c.Z + other.Z,
	}
}

// Sub subtrai duas coordenadas.
func (c IVec3) Sub(other IVec3) IVec3 {
	return IVec3{
		X: c.X - other.X,
		Y: c.Y - other.Y,
		Z: c.Z - other.Z,
	}
}

// Scale multiplica todos os componentes por s.
func (c IVec3) Scale(s int32) IVec3 {
	return IVec3{X: c.X * s, Y: c.Y * s, Z: c.Z * s}
}

// String retorna a representação em string da coordenada.
func (c IVec3) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// FloorDiv divide arredondando para baixo (também para negativos).
func FloorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod é o resto sempre positivo correspondente a FloorDiv.
func FloorMod(a, b int32) int32 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// ChunkCoord retorna a coordenada do chunk (em unidades de chunk) que contém esta posição.
func (c IVec3) ChunkCoord(size int32) IVec3 {
	return IVec3{
		X: FloorDiv(c.X, size),
		Y: FloorDiv(c.Y, size),
		Z: FloorDiv(c.Z, size),
	}
}

// LocalCoord retorna a coordenada local dentro do chunk (0..size-1).
func (c IVec3) LocalCoord(size int32) IVec3 {
	return IVec3{
		X: FloorMod(c.X, size),
		Y: FloorMod(c.Y, size),
		Z: FloorMod(c.Z, size),
	}
}

// DistSq é a distância euclidiana ao quadrado entre duas coordenadas.
func (c IVec3) DistSq(other IVec3) int32 {
	d := c.Sub(other)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// Chebyshev é a maior diferença entre os eixos (distância em "anéis" de cubo).
func (c IVec3) Chebyshev(other IVec3) int32 {
	d := c.Sub(other)
	return max(Abs(d.X), Abs(d.Y), Abs(d.Z))
}

// Neighbors26 lista os deslocamentos dos 26 vizinhos de uma célula (sem o centro).
func Neighbors26() []IVec3 {
	out := make([]IVec3, 0, 26)
	for z := int32(-1); z <= 1; z++ {
		for y := int32(-1); y <= 1; y++ {
			for x := int32(-1); x <= 1; x++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				out = append(out, IVec3{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}
