package voxel

import "fmt"

const (
	// ChunkSize é o lado de um chunk em voxels.
	ChunkSize = 32
	// ChunkSizeP é o lado do grid com borda de 1 voxel de cada vizinho.
	ChunkSizeP  = ChunkSize + 2
	ChunkSizeP2 = ChunkSizeP * ChunkSizeP
	ChunkSizeP3 = ChunkSizeP * ChunkSizeP * ChunkSizeP

	// ChunkVolume é o número de voxels de um chunk completo.
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// ChunkData armazena os voxels de um chunk.
// Voxels tem ChunkVolume elementos (x varia mais rápido) ou exatamente 1,
// quando o chunk inteiro é preenchido pelo mesmo voxel.
type ChunkData struct {
	Voxels []BlockData
}

// VoxelIndex converte uma coordenada local (0..31) no índice linear de Voxels.
func VoxelIndex(x, y, z int) int {
	return (z*ChunkSize+y)*ChunkSize + x
}

// NewUniformChunk cria um chunk compacto preenchido com b.
func NewUniformChunk(b BlockData) *ChunkData {
	return &ChunkData{Voxels: []BlockData{b}}
}

// NewFilledChunk cria um chunk completo (32³ voxels) preenchido com ar.
func NewFilledChunk() *ChunkData {
	return &ChunkData{Voxels: make([]BlockData, ChunkVolume)}
}

// IsUniform indica se o chunk está no formato compacto de 1 voxel.
func (c *ChunkData) IsUniform() bool {
	return len(c.Voxels) == 1
}

// Validate verifica o contrato de tamanho do armazenamento.
func (c *ChunkData) Validate() error {
	if n := len(c.Voxels); n != 1 && n != ChunkVolume {
		return fmt.Errorf("chunk com %d voxels (esperado 1 ou %d)", n, ChunkVolume)
	}
	return nil
}

// Get retorna o voxel na coordenada local.
func (c *ChunkData) Get(x, y, z int) BlockData {
	if c.IsUniform() {
		return c.Voxels[0]
	}
	return c.Voxels[VoxelIndex(x, y, z)]
}

// Set altera o voxel na coordenada local, expandindo o formato compacto se necessário.
func (c *ChunkData) Set(x, y, z int, b BlockData) {
	if c.IsUniform() {
		if c.Voxels[0] == b {
			return
		}
		fill := c.Voxels[0]
		c.Voxels = make([]BlockData, ChunkVolume)
		for i := range c.Voxels {
			c.Voxels[i] = fill
		}
	}
	c.Voxels[VoxelIndex(x, y, z)] = b
}

// Clone cria uma cópia profunda (usada pelo copy-on-write do store).
func (c *ChunkData) Clone() *ChunkData {
	out := &ChunkData{Voxels: make([]BlockData, len(c.Voxels))}
	copy(out.Voxels, c.Voxels)
	return out
}

// Compact volta ao formato de 1 voxel se todos os voxels forem iguais.
// Retorna true se o chunk foi compactado.
func (c *ChunkData) Compact() bool {
	if len(c.Voxels) <= 1 {
		return false
	}
	first := c.Voxels[0]
	for _, v := range c.Voxels[1:] {
		if v != first {
			return false
		}
	}
	c.Voxels = []BlockData{first}
	return true
}
