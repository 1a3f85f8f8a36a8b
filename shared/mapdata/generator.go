package mapdata

import (
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"
)

// Parâmetros do relevo (em voxels).
const (
	BedrockLevel int32 = -64
	SeaLevel     int32 = 12
	baseHeight   int32 = 16
	snowLevel    int32 = 40

	treeChance  = 61 // 1 em treeChance colunas de grama recebe uma árvore
	trunkHeight = 4
	leafRadius  = 2
)

// Generator produz chunks de terreno a partir de uma seed.
// A saída depende apenas da seed e das coordenadas globais, então chunks vizinhos
// gerados em qualquer ordem sempre se encaixam.
type Generator struct {
	Seed uint32
}

// NewGenerator cria um gerador para a seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{Seed: uint32(seed) ^ uint32(seed>>32)}
}

// hash32 mistura 32 bits de entrada com avalanche no estilo do finalizador Murmur.
func hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// hash2 é um hash estável para coordenadas 2D + seed.
func hash2(seed uint32, x, z int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(z) * 0x85ebca6b
	return hash32(h)
}

// valueNoise2 interpola valores aleatórios de uma grade de passo `cell`. Saída em [0, 1).
func valueNoise2(seed uint32, x, z, cell int32) float32 {
	cx, cz := util.FloorDiv(x, cell), util.FloorDiv(z, cell)
	tx := smooth(float32(util.FloorMod(x, cell)) / float32(cell))
	tz := smooth(float32(util.FloorMod(z, cell)) / float32(cell))

	v00 := unit(hash2(seed, cx, cz))
	v10 := unit(hash2(seed, cx+1, cz))
	v01 := unit(hash2(seed, cx, cz+1))
	v11 := unit(hash2(seed, cx+1, cz+1))

	return util.Lerp(util.Lerp(v00, v10, tx), util.Lerp(v01, v11, tx), tz)
}

func smooth(t float32) float32 {
	return t * t * (3 - 2*t)
}

func unit(h uint32) float32 {
	return float32(h>>8) / float32(1<<24)
}

// Height retorna a altura do terreno (último voxel sólido) na coluna (x, z).
func (g *Generator) Height(x, z int32) int32 {
	n := valueNoise2(g.Seed, x, z, 64)*28 +
		valueNoise2(g.Seed^0x5bd1e995, x, z, 24)*10 +
		valueNoise2(g.Seed^0x27d4eb2f, x, z, 8)*3
	return baseHeight + int32(n) - 16
}

// hasTree indica se a coluna recebe uma árvore.
func (g *Generator) hasTree(x, z int32) bool {
	h := g.Height(x, z)
	if h <= SeaLevel || h >= snowLevel {
		return false
	}
	return hash2(g.Seed^0x68e31da4, x, z)%treeChance == 0
}

// surfaceBlock escolhe o bloco da superfície de acordo com a altura.
func surfaceBlock(h int32) voxel.BlockType {
	switch {
	case h >= snowLevel:
		return voxel.BlockSnow
	case h <= SeaLevel+1:
		return voxel.BlockSand
	default:
		return voxel.BlockGrass
	}
}

// columnBlock devolve o bloco na altura y de uma coluna de altura h (sem árvores).
func columnBlock(y, h int32) voxel.BlockType {
	switch {
	case y <= BedrockLevel:
		return voxel.BlockBedrock
	case y > h:
		if y <= SeaLevel {
			return voxel.BlockWater
		}
		return voxel.BlockAir
	case y == h:
		return surfaceBlock(h)
	case y >= h-3:
		if h <= SeaLevel+1 {
			return voxel.BlockSand
		}
		return voxel.BlockDirt
	default:
		return voxel.BlockStone
	}
}

// GenerateChunk gera os voxels do chunk na coordenada (em unidades de chunk).
// Chunks inteiramente acima do terreno ou abaixo dele saem no formato compacto.
func (g *Generator) GenerateChunk(coord util.IVec3) *voxel.ChunkData {
	const size = voxel.ChunkSize
	origin := coord.Scale(size)
	bottom, top := origin.Y, origin.Y+size-1

	if top <= BedrockLevel {
		return voxel.NewUniformChunk(voxel.Block(voxel.BlockBedrock))
	}

	var heights [size][size]int32
	minH, maxH := int32(1<<30), int32(-1<<30)
	for z := int32(0); z < size; z++ {
		for x := int32(0); x < size; x++ {
			h := g.Height(origin.X+x, origin.Z+z)
			heights[z][x] = h
			minH = min(minH, h)
			maxH = max(maxH, h)
		}
	}

	// Copas de árvores vizinhas podem passar da altura máxima das colunas do chunk.
	if bottom > max(maxH, SeaLevel)+trunkHeight+leafRadius+8 {
		return voxel.NewUniformChunk(voxel.Air)
	}
	if top < minH-3 && bottom > BedrockLevel {
		return voxel.NewUniformChunk(voxel.Block(voxel.BlockStone))
	}

	chunk := voxel.NewFilledChunk()
	for z := int32(0); z < size; z++ {
		for x := int32(0); x < size; x++ {
			h := heights[z][x]
			for y := int32(0); y < size; y++ {
				if b := columnBlock(bottom+y, h); b != voxel.BlockAir {
					chunk.Voxels[voxel.VoxelIndex(int(x), int(y), int(z))] = voxel.Block(b)
				}
			}
		}
	}

	g.placeTrees(chunk, origin)
	chunk.Compact()
	return chunk
}

// placeTrees desenha as árvores cujas copas alcançam o chunk, inclusive as
// plantadas em colunas de chunks vizinhos.
func (g *Generator) placeTrees(chunk *voxel.ChunkData, origin util.IVec3) {
	const size = voxel.ChunkSize
	put := func(pos util.IVec3, b voxel.BlockType, replace bool) {
		local := pos.Sub(origin)
		if local.X < 0 || local.Y < 0 || local.Z < 0 || local.X >= size || local.Y >= size || local.Z >= size {
			return
		}
		cur := chunk.Get(int(local.X), int(local.Y), int(local.Z))
		if cur.BlockType != voxel.BlockAir && !replace {
			return
		}
		chunk.Set(int(local.X), int(local.Y), int(local.Z), voxel.Block(b))
	}

	for tz := origin.Z - leafRadius; tz < origin.Z+size+leafRadius; tz++ {
		for tx := origin.X - leafRadius; tx < origin.X+size+leafRadius; tx++ {
			if !g.hasTree(tx, tz) {
				continue
			}
			base := g.Height(tx, tz)
			crown := base + trunkHeight
			if crown+leafRadius < origin.Y || base+1 >= origin.Y+size {
				continue
			}

			for dy := int32(-1); dy <= leafRadius; dy++ {
				r := int32(leafRadius)
				if dy == leafRadius {
					r = 1
				}
				for dz := -r; dz <= r; dz++ {
					for dx := -r; dx <= r; dx++ {
						if util.Abs(dx) == r && util.Abs(dz) == r && r > 1 {
							continue
						}
						put(util.NewIVec3(tx+dx, crown+dy, tz+dz), voxel.BlockLeaves, false)
					}
				}
			}
			for y := base + 1; y <= crown; y++ {
				put(util.NewIVec3(tx, y, tz), voxel.BlockWood, true)
			}
		}
	}
}
