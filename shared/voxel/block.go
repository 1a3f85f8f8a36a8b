package voxel

// BlockType identifica o tipo de um voxel.
// O valor precisa caber em 7 bits (campo do vértice empacotado).
type BlockType uint8

const (
	BlockAir BlockType = iota
	BlockGrass
	BlockDirt
	BlockStone
	BlockSand
	BlockWater
	BlockWood
	BlockLeaves
	BlockSnow
	BlockBedrock

	blockTypeCount
)

// MaxBlockType é o maior id representável no vértice empacotado.
const MaxBlockType BlockType = 127

var blockNames = [...]string{
	BlockAir:     "air",
	BlockGrass:   "grass",
	BlockDirt:    "dirt",
	BlockStone:   "stone",
	BlockSand:    "sand",
	BlockWater:   "water",
	BlockWood:    "wood",
	BlockLeaves:  "leaves",
	BlockSnow:    "snow",
	BlockBedrock: "bedrock",
}

// IsSolid indica se o bloco ocupa a célula para culling e AO.
func (b BlockType) IsSolid() bool {
	return b != BlockAir
}

// Valid indica se o tipo é conhecido.
func (b BlockType) Valid() bool {
	return b < blockTypeCount
}

func (b BlockType) String() string {
	if b.Valid() {
		return blockNames[b]
	}
	return "unknown"
}

// ParseBlockType converte um nome ("stone") em BlockType.
func ParseBlockType(name string) (BlockType, bool) {
	for i, n := range blockNames {
		if n == name {
			return BlockType(i), true
		}
	}
	return BlockAir, false
}

// BlockData são os atributos de um voxel.
type BlockData struct {
	BlockType BlockType
}

// Air é o voxel vazio, retornado para qualquer posição desconhecida.
var Air = BlockData{BlockType: BlockAir}

// Block cria um BlockData para o tipo dado.
func Block(t BlockType) BlockData {
	return BlockData{BlockType: t}
}
