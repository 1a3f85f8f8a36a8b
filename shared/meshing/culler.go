package meshing

// faceMasks guarda, por direção de face, as colunas com os bits das faces visíveis.
// Mesmo layout de índices de axisCols (direção 2*eixo e 2*eixo+1).
type faceMasks [6][chunkSizeP][chunkSizeP]uint64

// cullFaces detecta as transições sólido→ar em cada coluna.
//
//	descendente: col &^ (col << 1)  sólido com ar no índice anterior
//	ascendente:  col &^ (col >> 1)  sólido com ar no índice seguinte
func cullFaces(cols *axisCols) *faceMasks {
	masks := &faceMasks{}
	for axis := 0; axis < 3; axis++ {
		for z := 0; z < chunkSizeP; z++ {
			for x := 0; x < chunkSizeP; x++ {
				col := cols[axis][z][x]
				masks[2*axis][z][x] = col &^ (col << 1)
				masks[2*axis+1][z][x] = col &^ (col >> 1)
			}
		}
	}
	return masks
}

// stripPadding remove os bits de borda (0 e 33) e devolve a coluna em
// coordenadas locais do chunk (bits 0..31).
func stripPadding(col uint64) uint64 {
	col >>= 1
	col &^= 1 << chunkSize
	return col
}
