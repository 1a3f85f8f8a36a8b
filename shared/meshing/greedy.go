package meshing

import "math/bits"

// GreedyQuad é um retângulo de faces fundidas dentro de um plano binário.
// X é a linha inicial, Y o bit inicial, W o número de linhas e H o número de bits.
type GreedyQuad struct {
	X, Y, W, H uint32
}

// runMask retorna h bits ligados (h pode ser 32).
func runMask(h uint32) uint32 {
	if h >= 32 {
		return ^uint32(0)
	}
	return 1<<h - 1
}

// GreedyMeshBinaryPlane funde os bits do plano em retângulos disjuntos.
//
// Em cada linha, pula o vazio com trailing zeros e mede a altura h do trecho com
// trailing ones. Depois expande para as linhas seguintes enquanto o mesmo intervalo
// de bits estiver inteiramente ligado, limpando esses bits para não reaproveitá-los.
// A largura é maximizada primeiro; a altura é a do trecho inicial e não é revista.
//
// data é recebido por valor: o plano do chamador não é alterado.
func GreedyMeshBinaryPlane(data [chunkSize]uint32, size uint32) []GreedyQuad {
	if size > chunkSize {
		size = chunkSize
	}

	var quads []GreedyQuad
	for row := uint32(0); row < size; row++ {
		y := uint32(0)
		for y < size {
			y += uint32(bits.TrailingZeros32(data[row] >> y))
			if y >= size {
				break
			}

			h := uint32(bits.TrailingZeros32(^(data[row] >> y)))
			if y+h > size {
				h = size - y
			}
			hMask := runMask(h)
			mask := hMask << y

			w := uint32(1)
			for row+w < size {
				next := (data[row+w] >> y) & hMask
				if next != hMask {
					break
				}
				data[row+w] &^= mask
				w++
			}

			quads = append(quads, GreedyQuad{X: row, Y: y, W: w, H: h})
			y += h
		}
	}
	return quads
}
