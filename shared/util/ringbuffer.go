package util

// RingBuffer guarda os últimos N itens; ao encher, o mais antigo é sobrescrito.
// Não é seguro para uso concorrente.
type RingBuffer[T any] struct {
	entries []T
	mask    uint64
	next    uint64 // total de itens já inseridos
}

// NewRingBuffer cria um buffer com a capacidade dada (arredondada para potência de 2).
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	actualCap := nextPowerOfTwo(capacity)
	return &RingBuffer[T]{
		entries: make([]T, actualCap),
		mask:    uint64(actualCap - 1),
	}
}

// Push adiciona um item, descartando o mais antigo se o buffer estiver cheio.
func (r *RingBuffer[T]) Push(item T) {
	r.entries[r.next&r.mask] = item
	r.next++
}

// Len é o número de itens guardados.
func (r *RingBuffer[T]) Len() int {
	if r.next < uint64(len(r.entries)) {
		return int(r.next)
	}
	return len(r.entries)
}

// Cap é a capacidade real do buffer.
func (r *RingBuffer[T]) Cap() int {
	return len(r.entries)
}

// Values copia os itens guardados, do mais antigo ao mais novo.
func (r *RingBuffer[T]) Values() []T {
	n := r.Len()
	out := make([]T, 0, n)
	for i := r.next - uint64(n); i < r.next; i++ {
		out = append(out, r.entries[i&r.mask])
	}
	return out
}

func nextPowerOfTwo(x int) int {
	res := 2
	for res < x {
		res <<= 1
	}
	return res
}
