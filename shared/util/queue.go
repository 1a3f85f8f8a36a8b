package util

import (
	"sync"

	"github.com/gammazero/deque"
)

// UniqueQueue é uma fila FIFO protegida por mutex em que cada chave aparece no máximo
// uma vez. O WorldStore a usa como fila de rebuild de chunks editados.
type UniqueQueue[K comparable, V any] struct {
	mu      sync.Mutex
	items   deque.Deque[entry[K, V]]
	present map[K]bool
}

type entry[K comparable, V any] struct {
	Key   K
	Value V
}

// NewUniqueQueue cria uma fila vazia.
func NewUniqueQueue[K comparable, V any]() *UniqueQueue[K, V] {
	return &UniqueQueue[K, V]{
		present: make(map[K]bool),
	}
}

// Enqueue põe key no fim da fila. Uma chave já presente mantém a posição e só troca
// o valor; nesse caso o retorno é false.
func (q *UniqueQueue[K, V]) Enqueue(key K, value V) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.present[key] {
		for i := 0; i < q.items.Len(); i++ {
			if e := q.items.At(i); e.Key == key {
				e.Value = value
				q.items.Set(i, e)
				break
			}
		}
		return false
	}

	q.items.PushBack(entry[K, V]{Key: key, Value: value})
	q.present[key] = true
	return true
}

// Dequeue tira o item mais antigo. ok é false com a fila vazia.
func (q *UniqueQueue[K, V]) Dequeue() (key K, value V, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Len() == 0 {
		return key, value, false
	}

	e := q.items.PopFront()
	delete(q.present, e.Key)
	return e.Key, e.Value, true
}

// Len retorna quantas chaves estão na fila.
func (q *UniqueQueue[K, V]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Clear esvazia a fila.
func (q *UniqueQueue[K, V]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items.Clear()
	q.present = make(map[K]bool)
}

// Contains informa se key está esperando na fila.
func (q *UniqueQueue[K, V]) Contains(key K) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.present[key]
}
