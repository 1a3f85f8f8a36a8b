package util

import "testing"

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b    int32
		div, md int32
	}{
		{0, 32, 0, 0},
		{31, 32, 0, 31},
		{32, 32, 1, 0},
		{-1, 32, -1, 31},
		{-32, 32, -1, 0},
		{-33, 32, -2, 31},
	}

	for _, tt := range tests {
		if got := FloorDiv(tt.a, tt.b); got != tt.div {
			t.Errorf("FloorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.div)
		}
		if got := FloorMod(tt.a, tt.b); got != tt.md {
			t.Errorf("FloorMod(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.md)
		}
	}
}

func TestChunkAndLocalCoord(t *testing.T) {
	pos := NewIVec3(-1, 33, 64)
	if got, want := pos.ChunkCoord(32), NewIVec3(-1, 1, 2); got != want {
		t.Errorf("ChunkCoord = %v, want %v", got, want)
	}
	if got, want := pos.LocalCoord(32), NewIVec3(31, 1, 0); got != want {
		t.Errorf("LocalCoord = %v, want %v", got, want)
	}
}

func TestDistances(t *testing.T) {
	tests := []struct {
		a, b      IVec3
		chebyshev int32
		distSq    int32
	}{
		{NewIVec3(0, 0, 0), NewIVec3(0, 0, 0), 0, 0},
		{NewIVec3(1, -2, 3), NewIVec3(0, 0, 0), 3, 14},
		{NewIVec3(-4, 0, 0), NewIVec3(1, 1, 1), 5, 27},
	}
	for _, tt := range tests {
		if got := tt.a.Chebyshev(tt.b); got != tt.chebyshev {
			t.Errorf("%v.Chebyshev(%v) = %d, want %d", tt.a, tt.b, got, tt.chebyshev)
		}
		if got := tt.a.DistSq(tt.b); got != tt.distSq {
			t.Errorf("%v.DistSq(%v) = %d, want %d", tt.a, tt.b, got, tt.distSq)
		}
	}
}

func TestNeighbors26(t *testing.T) {
	n := Neighbors26()
	if len(n) != 26 {
		t.Fatalf("Neighbors26 retornou %d vizinhos, want 26", len(n))
	}
	seen := make(map[IVec3]bool)
	for _, o := range n {
		if o == (IVec3{}) {
			t.Errorf("Neighbors26 contém o centro")
		}
		if seen[o] {
			t.Errorf("Neighbors26 contém %v duplicado", o)
		}
		seen[o] = true
	}
}

func TestUniqueQueue(t *testing.T) {
	q := NewUniqueQueue[IVec3, int64]()
	a, b := NewIVec3(0, 0, 0), NewIVec3(1, 0, 0)

	if !q.Enqueue(a, 1) {
		t.Fatalf("primeiro Enqueue deveria ser novo")
	}
	if !q.Enqueue(b, 2) {
		t.Fatalf("Enqueue de chave diferente deveria ser novo")
	}
	if q.Enqueue(a, 3) {
		t.Errorf("Enqueue de chave repetida deveria apenas atualizar")
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}

	k, v, ok := q.Dequeue()
	if !ok || k != a || v != 3 {
		t.Errorf("Dequeue() = %v, %d, %v, want %v, 3, true", k, v, ok, a)
	}
	if q.Contains(a) {
		t.Errorf("Contains(%v) após Dequeue deveria ser false", a)
	}

	q.Clear()
	if _, _, ok := q.Dequeue(); ok {
		t.Errorf("Dequeue() em fila vazia deveria retornar false")
	}
}

func TestRingBuffer(t *testing.T) {
	r := NewRingBuffer[int](3)
	if r.Cap() != 4 {
		t.Fatalf("Cap = %d, want 4 (potência de 2)", r.Cap())
	}
	if r.Len() != 0 || len(r.Values()) != 0 {
		t.Fatalf("buffer novo deveria estar vazio")
	}

	tests := []struct {
		push int
		want []int
	}{
		{1, []int{1}},
		{2, []int{1, 2}},
		{3, []int{1, 2, 3}},
		{4, []int{1, 2, 3, 4}},
		{5, []int{2, 3, 4, 5}},
		{6, []int{3, 4, 5, 6}},
	}
	for _, tt := range tests {
		r.Push(tt.push)
		got := r.Values()
		if len(got) != len(tt.want) {
			t.Fatalf("após Push(%d): Values = %v, want %v", tt.push, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("após Push(%d): Values = %v, want %v", tt.push, got, tt.want)
				break
			}
		}
	}
}
