package meshing

import (
	"sync"

	"VoxelVision/shared/util"
)

// ResultStore armazena os resultados de meshing na RAM para evitar re-processamento.
type ResultStore struct {
	mu      sync.RWMutex
	results map[util.IVec3]Result
}

// NewResultStore cria um novo repositório de resultados.
func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[util.IVec3]Result),
	}
}

// Get retorna um resultado se ele existir e for compatível com o MTime e o LOD informados.
func (s *ResultStore) Get(coord util.IVec3, mtime int64, lod Lod) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.results[coord]
	if ok && res.MTime == mtime && res.Lod == lod {
		// Retornamos um clone para evitar que modificações externas afetem o cache
		return res.Clone(), true
	}
	return Result{}, false
}

// Store salva um resultado no repositório.
func (s *ResultStore) Store(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[res.Coord] = res.Clone()
}

// Invalidate remove o resultado de um chunk.
func (s *ResultStore) Invalidate(coord util.IVec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, coord)
}

// Len retorna quantos chunks estão no cache.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Clear limpa todo o cache de resultados.
func (s *ResultStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make(map[util.IVec3]Result)
}
