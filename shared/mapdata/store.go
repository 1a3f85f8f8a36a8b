package mapdata

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	"gorm.io/gorm"
)

// Chunk é um chunk carregado na RAM.
// Data nunca é alterado no lugar: edições trocam o ponteiro (copy-on-write),
// assim snapshots entregues ao mesher continuam válidos.
type Chunk struct {
	Coord   util.IVec3
	Data    *voxel.ChunkData
	MTime   int64 // Contador de modificações / versão
	IsDirty bool  // Indica que o chunk foi alterado e precisa salvar
}

// WorldStore gerencia os chunks do mundo: RAM, banco SQLite e gerador.
type WorldStore struct {
	Mu sync.RWMutex

	// dbMu serializa escritas no banco SQLite (impede "database is locked")
	dbMu sync.Mutex

	// Chunks armazena os chunks carregados, indexados pela coordenada de chunk
	Chunks map[util.IVec3]*Chunk

	// DB é a conexão com o banco SQLite (GORM). nil = mundo só em memória
	DB *gorm.DB

	// Generator cria chunks que ainda não existem no banco
	Generator *Generator

	// rebuild guarda os chunks que precisam de uma nova malha
	rebuild *util.UniqueQueue[util.IVec3, int64]

	mtime int64
}

// NewWorldStore cria um novo repositório do mundo.
func NewWorldStore(gen *Generator) *WorldStore {
	return &WorldStore{
		Chunks:    make(map[util.IVec3]*Chunk),
		Generator: gen,
		rebuild:   util.NewUniqueQueue[util.IVec3, int64](),
	}
}

// nextMTimeLocked gera uma nova versão. Precisa do Mu em modo escrita.
func (s *WorldStore) nextMTimeLocked() int64 {
	s.mtime++
	return s.mtime
}

// GetChunk retorna um chunk carregado de forma segura (thread-safe).
func (s *WorldStore) GetChunk(coord util.IVec3) (*Chunk, bool) {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	c, ok := s.Chunks[coord]
	return c, ok
}

// GetOrLoadChunk retorna o chunk da RAM, do SQLite ou do gerador, nessa ordem.
func (s *WorldStore) GetOrLoadChunk(coord util.IVec3) *Chunk {
	s.Mu.RLock()
	c, ok := s.Chunks[coord]
	s.Mu.RUnlock()
	if ok {
		return c
	}

	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.getOrLoadLocked(coord)
}

func (s *WorldStore) getOrLoadLocked(coord util.IVec3) *Chunk {
	if c, ok := s.Chunks[coord]; ok {
		return c
	}

	var chunk *Chunk
	if s.DB != nil {
		loaded, err := s.LoadChunk(coord)
		switch {
		case err == nil:
			chunk = loaded
			if chunk.MTime > s.mtime {
				s.mtime = chunk.MTime
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			log.Printf("[Store] Falha ao carregar chunk %v, usando o gerador: %v", coord, err)
		}
	}

	if chunk == nil {
		var data *voxel.ChunkData
		if s.Generator != nil {
			data = s.Generator.GenerateChunk(coord)
		} else {
			data = voxel.NewUniformChunk(voxel.Air)
		}
		// Chunks gerados não são sujos: a seed os recria de forma idêntica.
		chunk = &Chunk{Coord: coord, Data: data, MTime: s.nextMTimeLocked()}
	}

	s.Chunks[coord] = chunk
	return chunk
}

// GetBlock retorna o voxel em coordenadas globais, carregando o chunk se necessário.
func (s *WorldStore) GetBlock(pos util.IVec3) voxel.BlockData {
	chunk := s.GetOrLoadChunk(pos.ChunkCoord(voxel.ChunkSize))
	s.Mu.RLock()
	data := chunk.Data
	s.Mu.RUnlock()

	local := pos.LocalCoord(voxel.ChunkSize)
	return data.Get(int(local.X), int(local.Y), int(local.Z))
}

// SetBlock altera um voxel em coordenadas globais.
// O chunk dono e todo vizinho cuja borda contém a posição entram na fila de rebuild.
func (s *WorldStore) SetBlock(pos util.IVec3, b voxel.BlockData) error {
	if !b.BlockType.Valid() {
		return fmt.Errorf("tipo de bloco inválido: %d", b.BlockType)
	}

	coord := pos.ChunkCoord(voxel.ChunkSize)
	local := pos.LocalCoord(voxel.ChunkSize)

	s.Mu.Lock()
	chunk := s.getOrLoadLocked(coord)
	if chunk.Data.Get(int(local.X), int(local.Y), int(local.Z)) == b {
		s.Mu.Unlock()
		return nil
	}

	data := chunk.Data.Clone()
	data.Set(int(local.X), int(local.Y), int(local.Z), b)
	data.Compact()

	chunk.Data = data
	chunk.MTime = s.nextMTimeLocked()
	chunk.IsDirty = true
	mtime := chunk.MTime
	s.Mu.Unlock()

	for _, c := range affectedChunks(coord, local) {
		s.rebuild.Enqueue(c, mtime)
	}
	return nil
}

// affectedChunks lista o chunk dono e os vizinhos que enxergam local na sua borda.
func affectedChunks(coord, local util.IVec3) []util.IVec3 {
	axis := func(v int32) []int32 {
		switch v {
		case 0:
			return []int32{0, -1}
		case voxel.ChunkSize - 1:
			return []int32{0, 1}
		default:
			return []int32{0}
		}
	}

	var out []util.IVec3
	for _, dz := range axis(local.Z) {
		for _, dy := range axis(local.Y) {
			for _, dx := range axis(local.X) {
				out = append(out, coord.Add(util.NewIVec3(dx, dy, dz)))
			}
		}
	}
	return out
}

// Snapshot monta a vizinhança 3x3x3 imutável do chunk para o mesher.
// Vizinhos ausentes são carregados ou gerados. A versão retornada é o maior MTime
// da vizinhança: a malha depende das bordas dos vizinhos, não só do chunk central.
func (s *WorldStore) Snapshot(coord util.IVec3) (*voxel.ChunksRefs, int64) {
	var chunks [27]*voxel.ChunkData
	var mtime int64

	s.Mu.Lock()
	defer s.Mu.Unlock()
	for z := int32(0); z < 3; z++ {
		for y := int32(0); y < 3; y++ {
			for x := int32(0); x < 3; x++ {
				c := s.getOrLoadLocked(coord.Add(util.NewIVec3(x-1, y-1, z-1)))
				chunks[voxel.NeighborIndex(int(x), int(y), int(z))] = c.Data
				if c.MTime > mtime {
					mtime = c.MTime
				}
			}
		}
	}
	return voxel.NewChunksRefs(chunks), mtime
}

// QueueRebuild coloca um chunk na fila de rebuild.
func (s *WorldStore) QueueRebuild(coord util.IVec3) {
	s.Mu.RLock()
	var mtime int64
	if c, ok := s.Chunks[coord]; ok {
		mtime = c.MTime
	}
	s.Mu.RUnlock()
	s.rebuild.Enqueue(coord, mtime)
}

// NextRebuild retira o próximo chunk da fila de rebuild.
func (s *WorldStore) NextRebuild() (util.IVec3, bool) {
	coord, _, ok := s.rebuild.Dequeue()
	return coord, ok
}

// PendingRebuilds retorna o tamanho da fila de rebuild.
func (s *WorldStore) PendingRebuilds() int {
	return s.rebuild.Len()
}

// LoadedChunks retorna quantos chunks estão na RAM.
func (s *WorldStore) LoadedChunks() int {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	return len(s.Chunks)
}

// Purge descarrega da RAM os chunks mais distantes que radius de todos os centros e
// retorna as coordenadas removidas. Chunks sujos são gravados no banco antes de sair
// da RAM; sem banco, ou se a gravação falhar, eles ficam.
func (s *WorldStore) Purge(centers []util.IVec3, radius int32) []util.IVec3 {
	radiusSq := radius * radius

	s.Mu.RLock()
	var far []Chunk
	for coord, chunk := range s.Chunks {
		if nearAny(coord, centers, radiusSq) {
			continue
		}
		if chunk.IsDirty && s.DB == nil {
			continue
		}
		far = append(far, *chunk)
	}
	s.Mu.RUnlock()

	// WRITE-BACK: o IO acontece fora do lock do mundo. SaveChunk limpa o IsDirty
	// apenas se o chunk não mudou desde a cópia.
	s.dbMu.Lock()
	for i := range far {
		if !far[i].IsDirty {
			continue
		}
		if err := s.SaveChunk(&far[i]); err != nil {
			log.Printf("[Persistence] ERRO ao salvar chunk descarregado %v: %v", far[i].Coord, err)
		}
	}
	s.dbMu.Unlock()

	s.Mu.Lock()
	defer s.Mu.Unlock()
	var removed []util.IVec3
	for _, c := range far {
		// Editado (ou ainda sujo) desde a cópia: fica para o próximo Purge.
		current, ok := s.Chunks[c.Coord]
		if !ok || current.MTime != c.MTime || current.IsDirty {
			continue
		}
		delete(s.Chunks, c.Coord)
		removed = append(removed, c.Coord)
	}
	return removed
}

func nearAny(coord util.IVec3, centers []util.IVec3, radiusSq int32) bool {
	for _, c := range centers {
		if coord.DistSq(c) <= radiusSq {
			return true
		}
	}
	return false
}
