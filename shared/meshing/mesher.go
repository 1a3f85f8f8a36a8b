package meshing

import (
	"fmt"
	"log"
	"sync"
	"time"

	"VoxelVision/shared/util"

	"github.com/alitto/pond/v2"
)

// Request representa um pedido de meshing para um chunk.
type Request struct {
	Coord util.IVec3   // Coordenada do chunk (em unidades de chunk)
	Refs  Neighborhood // Snapshot imutável do chunk e vizinhos
	MTime int64        // Versão dos dados no momento da requisição
	Lod   Lod
}

// Result contém a malha gerada para um chunk. Mesh nil = chunk sem faces.
type Result struct {
	Coord    util.IVec3
	Mesh     *ChunkMesh
	MTime    int64 // Versão dos dados processados
	Lod      Lod
	Duration time.Duration
	Err      error // pânico ao gerar; Mesh é nil e o resultado não vai para o cache
}

// Clone realiza uma cópia profunda de um Result.
func (r Result) Clone() Result {
	out := r
	out.Mesh = r.Mesh.Clone()
	return out
}

// Mesher é a interface para geradores de malha.
type Mesher interface {
	Enqueue(req Request) bool
	Results() <-chan Result
	Stop()
}

// BlockMesher executa BuildChunkMesh em um pool de workers.
type BlockMesher struct {
	pool        pond.Pool
	results     chan Result
	stop        chan struct{}
	stopOnce    sync.Once
	ResultStore *ResultStore
	pending     map[util.IVec3]bool
	pendingMu   sync.Mutex
}

// NewBlockMesher cria e inicia um novo mesher.
func NewBlockMesher(workers int, resultStore *ResultStore) *BlockMesher {
	if workers < 1 {
		workers = 1
	}
	return &BlockMesher{
		pool:        pond.NewPool(workers),
		results:     make(chan Result, 2000),
		stop:        make(chan struct{}),
		ResultStore: resultStore,
		pending:     make(map[util.IVec3]bool),
	}
}

// Enqueue agenda o pedido. Retorna false se o chunk já está pendente ou o mesher parou.
func (m *BlockMesher) Enqueue(req Request) bool {
	select {
	case <-m.stop:
		return false
	default:
	}

	m.pendingMu.Lock()
	if m.pending[req.Coord] {
		m.pendingMu.Unlock()
		return false
	}
	m.pending[req.Coord] = true
	m.pendingMu.Unlock()

	m.pool.Submit(func() {
		m.process(req)
	})
	return true
}

// Results é o canal de malhas prontas.
func (m *BlockMesher) Results() <-chan Result {
	return m.results
}

// Stop encerra o mesher e aguarda os workers em andamento.
func (m *BlockMesher) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.pool.StopAndWait()
	})
}

func (m *BlockMesher) done(coord util.IVec3) {
	m.pendingMu.Lock()
	delete(m.pending, coord)
	m.pendingMu.Unlock()
}

func (m *BlockMesher) process(req Request) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro no Mesher Worker (chunk %v): %v", req.Coord, r)
			m.done(req.Coord)
			// Quem espera pelo chunk precisa saber que ele não vem.
			m.publish(Result{
				Coord: req.Coord,
				MTime: req.MTime,
				Lod:   req.Lod,
				Err:   fmt.Errorf("falha ao gerar malha do chunk %v: %v", req.Coord, r),
			})
		}
	}()

	// 1. Verificar cache antes de processar
	if m.ResultStore != nil {
		if cached, ok := m.ResultStore.Get(req.Coord, req.MTime, req.Lod); ok {
			m.done(req.Coord)
			m.publish(cached)
			return
		}
	}

	// 2. Gerar geometria
	res := m.Generate(req)

	// 3. Salvar no cache para uso futuro
	if m.ResultStore != nil {
		m.ResultStore.Store(res)
	}

	m.done(req.Coord)
	m.publish(res)
}

func (m *BlockMesher) publish(res Result) {
	select {
	case m.results <- res:
	case <-m.stop:
	}
}

// Generate transforma o snapshot de um chunk em malha (síncrono).
func (m *BlockMesher) Generate(req Request) Result {
	start := time.Now()
	mesh := BuildChunkMesh(req.Refs, req.Lod)
	return Result{
		Coord:    req.Coord,
		Mesh:     mesh,
		MTime:    req.MTime,
		Lod:      req.Lod,
		Duration: time.Since(start),
	}
}
