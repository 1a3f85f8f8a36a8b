package main

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"VoxelVision/shared/mapdata"
	"VoxelVision/shared/meshing"
	"VoxelVision/shared/proto/meshnet"
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	"github.com/gorilla/websocket"
)

// region é a última área pedida por um cliente, em coordenadas de chunk.
type region struct {
	center util.IVec3
	radius int32
}

func (r region) contains(c util.IVec3) bool {
	return c.Chebyshev(r.center) <= r.radius
}

// WorldService liga o WorldStore ao BlockMesher e entrega as malhas aos clientes.
type WorldService struct {
	store     *mapdata.WorldStore
	mesher    *meshing.BlockMesher
	sender    Sender
	maxRadius int32

	mu      sync.Mutex
	waiters map[util.IVec3][]*websocket.Conn // clientes esperando a malha do chunk
	edited  map[util.IVec3]bool              // malhas que vão para todos os interessados
	regions map[*websocket.Conn]region
	sent    map[*websocket.Conn]map[util.IVec3]int64 // versão que cada cliente já recebeu
	timings *util.RingBuffer[time.Duration] // tempos das últimas malhas entregues

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorldService cria o serviço. Start precisa ser chamado antes de atender pedidos.
func NewWorldService(store *mapdata.WorldStore, mesher *meshing.BlockMesher, sender Sender, maxRadius int32) *WorldService {
	return &WorldService{
		store:     store,
		mesher:    mesher,
		sender:    sender,
		maxRadius: maxRadius,
		waiters:   make(map[util.IVec3][]*websocket.Conn),
		edited:    make(map[util.IVec3]bool),
		regions:   make(map[*websocket.Conn]region),
		sent:      make(map[*websocket.Conn]map[util.IVec3]int64),
		timings:   util.NewRingBuffer[time.Duration](256),
		stop:      make(chan struct{}),
	}
}

// Start inicia o loop de rebuild e o loop de entrega de resultados.
func (w *WorldService) Start() {
	w.wg.Add(2)
	go w.rebuildLoop()
	go w.resultLoop()
}

// Stop encerra os loops e o mesher.
func (w *WorldService) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.mesher.Stop()
		w.wg.Wait()
	})
}

// RequestRegion agenda as malhas de todos os chunks do cubo pedido, do centro para fora.
// Retorna quantos chunks foram pedidos.
func (w *WorldService) RequestRegion(conn *websocket.Conn, req *meshnet.RequestRegion) int {
	radius := util.Clamp(req.Radius, 0, w.maxRadius)
	center := util.NewIVec3(req.CenterX, req.CenterY, req.CenterZ)

	coords := regionCoords(center, radius)

	w.mu.Lock()
	// O cliente pode ter saído antes desta goroutine rodar; Forget já passou por ele.
	if !w.sender.Connected(conn) {
		w.mu.Unlock()
		return 0
	}
	w.regions[conn] = region{center: center, radius: radius}
	// O cliente descarta o que fica além de radius+1; esses chunks terão de ir de novo.
	for c := range w.sent[conn] {
		if c.Chebyshev(center) > radius+1 {
			delete(w.sent[conn], c)
		}
	}
	for _, c := range coords {
		w.addWaiterLocked(c, conn)
	}
	w.mu.Unlock()

	for _, c := range coords {
		w.requestMesh(c)
	}
	return len(coords)
}

// regionCoords lista o cubo de raio radius ordenado pela distância ao centro.
func regionCoords(center util.IVec3, radius int32) []util.IVec3 {
	side := 2*radius + 1
	coords := make([]util.IVec3, 0, side*side*side)
	for dz := -radius; dz <= radius; dz++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				coords = append(coords, center.Add(util.NewIVec3(dx, dy, dz)))
			}
		}
	}
	sort.SliceStable(coords, func(i, j int) bool {
		return coords[i].DistSq(center) < coords[j].DistSq(center)
	})
	return coords
}

func (w *WorldService) addWaiterLocked(c util.IVec3, conn *websocket.Conn) {
	for _, existing := range w.waiters[c] {
		if existing == conn {
			return
		}
	}
	w.waiters[c] = append(w.waiters[c], conn)
}

// SetBlock aplica a edição de um cliente. As malhas afetadas saem pelo loop de rebuild.
func (w *WorldService) SetBlock(msg *meshnet.SetBlock) error {
	if msg.Block > uint32(voxel.MaxBlockType) {
		return fmt.Errorf("tipo de bloco fora do intervalo: %d", msg.Block)
	}
	pos := util.NewIVec3(msg.X, msg.Y, msg.Z)
	return w.store.SetBlock(pos, voxel.Block(voxel.BlockType(msg.Block)))
}

// Forget descarta os pedidos de um cliente que desconectou.
func (w *WorldService) Forget(conn *websocket.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.regions, conn)
	delete(w.sent, conn)
	for c, list := range w.waiters {
		kept := list[:0]
		for _, existing := range list {
			if existing != conn {
				kept = append(kept, existing)
			}
		}
		if len(kept) == 0 {
			delete(w.waiters, c)
		} else {
			w.waiters[c] = kept
		}
	}
}

// Centers retorna o centro da região de cada cliente (usado no Purge).
func (w *WorldService) Centers() []util.IVec3 {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]util.IVec3, 0, len(w.regions))
	for _, r := range w.regions {
		out = append(out, r.center)
	}
	return out
}

// Purge descarrega os chunks longe de todos os clientes e tira suas malhas do cache.
// Retorna quantos chunks saíram da RAM.
func (w *WorldService) Purge(radius int32) int {
	removed := w.store.Purge(w.Centers(), radius)
	if cache := w.mesher.ResultStore; cache != nil {
		for _, c := range removed {
			cache.Invalidate(c)
		}
	}
	return len(removed)
}

// Status monta o SERVER_STATUS atual.
func (w *WorldService) Status(message string) *meshnet.ServerStatus {
	return &meshnet.ServerStatus{
		Message: message,
		Chunks:  int32(w.store.LoadedChunks()),
		Pending: int32(w.store.PendingRebuilds()),
	}
}

// MeshTiming retorna o tempo médio de geração das últimas malhas e quantas entraram na média.
func (w *WorldService) MeshTiming() (time.Duration, int) {
	w.mu.Lock()
	values := w.timings.Values()
	w.mu.Unlock()
	if len(values) == 0 {
		return 0, 0
	}
	var total time.Duration
	for _, d := range values {
		total += d
	}
	return total / time.Duration(len(values)), len(values)
}

// Prewarm gera no cache as malhas dos chunks já salvos no banco.
func (w *WorldService) Prewarm() int {
	return w.store.QueueAllStoredChunks(func(coord util.IVec3, _ int64) {
		w.requestMesh(coord)
	})
}

// requestMesh tira o snapshot do chunk e o entrega ao mesher.
// Retorna false se o chunk já estava na fila do mesher.
func (w *WorldService) requestMesh(coord util.IVec3) bool {
	refs, mtime := w.store.Snapshot(coord)
	return w.mesher.Enqueue(meshing.Request{
		Coord: coord,
		Refs:  refs,
		MTime: mtime,
		Lod:   meshing.L32,
	})
}

func (w *WorldService) rebuildLoop() {
	defer w.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] [World] Erro no loop de rebuild: %v", r)
		}
	}()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.drainRebuilds()
		}
	}
}

// drainRebuilds agenda toda a fila de rebuild. Chunks que ainda estão no mesher
// voltam para a fila: o snapshot em andamento já está velho.
func (w *WorldService) drainRebuilds() int {
	var busy []util.IVec3
	count := 0
	for {
		coord, ok := w.store.NextRebuild()
		if !ok {
			break
		}
		w.mu.Lock()
		w.edited[coord] = true
		w.mu.Unlock()

		if w.requestMesh(coord) {
			count++
		} else {
			busy = append(busy, coord)
		}
	}
	for _, coord := range busy {
		w.store.QueueRebuild(coord)
	}
	return count
}

func (w *WorldService) resultLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case res := <-w.mesher.Results():
			w.deliver(res)
		}
	}
}

// deliver envia a malha a quem esperava por ela e, se veio de uma edição,
// a todo cliente cuja região contém o chunk.
func (w *WorldService) deliver(res meshing.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] [World] Erro ao entregar chunk %v: %v", res.Coord, r)
		}
	}()

	if res.Err != nil {
		// Os clientes pedem de novo na próxima região; nada foi registrado como enviado.
		w.mu.Lock()
		delete(w.waiters, res.Coord)
		delete(w.edited, res.Coord)
		w.mu.Unlock()
		log.Printf("[World] Chunk %v sem malha: %v", res.Coord, res.Err)
		return
	}

	w.mu.Lock()
	w.timings.Push(res.Duration)
	targets := w.waiters[res.Coord]
	delete(w.waiters, res.Coord)
	if w.edited[res.Coord] {
		delete(w.edited, res.Coord)
		for conn, r := range w.regions {
			if r.contains(res.Coord) {
				targets = appendUnique(targets, conn)
			}
		}
	}
	targets = w.filterSentLocked(targets, res)
	w.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	msg := meshMessage(res)
	for _, conn := range targets {
		if err := w.sender.Send(conn, meshnet.TypeChunkMesh, msg); err != nil {
			log.Printf("[World] Falha ao enviar chunk %v: %v", res.Coord, err)
		}
	}
}

// filterSentLocked remove quem já tem esta versão do chunk e registra a entrega
// para os clientes cuja região contém o chunk.
func (w *WorldService) filterSentLocked(targets []*websocket.Conn, res meshing.Result) []*websocket.Conn {
	out := targets[:0]
	for _, conn := range targets {
		sent := w.sent[conn]
		if mtime, ok := sent[res.Coord]; ok && mtime == res.MTime {
			continue
		}
		out = append(out, conn)

		r, ok := w.regions[conn]
		if !ok || !r.contains(res.Coord) {
			continue
		}
		if sent == nil {
			sent = make(map[util.IVec3]int64)
			w.sent[conn] = sent
		}
		sent[res.Coord] = res.MTime
	}
	return out
}

func appendUnique(list []*websocket.Conn, conn *websocket.Conn) []*websocket.Conn {
	for _, existing := range list {
		if existing == conn {
			return list
		}
	}
	return append(list, conn)
}

// meshMessage converte um resultado do mesher em CHUNK_MESH.
func meshMessage(res meshing.Result) *meshnet.ChunkMeshMessage {
	msg := &meshnet.ChunkMeshMessage{
		ChunkX: res.Coord.X,
		ChunkY: res.Coord.Y,
		ChunkZ: res.Coord.Z,
		MTime:  res.MTime,
	}
	if res.Mesh == nil {
		msg.Empty = true
	} else {
		msg.Vertices = res.Mesh.Vertices
	}
	return msg
}
