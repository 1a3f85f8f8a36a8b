package main

import (
	"errors"
	"sync"
	"testing"
	"time"

	"VoxelVision/shared/mapdata"
	"VoxelVision/shared/meshing"
	"VoxelVision/shared/proto/meshnet"
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	"github.com/gorilla/websocket"
)

type sentMesh struct {
	conn *websocket.Conn
	msg  *meshnet.ChunkMeshMessage
}

// fakeSender registra as malhas enviadas em vez de escrever num socket.
type fakeSender struct {
	meshes chan sentMesh

	mu   sync.Mutex
	gone map[*websocket.Conn]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		meshes: make(chan sentMesh, 4096),
		gone:   make(map[*websocket.Conn]bool),
	}
}

func (f *fakeSender) Connected(conn *websocket.Conn) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.gone[conn]
}

// disconnect imita o hub.drop: remove a conexão e depois chama o Forget.
func (f *fakeSender) disconnect(service *WorldService, conn *websocket.Conn) {
	f.mu.Lock()
	f.gone[conn] = true
	f.mu.Unlock()
	service.Forget(conn)
}

func (f *fakeSender) Send(conn *websocket.Conn, t meshnet.MessageType, msg meshnet.Message) error {
	if m, ok := msg.(*meshnet.ChunkMeshMessage); ok && t == meshnet.TypeChunkMesh {
		f.meshes <- sentMesh{conn: conn, msg: m}
	}
	return nil
}

func (f *fakeSender) Broadcast(meshnet.MessageType, meshnet.Message) {}

// collect espera n malhas ou falha no timeout.
func (f *fakeSender) collect(t *testing.T, n int) []sentMesh {
	t.Helper()
	out := make([]sentMesh, 0, n)
	timeout := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case s := <-f.meshes:
			out = append(out, s)
		case <-timeout:
			t.Fatalf("recebidas %d malhas, want %d", len(out), n)
		}
	}
	return out
}

func newTestService(t *testing.T, maxRadius int32) (*WorldService, *mapdata.WorldStore, *fakeSender) {
	t.Helper()
	store := mapdata.NewWorldStore(nil)
	sender := newFakeSender()
	service := NewWorldService(store, meshing.NewBlockMesher(2, meshing.NewResultStore()), sender, maxRadius)
	t.Cleanup(service.Stop)
	return service, store, sender
}

func drainRebuildQueue(store *mapdata.WorldStore) {
	for {
		if _, ok := store.NextRebuild(); !ok {
			return
		}
	}
}

func TestRegionCoords(t *testing.T) {
	center := util.NewIVec3(4, -2, 7)
	coords := regionCoords(center, 1)
	if len(coords) != 27 {
		t.Fatalf("len = %d, want 27", len(coords))
	}
	if coords[0] != center {
		t.Errorf("primeiro chunk = %v, want o centro %v", coords[0], center)
	}

	seen := make(map[util.IVec3]bool)
	last := int32(-1)
	for _, c := range coords {
		if seen[c] {
			t.Errorf("chunk %v repetido", c)
		}
		seen[c] = true
		d := c.Sub(center)
		dist := d.X*d.X + d.Y*d.Y + d.Z*d.Z
		if dist < last {
			t.Errorf("ordem não crescente em %v", c)
		}
		last = dist
	}
}

func TestRegionContains(t *testing.T) {
	r := region{center: util.NewIVec3(0, 0, 0), radius: 2}
	tests := []struct {
		c    util.IVec3
		want bool
	}{
		{util.NewIVec3(0, 0, 0), true},
		{util.NewIVec3(2, -2, 2), true},
		{util.NewIVec3(3, 0, 0), false},
		{util.NewIVec3(0, 0, -3), false},
	}
	for _, tt := range tests {
		if got := r.contains(tt.c); got != tt.want {
			t.Errorf("contains(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestRequestRegionDeliversMeshes(t *testing.T) {
	service, store, sender := newTestService(t, 4)
	store.SetBlock(util.NewIVec3(3, 3, 3), voxel.Block(voxel.BlockStone))
	drainRebuildQueue(store)
	service.Start()

	conn := new(websocket.Conn)
	if n := service.RequestRegion(conn, &meshnet.RequestRegion{Radius: 1}); n != 27 {
		t.Fatalf("RequestRegion = %d chunks, want 27", n)
	}

	full := 0
	for _, s := range sender.collect(t, 27) {
		if s.conn != conn {
			t.Errorf("malha enviada para a conexão errada")
		}
		if s.msg.Empty {
			continue
		}
		full++
		if s.msg.ChunkX != 0 || s.msg.ChunkY != 0 || s.msg.ChunkZ != 0 {
			t.Errorf("chunk %d,%d,%d não deveria ter faces", s.msg.ChunkX, s.msg.ChunkY, s.msg.ChunkZ)
		}
		if len(s.msg.Vertices) != 24 {
			t.Errorf("cubo isolado: %d vértices, want 24", len(s.msg.Vertices))
		}
	}
	if full != 1 {
		t.Errorf("%d chunks com malha, want 1", full)
	}
}

func TestRequestRegionClampsRadius(t *testing.T) {
	service, _, _ := newTestService(t, 1)
	if n := service.RequestRegion(new(websocket.Conn), &meshnet.RequestRegion{Radius: 9}); n != 27 {
		t.Errorf("RequestRegion com raio 9 (máx 1) = %d chunks, want 27", n)
	}
	if n := service.RequestRegion(new(websocket.Conn), &meshnet.RequestRegion{Radius: -3}); n != 1 {
		t.Errorf("RequestRegion com raio negativo = %d chunks, want 1", n)
	}
}

func TestEditReachesOnlyInterestedClients(t *testing.T) {
	service, _, sender := newTestService(t, 2)
	service.Start()

	near := new(websocket.Conn)
	far := new(websocket.Conn)
	service.RequestRegion(near, &meshnet.RequestRegion{Radius: 1})
	service.RequestRegion(far, &meshnet.RequestRegion{CenterX: 100})
	sender.collect(t, 28)

	if err := service.SetBlock(&meshnet.SetBlock{X: 5, Y: 5, Z: 5, Block: uint32(voxel.BlockWood)}); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	got := sender.collect(t, 1)[0]
	if got.conn != near {
		t.Errorf("malha editada foi para o cliente distante")
	}
	if got.msg.Empty || got.msg.ChunkX != 0 {
		t.Errorf("malha editada inesperada: %+v", got.msg)
	}

	select {
	case extra := <-sender.meshes:
		t.Errorf("malha extra enviada: chunk (%d,%d,%d)", extra.msg.ChunkX, extra.msg.ChunkY, extra.msg.ChunkZ)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSetBlockValidation(t *testing.T) {
	service, _, _ := newTestService(t, 1)
	tests := []struct {
		name    string
		block   uint32
		wantErr bool
	}{
		{"pedra", uint32(voxel.BlockStone), false},
		{"tipo desconhecido", 50, true},
		{"fora do vértice", 300, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.SetBlock(&meshnet.SetBlock{X: 1, Y: 2, Z: 3, Block: tt.block})
			if (err != nil) != tt.wantErr {
				t.Errorf("SetBlock(%d) erro = %v, wantErr %v", tt.block, err, tt.wantErr)
			}
		})
	}
}

func TestForget(t *testing.T) {
	service, _, _ := newTestService(t, 1)
	a := new(websocket.Conn)
	b := new(websocket.Conn)
	service.RequestRegion(a, &meshnet.RequestRegion{Radius: 1})
	service.RequestRegion(b, &meshnet.RequestRegion{CenterX: 1})

	service.Forget(a)

	if centers := service.Centers(); len(centers) != 1 || centers[0] != util.NewIVec3(1, 0, 0) {
		t.Errorf("Centers após Forget = %v", centers)
	}
	service.mu.Lock()
	defer service.mu.Unlock()
	for c, list := range service.waiters {
		for _, conn := range list {
			if conn == a {
				t.Errorf("cliente esquecido ainda espera o chunk %v", c)
			}
		}
	}
	if len(service.waiters) != 1 {
		t.Errorf("waiters = %d chunks, want 1", len(service.waiters))
	}
}

func TestMeshMessage(t *testing.T) {
	empty := meshMessage(meshing.Result{Coord: util.NewIVec3(-1, 2, -3), MTime: 9})
	if !empty.Empty || empty.ChunkX != -1 || empty.ChunkZ != -3 || empty.MTime != 9 {
		t.Errorf("malha nil: %+v", empty)
	}

	full := meshMessage(meshing.Result{Mesh: &meshing.ChunkMesh{Vertices: []uint32{1, 2, 3, 4}}})
	if full.Empty || len(full.Vertices) != 4 {
		t.Errorf("malha com um quad: %+v", full)
	}
}

func TestStatus(t *testing.T) {
	service, store, _ := newTestService(t, 1)
	store.SetBlock(util.NewIVec3(0, 0, 0), voxel.Block(voxel.BlockSand))

	st := service.Status("ok")
	if st.Message != "ok" || st.Chunks != 1 || st.Pending != 8 {
		t.Errorf("Status = %+v, want 1 chunk e 8 rebuilds", st)
	}
}

func TestMeshTiming(t *testing.T) {
	service, _, _ := newTestService(t, 1)
	if _, n := service.MeshTiming(); n != 0 {
		t.Fatalf("sem malhas a média deveria estar vazia, got %d amostras", n)
	}
	for _, d := range []time.Duration{time.Millisecond, 3 * time.Millisecond} {
		service.deliver(meshing.Result{Coord: util.NewIVec3(50, 50, 50), Duration: d})
	}
	avg, n := service.MeshTiming()
	if n != 2 || avg != 2*time.Millisecond {
		t.Errorf("MeshTiming = %v em %d amostras, want 2ms em 2", avg, n)
	}
}

func TestRequestRegionSkipsChunksAlreadySent(t *testing.T) {
	service, _, sender := newTestService(t, 1)
	service.Start()

	conn := new(websocket.Conn)
	service.RequestRegion(conn, &meshnet.RequestRegion{Radius: 1})
	sender.collect(t, 27)

	// Mesma região de novo: nada mudou, nada é reenviado.
	service.RequestRegion(conn, &meshnet.RequestRegion{Radius: 1})
	select {
	case extra := <-sender.meshes:
		t.Fatalf("chunk (%d,%d,%d) reenviado sem mudança", extra.msg.ChunkX, extra.msg.ChunkY, extra.msg.ChunkZ)
	case <-time.After(200 * time.Millisecond):
	}

	// Outro cliente recebe a região inteira.
	other := new(websocket.Conn)
	service.RequestRegion(other, &meshnet.RequestRegion{Radius: 1})
	for _, s := range sender.collect(t, 27) {
		if s.conn != other {
			t.Errorf("malha enviada para a conexão errada")
		}
	}
}

func TestRequestRegionResendsAfterLeaving(t *testing.T) {
	service, _, sender := newTestService(t, 1)
	service.Start()

	conn := new(websocket.Conn)
	service.RequestRegion(conn, &meshnet.RequestRegion{Radius: 1})
	sender.collect(t, 27)

	// Longe o bastante para o cliente ter descartado a região original.
	service.RequestRegion(conn, &meshnet.RequestRegion{CenterX: 10, Radius: 1})
	sender.collect(t, 27)

	service.RequestRegion(conn, &meshnet.RequestRegion{Radius: 1})
	if got := sender.collect(t, 27); len(got) != 27 {
		t.Errorf("região reenviada com %d chunks, want 27", len(got))
	}
}

func TestRequestRegionAfterDisconnect(t *testing.T) {
	service, _, sender := newTestService(t, 1)
	service.Start()

	conn := new(websocket.Conn)
	sender.disconnect(service, conn)

	// A goroutine do pedido rodou depois do Forget.
	if n := service.RequestRegion(conn, &meshnet.RequestRegion{Radius: 1}); n != 0 {
		t.Errorf("RequestRegion de cliente desconectado = %d chunks, want 0", n)
	}
	if centers := service.Centers(); len(centers) != 0 {
		t.Errorf("cliente desconectado voltou para as regiões: %v", centers)
	}
	service.mu.Lock()
	waiting := len(service.waiters)
	service.mu.Unlock()
	if waiting != 0 {
		t.Errorf("cliente desconectado ficou esperando %d chunks", waiting)
	}
}

func TestPurgeInvalidatesMeshCache(t *testing.T) {
	service, store, sender := newTestService(t, 1)
	service.Start()

	conn := new(websocket.Conn)
	service.RequestRegion(conn, &meshnet.RequestRegion{Radius: 1})
	sender.collect(t, 27)

	cache := service.mesher.ResultStore
	if cache.Len() != 27 {
		t.Fatalf("cache com %d malhas, want 27", cache.Len())
	}

	// Só a origem e as 6 faces ficam a distância 1 do centro.
	removed := service.Purge(1)
	if got := store.LoadedChunks(); got != 7 {
		t.Errorf("LoadedChunks após Purge = %d, want 7 (removidos %d)", got, removed)
	}
	if cache.Len() != 7 {
		t.Errorf("cache após Purge = %d malhas, want 7", cache.Len())
	}

	sender.disconnect(service, conn)
	service.Purge(1)
	if cache.Len() != 0 || store.LoadedChunks() != 0 {
		t.Errorf("sem clientes: cache %d, chunks %d, want 0 e 0", cache.Len(), store.LoadedChunks())
	}
}

func TestDeliverFailedMeshReleasesWaiters(t *testing.T) {
	service, _, sender := newTestService(t, 1)
	conn := new(websocket.Conn)
	coord := util.NewIVec3(7, 7, 7)

	service.mu.Lock()
	service.addWaiterLocked(coord, conn)
	service.edited[coord] = true
	service.mu.Unlock()

	service.deliver(meshing.Result{Coord: coord, Err: errors.New("pânico no worker")})

	service.mu.Lock()
	_, waiting := service.waiters[coord]
	_, edited := service.edited[coord]
	service.mu.Unlock()
	if waiting || edited {
		t.Errorf("resultado com erro deixou o chunk pendente (waiters %v, edited %v)", waiting, edited)
	}
	select {
	case s := <-sender.meshes:
		t.Errorf("malha enviada para resultado com erro: %+v", s.msg)
	default:
	}
	if _, n := service.MeshTiming(); n != 0 {
		t.Errorf("resultado com erro entrou na média de tempo")
	}
}
