package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"VoxelVision/shared/proto/meshnet"
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	"github.com/gorilla/websocket"
)

// fakeServer responde a cada SET_BLOCK com três versões da malha do chunk
// (a mais velha chegando por último) e ao PING com PONG.
func fakeServer(t *testing.T) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteMessage(websocket.BinaryMessage, meshnet.Wrap(meshnet.TypeServerStatus, &meshnet.ServerStatus{Message: "oi"}))
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var env meshnet.Envelope
			if env.Unmarshal(data) != nil {
				continue
			}
			switch env.Type {
			case meshnet.TypePing:
				conn.WriteMessage(websocket.BinaryMessage, meshnet.Wrap(meshnet.TypePong, &meshnet.ServerStatus{Chunks: 3}))
			case meshnet.TypeSetBlock:
				var req meshnet.SetBlock
				req.Unmarshal(env.Payload)
				for _, mtime := range []int64{5, 7, 3} {
					msg := &meshnet.ChunkMeshMessage{ChunkX: req.X, MTime: mtime, Empty: true}
					conn.WriteMessage(websocket.BinaryMessage, meshnet.Wrap(meshnet.TypeChunkMesh, msg))
				}
				conn.WriteMessage(websocket.BinaryMessage, meshnet.Wrap(meshnet.TypePong, nil))
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestNetworkClientSession(t *testing.T) {
	url := fakeServer(t)

	statuses := make(chan string, 4)
	pongs := make(chan int32, 4)
	meshes := make(chan int64, 8)

	c := NewNetworkClient(url)
	c.OnStatus = func(s *meshnet.ServerStatus) { statuses <- s.Message }
	c.OnPong = func(s *meshnet.ServerStatus) { pongs <- s.Chunks }
	c.OnChunkMesh = func(m *meshnet.ChunkMeshMessage) { meshes <- m.MTime }
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	select {
	case msg := <-statuses:
		if msg != "oi" {
			t.Errorf("status = %q, want oi", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("status inicial não chegou")
	}

	if err := c.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if got := <-pongs; got != 3 {
		t.Errorf("PONG com %d chunks, want 3", got)
	}

	if err := c.SetBlock(util.NewIVec3(9, 0, 0), voxel.BlockStone); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	// O PONG depois das malhas marca o fim da resposta.
	select {
	case <-pongs:
	case <-time.After(5 * time.Second):
		t.Fatalf("resposta ao SET_BLOCK não chegou")
	}
	close(meshes)
	var got []int64
	for m := range meshes {
		got = append(got, m)
	}
	if len(got) != 2 || got[0] != 5 || got[1] != 7 {
		t.Errorf("malhas aceitas = %v, want [5 7] (a versão 3 é velha)", got)
	}
}

func TestNetworkClientForgetAcceptsOlderVersion(t *testing.T) {
	c := NewNetworkClient("")
	mesh := &meshnet.ChunkMeshMessage{ChunkY: 2, MTime: 10}
	if !c.accept(mesh) {
		t.Fatalf("primeira malha recusada")
	}
	older := &meshnet.ChunkMeshMessage{ChunkY: 2, MTime: 4}
	if c.accept(older) {
		t.Errorf("malha velha aceita")
	}
	c.Forget(util.NewIVec3(0, 2, 0))
	if !c.accept(older) {
		t.Errorf("após Forget a malha deveria ser aceita")
	}
}

func TestNetworkClientNotConnected(t *testing.T) {
	c := NewNetworkClient("ws://127.0.0.1:1/ws")
	c.MaxRetries = 1
	c.RetryDelay = time.Millisecond
	if err := c.Connect(); err == nil {
		t.Fatalf("Connect em porta fechada deveria falhar")
	}
	if err := c.RequestRegion(util.IVec3{}, 2); !errors.Is(err, ErrNotConnected) {
		t.Errorf("RequestRegion sem conexão = %v, want ErrNotConnected", err)
	}
}
