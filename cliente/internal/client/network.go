package client

import (
	"errors"
	"log"
	"sync"
	"time"

	"VoxelVision/shared/proto/meshnet"
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	"github.com/gorilla/websocket"
)

// ErrNotConnected é retornado ao enviar sem conexão ativa.
var ErrNotConnected = errors.New("sem conexão com o servidor")

// NetworkClient lida com a comunicação com o Servidor VoxelVision
type NetworkClient struct {
	conn      *websocket.Conn
	url       string
	connected bool
	mu        sync.RWMutex
	writeMu   sync.Mutex

	// Tentativas de conexão
	MaxRetries int
	RetryDelay time.Duration

	// versions guarda o MTime da última malha aceita por chunk
	versions   map[util.IVec3]int64
	versionsMu sync.Mutex

	// Callbacks para o App (chamados na goroutine de leitura)
	OnChunkMesh func(msg *meshnet.ChunkMeshMessage)
	OnStatus    func(status *meshnet.ServerStatus)
	OnPong      func(status *meshnet.ServerStatus)
}

func NewNetworkClient(url string) *NetworkClient {
	return &NetworkClient{
		url:        url,
		MaxRetries: 10,
		RetryDelay: 2 * time.Second,
		versions:   make(map[util.IVec3]int64),
	}
}

func (c *NetworkClient) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	var (
		conn *websocket.Conn
		err  error
	)
	for i := 0; i < c.MaxRetries; i++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", i+1, c.MaxRetries, c.url)
		conn, _, err = dialer.Dial(c.url, nil)
		if err == nil {
			break
		}
		log.Printf("[Network] Servidor ainda não está pronto: %v. Aguardando...", err)
		time.Sleep(c.RetryDelay)
	}

	if conn == nil {
		if err == nil {
			err = ErrNotConnected
		}
		log.Printf("[Network] ERRO CRÍTICO após %d tentativas: %v", c.MaxRetries, err)
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

func (c *NetworkClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close encerra a conexão; o readLoop termina sozinho.
func (c *NetworkClient) Close() {
	c.mu.Lock()
	conn := c.conn
	c.connected = false
	c.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// RequestRegion pede as malhas de todos os chunks em volta de center.
func (c *NetworkClient) RequestRegion(center util.IVec3, radius int32) error {
	return c.Send(meshnet.TypeRequestRegion, &meshnet.RequestRegion{
		CenterX: center.X,
		CenterY: center.Y,
		CenterZ: center.Z,
		Radius:  radius,
	})
}

// SetBlock pede ao servidor para alterar um voxel (coordenadas globais).
func (c *NetworkClient) SetBlock(pos util.IVec3, block voxel.BlockType) error {
	return c.Send(meshnet.TypeSetBlock, &meshnet.SetBlock{
		X:     pos.X,
		Y:     pos.Y,
		Z:     pos.Z,
		Block: uint32(block),
	})
}

func (c *NetworkClient) Ping() error {
	return c.Send(meshnet.TypePing, nil)
}

func (c *NetworkClient) Send(msgType meshnet.MessageType, msg meshnet.Message) error {
	c.mu.RLock()
	conn, connected := c.conn, c.connected
	c.mu.RUnlock()
	if !connected {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	err := conn.WriteMessage(websocket.BinaryMessage, meshnet.Wrap(msgType, msg))
	c.writeMu.Unlock()

	if err != nil {
		log.Printf("[Network] Erro ao enviar mensagem: %v", err)
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}
	return err
}

func (c *NetworkClient) readLoop(conn *websocket.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] [Network] Erro no loop de leitura: %v", r)
		}
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[Network] Conexão perdida: %v", err)
			break
		}

		var env meshnet.Envelope
		if err := env.Unmarshal(message); err != nil {
			log.Printf("[Network] Erro ao desempacotar envelope: %v", err)
			continue
		}

		c.handleMessage(&env)
	}
}

func (c *NetworkClient) handleMessage(env *meshnet.Envelope) {
	switch env.Type {
	case meshnet.TypeServerStatus, meshnet.TypePong:
		var status meshnet.ServerStatus
		if err := status.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] Erro ao ler %v: %v", env.Type, err)
			return
		}
		cb := c.OnStatus
		if env.Type == meshnet.TypePong {
			cb = c.OnPong
		}
		if cb != nil {
			cb(&status)
		}
	case meshnet.TypeChunkMesh:
		var mesh meshnet.ChunkMeshMessage
		if err := mesh.Unmarshal(env.Payload); err != nil {
			log.Printf("[Network] Erro ao ler malha: %v", err)
			return
		}
		if !c.accept(&mesh) {
			return
		}
		if c.OnChunkMesh != nil {
			c.OnChunkMesh(&mesh)
		}
	default:
		log.Printf("[Network] Mensagem ignorada: %v", env.Type)
	}
}

// accept descarta malhas mais velhas que a última recebida do mesmo chunk.
// Região e rebuild podem chegar fora de ordem.
func (c *NetworkClient) accept(mesh *meshnet.ChunkMeshMessage) bool {
	coord := util.NewIVec3(mesh.ChunkX, mesh.ChunkY, mesh.ChunkZ)
	c.versionsMu.Lock()
	defer c.versionsMu.Unlock()
	if last, ok := c.versions[coord]; ok && mesh.MTime < last {
		return false
	}
	c.versions[coord] = mesh.MTime
	return true
}

// Forget esquece a versão de um chunk descarregado pelo cliente.
func (c *NetworkClient) Forget(coord util.IVec3) {
	c.versionsMu.Lock()
	delete(c.versions, coord)
	c.versionsMu.Unlock()
}
