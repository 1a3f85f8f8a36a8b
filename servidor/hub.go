package main

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"VoxelVision/shared/proto/meshnet"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Sender é o que o WorldService precisa do Hub para falar com os clientes.
type Sender interface {
	Send(conn *websocket.Conn, t meshnet.MessageType, msg meshnet.Message) error
	Broadcast(t meshnet.MessageType, msg meshnet.Message)
	Connected(conn *websocket.Conn) bool
}

// Hub gerencia as conexões WebSocket ativas
type Hub struct {
	clients    map[*websocket.Conn]*sync.Mutex
	broadcast  chan []byte
	unregister chan *websocket.Conn
	mu         sync.Mutex

	// onLeave é chamado quando um cliente sai (limpa pedidos pendentes do WorldService)
	onLeave func(conn *websocket.Conn)
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*sync.Mutex),
		broadcast:  make(chan []byte, 4096), // Bufferizado para evitar deadlocks e bloqueios
		unregister: make(chan *websocket.Conn),
	}
}

func (h *Hub) run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] [Hub] Recuperado de pânico fatal: %v", r)
		}
	}()

	for {
		select {
		case client, ok := <-h.unregister:
			if !ok {
				return
			}
			h.drop(client)
		case message, ok := <-h.broadcast:
			if !ok {
				return
			}
			h.writeAll(message)
		}
	}
}

// Register adiciona o cliente. É síncrono: Send logo em seguida já encontra a conexão.
func (h *Hub) Register(client *websocket.Conn) {
	h.mu.Lock()
	h.clients[client] = &sync.Mutex{}
	h.mu.Unlock()
	log.Printf("[Hub] Cliente registrado: %s", client.RemoteAddr())
}

// drop remove o cliente e fecha a conexão.
func (h *Hub) drop(client *websocket.Conn) {
	h.mu.Lock()
	lock, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	lock.Lock()
	client.Close()
	lock.Unlock()
	log.Printf("[Hub] Cliente desregistrado: %s", client.RemoteAddr())

	if h.onLeave != nil {
		h.onLeave(client)
	}
}

func (h *Hub) writeAll(message []byte) {
	// Lista de clientes copiada para escrever fora do lock do hub
	type clientEntry struct {
		conn *websocket.Conn
		lock *sync.Mutex
	}
	h.mu.Lock()
	targets := make([]clientEntry, 0, len(h.clients))
	for c, l := range h.clients {
		targets = append(targets, clientEntry{c, l})
	}
	h.mu.Unlock()

	for _, target := range targets {
		target.lock.Lock()
		err := target.conn.WriteMessage(websocket.BinaryMessage, message)
		target.lock.Unlock()
		if err != nil {
			log.Printf("[Hub] Erro ao enviar para cliente %s: %v", target.conn.RemoteAddr(), err)
			h.drop(target.conn)
		}
	}
}

// Connected informa se conn ainda está registrada. drop a remove antes de chamar onLeave.
func (h *Hub) Connected(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[conn]
	return ok
}

// Clients retorna quantos clientes estão conectados.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// WriteSafe garante que apenas uma goroutine escreva no WebSocket por vez
func (h *Hub) WriteSafe(conn *websocket.Conn, messageType int, data []byte) error {
	h.mu.Lock()
	lock, ok := h.clients[conn]
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("cliente não encontrado no hub")
	}

	lock.Lock()
	defer lock.Unlock()
	return conn.WriteMessage(messageType, data)
}

// Send envia uma mensagem para um único cliente.
func (h *Hub) Send(conn *websocket.Conn, t meshnet.MessageType, msg meshnet.Message) error {
	return h.WriteSafe(conn, websocket.BinaryMessage, meshnet.Wrap(t, msg))
}

// Broadcast envia uma mensagem para todos os clientes.
func (h *Hub) Broadcast(t meshnet.MessageType, msg meshnet.Message) {
	h.safeSend(meshnet.Wrap(t, msg))
}

// safeSend envia para o canal de broadcast protegendo contra pânicos de canal fechado
func (h *Hub) safeSend(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Aviso: Falha ao enviar broadcast (canal fechado?): %v", r)
		}
	}()
	// Não segurar h.mu aqui: o envio pode bloquear com o buffer cheio
	// e o run() precisa do lock para esvaziá-lo.
	h.broadcast <- data
}
