// Package meshnet define as mensagens trocadas entre servidor e cliente via WebSocket.
// Cada frame binário carrega um Envelope com o tipo e a mensagem serializada.
package meshnet

import (
	"fmt"

	"VoxelVision/shared/pkg/protowire"
)

// MessageType identifica o conteúdo de um Envelope.
type MessageType int32

const (
	TypeUnknown MessageType = iota
	TypePing
	TypePong
	TypeServerStatus
	TypeRequestRegion
	TypeChunkMesh
	TypeSetBlock
)

func (t MessageType) String() string {
	switch t {
	case TypePing:
		return "PING"
	case TypePong:
		return "PONG"
	case TypeServerStatus:
		return "SERVER_STATUS"
	case TypeRequestRegion:
		return "REQUEST_REGION"
	case TypeChunkMesh:
		return "CHUNK_MESH"
	case TypeSetBlock:
		return "SET_BLOCK"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(t))
	}
}

// Message é qualquer mensagem que sabe se serializar.
type Message interface {
	Marshal() []byte
	Unmarshal(data []byte) error
}

// Envelope embrulha uma mensagem com seu tipo.
type Envelope struct {
	Type    MessageType
	Payload []byte
}

func (m *Envelope) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeVarint(1, int64(m.Type))
	e.EncodeBytes(2, m.Payload)
	return e.Bytes()
}

func (m *Envelope) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Type = MessageType(v)
		case 2:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.BytesType); err != nil {
				return err
			}
			v, err := d.ReadBytes()
			if err != nil {
				return err
			}
			m.Payload = v
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

// Wrap serializa msg dentro de um Envelope do tipo t.
func Wrap(t MessageType, msg Message) []byte {
	env := Envelope{Type: t}
	if msg != nil {
		env.Payload = msg.Marshal()
	}
	return env.Marshal()
}

// ChunkMeshMessage leva a malha empacotada de um chunk.
// Os índices não trafegam: o cliente os recria com meshing.GenerateIndices.
type ChunkMeshMessage struct {
	ChunkX   int32
	ChunkY   int32
	ChunkZ   int32
	MTime    int64
	Empty    bool // chunk sem faces visíveis
	Vertices []uint32
}

func (m *ChunkMeshMessage) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeSint(1, int64(m.ChunkX))
	e.EncodeSint(2, int64(m.ChunkY))
	e.EncodeSint(3, int64(m.ChunkZ))
	e.EncodeVarint(4, m.MTime)
	e.EncodeBool(5, m.Empty)
	e.EncodePackedFixed32(6, m.Vertices)
	return e.Bytes()
}

func (m *ChunkMeshMessage) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1, 2, 3:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadSint()
			if err != nil {
				return err
			}
			switch fieldNum {
			case 1:
				m.ChunkX = int32(v)
			case 2:
				m.ChunkY = int32(v)
			default:
				m.ChunkZ = int32(v)
			}
		case 4:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.MTime = v
		case 5:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadBool()
			if err != nil {
				return err
			}
			m.Empty = v
		case 6:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.BytesType); err != nil {
				return err
			}
			v, err := d.ReadPackedFixed32()
			if err != nil {
				return err
			}
			m.Vertices = append(m.Vertices, v...)
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	if len(m.Vertices)%4 != 0 {
		return fmt.Errorf("meshnet: malha com %d vértices (não múltiplo de 4)", len(m.Vertices))
	}
	return nil
}

// RequestRegion pede as malhas de todos os chunks num raio em volta de um chunk.
type RequestRegion struct {
	CenterX int32
	CenterY int32
	CenterZ int32
	Radius  int32
}

func (m *RequestRegion) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeSint(1, int64(m.CenterX))
	e.EncodeSint(2, int64(m.CenterY))
	e.EncodeSint(3, int64(m.CenterZ))
	e.EncodeVarint(4, int64(m.Radius))
	return e.Bytes()
}

func (m *RequestRegion) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadSint()
			if err != nil {
				return err
			}
			m.CenterX = int32(v)
		case 2:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadSint()
			if err != nil {
				return err
			}
			m.CenterY = int32(v)
		case 3:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadSint()
			if err != nil {
				return err
			}
			m.CenterZ = int32(v)
		case 4:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Radius = int32(v)
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetBlock altera um voxel em coordenadas globais.
type SetBlock struct {
	X, Y, Z int32
	Block   uint32
}

func (m *SetBlock) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeSint(1, int64(m.X))
	e.EncodeSint(2, int64(m.Y))
	e.EncodeSint(3, int64(m.Z))
	e.EncodeVarint(4, int64(m.Block))
	return e.Bytes()
}

func (m *SetBlock) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadSint()
			if err != nil {
				return err
			}
			m.X = int32(v)
		case 2:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadSint()
			if err != nil {
				return err
			}
			m.Y = int32(v)
		case 3:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadSint()
			if err != nil {
				return err
			}
			m.Z = int32(v)
		case 4:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Block = uint32(v)
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	return nil
}

// ServerStatus informa o estado do servidor (enviado ao conectar e em resposta ao PING).
type ServerStatus struct {
	Message string
	Chunks  int32 // chunks carregados na RAM
	Pending int32 // chunks na fila de rebuild
}

func (m *ServerStatus) Marshal() []byte {
	e := protowire.NewEncoder()
	e.EncodeString(1, m.Message)
	e.EncodeVarint(2, int64(m.Chunks))
	e.EncodeVarint(3, int64(m.Pending))
	return e.Bytes()
}

func (m *ServerStatus) Unmarshal(data []byte) error {
	d := protowire.NewDecoder(data)
	for !d.Done() {
		fieldNum, wireType, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch fieldNum {
		case 1:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.BytesType); err != nil {
				return err
			}
			v, err := d.ReadString()
			if err != nil {
				return err
			}
			m.Message = v
		case 2:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Chunks = int32(v)
		case 3:
			if err := protowire.ExpectType(fieldNum, wireType, protowire.VarintType); err != nil {
				return err
			}
			v, err := d.ReadVarint()
			if err != nil {
				return err
			}
			m.Pending = int32(v)
		default:
			if err := d.SkipField(fieldNum, wireType); err != nil {
				return err
			}
		}
	}
	return nil
}
