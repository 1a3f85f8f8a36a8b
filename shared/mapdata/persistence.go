package mapdata

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ChunkModel representa o esquema do banco de dados para um chunk
type ChunkModel struct {
	ID        string    `gorm:"primaryKey"` // Coordenada formatada "X_Y_Z"
	X, Y, Z   int32     `gorm:"index:idx_pos"`
	Data      []byte    // Voxels do chunk serializados em GOB
	MTime     int64     // Versão
	UpdatedAt time.Time // Para controle interno do GORM
}

// WorldMetadata armazena informações globais do mundo no banco
type WorldMetadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const CurrentFormatVersion = 1

// ErrNoDatabase é retornado quando o store roda só em memória.
var ErrNoDatabase = errors.New("banco de dados não inicializado")

func chunkID(c util.IVec3) string {
	return fmt.Sprintf("%d_%d_%d", c.X, c.Y, c.Z)
}

// OpenInitialize abre (ou cria) o banco de dados SQLite do mundo e roda migrações.
func (s *WorldStore) OpenInitialize(dir, worldName string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("falha ao criar pasta de saves: %w", err)
	}

	dbPath := filepath.Join(dir, worldName+".vv")

	// Configuramos o logger para ser silencioso em produção
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	// Migração automática das tabelas
	if err := db.AutoMigrate(&ChunkModel{}, &WorldMetadata{}); err != nil {
		return fmt.Errorf("falha na migração do banco: %w", err)
	}

	s.DB = db

	// Salva metadados iniciais
	db.Save(&WorldMetadata{Key: "FormatVersion", Value: strconv.Itoa(CurrentFormatVersion)})
	db.Save(&WorldMetadata{Key: "WorldName", Value: worldName})

	log.Printf("[Persistence] Banco de dados SQLite aberto: %s", dbPath)
	return nil
}

// SetMetadata grava um par chave/valor do mundo.
func (s *WorldStore) SetMetadata(key, value string) error {
	if s.DB == nil {
		return ErrNoDatabase
	}
	s.dbMu.Lock()
	defer s.dbMu.Unlock()
	return s.DB.Save(&WorldMetadata{Key: key, Value: value}).Error
}

// Metadata lê um valor salvo com SetMetadata.
func (s *WorldStore) Metadata(key string) (string, bool) {
	if s.DB == nil {
		return "", false
	}
	var m WorldMetadata
	if err := s.DB.Where(&WorldMetadata{Key: key}).First(&m).Error; err != nil {
		return "", false
	}
	return m.Value, true
}

// StoredSeed retorna a seed gravada no banco, se houver.
func (s *WorldStore) StoredSeed() (int64, bool) {
	v, ok := s.Metadata("Seed")
	if !ok {
		return 0, false
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("[Persistence] Seed inválida no banco (%q): %v", v, err)
		return 0, false
	}
	return seed, true
}

// SaveChunk salva um único chunk no banco de dados SQLite.
// Recebe uma cópia: os campos não são lidos sob o lock do store.
func (s *WorldStore) SaveChunk(chunk *Chunk) error {
	if s.DB == nil {
		return ErrNoDatabase
	}

	// Serializa os voxels do chunk em bytes (GOB)
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(chunk.Data.Voxels); err != nil {
		log.Printf("[Persistence] ERRO Crítico GOB: %v", err)
		return fmt.Errorf("falha ao serializar chunk %v: %w", chunk.Coord, err)
	}

	model := ChunkModel{
		ID:    chunkID(chunk.Coord),
		X:     chunk.Coord.X,
		Y:     chunk.Coord.Y,
		Z:     chunk.Coord.Z,
		Data:  buf.Bytes(),
		MTime: chunk.MTime,
	}

	// Upsert (Cria ou Atualiza)
	if err := s.DB.Save(&model).Error; err != nil {
		log.Printf("[Persistence] ERRO ao salvar chunk %s: %v", model.ID, err)
		return err
	}
	s.markClean(chunk.Coord, chunk.MTime)
	return nil
}

// markClean limpa o IsDirty se o chunk não mudou desde a cópia salva.
func (s *WorldStore) markClean(coord util.IVec3, mtime int64) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if c, ok := s.Chunks[coord]; ok && c.MTime == mtime {
		c.IsDirty = false
	}
}

// LoadChunk tenta carregar um chunk específico do banco de dados.
func (s *WorldStore) LoadChunk(coord util.IVec3) (*Chunk, error) {
	if s.DB == nil {
		return nil, ErrNoDatabase
	}

	var model ChunkModel
	if err := s.DB.First(&model, "id = ?", chunkID(coord)).Error; err != nil {
		return nil, err // Retorna error se não encontrar
	}

	data := &voxel.ChunkData{}
	if err := gob.NewDecoder(bytes.NewReader(model.Data)).Decode(&data.Voxels); err != nil {
		return nil, fmt.Errorf("falha ao decodificar chunk %s: %w", model.ID, err)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("chunk %s corrompido: %w", model.ID, err)
	}

	return &Chunk{Coord: coord, Data: data, MTime: model.MTime}, nil
}

// Save grava todos os chunks sujos. O IO acontece fora do lock do mundo.
func (s *WorldStore) Save() error {
	if s.DB == nil {
		return ErrNoDatabase
	}

	// Coleta cópias dos chunks sujos para salvar fora do lock
	s.Mu.RLock()
	var dirty []Chunk
	for _, chunk := range s.Chunks {
		if chunk.IsDirty {
			dirty = append(dirty, *chunk)
		}
	}
	s.Mu.RUnlock()

	if len(dirty) == 0 {
		return nil
	}

	s.dbMu.Lock()
	defer s.dbMu.Unlock()

	log.Printf("[Persistence] Iniciando salvamento em SQLite... (Chunks sujos: %d)", len(dirty))
	count := 0
	var firstErr error
	for i := range dirty {
		if err := s.SaveChunk(&dirty[i]); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		count++
	}
	log.Printf("[Persistence] Salvamento concluído: %d chunks persistidos.", count)
	return firstErr
}

// HasData verifica se o banco de dados já possui algum chunk salvo.
func (s *WorldStore) HasData() bool {
	if s.DB == nil {
		return false
	}
	var count int64
	s.DB.Model(&ChunkModel{}).Count(&count)
	return count > 0
}

// QueueAllStoredChunks lista as coordenadas salvas no SQLite sem carregar os voxels.
func (s *WorldStore) QueueAllStoredChunks(enqueueFunc func(coord util.IVec3, mtime int64)) int {
	if s.DB == nil {
		return 0
	}

	// Retira apenas os metadados para não estourar a RAM
	var chunks []ChunkModel
	if err := s.DB.Select("x", "y", "z", "m_time").Find(&chunks).Error; err != nil {
		log.Printf("[Persistence] ERRO ao listar chunks: %v", err)
		return 0
	}

	log.Printf("[Persistence] Enfileirando %d chunks do SQLite local.", len(chunks))
	for _, model := range chunks {
		enqueueFunc(util.NewIVec3(model.X, model.Y, model.Z), model.MTime)
	}
	return len(chunks)
}

// Close fecha a conexão com o banco de dados SQLite.
func (s *WorldStore) Close() {
	if s.DB == nil {
		return
	}
	s.dbMu.Lock()
	defer s.dbMu.Unlock()
	if sqlDB, _ := s.DB.DB(); sqlDB != nil {
		log.Println("[Persistence] Fechando banco de dados SQLite...")
		sqlDB.Close()
	}
	s.DB = nil
}
