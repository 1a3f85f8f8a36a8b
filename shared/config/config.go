package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config armazena as configurações do VoxelVision.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width" yaml:"window_width"`
	WindowHeight int32  `json:"window_height" yaml:"window_height"`
	WindowTitle  string `json:"window_title" yaml:"window_title"`
	Fullscreen   bool   `json:"fullscreen" yaml:"fullscreen"`
	TargetFPS    int32  `json:"target_fps" yaml:"target_fps"`

	// Servidor (endereço de escuta e mundo)
	ServerAddr    string `json:"server_addr" yaml:"server_addr"`
	WorldName     string `json:"world_name" yaml:"world_name"`
	SavesDir      string `json:"saves_dir" yaml:"saves_dir"`
	Seed          int64  `json:"seed" yaml:"seed"`
	AutosaveSecs  int    `json:"autosave_secs" yaml:"autosave_secs"`
	MaxRequestRad int32  `json:"max_request_radius" yaml:"max_request_radius"`

	// Cliente
	ServerURL string `json:"server_url" yaml:"server_url"`

	// Meshing / Renderização
	MesherThreads int     `json:"mesher_threads" yaml:"mesher_threads"`
	DrawRadius    int32   `json:"draw_radius" yaml:"draw_radius"` // Raio em chunks em volta da câmera
	FOV           float32 `json:"fov" yaml:"fov"`

	// Câmera
	CameraSpeed       float32 `json:"camera_speed" yaml:"camera_speed"`
	CameraSensitivity float32 `json:"camera_sensitivity" yaml:"camera_sensitivity"`

	// Debug
	ShowDebugInfo bool `json:"show_debug_info" yaml:"show_debug_info"`
	WireframeMode bool `json:"wireframe_mode" yaml:"wireframe_mode"`
	DisableAO     bool `json:"disable_ao" yaml:"disable_ao"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "VoxelVision",
		Fullscreen:   false,
		TargetFPS:    60,

		ServerAddr:    ":8080",
		WorldName:     "mundo",
		SavesDir:      "saves",
		Seed:          1337,
		AutosaveSecs:  60,
		MaxRequestRad: 8,

		ServerURL: "ws://127.0.0.1:8080/ws",

		MesherThreads: 4,
		DrawRadius:    4,
		FOV:           70.0,

		CameraSpeed:       20.0,
		CameraSensitivity: 0.003,

		ShowDebugInfo: true,
		WireframeMode: false,
		DisableAO:     false,
	}
}

// configPath retorna o caminho do arquivo de configuração.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações do config.json ao lado do executável.
// Se o arquivo não existir ou for inválido, retorna as configurações padrão.
func Load() *Config {
	cfg, err := LoadFile(configPath())
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// LoadFile carrega um arquivo JSON ou YAML (.yaml/.yml) sobre os valores padrão.
// Campos ausentes no arquivo mantêm o valor padrão.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler configuração: %w", err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao interpretar %s: %w", filepath.Base(path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica os valores que quebrariam o servidor ou o cliente.
func (c *Config) Validate() error {
	if c.MesherThreads < 1 {
		return fmt.Errorf("mesher_threads precisa ser >= 1 (got %d)", c.MesherThreads)
	}
	if c.DrawRadius < 0 {
		return fmt.Errorf("draw_radius negativo: %d", c.DrawRadius)
	}
	if c.MaxRequestRad < 1 {
		return fmt.Errorf("max_request_radius precisa ser >= 1 (got %d)", c.MaxRequestRad)
	}
	if c.WorldName == "" {
		return fmt.Errorf("world_name vazio")
	}
	return nil
}

// Save salva as configurações em um arquivo JSON.
func (c *Config) Save() error {
	return c.SaveFile(configPath())
}

// SaveFile salva em path, em YAML se a extensão for .yaml/.yml.
func (c *Config) SaveFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
