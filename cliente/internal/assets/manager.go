package assets

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"VoxelVision/shared/meshing"
	"VoxelVision/shared/voxel"

	"gopkg.in/yaml.v3"
)

// --- Estruturas do arquivo de cores ---

// ColorEntry liga padrões de token a uma cor.
// Formato do token: "BLOCO:FACE" (ex: "grass:up", "grass:*", "*:down").
type ColorEntry struct {
	Tokens  []string `json:"tokens" yaml:"tokens"`
	Color   [3]uint8 `json:"color" yaml:"color"`
	Comment string   `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// PaletteConfig é o root do palette.json / palette.yaml
type PaletteConfig struct {
	Colors []ColorEntry `json:"colors" yaml:"colors"`
}

// DefaultPalette é usada quando não há arquivo de cores.
var DefaultPalette = PaletteConfig{Colors: []ColorEntry{
	{Tokens: []string{"*"}, Color: [3]uint8{255, 0, 255}, Comment: "bloco sem cor"},
	{Tokens: []string{"grass:*"}, Color: [3]uint8{121, 85, 58}},
	{Tokens: []string{"grass:up"}, Color: [3]uint8{96, 160, 64}},
	{Tokens: []string{"dirt:*"}, Color: [3]uint8{121, 85, 58}},
	{Tokens: []string{"stone:*"}, Color: [3]uint8{128, 128, 128}},
	{Tokens: []string{"sand:*"}, Color: [3]uint8{219, 203, 143}},
	{Tokens: []string{"water:*"}, Color: [3]uint8{52, 96, 196}},
	{Tokens: []string{"wood:*"}, Color: [3]uint8{102, 76, 46}},
	{Tokens: []string{"wood:up", "wood:down"}, Color: [3]uint8{150, 120, 80}},
	{Tokens: []string{"leaves:*"}, Color: [3]uint8{58, 122, 44}},
	{Tokens: []string{"snow:*"}, Color: [3]uint8{240, 244, 250}},
	{Tokens: []string{"bedrock:*"}, Color: [3]uint8{40, 40, 44}},
}}

// --- Manager ---

// Manager responde qual cor cada bloco tem em cada face.
type Manager struct {
	colors []ColorEntry
	table  [voxel.MaxBlockType + 1][6]color.RGBA
}

// NewManager carrega o palette.json (ou palette.yaml) de configDir.
// Sem arquivo, usa DefaultPalette.
func NewManager(configDir string) (*Manager, error) {
	for _, name := range []string{"palette.json", "palette.yaml", "palette.yml"} {
		path := filepath.Join(configDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var conf PaletteConfig
		if strings.HasSuffix(name, ".json") {
			err = json.Unmarshal(data, &conf)
		} else {
			err = yaml.Unmarshal(data, &conf)
		}
		if err != nil {
			return nil, fmt.Errorf("falha ao parsear %s: %w", name, err)
		}
		return NewManagerFrom(conf), nil
	}
	return NewManagerFrom(DefaultPalette), nil
}

// NewManagerFrom monta o manager a partir de uma configuração já carregada.
func NewManagerFrom(conf PaletteConfig) *Manager {
	m := &Manager{colors: conf.Colors}
	for b := range m.table {
		for _, face := range meshing.AllFaceDirs {
			m.table[b][face] = m.resolve(Token(voxel.BlockType(b), face))
		}
	}
	return m
}

// Token monta o token de consulta de um bloco numa face.
func Token(b voxel.BlockType, face meshing.FaceDir) string {
	return b.String() + ":" + face.String()
}

// --- Wildcard Matching ---

// matchToken compara um token de consulta contra um padrão com suporte a wildcards (*)
// O wildcard '*' em qualquer segmento aceita qualquer valor
func matchToken(pattern, query string) bool {
	// Se o padrão for apenas "*", aceita tudo
	if pattern == "*" {
		return true
	}

	patParts := strings.Split(pattern, ":")
	queryParts := strings.Split(query, ":")

	// Se os tamanhos divergem, não pode casar
	if len(patParts) != len(queryParts) {
		return false
	}

	for i := range patParts {
		if patParts[i] == "*" {
			continue
		}
		if patParts[i] != queryParts[i] {
			return false
		}
	}
	return true
}

// specificityScore calcula a "especificidade" de um padrão
// Quanto mais segmentos NÃO são wildcard, mais específico é
func specificityScore(pattern string) int {
	if pattern == "*" {
		return 0
	}
	score := 0
	for _, p := range strings.Split(pattern, ":") {
		if p != "*" {
			score++
		}
	}
	return score
}

// resolve escolhe a entrada mais específica; empate fica com a última do arquivo.
func (m *Manager) resolve(token string) color.RGBA {
	best := color.RGBA{A: 255}
	bestScore := -1
	for i := range m.colors {
		entry := &m.colors[i]
		for _, pat := range entry.Tokens {
			if !matchToken(pat, token) {
				continue
			}
			if score := specificityScore(pat); score >= bestScore {
				bestScore = score
				best = color.RGBA{R: entry.Color[0], G: entry.Color[1], B: entry.Color[2], A: 255}
			}
		}
	}
	return best
}

// --- Consultas Públicas ---

// Color retorna a cor do bloco na face (consulta em tabela, sem alocação).
func (m *Manager) Color(b voxel.BlockType, face meshing.FaceDir) color.RGBA {
	if b > voxel.MaxBlockType || face > meshing.FaceBack {
		return color.RGBA{R: 255, B: 255, A: 255}
	}
	return m.table[b][face]
}

// Entries retorna as entradas carregadas.
func (m *Manager) Entries() []ColorEntry {
	return m.colors
}
