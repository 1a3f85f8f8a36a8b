package mapdata

import (
	"errors"
	"testing"

	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"
)

func openTestStore(t *testing.T, dir string) *WorldStore {
	t.Helper()
	s := NewWorldStore(NewGenerator(3))
	if err := s.OpenInitialize(dir, "teste"); err != nil {
		t.Fatalf("OpenInitialize: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	pos := util.NewIVec3(10, 200, -5) // céu: chunk gerado compacto de ar

	s := openTestStore(t, dir)
	if s.HasData() {
		t.Fatalf("banco novo não deveria ter chunks")
	}
	if err := s.SetBlock(pos, voxel.Block(voxel.BlockSnow)); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	if err := s.SetMetadata("Seed", "3"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	coord := pos.ChunkCoord(voxel.ChunkSize)
	if chunk, _ := s.GetChunk(coord); chunk.IsDirty {
		t.Errorf("chunk continua sujo depois do Save")
	}
	s.Close()

	// Reabre o mesmo mundo: o bloco editado vem do banco, não do gerador.
	s2 := openTestStore(t, dir)
	if !s2.HasData() {
		t.Fatalf("banco reaberto deveria ter chunks")
	}
	if got := s2.GetBlock(pos); got.BlockType != voxel.BlockSnow {
		t.Errorf("GetBlock após reabrir = %v, want snow", got.BlockType)
	}
	if seed, ok := s2.StoredSeed(); !ok || seed != 3 {
		t.Errorf("StoredSeed = %d %v, want 3 true", seed, ok)
	}
	if name, _ := s2.Metadata("WorldName"); name != "teste" {
		t.Errorf("WorldName = %q, want teste", name)
	}

	var listed []util.IVec3
	n := s2.QueueAllStoredChunks(func(c util.IVec3, mtime int64) {
		listed = append(listed, c)
	})
	if n != 1 || len(listed) != 1 || listed[0] != coord {
		t.Errorf("QueueAllStoredChunks = %d %v, want 1 [%v]", n, listed, coord)
	}
}

func TestSaveKeepsNewerEdits(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	pos := util.NewIVec3(1, 300, 1)
	s.SetBlock(pos, voxel.Block(voxel.BlockStone))

	chunk, _ := s.GetChunk(pos.ChunkCoord(voxel.ChunkSize))
	stale := *chunk
	s.SetBlock(pos.Add(util.NewIVec3(1, 0, 0)), voxel.Block(voxel.BlockStone))

	if err := s.SaveChunk(&stale); err != nil {
		t.Fatalf("SaveChunk: %v", err)
	}
	if chunk, _ := s.GetChunk(pos.ChunkCoord(voxel.ChunkSize)); !chunk.IsDirty {
		t.Errorf("salvar uma versão antiga não pode limpar o IsDirty da versão nova")
	}
}

func TestPurgeSavesEditsBeforeUnloading(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	pos := util.NewIVec3(5, 250, 5)
	coord := pos.ChunkCoord(voxel.ChunkSize)
	away := []util.IVec3{{X: 1000}}

	blocks := []voxel.BlockType{voxel.BlockSnow, voxel.BlockWood, voxel.BlockSand}
	for round := 0; round < 10; round++ {
		want := blocks[round%len(blocks)]
		if err := s.SetBlock(pos, voxel.Block(want)); err != nil {
			t.Fatalf("SetBlock: %v", err)
		}

		removed := s.Purge(away, 0)
		if len(removed) != 1 || removed[0] != coord {
			t.Fatalf("rodada %d: Purge removeu %v, want [%v]", round, removed, coord)
		}
		if _, ok := s.GetChunk(coord); ok {
			t.Fatalf("rodada %d: chunk continua na RAM após Purge", round)
		}

		// Recarrega imediatamente: a edição tem de estar no banco.
		if got := s.GetBlock(pos); got.BlockType != want {
			t.Fatalf("rodada %d: GetBlock após Purge = %v, want %v", round, got.BlockType, want)
		}
		if chunk, _ := s.GetChunk(coord); chunk.IsDirty {
			t.Errorf("rodada %d: chunk recarregado do banco não deveria estar sujo", round)
		}
	}
}

func TestNoDatabase(t *testing.T) {
	s := NewWorldStore(nil)
	if err := s.Save(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Save sem banco = %v, want ErrNoDatabase", err)
	}
	if _, err := s.LoadChunk(util.IVec3{}); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("LoadChunk sem banco = %v, want ErrNoDatabase", err)
	}
	if s.HasData() {
		t.Errorf("HasData sem banco deveria ser false")
	}
}
