package flow

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/omni-stack/omni/internal/types"
)

func newYAMLStore(t *testing.T) (*YAMLStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewYAMLStore(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return s, dir
}

func TestYAMLStore_RoundTrip(t *testing.T) {
	s, dir := newYAMLStore(t)
	f := &types.Flow{Name: "standup", Commands: []types.CommandTemplate{"cal today", "msg send --to $1 done"}}
	if err := s.Save(f); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "standup.yaml")); err != nil {
		t.Fatalf("flow file missing: %v", err)
	}

	got, err := s.Get("standup")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Commands) != 2 || got.Commands[1] != "msg send --to $1 done" {
		t.Errorf("got %+v", got)
	}
}

func TestYAMLStore_SavePreservesCreatedAt(t *testing.T) {
	s, _ := newYAMLStore(t)
	if err := s.Save(&types.Flow{Name: "f", Commands: []types.CommandTemplate{"a"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	first, _ := s.Get("f")

	if err := s.Save(&types.Flow{Name: "f", Commands: []types.CommandTemplate{"a", "b"}}); err != nil {
		t.Fatalf("second save: %v", err)
	}
	second, _ := s.Get("f")

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if len(second.Commands) != 2 {
		t.Errorf("commands not replaced: %v", second.Commands)
	}
}

func TestYAMLStore_DeleteAndNotFound(t *testing.T) {
	s, _ := newYAMLStore(t)
	if err := s.Save(&types.Flow{Name: "gone", Commands: []types.CommandTemplate{"x"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete("gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var notFound *ErrNotFound
	if _, err := s.Get("gone"); !errors.As(err, &notFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete("gone"); !errors.As(err, &notFound) {
		t.Errorf("double delete = %v, want ErrNotFound", err)
	}
}

func TestYAMLStore_RejectsUnsafeNames(t *testing.T) {
	s, _ := newYAMLStore(t)
	for _, name := range []string{"../escape", "a/b", "", ".hidden"} {
		if err := s.Save(&types.Flow{Name: name, Commands: []types.CommandTemplate{"x"}}); err == nil {
			t.Errorf("name %q accepted", name)
		}
	}
}

func TestYAMLStore_ListSkipsCorruptFiles(t *testing.T) {
	s, dir := newYAMLStore(t)
	if err := s.Save(&types.Flow{Name: "good", Commands: []types.CommandTemplate{"x"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("{{{not yaml"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	flows, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(flows) != 1 || flows[0].Name != "good" {
		t.Errorf("flows = %v", flows)
	}
}

func TestYAMLStore_RecoversInterruptedWrites(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "partial.yaml.tmp")
	if err := os.WriteFile(stale, []byte("incomplete"), 0o644); err != nil {
		t.Fatalf("writing stale temp file: %v", err)
	}

	if _, err := NewYAMLStore(dir); err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale temp file not removed")
	}
}
