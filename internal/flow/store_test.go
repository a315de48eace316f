package flow

import (
	"errors"
	"testing"

	"github.com/omni-stack/omni/internal/types"
)

func TestMemoryStore_SaveAndGet(t *testing.T) {
	s := NewMemoryStore()
	f := &types.Flow{Name: "morning", Commands: []types.CommandTemplate{"cal today", "issues list"}}
	if err := s.Save(f); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Get("morning")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "morning" || len(got.Commands) != 2 {
		t.Errorf("got %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set on save")
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Save(&types.Flow{Name: "f", Commands: []types.CommandTemplate{"a"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	first, _ := s.Get("f")
	first.Commands[0] = "mutated"

	second, _ := s.Get("f")
	if second.Commands[0] != "a" {
		t.Error("store handed out shared state")
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get("ghost")
	var notFound *ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := s.Delete("ghost"); !errors.As(err, &notFound) {
		t.Errorf("delete err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_SaveRejectsInvalidFlow(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Save(&types.Flow{Name: "bad"}); err == nil {
		t.Error("flow without commands accepted")
	}
}

func TestMemoryStore_ListSorted(t *testing.T) {
	s := NewMemoryStore()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(&types.Flow{Name: name, Commands: []types.CommandTemplate{"x"}}); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	flows, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, w := range want {
		if flows[i].Name != w {
			t.Errorf("flows[%d] = %q, want %q", i, flows[i].Name, w)
		}
	}
}
