package flow

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/omni-stack/omni/internal/types"
)

// flowNameRe keeps flow names filesystem-safe: one flow is one YAML file.
var flowNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// YAMLStore persists flows as YAML files with atomic writes, one file per
// flow.
type YAMLStore struct {
	dir string
}

// NewYAMLStore creates a store rooted at dir, creating it if needed and
// recovering from any interrupted writes.
func NewYAMLStore(dir string) (*YAMLStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating flows dir: %w", err)
	}
	if err := recoverInterruptedWrites(dir); err != nil {
		return nil, fmt.Errorf("recovering interrupted writes: %w", err)
	}
	return &YAMLStore{dir: dir}, nil
}

// Get implements Store.
func (s *YAMLStore) Get(name string) (*types.Flow, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &ErrNotFound{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("reading flow %q: %w", name, err)
	}
	var f types.Flow
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing flow %q: %w", name, err)
	}
	return &f, nil
}

// Save implements Store. The write is atomic: a temp file in the same
// directory is renamed over the target.
func (s *YAMLStore) Save(f *types.Flow) error {
	if err := f.Validate(); err != nil {
		return err
	}
	path, err := s.path(f.Name)
	if err != nil {
		return err
	}

	stored := *f
	if stored.CreatedAt.IsZero() {
		if existing, err := s.Get(f.Name); err == nil {
			stored.CreatedAt = existing.CreatedAt
		} else {
			stored.CreatedAt = time.Now().UTC()
		}
	}
	stored.UpdatedAt = time.Now().UTC()

	data, err := yaml.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("encoding flow %q: %w", f.Name, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing flow %q: %w", f.Name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing flow %q: %w", f.Name, err)
	}
	return nil
}

// Delete implements Store.
func (s *YAMLStore) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return &ErrNotFound{Name: name}
	}
	return err
}

// List implements Store.
func (s *YAMLStore) List() ([]*types.Flow, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing flows: %w", err)
	}

	var flows []*types.Flow
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		f, err := s.Get(name)
		if err != nil {
			// A corrupt file should not hide every other flow.
			continue
		}
		flows = append(flows, f)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].Name < flows[j].Name })
	return flows, nil
}

func (s *YAMLStore) path(name string) (string, error) {
	if !flowNameRe.MatchString(name) {
		return "", fmt.Errorf("invalid flow name %q", name)
	}
	return filepath.Join(s.dir, name+".yaml"), nil
}

// recoverInterruptedWrites removes .tmp files left by crashed writes. The
// rename never happened, so the previous flow file (if any) is intact.
func recoverInterruptedWrites(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".yaml.tmp") {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
