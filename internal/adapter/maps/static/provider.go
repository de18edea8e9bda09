package staticmaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"warfront/internal/app/ports"
	"warfront/internal/domain/game"
)

// Provider serves the built-in maps plus any <id>.json found under Root.
// Files under Root take precedence over built-ins with the same id.
type Provider struct {
	Root string
}

var ErrInvalidMapPath = errors.New("invalid map filepath")

func (p Provider) Get(_ context.Context, mapID string) (game.Map, error) {
	if p.Root != "" {
		path, err := secureJoin(p.Root, mapID+".json")
		if err != nil {
			return game.Map{}, err
		}
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			var m game.Map
			if err := json.Unmarshal(b, &m); err != nil {
				return game.Map{}, fmt.Errorf("decode map %s: %w", mapID, err)
			}
			if m.ID == "" {
				m.ID = mapID
			}
			if err := Validate(m); err != nil {
				return game.Map{}, err
			}
			return m, nil
		case !errors.Is(err, os.ErrNotExist):
			return game.Map{}, err
		}
	}
	if m, ok := builtins[mapID]; ok {
		return m, nil
	}
	return game.Map{}, ports.ErrNotFound
}

// Validate checks that every adjacency is symmetric and points at a known
// territory.
func Validate(m game.Map) error {
	if len(m.Territories) == 0 {
		return fmt.Errorf("map %s: no territories", m.ID)
	}
	for _, t := range m.Territories {
		for _, n := range t.Adjacent {
			if _, ok := m.Territory(n); !ok {
				return fmt.Errorf("map %s: %s borders unknown territory %s", m.ID, t.ID, n)
			}
			if !m.Adjacent(n, t.ID) {
				return fmt.Errorf("map %s: adjacency %s-%s is one-way", m.ID, t.ID, n)
			}
		}
	}
	return nil
}

func secureJoin(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || filepath.IsAbs(rel) {
		return "", ErrInvalidMapPath
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	prefix := rootAbs + string(filepath.Separator)
	if !strings.HasPrefix(target, prefix) {
		return "", ErrInvalidMapPath
	}
	return target, nil
}
