package memory

import (
	"context"
	"encoding/json"
	"sync"

	"warfront/internal/domain/game"
)

// Store keeps games as encoded documents so callers never share memory
// with it, mirroring the document semantics of the postgres store.
type Store struct {
	mu    sync.Mutex
	games map[string][]byte
	logs  map[string][]game.LogEntry
}

func NewStore() *Store {
	return &Store{
		games: make(map[string][]byte),
		logs:  make(map[string][]game.LogEntry),
	}
}

type txKey struct{}

// lock takes the store lock unless ctx already runs inside RunInTx.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func encodeGame(g game.Game) ([]byte, error) {
	return json.Marshal(g)
}

func decodeGame(b []byte) (game.Game, error) {
	var g game.Game
	err := json.Unmarshal(b, &g)
	return g, err
}
