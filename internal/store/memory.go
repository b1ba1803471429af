package store

import (
	"context"
	"sync"

	"github.com/fakeout-game/backend/internal/game"
)

// MemoryStore holds lobbies in process memory. It backs tests and local
// development without a Redis; semantics mirror RedisStore, including
// handing out copies so callers never share a record with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	lobbies map[string]*game.Lobby
	byCode  map[string]string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		lobbies: make(map[string]*game.Lobby),
		byCode:  make(map[string]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, lobby *game.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byCode[lobby.JoinCode]; taken {
		return ErrDuplicateJoinCode
	}
	s.lobbies[lobby.ID] = lobby.Clone()
	s.byCode[lobby.JoinCode] = lobby.ID
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, lobbyID string) (*game.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lobby, ok := s.lobbies[lobbyID]
	if !ok {
		return nil, ErrNotFound
	}
	return lobby.Clone(), nil
}

func (s *MemoryStore) LoadByJoinCode(ctx context.Context, code string) (*game.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	lobby, ok := s.lobbies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return lobby.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, lobby *game.Lobby) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lobbies[lobby.ID] = lobby.Clone()
	s.byCode[lobby.JoinCode] = lobby.ID
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, lobbyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lobby, ok := s.lobbies[lobbyID]
	if !ok {
		return ErrNotFound
	}
	delete(s.byCode, lobby.JoinCode)
	delete(s.lobbies, lobbyID)
	return nil
}
