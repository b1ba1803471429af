// Package store persists lobby records keyed by id, with a secondary index
// from human-shareable join code to id.
package store

import (
	"context"
	"errors"

	"github.com/fakeout-game/backend/internal/game"
)

var (
	ErrNotFound          = errors.New("lobby not found")
	ErrDuplicateJoinCode = errors.New("join code already in use")
)

// Store is the persistence contract for lobbies. Implementations must apply
// the record write, the join-code index entry, and the live-lobby set
// membership as one atomic unit so a crash cannot leave a dangling index.
type Store interface {
	// Create writes a new lobby. Fails with ErrDuplicateJoinCode if another
	// live lobby already owns the join code.
	Create(ctx context.Context, lobby *game.Lobby) error

	// Load returns the lobby or ErrNotFound. The result reflects the most
	// recently completed Save.
	Load(ctx context.Context, lobbyID string) (*game.Lobby, error)

	// LoadByJoinCode resolves the code through the secondary index, then
	// loads by id. ErrNotFound if either lookup misses.
	LoadByJoinCode(ctx context.Context, code string) (*game.Lobby, error)

	// Save fully replaces the record and re-asserts the index entries.
	// Idempotent; safe to repeat.
	Save(ctx context.Context, lobby *game.Lobby) error

	// Remove deletes the record, its join-code entry, and its set
	// membership, resolving the join code from the stored record rather
	// than trusting the caller.
	Remove(ctx context.Context, lobbyID string) error
}
