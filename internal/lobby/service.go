// Package lobby orchestrates the game: every operation is one
// load-transition-save cycle against the store, serialized per lobby id.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fakeout-game/backend/internal/ai"
	"github.com/fakeout-game/backend/internal/game"
	"github.com/fakeout-game/backend/internal/store"
)

const (
	joinCodeLength = 6
	// createAttempts bounds join-code collision retries at creation.
	createAttempts = 10
	// generationTimeout caps the prompt-generation call; past it the round
	// starts on a built-in prompt instead.
	generationTimeout = 10 * time.Second
)

type Service struct {
	store   store.Store
	prompts ai.Provider // nil means always use built-in prompts
	log     zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(s store.Store, prompts ai.Provider, log zerolog.Logger) *Service {
	return &Service{
		store:   s,
		prompts: prompts,
		log:     log,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lobbyLock returns the mutex serializing all cycles for one lobby id.
// Concurrent submissions that both read "not yet complete" and then save
// would otherwise drop appends.
func (s *Service) lobbyLock(lobbyID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[lobbyID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[lobbyID] = l
	}
	return l
}

func (s *Service) dropLock(lobbyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, lobbyID)
}

// CreateLobby creates a lobby with the creator as its only player (and
// therefore host, at roster index 0).
func (s *Service) CreateLobby(ctx context.Context, playerName string) (*game.Lobby, error) {
	for attempt := 0; attempt < createAttempts; attempt++ {
		lobby := &game.Lobby{
			ID:       uuid.NewString(),
			JoinCode: randomJoinCode(joinCodeLength),
			Players: []game.Player{
				{ID: uuid.NewString(), Name: playerName},
			},
			GameState: game.NewGameState(),
		}
		err := s.store.Create(ctx, lobby)
		if errors.Is(err, store.ErrDuplicateJoinCode) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("lobby", lobby.ID).Str("code", lobby.JoinCode).Msg("lobby created")
		return lobby, nil
	}
	return nil, fmt.Errorf("could not allocate a unique join code after %d attempts", createAttempts)
}

// JoinLobby adds a player to the lobby identified by joinCode.
func (s *Service) JoinLobby(ctx context.Context, joinCode, playerName string) (*game.Lobby, error) {
	found, err := s.store.LoadByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, err
	}

	lock := s.lobbyLock(found.ID)
	lock.Lock()
	defer lock.Unlock()

	// Reload under the lock; the lobby may have changed (or died) since
	// the code lookup.
	lobby, err := s.store.Load(ctx, found.ID)
	if err != nil {
		return nil, err
	}
	lobby.Players = append(lobby.Players, game.Player{ID: uuid.NewString(), Name: playerName})
	if err := s.store.Save(ctx, lobby); err != nil {
		return nil, err
	}
	return lobby, nil
}

// LeaveLobby removes the player; the lobby is destroyed when its last player
// leaves. In-flight responses and guesses from the departed player are left
// alone, matching upstream behavior.
func (s *Service) LeaveLobby(ctx context.Context, lobbyID, playerID string) error {
	lock := s.lobbyLock(lobbyID)
	lock.Lock()
	defer lock.Unlock()

	lobby, err := s.store.Load(ctx, lobbyID)
	if err != nil {
		return err
	}
	lobby.RemovePlayer(playerID)
	if len(lobby.Players) == 0 {
		if err := s.store.Remove(ctx, lobbyID); err != nil {
			return err
		}
		s.dropLock(lobbyID)
		s.log.Info().Str("lobby", lobbyID).Msg("last player left, lobby removed")
		return nil
	}
	return s.store.Save(ctx, lobby)
}

// StartGame begins a round. Prompt generation is bounded; on timeout or
// error the round starts on a built-in prompt, so the only player-facing
// failures are NotFound and InsufficientPlayers.
func (s *Service) StartGame(ctx context.Context, lobbyID string) (*game.GameState, error) {
	lock := s.lobbyLock(lobbyID)
	lock.Lock()
	defer lock.Unlock()

	lobby, err := s.store.Load(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	if len(lobby.Players) < 2 {
		return nil, game.ErrInsufficientPlayers
	}

	prompt, example := s.generatePrompt(ctx)
	gs, err := lobby.StartRound(prompt, example)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, lobby); err != nil {
		return nil, err
	}
	return gs, nil
}

func (s *Service) generatePrompt(ctx context.Context) (string, string) {
	if s.prompts == nil {
		return game.FallbackPromptPair()
	}
	genCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()
	prompt, example, err := s.prompts.GeneratePrompt(genCtx)
	if err != nil {
		s.log.Warn().Err(err).Msg("prompt generation failed, using fallback")
		return game.FallbackPromptPair()
	}
	return prompt, example
}

// SubmitResponse records one player's answer for the current round.
func (s *Service) SubmitResponse(ctx context.Context, lobbyID, playerID, text string) (*game.Response, error) {
	lock := s.lobbyLock(lobbyID)
	lock.Lock()
	defer lock.Unlock()

	lobby, err := s.store.Load(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	resp, err := lobby.SubmitResponse(playerID, text)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, lobby); err != nil {
		return nil, err
	}
	return resp, nil
}

// SubmitGuess records one authorship guess.
func (s *Service) SubmitGuess(ctx context.Context, lobbyID, responseID, guessedPlayerID, guessingPlayerID string) (*game.Guess, error) {
	lock := s.lobbyLock(lobbyID)
	lock.Lock()
	defer lock.Unlock()

	lobby, err := s.store.Load(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	guess, err := lobby.SubmitGuess(guessingPlayerID, responseID, guessedPlayerID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, lobby); err != nil {
		return nil, err
	}
	return guess, nil
}

// ResetGame returns the lobby to the waiting phase from any phase.
func (s *Service) ResetGame(ctx context.Context, lobbyID string) (*game.GameState, error) {
	lock := s.lobbyLock(lobbyID)
	lock.Lock()
	defer lock.Unlock()

	lobby, err := s.store.Load(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	gs := lobby.ResetGame()
	if err := s.store.Save(ctx, lobby); err != nil {
		return nil, err
	}
	return gs, nil
}

// GetLobby returns the current lobby snapshot. Reads don't take the lobby
// lock; the store load is atomic and pollers tolerate slightly stale views.
func (s *Service) GetLobby(ctx context.Context, lobbyID string) (*game.Lobby, error) {
	return s.store.Load(ctx, lobbyID)
}

// randomJoinCode draws from an alphabet without lookalike characters so
// codes survive being read out loud.
func randomJoinCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
