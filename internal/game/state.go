package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// fallbackDecoy fills the AI slot when a round was started without a stored
// example response.
const fallbackDecoy = "I'd rather not say, but it involved a lot of glitter."

// StartRound replaces the lobby's game state wholesale: a fresh prompt, one
// player chosen uniformly at random to sit out, and the round counter bumped.
// The prompt pair comes from the caller; generation failures are handled
// upstream so starting never fails once the roster is big enough.
func (l *Lobby) StartRound(promptText, exampleResponse string) (*GameState, error) {
	if len(l.Players) < 2 {
		return nil, ErrInsufficientPlayers
	}
	sittingOut := l.Players[rand.Intn(len(l.Players))]
	l.GameState = GameState{
		Phase:              PhaseWriting,
		CurrentPrompt:      &Prompt{ID: uuid.NewString(), Text: promptText},
		Responses:          []Response{},
		Guesses:            []Guess{},
		SittingOutPlayerID: sittingOut.ID,
		RoundNumber:        l.GameState.RoundNumber + 1,
		AIExampleResponse:  exampleResponse,
	}
	return &l.GameState, nil
}

// SubmitResponse appends one human response. When every active player (the
// roster minus whoever sits out) has answered, it appends the single AI decoy
// and advances to guessing. Completion is derived from counts on every call,
// never from a flag, so submission order doesn't matter.
func (l *Lobby) SubmitResponse(playerID, text string) (*Response, error) {
	gs := &l.GameState
	if gs.Phase != PhaseWriting {
		return nil, ErrWrongPhase
	}
	if !l.HasPlayer(playerID) {
		return nil, ErrUnknownPlayer
	}
	for _, r := range gs.Responses {
		if !r.IsAI && r.PlayerID == playerID {
			return nil, ErrDuplicateSubmission
		}
	}
	resp := Response{
		ID:       uuid.NewString(),
		Text:     text,
		PlayerID: playerID,
	}
	gs.Responses = append(gs.Responses, resp)

	if len(gs.Responses) == l.activeWriters() {
		decoy := gs.AIExampleResponse
		if decoy == "" {
			decoy = fallbackDecoy
		}
		gs.Responses = append(gs.Responses, Response{
			ID:   uuid.NewString(),
			Text: decoy,
			IsAI: true,
		})
		gs.Phase = PhaseGuessing
	}
	return &resp, nil
}

// SubmitGuess appends one authorship guess. Only the (responseID, guesser)
// pair is deduplicated; responseID and guessedPlayerID are accepted as-is,
// matching the upstream behavior of not validating guess targets. The round
// moves to results once every player has guessed every response.
func (l *Lobby) SubmitGuess(guessingPlayerID, responseID, guessedPlayerID string) (*Guess, error) {
	gs := &l.GameState
	if gs.Phase != PhaseGuessing {
		return nil, ErrWrongPhase
	}
	if !l.HasPlayer(guessingPlayerID) {
		return nil, ErrUnknownPlayer
	}
	for _, g := range gs.Guesses {
		if g.ResponseID == responseID && g.GuessingPlayerID == guessingPlayerID {
			return nil, ErrDuplicateGuess
		}
	}
	guess := Guess{
		ID:               uuid.NewString(),
		ResponseID:       responseID,
		GuessedPlayerID:  guessedPlayerID,
		GuessingPlayerID: guessingPlayerID,
	}
	gs.Guesses = append(gs.Guesses, guess)

	if len(gs.Guesses) == len(l.Players)*len(gs.Responses) {
		gs.Phase = PhaseResults
	}
	return &guess, nil
}

// ResetGame unconditionally returns the lobby to the waiting phase. It is
// total on purpose: a stuck round can always be recovered from any phase.
func (l *Lobby) ResetGame() *GameState {
	l.GameState = NewGameState()
	return &l.GameState
}

// activeWriters counts roster members expected to write this round.
func (l *Lobby) activeWriters() int {
	n := 0
	for _, p := range l.Players {
		if p.ID != l.GameState.SittingOutPlayerID {
			n++
		}
	}
	return n
}
