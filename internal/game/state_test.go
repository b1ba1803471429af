package game

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func testLobby(names ...string) *Lobby {
	l := &Lobby{
		ID:        uuid.NewString(),
		JoinCode:  "ABC234",
		GameState: NewGameState(),
	}
	for _, n := range names {
		l.Players = append(l.Players, Player{ID: uuid.NewString(), Name: n})
	}
	return l
}

// submitAllActive submits one response per player who isn't sitting out.
func submitAllActive(t *testing.T, l *Lobby) {
	t.Helper()
	for _, p := range l.Players {
		if p.ID == l.GameState.SittingOutPlayerID {
			continue
		}
		if _, err := l.SubmitResponse(p.ID, "answer from "+p.Name); err != nil {
			t.Fatalf("submit for %s: %v", p.Name, err)
		}
	}
}

func TestStartRoundRequiresTwoPlayers(t *testing.T) {
	l := testLobby("Alice")
	_, err := l.StartRound("prompt?", "example")
	if !errors.Is(err, ErrInsufficientPlayers) {
		t.Fatalf("expected ErrInsufficientPlayers, got %v", err)
	}
	if l.GameState.Phase != PhaseWaiting {
		t.Fatalf("failed start must leave phase waiting, got %s", l.GameState.Phase)
	}
}

func TestStartRoundReplacesState(t *testing.T) {
	l := testLobby("Alice", "Bob", "Carol")
	gs, err := l.StartRound("Describe a bad superpower.", "Being able to fly, but only backwards.")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if gs.Phase != PhaseWriting {
		t.Fatalf("expected writing, got %s", gs.Phase)
	}
	if gs.CurrentPrompt == nil || gs.CurrentPrompt.Text != "Describe a bad superpower." {
		t.Fatalf("prompt not attached: %+v", gs.CurrentPrompt)
	}
	if gs.CurrentPrompt.ID == "" {
		t.Fatal("prompt should get an id")
	}
	if len(gs.Responses) != 0 || len(gs.Guesses) != 0 {
		t.Fatal("responses and guesses must start empty")
	}
	if gs.RoundNumber != 1 {
		t.Fatalf("first round should be 1, got %d", gs.RoundNumber)
	}
	if !l.HasPlayer(gs.SittingOutPlayerID) {
		t.Fatalf("sitting-out player %q is not a lobby member", gs.SittingOutPlayerID)
	}
	if gs.AIExampleResponse != "Being able to fly, but only backwards." {
		t.Fatalf("example response not stored: %q", gs.AIExampleResponse)
	}

	// Starting again bumps the round counter and clears everything.
	submitAllActive(t, l)
	gs2, err := l.StartRound("Another prompt?", "Another example.")
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if gs2.RoundNumber != 2 {
		t.Fatalf("expected round 2, got %d", gs2.RoundNumber)
	}
	if len(gs2.Responses) != 0 {
		t.Fatal("restart should clear responses")
	}
}

func TestSubmitResponseGuards(t *testing.T) {
	l := testLobby("Alice", "Bob")

	// Wrong phase before starting.
	if _, err := l.SubmitResponse(l.Players[0].ID, "early"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase, got %v", err)
	}

	if _, err := l.StartRound("prompt?", "example"); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Unknown player.
	if _, err := l.SubmitResponse("nobody", "hi"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}

	// With 2 players one sits out, so find the writer.
	var writer Player
	for _, p := range l.Players {
		if p.ID != l.GameState.SittingOutPlayerID {
			writer = p
		}
	}
	if _, err := l.SubmitResponse(writer.ID, "first"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// The round is complete now; a duplicate fails on phase, so check the
	// duplicate guard with a 3-player lobby instead.
	l3 := testLobby("Alice", "Bob", "Carol")
	if _, err := l3.StartRound("prompt?", "example"); err != nil {
		t.Fatalf("start: %v", err)
	}
	var w Player
	for _, p := range l3.Players {
		if p.ID != l3.GameState.SittingOutPlayerID {
			w = p
			break
		}
	}
	if _, err := l3.SubmitResponse(w.ID, "once"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	before := len(l3.GameState.Responses)
	if _, err := l3.SubmitResponse(w.ID, "twice"); !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
	}
	if len(l3.GameState.Responses) != before {
		t.Fatalf("rejected submit must not change responses: %d -> %d", before, len(l3.GameState.Responses))
	}
}

func TestWritingCompletesWithAIDecoy(t *testing.T) {
	l := testLobby("Alice", "Bob", "Carol")
	if _, err := l.StartRound("prompt?", "the example answer"); err != nil {
		t.Fatalf("start: %v", err)
	}
	submitAllActive(t, l)

	gs := l.GameState
	if gs.Phase != PhaseGuessing {
		t.Fatalf("expected guessing after all active players submitted, got %s", gs.Phase)
	}
	// 2 humans + exactly 1 AI.
	if len(gs.Responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(gs.Responses))
	}
	aiCount := 0
	for _, r := range gs.Responses {
		if r.IsAI {
			aiCount++
			if r.PlayerID != "" {
				t.Fatalf("AI response must have no player id, got %q", r.PlayerID)
			}
			if r.Text != "the example answer" {
				t.Fatalf("AI decoy should reuse the example, got %q", r.Text)
			}
		} else if r.PlayerID == "" {
			t.Fatal("human response missing player id")
		}
	}
	if aiCount != 1 {
		t.Fatalf("expected exactly 1 AI response, got %d", aiCount)
	}
	// The AI decoy is appended last.
	if !gs.Responses[len(gs.Responses)-1].IsAI {
		t.Fatal("AI response should be the final append of the writing phase")
	}
}

func TestAIDecoyFallbackWhenNoExample(t *testing.T) {
	l := testLobby("Alice", "Bob")
	if _, err := l.StartRound("prompt?", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	submitAllActive(t, l)
	last := l.GameState.Responses[len(l.GameState.Responses)-1]
	if !last.IsAI || last.Text == "" {
		t.Fatalf("AI decoy should fall back to a canned line, got %+v", last)
	}
}

func TestGuessingFlow(t *testing.T) {
	l := testLobby("Alice", "Bob", "Carol")
	if _, err := l.StartRound("prompt?", "example"); err != nil {
		t.Fatalf("start: %v", err)
	}
	submitAllActive(t, l)

	gs := &l.GameState
	// All 3 players guess all 3 responses: 9 guesses to finish.
	total := len(l.Players) * len(gs.Responses)
	n := 0
	for _, p := range l.Players {
		for _, r := range gs.Responses {
			guessed := ""
			if !r.IsAI {
				guessed = r.PlayerID
			}
			if _, err := l.SubmitGuess(p.ID, r.ID, guessed); err != nil {
				t.Fatalf("guess %d: %v", n, err)
			}
			n++
			if n < total && gs.Phase != PhaseGuessing {
				t.Fatalf("advanced early at guess %d: %s", n, gs.Phase)
			}
		}
	}
	if gs.Phase != PhaseResults {
		t.Fatalf("expected results after %d guesses, got %s", total, gs.Phase)
	}
	if len(gs.Guesses) != total {
		t.Fatalf("expected %d guesses, got %d", total, len(gs.Guesses))
	}
}

func TestDuplicateGuessRejected(t *testing.T) {
	l := testLobby("Alice", "Bob", "Carol")
	if _, err := l.StartRound("prompt?", "example"); err != nil {
		t.Fatalf("start: %v", err)
	}
	submitAllActive(t, l)

	guesser := l.Players[0]
	target := l.GameState.Responses[0]
	if _, err := l.SubmitGuess(guesser.ID, target.ID, ""); err != nil {
		t.Fatalf("first guess: %v", err)
	}
	before := len(l.GameState.Guesses)
	if _, err := l.SubmitGuess(guesser.ID, target.ID, l.Players[1].ID); !errors.Is(err, ErrDuplicateGuess) {
		t.Fatalf("expected ErrDuplicateGuess, got %v", err)
	}
	if len(l.GameState.Guesses) != before {
		t.Fatal("rejected guess must not change guesses")
	}
}

// Guess targets are intentionally not validated: any responseId or
// guessedPlayerId string is accepted, only the guesser must be a member.
func TestGuessTargetsAreNotValidated(t *testing.T) {
	l := testLobby("Alice", "Bob", "Carol")
	if _, err := l.StartRound("prompt?", "example"); err != nil {
		t.Fatalf("start: %v", err)
	}
	submitAllActive(t, l)

	if _, err := l.SubmitGuess(l.Players[0].ID, "no-such-response", "no-such-player"); err != nil {
		t.Fatalf("arbitrary guess targets should be accepted, got %v", err)
	}
	if _, err := l.SubmitGuess("not-a-member", l.GameState.Responses[0].ID, ""); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer for outside guesser, got %v", err)
	}
}

func TestResetFromAnyPhase(t *testing.T) {
	l := testLobby("Alice", "Bob", "Carol")
	if _, err := l.StartRound("prompt?", "example"); err != nil {
		t.Fatalf("start: %v", err)
	}
	submitAllActive(t, l)

	gs := l.ResetGame()
	if gs.Phase != PhaseWaiting {
		t.Fatalf("expected waiting after reset, got %s", gs.Phase)
	}
	if gs.CurrentPrompt != nil || gs.SittingOutPlayerID != "" {
		t.Fatal("reset must clear prompt and sitting-out player")
	}
	if len(gs.Responses) != 0 || len(gs.Guesses) != 0 {
		t.Fatal("reset must clear responses and guesses")
	}
	if gs.RoundNumber != 0 {
		t.Fatalf("reset must zero the round number, got %d", gs.RoundNumber)
	}
}

func TestGuessInWrongPhase(t *testing.T) {
	l := testLobby("Alice", "Bob")
	if _, err := l.SubmitGuess(l.Players[0].ID, "r1", ""); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase in waiting, got %v", err)
	}
	if _, err := l.StartRound("prompt?", "example"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := l.SubmitGuess(l.Players[0].ID, "r1", ""); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase in writing, got %v", err)
	}
}

func TestRemovePlayerKeepsOrder(t *testing.T) {
	l := testLobby("Alice", "Bob", "Carol")
	bob := l.Players[1]
	if !l.RemovePlayer(bob.ID) {
		t.Fatal("expected removal")
	}
	if l.RemovePlayer(bob.ID) {
		t.Fatal("second removal should report absent")
	}
	if len(l.Players) != 2 || l.Players[0].Name != "Alice" || l.Players[1].Name != "Carol" {
		t.Fatalf("join order not preserved: %+v", l.Players)
	}
}

func TestCloneIsDeep(t *testing.T) {
	l := testLobby("Alice", "Bob")
	if _, err := l.StartRound("prompt?", "example"); err != nil {
		t.Fatalf("start: %v", err)
	}
	c := l.Clone()
	c.Players[0].Name = "Mallory"
	c.GameState.CurrentPrompt.Text = "changed"
	c.GameState.Responses = append(c.GameState.Responses, Response{ID: "x"})

	if l.Players[0].Name != "Alice" {
		t.Fatal("clone shares players slice")
	}
	if l.GameState.CurrentPrompt.Text != "prompt?" {
		t.Fatal("clone shares prompt pointer")
	}
	if len(l.GameState.Responses) != 0 {
		t.Fatal("clone shares responses slice")
	}
}

func TestFallbackPromptPair(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		p, ex := FallbackPromptPair()
		if p == "" || ex == "" {
			t.Fatal("fallback pair must be non-empty")
		}
		seen[p] = true
	}
	if len(seen) < 8 {
		t.Fatalf("expected at least 8 distinct built-in prompts, saw %d", len(seen))
	}
}
