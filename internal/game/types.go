package game

type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseWriting  Phase = "writing"
	PhaseGuessing Phase = "guessing"
	PhaseResults  Phase = "results"
)

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Prompt struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Response is one answer shown during the guessing phase. PlayerID is empty
// exactly when IsAI is true.
type Response struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	PlayerID string `json:"playerId,omitempty"`
	IsAI     bool   `json:"isAI"`
}

// Guess records one player's authorship guess for one response. An empty
// GuessedPlayerID means "this one was written by the AI".
type Guess struct {
	ID               string `json:"id"`
	ResponseID       string `json:"responseId"`
	GuessedPlayerID  string `json:"guessedPlayerId,omitempty"`
	GuessingPlayerID string `json:"guessingPlayerId"`
}

type GameState struct {
	Phase              Phase      `json:"phase"`
	CurrentPrompt      *Prompt    `json:"currentPrompt,omitempty"`
	Responses          []Response `json:"responses"`
	Guesses            []Guess    `json:"guesses"`
	SittingOutPlayerID string     `json:"sittingOutPlayerId,omitempty"`
	RoundNumber        int        `json:"roundNumber"`
	AIExampleResponse  string     `json:"aiExampleResponse,omitempty"`
}

type Lobby struct {
	ID        string    `json:"id"`
	JoinCode  string    `json:"joinCode"`
	Players   []Player  `json:"players"`
	GameState GameState `json:"gameState"`
}

// NewGameState returns the zero round: waiting phase, empty sequences, no
// prompt, nobody sitting out.
func NewGameState() GameState {
	return GameState{
		Phase:     PhaseWaiting,
		Responses: []Response{},
		Guesses:   []Guess{},
	}
}

// HasPlayer reports whether id is a current member of the lobby.
func (l *Lobby) HasPlayer(id string) bool {
	for _, p := range l.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// RemovePlayer drops the player from the roster, preserving join order.
// It reports whether the player was present.
func (l *Lobby) RemovePlayer(id string) bool {
	for i, p := range l.Players {
		if p.ID == id {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the lobby. Stores hand out clones so callers
// can mutate freely before saving.
func (l *Lobby) Clone() *Lobby {
	c := *l
	c.Players = append([]Player(nil), l.Players...)
	c.GameState.Responses = append([]Response(nil), l.GameState.Responses...)
	c.GameState.Guesses = append([]Guess(nil), l.GameState.Guesses...)
	if l.GameState.CurrentPrompt != nil {
		p := *l.GameState.CurrentPrompt
		c.GameState.CurrentPrompt = &p
	}
	return &c
}
