package game

import "errors"

var (
	ErrInsufficientPlayers = errors.New("at least 2 players are required to start")
	ErrWrongPhase          = errors.New("action not allowed in current phase")
	ErrUnknownPlayer       = errors.New("player is not a member of this lobby")
	ErrDuplicateSubmission = errors.New("player already submitted a response this round")
	ErrDuplicateGuess      = errors.New("player already guessed for this response")
)
