package domain

import "errors"

// Domain errors
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionStarted    = errors.New("session already started")
	ErrSessionNotStarted = errors.New("session has not started")
	ErrSessionOver       = errors.New("session is over")
	ErrNotEnoughPlayers  = errors.New("not enough players to start")
	ErrEmptyTeam         = errors.New("team has no players")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPhraseGuessed     = errors.New("phrase already guessed this round")
	ErrPhraseOutOfRange  = errors.New("phrase index out of range")
	ErrNotDescriber      = errors.New("only the card holder's describing player can mark phrases")
	ErrNotOwner          = errors.New("only the session owner can start the session")
	ErrEmptyName         = errors.New("player name cannot be empty")
	ErrRoundOver         = errors.New("round already ended")
)
