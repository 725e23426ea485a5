package domain

import "time"

// Player represents a player in a session
type Player struct {
	ID       string    `json:"id"`
	ConnID   string    `json:"-"` // opaque connection handle, used only for disconnect correlation
	Name     string    `json:"name"`
	Team     Team      `json:"team"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewPlayer creates a new player assigned to the given team
func NewPlayer(id, connID, name string, team Team) *Player {
	return &Player{
		ID:       id,
		ConnID:   connID,
		Name:     name,
		Team:     team,
		JoinedAt: time.Now(),
	}
}
