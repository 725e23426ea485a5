package domain

// Team identifies one of the two sides of a session
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// String returns the string representation of the team
func (t Team) String() string {
	return string(t)
}

// Opponent returns the other team
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Side returns the card side this team guesses from. Team A plays the
// blue side, team B the orange side.
func (t Team) Side() CardSide {
	if t == TeamA {
		return SideBlue
	}
	return SideOrange
}
