package domain

// CardSide identifies one of the two phrase lists on a card
type CardSide string

const (
	SideBlue   CardSide = "blue"
	SideOrange CardSide = "orange"
)

// Card is a double-sided card drawn for a round. Both sides are shuffled
// independently when the card is drawn and never mutated afterwards; passing
// the card between teams only changes which side is in play.
type Card struct {
	ID         int      `json:"id"`
	BlueSide   []string `json:"blueSide"`
	OrangeSide []string `json:"orangeSide"`
}

// Phrases returns the phrase list for the given side
func (c *Card) Phrases(side CardSide) []string {
	if side == SideBlue {
		return c.BlueSide
	}
	return c.OrangeSide
}
