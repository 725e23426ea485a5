package app

import (
	"sort"
	"testing"
)

func TestCatalog_DrawReturnsPermutedSides(t *testing.T) {
	catalog := NewCatalog()

	for i := 0; i < 20; i++ {
		card := catalog.Draw()

		var source *sourceCard
		for j := range builtinCards {
			if builtinCards[j].ID == card.ID {
				source = &sourceCard{builtinCards[j].BlueSide, builtinCards[j].OrangeSide}
				break
			}
		}
		if source == nil {
			t.Fatalf("drawn card %d not in catalog", card.ID)
		}

		if !samePhrases(card.BlueSide, source.blue) {
			t.Errorf("card %d blue side is not a permutation of the catalog entry", card.ID)
		}
		if !samePhrases(card.OrangeSide, source.orange) {
			t.Errorf("card %d orange side is not a permutation of the catalog entry", card.ID)
		}
	}
}

type sourceCard struct {
	blue   []string
	orange []string
}

func samePhrases(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func TestCatalog_DrawReturnsFreshCopies(t *testing.T) {
	catalog := NewCatalog()

	card := catalog.Draw()
	card.BlueSide[0] = "mutated"
	card.OrangeSide[0] = "mutated"

	for _, source := range builtinCards {
		for _, phrase := range source.BlueSide {
			if phrase == "mutated" {
				t.Fatal("mutating a drawn card leaked into the catalog")
			}
		}
		for _, phrase := range source.OrangeSide {
			if phrase == "mutated" {
				t.Fatal("mutating a drawn card leaked into the catalog")
			}
		}
	}
}

func TestCatalog_DeckShape(t *testing.T) {
	catalog := NewCatalog()

	if catalog.Size() != 10 {
		t.Errorf("catalog size = %d, want 10", catalog.Size())
	}
	for _, card := range builtinCards {
		if len(card.BlueSide) != 10 {
			t.Errorf("card %d blue side has %d phrases, want 10", card.ID, len(card.BlueSide))
		}
		if len(card.OrangeSide) != 10 {
			t.Errorf("card %d orange side has %d phrases, want 10", card.ID, len(card.OrangeSide))
		}
	}
}
