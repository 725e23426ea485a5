package app

import (
	"math/rand"

	"buzzcard/internal/domain"
)

// Catalog supplies round cards. The card definitions are immutable reference
// data; every draw returns a fresh copy with both sides independently
// shuffled, so progress on one instance never leaks into another round.
type Catalog struct {
	cards []domain.Card
}

// NewCatalog creates a catalog backed by the built-in deck
func NewCatalog() *Catalog {
	return &Catalog{cards: builtinCards}
}

// Size returns the number of cards in the catalog
func (c *Catalog) Size() int {
	return len(c.cards)
}

// Draw returns a random card with both sides shuffled
func (c *Catalog) Draw() *domain.Card {
	source := c.cards[rand.Intn(len(c.cards))]
	return &domain.Card{
		ID:         source.ID,
		BlueSide:   shuffled(source.BlueSide),
		OrangeSide: shuffled(source.OrangeSide),
	}
}

// shuffled returns a uniformly shuffled copy of the phrases
func shuffled(phrases []string) []string {
	out := make([]string, len(phrases))
	copy(out, phrases)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// builtinCards is the built-in deck. Blue side is played by team A, orange
// side by team B.
var builtinCards = []domain.Card{
	{
		ID: 1,
		BlueSide: []string{
			"The Great Wall of China", "Eiffel Tower", "Mount Everest",
			"Statue of Liberty", "Pyramids of Giza", "Taj Mahal",
			"Machu Picchu", "Stonehenge", "Colosseum", "Big Ben",
		},
		OrangeSide: []string{
			"Golden Gate Bridge", "Sydney Opera House", "Christ the Redeemer",
			"Petra", "Angkor Wat", "Niagara Falls",
			"Grand Canyon", "Mount Fuji", "Leaning Tower of Pisa", "Buckingham Palace",
		},
	},
	{
		ID: 2,
		BlueSide: []string{
			"Harry Potter", "Star Wars", "The Lord of the Rings",
			"Game of Thrones", "Breaking Bad", "Friends",
			"The Office", "Stranger Things", "The Simpsons", "SpongeBob SquarePants",
		},
		OrangeSide: []string{
			"The Matrix", "Inception", "The Avengers",
			"The Walking Dead", "Lost", "House of Cards",
			"Sherlock", "Doctor Who", "South Park", "Family Guy",
		},
	},
	{
		ID: 3,
		BlueSide: []string{
			"Pizza", "Sushi", "Tacos", "Ice Cream", "Chocolate",
			"Pasta", "Burger", "French Fries", "Donuts", "Pancakes",
		},
		OrangeSide: []string{
			"Salad", "Soup", "Sandwich", "Steak", "Chicken",
			"Rice", "Bread", "Cheese", "Apple", "Banana",
		},
	},
	{
		ID: 4,
		BlueSide: []string{
			"Basketball", "Soccer", "Tennis", "Swimming", "Cycling",
			"Running", "Golf", "Baseball", "Volleyball", "Skiing",
		},
		OrangeSide: []string{
			"Football", "Hockey", "Cricket", "Rugby", "Boxing",
			"Wrestling", "Archery", "Fencing", "Surfing", "Skateboarding",
		},
	},
	{
		ID: 5,
		BlueSide: []string{
			"Guitar", "Piano", "Drums", "Violin", "Trumpet",
			"Flute", "Saxophone", "Bass", "Cello", "Harmonica",
		},
		OrangeSide: []string{
			"Ukulele", "Banjo", "Accordion", "Harp", "Trombone",
			"Clarinet", "Oboe", "Tuba", "Xylophone", "Tambourine",
		},
	},
	{
		ID: 6,
		BlueSide: []string{
			"Superman", "Batman", "Spider-Man", "Iron Man", "Wonder Woman",
			"Captain America", "Thor", "Hulk", "Black Widow", "Wolverine",
		},
		OrangeSide: []string{
			"Flash", "Green Lantern", "Aquaman", "Deadpool", "Captain Marvel",
			"Black Panther", "Doctor Strange", "Ant-Man", "Hawkeye", "Storm",
		},
	},
	{
		ID: 7,
		BlueSide: []string{
			"Apple", "Banana", "Orange", "Strawberry", "Grapes",
			"Watermelon", "Pineapple", "Mango", "Kiwi", "Blueberry",
		},
		OrangeSide: []string{
			"Cherry", "Peach", "Pear", "Plum", "Raspberry",
			"Cantaloupe", "Papaya", "Coconut", "Avocado", "Pomegranate",
		},
	},
	{
		ID: 8,
		BlueSide: []string{
			"Dog", "Cat", "Elephant", "Lion", "Tiger",
			"Bear", "Dolphin", "Eagle", "Shark", "Penguin",
		},
		OrangeSide: []string{
			"Rabbit", "Horse", "Monkey", "Giraffe", "Zebra",
			"Wolf", "Whale", "Owl", "Octopus", "Kangaroo",
		},
	},
	{
		ID: 9,
		BlueSide: []string{
			"Doctor", "Teacher", "Engineer", "Chef", "Artist",
			"Musician", "Athlete", "Pilot", "Scientist", "Lawyer",
		},
		OrangeSide: []string{
			"Nurse", "Professor", "Architect", "Baker", "Designer",
			"Singer", "Coach", "Captain", "Researcher", "Judge",
		},
	},
	{
		ID: 10,
		BlueSide: []string{
			"Beach", "Mountain", "Forest", "Desert", "Ocean",
			"River", "Lake", "Island", "Volcano", "Waterfall",
		},
		OrangeSide: []string{
			"Valley", "Canyon", "Jungle", "Tundra", "Sea",
			"Stream", "Pond", "Peninsula", "Geyser", "Cave",
		},
	},
}
