package domain

import (
	"math/rand"
	"time"
)

var suits = []string{"♠", "♥", "♣", "♦"}

var faces = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Deck is a shuffled 52-card shoe. Drawing from an empty deck silently starts
// a fresh shuffled shoe rather than failing.
type Deck struct {
	Cards []Card
	rng   *rand.Rand
}

// NewDeck constructs a freshly shuffled deck with the provided rng, or a
// time-seeded default when rng is nil.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// Reset rebuilds the 52 distinct cards and shuffles them uniformly.
func (d *Deck) Reset() {
	d.Cards = d.Cards[:0]
	for _, suit := range suits {
		for i, face := range faces {
			d.Cards = append(d.Cards, Card{
				Rank:  i + 1,
				Suit:  suit,
				Face:  face,
				Color: suitColor(suit),
			})
		}
	}
	d.rng.Shuffle(len(d.Cards), func(i, j int) { d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i] })
}

// Draw removes and returns the top card, reshuffling a new shoe first if the
// deck ran out.
func (d *Deck) Draw() Card {
	if len(d.Cards) == 0 {
		d.Reset()
	}
	card := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]
	return card
}

func suitColor(suit string) string {
	if suit == "♥" || suit == "♦" {
		return "red"
	}
	return "black"
}
