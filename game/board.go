package game

import (
	"math/rand"
	"time"
)

// CardState is the coarse lifecycle position of a card.
type CardState int

const (
	Hidden CardState = iota
	Revealed
	Matched
)

// String returns the string representation of a CardState.
func (cs CardState) String() string {
	switch cs {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Card is a single card of a deal. Two cards share each Content value.
type Card[C comparable] struct {
	ID      int
	Content C
	FaceUp  bool
	Matched bool

	// LastFaceUp is when the card was last turned face up; zero while face down.
	LastFaceUp time.Time
	// PastFaceUpTime accumulates the time spent face up before LastFaceUp.
	PastFaceUpTime time.Duration
}

// State reports where the card is in its lifecycle.
func (c Card[C]) State() CardState {
	switch {
	case c.Matched:
		return Matched
	case c.FaceUp:
		return Revealed
	default:
		return Hidden
	}
}

// FaceUpTime returns the total time the card has spent face up as of now.
func (c Card[C]) FaceUpTime(now time.Time) time.Duration {
	if c.LastFaceUp.IsZero() {
		return c.PastFaceUpTime
	}
	return c.PastFaceUpTime + now.Sub(c.LastFaceUp)
}

func (c *Card[C]) turnUp(now time.Time) {
	if c.FaceUp {
		return
	}
	c.FaceUp = true
	if !c.Matched {
		c.LastFaceUp = now
	}
}

func (c *Card[C]) turnDown(now time.Time) {
	if !c.FaceUp {
		return
	}
	c.FaceUp = false
	c.stopClock(now)
}

func (c *Card[C]) stopClock(now time.Time) {
	if c.LastFaceUp.IsZero() {
		return
	}
	c.PastFaceUpTime += now.Sub(c.LastFaceUp)
	c.LastFaceUp = time.Time{}
}

// ShuffleFunc permutes n elements through swap; rand.Shuffle satisfies it.
type ShuffleFunc func(n int, swap func(i, j int))

// deal creates two cards per pair with sequential ids and shuffles them.
func deal[C comparable](numberOfPairs int, content func(int) C, shuffle ShuffleFunc) []Card[C] {
	cards := make([]Card[C], 0, 2*numberOfPairs)
	for i := 0; i < numberOfPairs; i++ {
		c := content(i)
		cards = append(cards,
			Card[C]{ID: 2 * i, Content: c},
			Card[C]{ID: 2*i + 1, Content: c},
		)
	}
	shuffleCards(cards, shuffle)
	return cards
}

func shuffleCards[C comparable](cards []Card[C], shuffle ShuffleFunc) {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
