package game

import (
	"math/rand"
	"time"

	"memorize-server/matcherrors"
)

const (
	// MismatchPenalty is added to the score when two cards that do not match
	// are compared and at least one of them was seen in an earlier comparison.
	MismatchPenalty = -1

	// matchWindow is the number of seconds over which the match bonus decays.
	matchWindow = 10
)

// MatchBonus returns the points for a match made elapsed after the previous
// match (or the start of the game). Faster matches score more; the result
// never drops below 2.
func MatchBonus(elapsed time.Duration) int {
	secs := int(elapsed / time.Second)
	return max(matchWindow+(matchWindow-secs), 1) * 2
}

type options struct {
	now     func() time.Time
	shuffle ShuffleFunc
}

// Option configures a Game.
type Option func(*options)

// WithClock replaces time.Now as the source of match and face-up timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithShuffle replaces rand.Shuffle for the initial deal and Shuffle.
func WithShuffle(shuffle ShuffleFunc) Option {
	return func(o *options) { o.shuffle = shuffle }
}

// Game is a single-player memory game over cards of content type C.
// It is not safe for concurrent use; its owner serializes calls.
type Game[C comparable] struct {
	cards     []Card[C]
	score     int
	lastMatch time.Time

	// pending is the id of the one face-up unmatched card awaiting a
	// partner, or -1.
	pending int
	// seen holds ids of cards that took part in a resolved comparison.
	seen map[int]struct{}

	now     func() time.Time
	shuffle ShuffleFunc
}

// New deals numberOfPairs pairs, asking content for the face of each pair.
func New[C comparable](numberOfPairs int, content func(int) C, opts ...Option) (*Game[C], error) {
	if numberOfPairs < 1 {
		return nil, matcherrors.ErrInvalidPairCount
	}
	o := options{now: time.Now, shuffle: rand.Shuffle}
	for _, opt := range opts {
		opt(&o)
	}
	return &Game[C]{
		cards:     deal(numberOfPairs, content, o.shuffle),
		lastMatch: o.now(),
		pending:   -1,
		seen:      make(map[int]struct{}),
		now:       o.now,
		shuffle:   o.shuffle,
	}, nil
}

// Cards returns a copy of the cards in deal order.
func (g *Game[C]) Cards() []Card[C] {
	out := make([]Card[C], len(g.cards))
	copy(out, g.cards)
	return out
}

// Score returns the current score.
func (g *Game[C]) Score() int {
	return g.score
}

// Pairs returns the number of pairs dealt.
func (g *Game[C]) Pairs() int {
	return len(g.cards) / 2
}

// Pending returns the id of the face-up card awaiting a partner, if any.
func (g *Game[C]) Pending() (int, bool) {
	return g.pending, g.pending >= 0
}

// Seen reports whether the card took part in a resolved comparison.
func (g *Game[C]) Seen(id int) bool {
	_, ok := g.seen[id]
	return ok
}

// CardIndex returns the current position of the card with the given id.
func (g *Game[C]) CardIndex(id int) (int, bool) {
	for i := range g.cards {
		if g.cards[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// AllMatched returns true if every card has been matched.
func (g *Game[C]) AllMatched() bool {
	for _, c := range g.cards {
		if !c.Matched {
			return false
		}
	}
	return true
}

// Choose selects the card with the given id. It returns false and leaves
// the game untouched when the card does not exist, is face up, or is matched.
func (g *Game[C]) Choose(id int) bool {
	chosen, ok := g.CardIndex(id)
	if !ok || g.cards[chosen].FaceUp || g.cards[chosen].Matched {
		return false
	}
	now := g.now()

	if p, ok := g.CardIndex(g.pending); ok {
		chosenCard, pendingCard := &g.cards[chosen], &g.cards[p]
		if chosenCard.Content == pendingCard.Content {
			chosenCard.Matched = true
			pendingCard.Matched = true
			pendingCard.stopClock(now)
			g.score += MatchBonus(now.Sub(g.lastMatch))
			g.lastMatch = now
		} else if g.Seen(chosenCard.ID) || g.Seen(pendingCard.ID) {
			g.score += MismatchPenalty
		}
		g.seen[chosenCard.ID] = struct{}{}
		g.seen[pendingCard.ID] = struct{}{}
		g.pending = -1
	} else {
		for i := range g.cards {
			if !g.cards[i].Matched {
				g.cards[i].turnDown(now)
			}
		}
		g.pending = id
	}

	g.cards[chosen].turnUp(now)
	return true
}

// Shuffle re-permutes the cards. Ids and card state are kept.
func (g *Game[C]) Shuffle() {
	shuffleCards(g.cards, g.shuffle)
}
