// Package controller binds a theme to a memory game and exposes the
// read-only projections and intents a presentation layer needs.
package controller

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/google/uuid"

	"memorize-server/game"
	"memorize-server/theme"
)

// Card is a card whose content is a theme symbol.
type Card = game.Card[string]

// Listener is notified after every intent that changed the game.
type Listener interface {
	GameChanged(Snapshot)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Snapshot)

// GameChanged calls f(s).
func (f ListenerFunc) GameChanged(s Snapshot) { f(s) }

// Snapshot is the JSON view of the controller state sent to clients.
type Snapshot struct {
	GameID    string                  `json:"gameId"`
	ThemeID   int                     `json:"themeId"`
	ThemeName string                  `json:"themeName"`
	Color     theme.RGBAColor         `json:"color"`
	Score     int                     `json:"score"`
	Finished  bool                    `json:"finished"`
	Cards     []game.CardView[string] `json:"cards"`
	Dealt     []int                   `json:"dealt"`
}

type options struct {
	gameOpts      []game.Option
	symbolShuffle game.ShuffleFunc
}

// Option configures a Controller.
type Option func(*options)

// WithGameOptions passes options to every game the controller creates.
func WithGameOptions(opts ...game.Option) Option {
	return func(o *options) { o.gameOpts = append(o.gameOpts, opts...) }
}

// WithSymbolShuffle replaces rand.Shuffle for picking which theme symbols
// end up on the cards.
func WithSymbolShuffle(shuffle game.ShuffleFunc) Option {
	return func(o *options) { o.symbolShuffle = shuffle }
}

// Controller owns one game built from one theme. It is not safe for
// concurrent use.
type Controller struct {
	opts options

	id    uuid.UUID
	theme theme.Theme
	game  *game.Game[string]
	dealt map[int]struct{}

	listeners map[int]Listener
	nextSub   int
}

// New starts a game for t. The theme must be valid.
func New(t theme.Theme, opts ...Option) (*Controller, error) {
	o := options{symbolShuffle: rand.Shuffle}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Controller{
		opts:      o,
		listeners: make(map[int]Listener),
	}
	if err := c.start(t); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) start(t theme.Theme) error {
	if err := t.Validate(); err != nil {
		return err
	}
	symbols := slices.Clone(t.Symbols)
	c.opts.symbolShuffle(len(symbols), func(i, j int) {
		symbols[i], symbols[j] = symbols[j], symbols[i]
	})
	pairs := t.PlayablePairs()
	t.NumberOfPairs = pairs
	g, err := game.New(pairs, func(i int) string { return symbols[i] }, c.opts.gameOpts...)
	if err != nil {
		return fmt.Errorf("start game for theme %d: %w", t.ID, err)
	}
	c.id = uuid.New()
	c.theme = t
	c.game = g
	c.dealt = make(map[int]struct{})
	return nil
}

// Subscribe registers l and returns a function that removes it.
func (c *Controller) Subscribe(l Listener) (unsubscribe func()) {
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = l
	return func() { delete(c.listeners, id) }
}

func (c *Controller) notify() {
	if len(c.listeners) == 0 {
		return
	}
	s := c.Snapshot()
	for _, l := range c.listeners {
		l.GameChanged(s)
	}
}

// Reset starts a new game. A nil theme keeps the current one; the symbols
// are reshuffled either way and the dealt set is cleared.
func (c *Controller) Reset(t *theme.Theme) error {
	next := c.theme
	if t != nil {
		next = *t
	}
	if err := c.start(next); err != nil {
		return err
	}
	c.notify()
	return nil
}

// Choose selects a card. It returns false when nothing changed.
func (c *Controller) Choose(cardID int) bool {
	if !c.game.Choose(cardID) {
		return false
	}
	c.notify()
	return true
}

// Shuffle re-permutes the cards.
func (c *Controller) Shuffle() {
	c.game.Shuffle()
	c.notify()
}

// DealCard marks a card as dealt. Unknown ids are ignored.
func (c *Controller) DealCard(cardID int) bool {
	if _, ok := c.game.CardIndex(cardID); !ok {
		return false
	}
	if _, ok := c.dealt[cardID]; ok {
		return false
	}
	c.dealt[cardID] = struct{}{}
	c.notify()
	return true
}

// IsDealt reports whether the card has been dealt.
func (c *Controller) IsDealt(cardID int) bool {
	_, ok := c.dealt[cardID]
	return ok
}

// UndealtCards returns the cards not yet dealt, in deal order.
func (c *Controller) UndealtCards() []Card {
	var out []Card
	for _, card := range c.game.Cards() {
		if !c.IsDealt(card.ID) {
			out = append(out, card)
		}
	}
	return out
}

// Cards returns the cards in deal order.
func (c *Controller) Cards() []Card { return c.game.Cards() }

// Score returns the current score.
func (c *Controller) Score() int { return c.game.Score() }

// Color returns the theme card color.
func (c *Controller) Color() theme.RGBAColor { return c.theme.Color }

// ThemeName returns the bound theme's name.
func (c *Controller) ThemeName() string { return c.theme.Name }

// Theme returns the bound theme.
func (c *Controller) Theme() theme.Theme { return c.theme }

// GameID identifies the current game; it changes on every Reset.
func (c *Controller) GameID() uuid.UUID { return c.id }

// CardIndex returns the position of a card in the deal.
func (c *Controller) CardIndex(cardID int) (int, bool) { return c.game.CardIndex(cardID) }

// Finished reports whether every pair has been matched.
func (c *Controller) Finished() bool { return c.game.AllMatched() }

// Snapshot builds the client-facing view of the current state.
func (c *Controller) Snapshot() Snapshot {
	dealt := make([]int, 0, len(c.dealt))
	for _, card := range c.game.Cards() {
		if c.IsDealt(card.ID) {
			dealt = append(dealt, card.ID)
		}
	}
	return Snapshot{
		GameID:    c.id.String(),
		ThemeID:   c.theme.ID,
		ThemeName: c.theme.Name,
		Color:     c.theme.Color,
		Score:     c.game.Score(),
		Finished:  c.game.AllMatched(),
		Cards:     game.BuildCardViews(c.game),
		Dealt:     dealt,
	}
}
