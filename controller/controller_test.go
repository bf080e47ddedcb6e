package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorize-server/game"
	"memorize-server/matcherrors"
	"memorize-server/theme"
)

func noShuffle(int, func(i, j int)) {}

func fruitTheme() theme.Theme {
	return theme.Theme{
		ID:            7,
		Name:          "Fruit",
		Symbols:       []string{"🍎", "🍌", "🍇"},
		NumberOfPairs: 2,
		Color:         theme.Palette["red"],
	}
}

func newTestController(t *testing.T, th theme.Theme) *Controller {
	t.Helper()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c, err := New(th,
		WithSymbolShuffle(noShuffle),
		WithGameOptions(game.WithShuffle(noShuffle), game.WithClock(func() time.Time { return now })),
	)
	require.NoError(t, err)
	return c
}

func TestNewBindsTheme(t *testing.T) {
	c := newTestController(t, fruitTheme())

	assert.Equal(t, "Fruit", c.ThemeName())
	assert.Equal(t, theme.Palette["red"], c.Color())
	assert.Equal(t, 0, c.Score())
	assert.NotEqual(t, "", c.GameID().String())

	cards := c.Cards()
	require.Len(t, cards, 4)
	contents := []string{cards[0].Content, cards[1].Content, cards[2].Content, cards[3].Content}
	assert.Equal(t, []string{"🍎", "🍎", "🍌", "🍌"}, contents)
}

func TestNewRejectsInvalidTheme(t *testing.T) {
	bad := fruitTheme()
	bad.Name = ""
	_, err := New(bad)
	assert.ErrorIs(t, err, matcherrors.ErrInvalidTheme)
}

func TestPairCountClampedToPlayableRange(t *testing.T) {
	tests := []struct {
		pairs     int
		wantCards int
	}{
		{pairs: 0, wantCards: 4},
		{pairs: 1, wantCards: 4},
		{pairs: 2, wantCards: 4},
		{pairs: 99, wantCards: 6},
	}
	for _, tt := range tests {
		th := fruitTheme()
		th.NumberOfPairs = tt.pairs
		c, err := New(th)
		require.NoError(t, err, "pairs=%d", tt.pairs)
		assert.Len(t, c.Cards(), tt.wantCards, "pairs=%d", tt.pairs)
		assert.Equal(t, tt.wantCards/2, c.Theme().NumberOfPairs, "pairs=%d", tt.pairs)
	}
}

func TestEveryContentAppearsTwice(t *testing.T) {
	th := fruitTheme()
	th.NumberOfPairs = 3
	c, err := New(th)
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, card := range c.Cards() {
		counts[card.Content]++
	}
	assert.Len(t, counts, 3)
	for content, n := range counts {
		assert.Equal(t, 2, n, "content %s", content)
	}
}

func TestChooseAndNotify(t *testing.T) {
	c := newTestController(t, fruitTheme())

	var got []Snapshot
	unsubscribe := c.Subscribe(ListenerFunc(func(s Snapshot) { got = append(got, s) }))

	assert.True(t, c.Choose(0))
	assert.True(t, c.Choose(1))
	assert.False(t, c.Choose(1), "matched card is a no-op")
	assert.False(t, c.Choose(99), "unknown card is a no-op")

	require.Len(t, got, 2, "only state changes notify")
	assert.Equal(t, 40, got[1].Score)
	assert.Equal(t, "matched", got[1].Cards[0].State)
	assert.Equal(t, c.GameID().String(), got[1].GameID)

	unsubscribe()
	c.Shuffle()
	assert.Len(t, got, 2, "unsubscribed listener is not called")
}

func TestResetKeepsOrReplacesTheme(t *testing.T) {
	c := newTestController(t, fruitTheme())
	firstID := c.GameID()
	c.Choose(0)
	c.Choose(1)
	c.DealCard(0)

	require.NoError(t, c.Reset(nil))
	assert.NotEqual(t, firstID, c.GameID())
	assert.Equal(t, 0, c.Score())
	assert.Equal(t, "Fruit", c.ThemeName())
	assert.False(t, c.IsDealt(0), "reset clears the dealt set")

	other := theme.Theme{ID: 8, Name: "Letters", Symbols: []string{"a", "b", "c", "d"}, NumberOfPairs: 4, Color: theme.Palette["blue"]}
	require.NoError(t, c.Reset(&other))
	assert.Equal(t, "Letters", c.ThemeName())
	assert.Len(t, c.Cards(), 8)

	bad := theme.Theme{Name: "bad", Symbols: []string{"a"}}
	assert.ErrorIs(t, c.Reset(&bad), matcherrors.ErrInvalidTheme)
	assert.Equal(t, "Letters", c.ThemeName(), "failed reset keeps the running game")
}

func TestDealt(t *testing.T) {
	c := newTestController(t, fruitTheme())

	assert.Len(t, c.UndealtCards(), 4)
	assert.True(t, c.DealCard(2))
	assert.False(t, c.DealCard(2), "dealing twice is a no-op")
	assert.False(t, c.DealCard(42), "unknown card cannot be dealt")

	assert.True(t, c.IsDealt(2))
	assert.False(t, c.IsDealt(0))
	undealt := c.UndealtCards()
	require.Len(t, undealt, 3)
	for _, card := range undealt {
		assert.NotEqual(t, 2, card.ID)
	}
	assert.Equal(t, []int{2}, c.Snapshot().Dealt)
}

func TestSnapshotHidesFaceDownContent(t *testing.T) {
	c := newTestController(t, fruitTheme())
	c.Choose(2)

	s := c.Snapshot()
	assert.Equal(t, 7, s.ThemeID)
	assert.False(t, s.Finished)
	for _, cv := range s.Cards {
		if cv.ID == 2 {
			require.NotNil(t, cv.Content)
			assert.Equal(t, "🍌", *cv.Content)
			continue
		}
		assert.Nil(t, cv.Content)
	}
}

func TestFinished(t *testing.T) {
	c := newTestController(t, fruitTheme())
	for _, id := range []int{0, 1, 2, 3} {
		c.Choose(id)
	}
	assert.True(t, c.Finished())
	assert.True(t, c.Snapshot().Finished)
}
