package theme

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorize-server/matcherrors"
)

func TestClampPairs(t *testing.T) {
	tests := []struct {
		n, symbols, expected int
	}{
		{0, 5, 2},
		{-4, 5, 2},
		{1, 5, 2},
		{3, 5, 3},
		{5, 5, 5},
		{99, 5, 5},
		{10, 2, 2},
		{10, 1, 1},
		{10, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, clampPairs(tt.n, tt.symbols), "clampPairs(%d, %d)", tt.n, tt.symbols)
	}
}

func TestPairCountAlwaysWithinBounds(t *testing.T) {
	symbols := []string{"a", "b", "c", "d", "e", "f"}
	for size := MinPairs; size <= len(symbols); size++ {
		for n := -3; n <= 10; n++ {
			th := Theme{Name: "x", Symbols: append([]string(nil), symbols[:size]...)}
			th.SetNumberOfPairs(n)
			assert.GreaterOrEqual(t, th.NumberOfPairs, MinPairs)
			assert.LessOrEqual(t, th.NumberOfPairs, size)
		}
	}
}

func TestPlayablePairs(t *testing.T) {
	th := Theme{Name: "x", Symbols: []string{"a", "b", "c"}}
	for n, want := range map[int]int{0: 2, 1: 2, 3: 3, 7: 3} {
		th.NumberOfPairs = n
		assert.True(t, th.IsValid())
		assert.Equal(t, want, th.PlayablePairs(), "NumberOfPairs=%d", n)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		theme Theme
		valid bool
	}{
		{"valid", Theme{Name: "Fruit", Symbols: []string{"🍎", "🍌"}}, true},
		{"empty name", Theme{Name: "", Symbols: []string{"🍎", "🍌"}}, false},
		{"one symbol", Theme{Name: "Fruit", Symbols: []string{"🍎"}}, false},
		{"no symbols", Theme{Name: "Fruit"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.theme.Validate()
			if tt.valid {
				assert.NoError(t, err)
				assert.True(t, tt.theme.IsValid())
				return
			}
			assert.ErrorIs(t, err, matcherrors.ErrInvalidTheme)
			assert.False(t, tt.theme.IsValid())
		})
	}
}

func TestAddSymbolsDeduplicates(t *testing.T) {
	th := Theme{Name: "x", Symbols: []string{"a", "b"}, NumberOfPairs: 2}
	th.AddSymbols("b", "c", "a", "d", "c", "")

	assert.Equal(t, []string{"a", "b", "c", "d"}, th.Symbols)
	assert.Equal(t, 2, th.NumberOfPairs, "adding symbols should not raise the pair count")
}

func TestRemoveSymbol(t *testing.T) {
	th := Theme{Name: "x", Symbols: []string{"a", "b", "c", "d"}, NumberOfPairs: 4}

	require.True(t, th.RemoveSymbol("c"))
	assert.Equal(t, []string{"a", "b", "d"}, th.Symbols)
	assert.Equal(t, 3, th.NumberOfPairs, "pair count clamps down with the symbols")

	assert.False(t, th.RemoveSymbol("zzz"), "removing an unknown symbol is a no-op")
	assert.Len(t, th.Symbols, 3)
}

// Removing a symbol from a two-symbol theme is rejected.
func TestRemoveSymbolAtFloor(t *testing.T) {
	th := Theme{Name: "x", Symbols: []string{"a", "b"}, NumberOfPairs: 2}

	assert.False(t, th.RemoveSymbol("a"))
	assert.Equal(t, []string{"a", "b"}, th.Symbols)
	assert.Equal(t, 2, th.NumberOfPairs)
}

func TestRandomizeNumberOfPairs(t *testing.T) {
	th := Theme{Name: "x", Symbols: []string{"a", "b", "c", "d", "e"}}
	r := rand.New(rand.NewSource(1))
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		th.RandomizeNumberOfPairs(r)
		require.GreaterOrEqual(t, th.NumberOfPairs, 2)
		require.LessOrEqual(t, th.NumberOfPairs, 5)
		seen[th.NumberOfPairs] = true
	}
	assert.Len(t, seen, 4, "every count in [2, 5] should come up")

	small := Theme{Name: "y", Symbols: []string{"a", "b"}}
	small.RandomizeNumberOfPairs(nil)
	assert.Equal(t, 2, small.NumberOfPairs)
}

func TestNormalize(t *testing.T) {
	th := Theme{
		Symbols:       []string{"a", "a", "", "b", "c", "b"},
		NumberOfPairs: 9,
		Color:         RGBAColor{Red: 2, Green: -1, Blue: 0.5, Alpha: 1},
	}
	th.normalize()

	assert.Equal(t, []string{"a", "b", "c"}, th.Symbols)
	assert.Equal(t, 3, th.NumberOfPairs)
	assert.Equal(t, RGBAColor{Red: 1, Green: 0, Blue: 0.5, Alpha: 1}, th.Color)
}

func TestSplitSymbols(t *testing.T) {
	got := SplitSymbols("🍎 🇯🇵🐻‍❄️a\n")
	assert.Equal(t, []string{"🍎", "🇯🇵", "🐻‍❄️", "a"}, got)
	assert.Empty(t, SplitSymbols("   "))
}

func TestColorNamed(t *testing.T) {
	c, ok := ColorNamed(" Blue ")
	require.True(t, ok)
	assert.Equal(t, Palette["blue"], c)
	assert.Equal(t, 1.0, c.Alpha)

	_, ok = ColorNamed("chartreuse")
	assert.False(t, ok)

	assert.Panics(t, func() { MustColor("chartreuse") })
}
