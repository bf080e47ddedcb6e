package theme

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rivo/uniseg"

	"memorize-server/matcherrors"
)

// MinPairs is the smallest playable number of pairs and the smallest symbol
// count a theme may shrink to.
const MinPairs = 2

var validate = validator.New()

// Theme is a named bundle of symbols, a card color and a pair count.
type Theme struct {
	ID            int       `json:"id"`
	Name          string    `json:"name" validate:"required"`
	Symbols       []string  `json:"symbols" validate:"min=2"`
	NumberOfPairs int       `json:"numberOfPairs"`
	Color         RGBAColor `json:"color"`
}

// Validate reports whether the theme can be played: it needs a name and at
// least MinPairs symbols. The error wraps matcherrors.ErrInvalidTheme.
func (t Theme) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", matcherrors.ErrInvalidTheme, err)
	}
	return nil
}

// IsValid is Validate() == nil.
func (t Theme) IsValid() bool {
	return t.Validate() == nil
}

// MinNumberOfPairs is the lowest pair count the current symbols allow.
func (t Theme) MinNumberOfPairs() int {
	return min(MinPairs, len(t.Symbols))
}

// PlayablePairs is NumberOfPairs limited to what the symbols allow, never
// below MinPairs for a valid theme.
func (t Theme) PlayablePairs() int {
	return clampPairs(t.NumberOfPairs, len(t.Symbols))
}

// Rename sets the theme name.
func (t *Theme) Rename(name string) {
	t.Name = name
}

// SetColor sets the card color.
func (t *Theme) SetColor(c RGBAColor) {
	t.Color = c.Clamped()
}

// SetNumberOfPairs sets the pair count, clamped to what the symbols allow.
func (t *Theme) SetNumberOfPairs(n int) {
	t.NumberOfPairs = clampPairs(n, len(t.Symbols))
}

// RandomizeNumberOfPairs picks a pair count uniformly within the allowed
// range. A nil r uses the global source.
func (t *Theme) RandomizeNumberOfPairs(r *rand.Rand) {
	lo, hi := t.MinNumberOfPairs(), len(t.Symbols)
	if hi <= lo {
		t.NumberOfPairs = hi
		return
	}
	intn := rand.Intn
	if r != nil {
		intn = r.Intn
	}
	t.NumberOfPairs = lo + intn(hi-lo+1)
}

// AddSymbols appends every symbol not already present, keeping first-seen order.
func (t *Theme) AddSymbols(symbols ...string) {
	for _, s := range symbols {
		if s == "" || slices.Contains(t.Symbols, s) {
			continue
		}
		t.Symbols = append(t.Symbols, s)
	}
	t.clampPairs()
}

// RemoveSymbol removes every occurrence of symbol. It refuses, returning
// false, when the theme is already down to MinPairs symbols.
func (t *Theme) RemoveSymbol(symbol string) bool {
	if len(t.Symbols) <= MinPairs {
		return false
	}
	before := len(t.Symbols)
	t.Symbols = slices.DeleteFunc(t.Symbols, func(s string) bool { return s == symbol })
	if len(t.Symbols) == before {
		return false
	}
	t.clampPairs()
	return true
}

func (t *Theme) clampPairs() {
	t.NumberOfPairs = clampPairs(t.NumberOfPairs, len(t.Symbols))
}

// normalize drops duplicate symbols and re-clamps the pair count. Applied
// after any edit that may have touched Symbols directly.
func (t *Theme) normalize() {
	seen := make(map[string]struct{}, len(t.Symbols))
	out := t.Symbols[:0]
	for _, s := range t.Symbols {
		if _, dup := seen[s]; dup || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	t.Symbols = out
	t.Color = t.Color.Clamped()
	t.clampPairs()
}

func (t Theme) clone() Theme {
	t.Symbols = slices.Clone(t.Symbols)
	return t
}

// clampPairs limits n to [MinPairs, symbols]. With fewer than MinPairs
// symbols the theme is unplayable and the count follows the symbol count.
func clampPairs(n, symbols int) int {
	if symbols < MinPairs {
		return symbols
	}
	return min(max(n, MinPairs), symbols)
}

// SplitSymbols splits free text into user-perceived characters so flags and
// joined emoji stay whole. Whitespace is dropped.
func SplitSymbols(text string) []string {
	var out []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		s := g.Str()
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
