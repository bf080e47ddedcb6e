package matcherrors

import "errors"

// Sentinel errors shared by the game, theme, storage and transport packages.
// Kept in a leaf package so every layer can match on them with errors.Is
// without importing each other.
var (
	ErrInvalidPairCount = errors.New("number of pairs must be at least 1")
	ErrInvalidTheme     = errors.New("invalid theme")
	ErrThemeNotFound    = errors.New("theme not found")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrSlotEmpty        = errors.New("no data saved under this key")
	ErrNoActiveGame     = errors.New("no active game for this session")
)
