package theme

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"memorize-server/matcherrors"
	"memorize-server/storage"
)

const (
	// DefaultKey is the slot key the theme collection is saved under.
	DefaultKey = "memorize.themes"
	// DefaultAutosaveDelay coalesces bursts of edits into one write.
	DefaultAutosaveDelay = 5 * time.Second

	saveTimeout = 10 * time.Second
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey sets the slot key.
func WithKey(key string) StoreOption {
	return func(s *Store) { s.key = key }
}

// WithAutosaveDelay sets the debounce window between the last edit and the write.
func WithAutosaveDelay(d time.Duration) StoreOption {
	return func(s *Store) { s.delay = d }
}

// Store owns the ordered theme collection and persists it to a slot.
// It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	themes    []Theme
	idCounter int
	// reserved holds ids handed out by NewTheme that Insert may still use.
	reserved map[int]struct{}

	slot  storage.Slot
	key   string
	delay time.Duration

	// gen counts mutations; savedGen is the gen last written. A timer only
	// saves if no mutation happened after it was scheduled.
	timer    *time.Timer
	gen      uint64
	savedGen uint64
	closed   bool

	// saveMu serializes writes so an older snapshot never lands last.
	saveMu sync.Mutex
}

// NewStore loads themes from slot, falling back to the built-in set when
// nothing was saved or the saved data cannot be decoded.
func NewStore(ctx context.Context, slot storage.Slot, opts ...StoreOption) *Store {
	s := &Store{
		slot:     slot,
		key:      DefaultKey,
		delay:    DefaultAutosaveDelay,
		reserved: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	themes, err := s.load(ctx)
	if err != nil {
		if !errors.Is(err, matcherrors.ErrSlotEmpty) {
			slog.Warn("could not load saved themes; using defaults", "tag", "themes", "err", err)
		}
		s.loadDefaultThemes()
		return s
	}
	s.themes = themes
	for _, t := range themes {
		s.idCounter = max(s.idCounter, t.ID)
	}
	slog.Info("loaded themes", "tag", "themes", "count", len(themes), "key", s.key)
	return s
}

func (s *Store) load(ctx context.Context) ([]Theme, error) {
	if s.slot == nil {
		return nil, matcherrors.ErrSlotEmpty
	}
	data, err := s.slot.Load(ctx, s.key)
	if err != nil {
		return nil, err
	}
	var themes []Theme
	if err := json.Unmarshal(data, &themes); err != nil {
		return nil, err
	}
	for i := range themes {
		themes[i].normalize()
	}
	return themes, nil
}

// Themes returns a copy of the collection in display order.
func (s *Store) Themes() []Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Theme, len(s.themes))
	for i, t := range s.themes {
		out[i] = t.clone()
	}
	return out
}

// Len returns the number of themes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.themes)
}

// Theme returns the theme with the given id.
func (s *Store) Theme(id int) (Theme, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Theme{}, false
	}
	return s.themes[i].clone(), true
}

// Index returns the display position of the theme with the given id.
func (s *Store) Index(id int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	return i, i >= 0
}

func (s *Store) indexLocked(id int) int {
	return slices.IndexFunc(s.themes, func(t Theme) bool { return t.ID == id })
}

// NewTheme builds a theme with the next id without adding it to the store.
// The id stays reserved for a later Insert. numberOfPairs <= 0 means one
// pair per symbol.
func (s *Store) NewTheme(name string, symbols []string, color RGBAColor, numberOfPairs int) Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.newThemeLocked(name, symbols, color, numberOfPairs)
	s.reserved[t.ID] = struct{}{}
	return t
}

func (s *Store) newThemeLocked(name string, symbols []string, color RGBAColor, numberOfPairs int) Theme {
	s.idCounter++
	t := Theme{
		ID:    s.idCounter,
		Name:  name,
		Color: color,
	}
	t.AddSymbols(symbols...)
	if numberOfPairs <= 0 {
		numberOfPairs = len(t.Symbols)
	}
	t.SetNumberOfPairs(numberOfPairs)
	t.Color = t.Color.Clamped()
	return t
}

// Create builds a theme with the next id and appends it.
func (s *Store) Create(name string, symbols []string, color RGBAColor, numberOfPairs int) Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.newThemeLocked(name, symbols, color, numberOfPairs)
	s.themes = append(s.themes, t)
	s.scheduleAutosaveLocked()
	return t.clone()
}

// Insert adds t at position at (clamped to the collection bounds). Its id is
// kept only if it is newer than every id issued so far or was reserved by
// NewTheme; otherwise the next id is assigned, so ids are never reused. It
// returns the stored theme.
func (s *Store) Insert(t Theme, at int) Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	t = t.clone()
	_, reserved := s.reserved[t.ID]
	if !reserved && t.ID <= s.idCounter {
		s.idCounter++
		t.ID = s.idCounter
	}
	delete(s.reserved, t.ID)
	s.idCounter = max(s.idCounter, t.ID)
	t.normalize()
	at = min(max(at, 0), len(s.themes))
	s.themes = slices.Insert(s.themes, at, t)
	s.scheduleAutosaveLocked()
	return t.clone()
}

// Update applies edit to the theme with the given id and re-establishes the
// pair-count invariant. The id cannot be changed.
func (s *Store) Update(id int, edit func(*Theme)) (Theme, error) {
	return s.UpdateIf(id, edit, nil)
}

// UpdateIf is Update, except that the edited theme is stored only if check
// accepts it. A rejected edit leaves the store untouched and returns check's
// error. A nil check accepts everything.
func (s *Store) UpdateIf(id int, edit func(*Theme), check func(Theme) error) (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Theme{}, matcherrors.ErrThemeNotFound
	}
	t := s.themes[i].clone()
	edit(&t)
	t.ID = id
	t.normalize()
	if check != nil {
		if err := check(t); err != nil {
			return Theme{}, err
		}
	}
	s.themes[i] = t
	s.scheduleAutosaveLocked()
	return t.clone(), nil
}

// Delete removes the theme with the given id.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return matcherrors.ErrThemeNotFound
	}
	s.themes = slices.Delete(s.themes, i, i+1)
	s.scheduleAutosaveLocked()
	return nil
}

// Move moves the theme at position from so that it ends up at position to.
func (s *Store) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.themes)
	if from < 0 || from >= n || to < 0 || to >= n {
		return matcherrors.ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}
	t := s.themes[from]
	s.themes = slices.Delete(s.themes, from, from+1)
	s.themes = slices.Insert(s.themes, to, t)
	s.scheduleAutosaveLocked()
	return nil
}

// scheduleAutosaveLocked cancels any pending save and schedules a new one.
func (s *Store) scheduleAutosaveLocked() {
	s.gen++
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() { s.autosave(gen) })
}

func (s *Store) autosave(gen uint64) {
	s.mu.Lock()
	superseded := gen != s.gen || s.closed
	s.mu.Unlock()
	if superseded {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.save(ctx); err != nil {
		slog.Error("autosave failed", "tag", "themes", "err", err)
	}
}

// save writes the current collection. It always snapshots under saveMu so
// concurrent saves land in mutation order.
func (s *Store) save(ctx context.Context) error {
	if s.slot == nil {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	gen := s.gen
	if gen == s.savedGen {
		s.mu.Unlock()
		return nil
	}
	data, err := json.Marshal(s.themes)
	count := len(s.themes)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.slot.Save(ctx, s.key, data); err != nil {
		return err
	}
	s.mu.Lock()
	s.savedGen = max(s.savedGen, gen)
	s.mu.Unlock()
	slog.Debug("autosaved themes", "tag", "themes", "count", count, "key", s.key)
	return nil
}

// Flush writes pending changes now and cancels the scheduled save.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.save(ctx)
}

// Close flushes pending changes and stops further autosaves. Edits made
// after Close are kept in memory only.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush(ctx)
}
