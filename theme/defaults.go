package theme

// seed describes one built-in theme.
type seed struct {
	name    string
	symbols []string
	color   string
	pairs   int
}

var defaultSeeds = []seed{
	{"Animals", []string{"🐡", "🐧", "🦉", "🐥", "🦆", "🙊", "🐷", "🦊", "🐻", "🐝", "🐴", "🐢", "🐙", "🐻‍❄️", "🐗", "🐨"}, "green", 10},
	{"Food", []string{"🍎", "🍐", "🥑", "🍋", "🥭", "🌽", "🫐", "🥒", "🍌", "🍉", "🍇", "🥕", "🫑", "🥝", "🫒", "🌭"}, "red", 10},
	{"Vehicles", []string{"🚗", "🚌", "🏎", "🚓", "🚑", "🚒", "🚚", "🚛", "🚜", "🚲", "🛵", "🚁"}, "blue", 6},
	{"Sports", []string{"⚽️", "🏀", "🏈", "⚾️", "🥎", "🏐", "🏉", "🥏", "🎱", "🏓", "🏸", "⛳️", "🪃", "🥊", "⛸", "🛷"}, "mint", 6},
	{"Smileys", []string{"😀", "😁", "🥹", "😇", "🥳", "😜", "🤩", "🥸", "😐", "😬", "😓", "🙄", "🤔", "😱", "🧐", "🤫"}, "orange", 4},
	{"Flags", []string{"🇦🇷", "🇦🇲", "🇧🇭", "🇨🇲", "🇨🇫", "🇨🇦", "🇦🇴", "🇪🇺", "🇮🇸", "🇯🇵", "🇱🇹", "🇳🇬", "🇰🇷", "🇨🇭", "🇹🇷", "🇫🇮"}, "teal", 6},
}

// loadDefaultThemes appends the built-in themes. Caller holds s.mu.
func (s *Store) loadDefaultThemes() {
	for _, d := range defaultSeeds {
		t := s.newThemeLocked(d.name, d.symbols, MustColor(d.color), d.pairs)
		s.themes = append(s.themes, t)
	}
}
