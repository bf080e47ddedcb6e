package ws

import (
	"encoding/json"

	"memorize-server/controller"
	"memorize-server/theme"
)

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	// Unmarshal just the type field
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// NewGameMsg starts a game. ThemeID 0 restarts with the current theme, or
// the first stored theme when no game is running.
type NewGameMsg struct {
	Type    string `json:"type"`
	ThemeID int    `json:"themeId"`
}

// ChooseMsg is sent by the client to choose a card.
type ChooseMsg struct {
	Type   string `json:"type"`
	CardID int    `json:"cardId"`
}

// DealMsg is sent by the client once a card has been animated in.
type DealMsg struct {
	Type   string `json:"type"`
	CardID int    `json:"cardId"`
}

// --- Server-to-Client messages ---

// ErrorMsg is sent when a client action is invalid.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// GameStateMsg carries the full game state.
type GameStateMsg struct {
	Type string              `json:"type"`
	Game controller.Snapshot `json:"game"`
}

// ThemesMsg lists the stored themes.
type ThemesMsg struct {
	Type   string        `json:"type"`
	Themes []theme.Theme `json:"themes"`
}
