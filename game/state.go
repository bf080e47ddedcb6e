package game

// CardView is the client-facing representation of a card.
// Content is only included when the card is face up or matched.
type CardView[C comparable] struct {
	ID      int    `json:"id"`
	Content *C     `json:"content,omitempty"`
	State   string `json:"state"`
	Seen    bool   `json:"seen"`
}

// BuildCardViews constructs the client-facing card list in deal order.
// Hidden cards do not expose their content.
func BuildCardViews[C comparable](g *Game[C]) []CardView[C] {
	views := make([]CardView[C], len(g.cards))
	for i, card := range g.cards {
		cv := CardView[C]{
			ID:    card.ID,
			State: card.State().String(),
			Seen:  g.Seen(card.ID),
		}
		if card.FaceUp || card.Matched {
			content := card.Content
			cv.Content = &content
		}
		views[i] = cv
	}
	return views
}
