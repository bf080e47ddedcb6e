package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"memorize-server/controller"
	"memorize-server/matcherrors"
	"memorize-server/theme"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a middleman between the websocket connection and its game.
// Only the read pump touches Controller, so game intents run one at a time.
type Client struct {
	Hub        *Hub
	Conn       *websocket.Conn
	Send       chan []byte
	SessionID  string
	Controller *controller.Controller

	unsubscribe func()
}

// ReadPump pumps messages from the websocket connection to the game.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "tag", "ws", "session", c.SessionID, "err", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// GameChanged forwards controller updates to the peer.
func (c *Client) GameChanged(s controller.Snapshot) {
	c.sendJSON(GameStateMsg{Type: "game_state", Game: s})
}

func (c *Client) handleMessage(data []byte) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "new_game":
		c.handleNewGame(envelope.Raw)
	case "choose":
		c.handleChoose(envelope.Raw)
	case "shuffle":
		c.handleShuffle()
	case "deal":
		c.handleDeal(envelope.Raw)
	case "list_themes":
		c.sendJSON(ThemesMsg{Type: "themes", Themes: c.Hub.Themes.Themes()})
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

func (c *Client) handleNewGame(raw json.RawMessage) {
	var msg NewGameMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid new_game message.")
		return
	}

	var next *theme.Theme
	switch {
	case msg.ThemeID != 0:
		th, ok := c.Hub.Themes.Theme(msg.ThemeID)
		if !ok {
			c.sendError("Theme " + strconv.Itoa(msg.ThemeID) + " not found.")
			return
		}
		next = &th
	case c.Controller == nil:
		themes := c.Hub.Themes.Themes()
		if len(themes) == 0 {
			c.sendError("There are no themes to play.")
			return
		}
		next = &themes[0]
	}

	if c.Controller != nil {
		if err := c.Controller.Reset(next); err != nil {
			c.sendThemeError(err)
		}
		return
	}

	ctrl, err := controller.New(*next, c.Hub.ControllerOptions...)
	if err != nil {
		c.sendThemeError(err)
		return
	}
	c.Controller = ctrl
	c.unsubscribe = ctrl.Subscribe(c)
	slog.Info("game started", "tag", "ws", "session", c.SessionID, "game", ctrl.GameID(), "theme", ctrl.ThemeName())
	c.GameChanged(ctrl.Snapshot())
}

func (c *Client) handleChoose(raw json.RawMessage) {
	if c.Controller == nil {
		c.sendError(matcherrors.ErrNoActiveGame.Error())
		return
	}
	var msg ChooseMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid choose message.")
		return
	}
	// An unchanged game is not an error; the client simply gets no update.
	c.Controller.Choose(msg.CardID)
}

func (c *Client) handleShuffle() {
	if c.Controller == nil {
		c.sendError(matcherrors.ErrNoActiveGame.Error())
		return
	}
	c.Controller.Shuffle()
}

func (c *Client) handleDeal(raw json.RawMessage) {
	if c.Controller == nil {
		c.sendError(matcherrors.ErrNoActiveGame.Error())
		return
	}
	var msg DealMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("Invalid deal message.")
		return
	}
	c.Controller.DealCard(msg.CardID)
}

func (c *Client) sendThemeError(err error) {
	if errors.Is(err, matcherrors.ErrInvalidTheme) {
		c.sendError("That theme cannot be played: it needs a name and at least two symbols.")
		return
	}
	slog.Error("starting game failed", "tag", "ws", "session", c.SessionID, "err", err)
	c.sendError("Could not start the game.")
}

func (c *Client) sendError(message string) {
	c.sendJSON(ErrorMsg{Type: "error", Message: message})
}

func (c *Client) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshaling message", "tag", "ws", "err", err)
		return
	}
	safeSend(c.Send, data)
}

// safeSend sends data to a channel without panicking if the channel is closed.
// If the channel is full or closed, the send is skipped.
func safeSend(ch chan []byte, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("send on closed channel", "tag", "ws", "panic", r)
		}
	}()
	select {
	case ch <- data:
	default:
	}
}
