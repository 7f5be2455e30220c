package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Event is a live group change pushed by the server.
type Event struct {
	Kind    string          `json:"kind"`
	GroupID uuid.UUID       `json:"group_id"`
	ActorID uuid.UUID       `json:"actor_id"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// wsURL maps the API base onto the websocket endpoint.
func wsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://") + "/ws"
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://") + "/ws"
	default:
		return base + "/ws"
	}
}

// Watch streams group events to fn until ctx is done or the connection drops.
// With groupIDs the stream is narrowed to those groups.
func (c *Client) Watch(ctx context.Context, groupIDs []uuid.UUID, fn func(Event)) error {
	tok := c.token()
	if tok == "" {
		return ErrNoSession
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+tok)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL(c.baseURL), header)
	if err != nil {
		if resp != nil {
			return newAPIError(resp.StatusCode, nil)
		}
		return errors.Wrap(err, "dial websocket")
	}
	defer conn.Close()

	if len(groupIDs) > 0 {
		payload, _ := json.Marshal(map[string][]uuid.UUID{"group_ids": groupIDs})
		if err := conn.WriteJSON(frame{Type: "subscribe", Payload: payload}); err != nil {
			return errors.Wrap(err, "subscribe")
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return errors.Wrap(err, "read event")
		}
		if f.Type != "group_event" {
			continue
		}
		var ev Event
		if err := json.Unmarshal(f.Payload, &ev); err != nil {
			continue
		}
		fn(ev)
	}
}
