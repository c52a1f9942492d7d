package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WebSocket message types for the session feed protocol
const (
	// Client -> Server messages
	MsgTypeSessionGet = "session:get"
	MsgTypePing       = "ping"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypeSession   = "session"
	MsgTypeError     = "error"
	MsgTypePong      = "pong"
)

// WSMessage is the envelope for all session feed messages
type WSMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WSErrorResponse reports a protocol-level problem to the client
type WSErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// sessionPollInterval controls how often the feed checks for changes.
// 250ms keeps upload progress visibly smooth at the 500ms tick rate.
const sessionPollInterval = 250 * time.Millisecond

// HandleSessionSocket upgrades the connection and pushes a session
// snapshot whenever the session changes. The client can also request a
// snapshot explicitly with a "session:get" message.
func (h *Handler) HandleSessionSocket(c echo.Context) error {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// Allow connections from dev server
			return true
		},
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	conn := &wsConn{conn: ws}
	fmt.Println("[WebSocket] Client connected to session feed")

	conn.send(WSMessage{
		Type:      MsgTypeConnected,
		Timestamp: time.Now().UnixMilli(),
	})

	// Reader goroutine: serves explicit requests and detects disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg WSMessage
			if err := ws.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					fmt.Printf("[WebSocket] Connection error: %v\n", err)
				}
				return
			}

			switch msg.Type {
			case MsgTypePing:
				conn.send(WSMessage{Type: MsgTypePong, Timestamp: time.Now().UnixMilli()})
			case MsgTypeSessionGet:
				conn.send(WSMessage{
					Type:      MsgTypeSession,
					Payload:   mustJSON(h.controller.Snapshot()),
					Timestamp: time.Now().UnixMilli(),
				})
			default:
				conn.send(WSMessage{
					Type:      MsgTypeError,
					Payload:   mustJSON(WSErrorResponse{Message: "Unknown message type: " + msg.Type, Code: "INVALID_TYPE"}),
					Timestamp: time.Now().UnixMilli(),
				})
			}
		}
	}()

	// Push loop: send the snapshot once up front, then on every change.
	last := h.controller.Snapshot()
	conn.send(WSMessage{
		Type:      MsgTypeSession,
		Payload:   mustJSON(last),
		Timestamp: time.Now().UnixMilli(),
	})

	ticker := time.NewTicker(sessionPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			fmt.Println("[WebSocket] Client disconnected from session feed")
			return nil
		case <-c.Request().Context().Done():
			return nil
		case <-ticker.C:
			view := h.controller.Snapshot()
			if reflect.DeepEqual(view, last) {
				continue
			}
			last = view
			conn.send(WSMessage{
				Type:      MsgTypeSession,
				Payload:   mustJSON(view),
				Timestamp: time.Now().UnixMilli(),
			})
		}
	}
}

// wsConn serializes writes; the reader goroutine and the push loop both
// send messages on the same connection.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) send(msg WSMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteJSON(msg); err != nil {
		fmt.Printf("[WebSocket] Failed to send message: %v\n", err)
	}
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
