package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sprite-ai/prrev/internal/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgReview = "review"
)

// WebSocket message types to client.
const (
	wsMsgProgress = "progress"
	wsMsgReport   = "report"
	wsMsgError    = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsReview is the payload for "review" messages.
type wsReview struct {
	Diff string `json:"diff"`
}

// wsSession serializes all writes on one connection. Progress events
// arrive from the engine's worker goroutines.
type wsSession struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (ws *wsSession) send(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("ws marshal: %v", err)
		return
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if err := ws.conn.WriteJSON(wsMessage{Type: msgType, Data: raw}); err != nil {
		log.Printf("ws write: %v", err)
	}
}

func (ws *wsSession) sendError(errMsg string) {
	ws.send(wsMsgError, map[string]string{"message": errMsg})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	session := &wsSession{conn: conn}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			session.sendError("invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgReview:
			s.handleWSReview(r, session, msg.Data)
		default:
			session.sendError("unknown message type: " + msg.Type)
		}
	}
}

func (s *Server) handleWSReview(r *http.Request, session *wsSession, data json.RawMessage) {
	var req wsReview
	if err := json.Unmarshal(data, &req); err != nil {
		session.sendError("invalid review data")
		return
	}
	if req.Diff == "" {
		session.sendError("diff is required")
		return
	}

	eng, err := s.newEngine()
	if err != nil {
		session.sendError("creating engine: " + err.Error())
		return
	}
	eng.OnProgress(func(ev engine.Event) {
		session.send(wsMsgProgress, ev)
	})

	res, err := eng.ReviewDiff(r.Context(), req.Diff)
	if err != nil {
		session.sendError("reviewing diff: " + err.Error())
		return
	}
	session.send(wsMsgReport, res)
}
