package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"trivialive/internal/live"
	"trivialive/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections and dispatches client intents
// to the room workers.
type Handler struct {
	hub     *Hub
	manager *live.Manager
	authSvc *service.AuthService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, manager *live.Manager, authSvc *service.AuthService) *Handler {
	return &Handler{
		hub:     hub,
		manager: manager,
		authSvc: authSvc,
	}
}

// HostWS handles GET /v1/ws/rooms/{code}/host
func (h *Handler) HostWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateHostToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	room := h.manager.Get(code)
	if room == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	if room.HostID != claims.HostID {
		http.Error(w, "not the room host", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := &Connection{
		RoomCode: code,
		IsHost:   true,
		Send:     make(chan []byte, 256),
		Hub:      h.hub,
	}
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn, room)
}

// PlayerWS handles GET /v1/ws/rooms/{code}/player
func (h *Handler) PlayerWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidatePlayerToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if claims.RoomCode != code {
		http.Error(w, "token not valid for this room", http.StatusForbidden)
		return
	}

	room := h.manager.Get(code)
	if room == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := &Connection{
		RoomCode: code,
		PlayerID: claims.PlayerID,
		IsHost:   false,
		Send:     make(chan []byte, 256),
		Hub:      h.hub,
	}
	h.hub.Register(conn)
	room.Reconnect(claims.PlayerID)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn, room)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection, room *live.Room) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
		if !conn.IsHost {
			// Soft disconnect: the player keeps their seat and score.
			room.Disconnect(conn.PlayerID)
		}
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("room", conn.RoomCode).Msg("websocket read error")
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(conn, "malformed message")
			continue
		}

		if conn.IsHost {
			h.dispatchHost(conn, room, &msg)
		} else {
			h.dispatchPlayer(conn, room, &msg)
		}
	}
}

func (h *Handler) dispatchHost(conn *Connection, room *live.Room, msg *Message) {
	switch msg.Type {
	case MsgLock:
		room.Lock()

	case MsgUnlock:
		var p UnlockPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, "invalid unlock payload")
			return
		}
		room.Unlock(p.NewQuestion)

	case MsgScore:
		var p ScorePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, "invalid score payload")
			return
		}
		room.Score(p.PlayerID, p.Points, p.CategoryID, p.Gameplay)

	case MsgCompleteQuestion:
		var p CompleteQuestionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, "invalid complete_question payload")
			return
		}
		room.CompleteQuestion(p.QuestionID)

	case MsgEndGame:
		room.EndGame()

	case MsgNextGrid:
		var p NextGridPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, "invalid next_grid payload")
			return
		}
		room.NextGrid(p.TotalCells)

	case MsgRemovePlayer:
		var p RemovePlayerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.sendError(conn, "invalid remove_player payload")
			return
		}
		room.Leave(p.PlayerID)

	default:
		h.sendError(conn, "unknown message type")
	}
}

func (h *Handler) dispatchPlayer(conn *Connection, room *live.Room, msg *Message) {
	switch msg.Type {
	case MsgBuzz:
		// Rejections are silent for the client that raced; the accepted
		// buzz comes back through the room broadcast.
		room.Buzz(conn.PlayerID)

	case MsgPass:
		room.Pass(conn.PlayerID)

	default:
		h.sendError(conn, "unknown message type")
	}
}

func (h *Handler) sendError(conn *Connection, reason string) {
	data, _ := json.Marshal(&Message{
		Type:    MsgError,
		Payload: json.RawMessage(`{"error":"` + reason + `"}`),
	})
	select {
	case conn.Send <- data:
	default:
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
