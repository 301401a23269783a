package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Hub manages WebSocket connections for rooms and fans room snapshots
// out to them. It implements live.Broadcaster and service.Broadcaster.
type Hub struct {
	hostConns   map[string]*Connection
	playerConns map[string]map[string]*Connection // roomCode -> playerID -> conn

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	dropRoom   chan string
}

// Connection represents a WebSocket connection
type Connection struct {
	RoomCode string
	PlayerID string // Empty for host connections
	IsHost   bool
	Send     chan []byte
	Hub      *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	RoomCode string
	ToHost   bool
	ToPlayer string // Empty means all players, specific ID means one player
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		hostConns:   make(map[string]*Connection),
		playerConns: make(map[string]map[string]*Connection),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *BroadcastMessage, 256),
		dropRoom:    make(chan string),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			if conn.IsHost {
				h.hostConns[conn.RoomCode] = conn
				log.Debug().Str("room", conn.RoomCode).Msg("host connected")
			} else {
				if h.playerConns[conn.RoomCode] == nil {
					h.playerConns[conn.RoomCode] = make(map[string]*Connection)
				}
				h.playerConns[conn.RoomCode][conn.PlayerID] = conn
				log.Debug().Str("room", conn.RoomCode).Str("player", conn.PlayerID).Msg("player connected")
			}

		case conn := <-h.unregister:
			if conn.IsHost {
				if existing, ok := h.hostConns[conn.RoomCode]; ok && existing == conn {
					delete(h.hostConns, conn.RoomCode)
					close(conn.Send)
					log.Debug().Str("room", conn.RoomCode).Msg("host disconnected")
				}
			} else {
				if players, ok := h.playerConns[conn.RoomCode]; ok {
					if existing, ok := players[conn.PlayerID]; ok && existing == conn {
						delete(players, conn.PlayerID)
						close(conn.Send)
						log.Debug().Str("room", conn.RoomCode).Str("player", conn.PlayerID).Msg("player disconnected")
					}
				}
			}

		case code := <-h.dropRoom:
			if conn, ok := h.hostConns[code]; ok {
				delete(h.hostConns, code)
				close(conn.Send)
			}
			for _, conn := range h.playerConns[code] {
				close(conn.Send)
			}
			delete(h.playerConns, code)
			log.Debug().Str("room", code).Msg("room connections dropped")

		case msg := <-h.broadcast:
			data, _ := json.Marshal(msg.Message)

			if msg.ToHost {
				if conn, ok := h.hostConns[msg.RoomCode]; ok {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else if msg.ToPlayer != "" {
				if players, ok := h.playerConns[msg.RoomCode]; ok {
					if conn, ok := players[msg.ToPlayer]; ok {
						select {
						case conn.Send <- data:
						default:
						}
					}
				}
			} else {
				if players, ok := h.playerConns[msg.RoomCode]; ok {
					for _, conn := range players {
						select {
						case conn.Send <- data:
						default:
						}
					}
				}
			}
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToHost sends a message to the room host (implements live.Broadcaster)
func (h *Hub) BroadcastToHost(roomCode string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		RoomCode: roomCode,
		ToHost:   true,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToPlayer sends a message to a specific player (implements live.Broadcaster)
func (h *Hub) BroadcastToPlayer(roomCode, playerID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		RoomCode: roomCode,
		ToPlayer: playerID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToAllPlayers sends a message to all players in a room (implements live.Broadcaster)
func (h *Hub) BroadcastToAllPlayers(roomCode string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		RoomCode: roomCode,
		ToPlayer: "", // Empty means all
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectRoom closes every connection bound to a room (implements
// service.Broadcaster); used when the host tears the room down.
func (h *Hub) DisconnectRoom(roomCode string) {
	h.dropRoom <- roomCode
}
