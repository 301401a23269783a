package service

// Broadcaster is the slice of the WebSocket hub the services need
// (kept as an interface to avoid an import cycle with transport/ws).
type Broadcaster interface {
	BroadcastToAllPlayers(roomCode string, msgType string, payload interface{})
	DisconnectRoom(roomCode string)
}
