package model

import "time"

type RoomStatus string

const (
	RoomStatusLive  RoomStatus = "LIVE"
	RoomStatusEnded RoomStatus = "ENDED"
)

// RoomMeta is the Redis-cached room record. The live room state itself
// never leaves its owning worker; this is only what the REST layer
// needs to answer "does this room exist and who hosts it".
type RoomMeta struct {
	HostID    string     `json:"hostId"`
	Status    RoomStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PlayerJoinResponse is returned when a player joins a room.
type PlayerJoinResponse struct {
	PlayerID string `json:"playerId"`
	Token    string `json:"token"`
	RoomCode string `json:"roomCode"`
}
