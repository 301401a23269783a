package model

import (
	"time"

	"trivialive/internal/game"
)

// SessionSummary is the durable record of a finished session: final
// standings plus the gameplay stats accumulated during the grid.
type SessionSummary struct {
	RoomCode           string                  `json:"roomCode" bson:"roomCode"`
	HostID             string                  `json:"hostId" bson:"hostId"`
	StartedAt          time.Time               `json:"startedAt" bson:"startedAt"`
	EndedAt            time.Time               `json:"endedAt" bson:"endedAt"`
	FinalStandings     []game.LeaderboardEntry `json:"finalStandings" bson:"finalStandings"`
	CompletedQuestions []string                `json:"completedQuestions" bson:"completedQuestions"`
	Stats              *game.GameStats         `json:"stats" bson:"stats"`
}
