package ws

import "encoding/json"

// MessageType defines the type of WebSocket message
type MessageType string

// Client -> server intents. Host intents drive the buzzer gate, the
// score ledger and the session lifecycle; player intents are buzz/pass.
const (
	MsgLock             MessageType = "lock"
	MsgUnlock           MessageType = "unlock"
	MsgScore            MessageType = "score"
	MsgCompleteQuestion MessageType = "complete_question"
	MsgEndGame          MessageType = "end_game"
	MsgNextGrid         MessageType = "next_grid"
	MsgRemovePlayer     MessageType = "remove_player"

	MsgBuzz MessageType = "buzz"
	MsgPass MessageType = "pass"
)

// Server -> client message types not covered by the live package.
const (
	MsgError MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// UnlockPayload opens the buzzer; NewQuestion also clears the
// passed-player set.
type UnlockPayload struct {
	NewQuestion bool `json:"newQuestion"`
}

// ScorePayload adjusts one player's score. Gameplay marks a genuine
// scoring event tied to a category; manual nudges leave it false so
// they stay out of the stats.
type ScorePayload struct {
	PlayerID   string  `json:"playerId"`
	Points     float64 `json:"points"`
	CategoryID string  `json:"categoryId,omitempty"`
	Gameplay   bool    `json:"gameplay"`
}

// CompleteQuestionPayload marks one grid cell revealed.
type CompleteQuestionPayload struct {
	QuestionID string `json:"questionId"`
}

// NextGridPayload starts the next round.
type NextGridPayload struct {
	TotalCells int `json:"totalCells"`
}

// RemovePlayerPayload kicks a player from the room.
type RemovePlayerPayload struct {
	PlayerID string `json:"playerId"`
}
