package game

import (
	"math"
	"sort"
	"time"
)

// MaxScoreDelta bounds a single score adjustment so one malformed
// message cannot wreck a leaderboard.
const MaxScoreDelta = 10000

// PlayerState is one participant's entry in a room.
type PlayerState struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar,omitempty"`
	Score       int    `json:"score"`
	IsConnected bool   `json:"isConnected"`

	joinSeq int // leaderboard tie-break: insertion order into the room
}

// BuzzEntry is one admitted buzz. Position is the 1-based admission
// rank and is never recomputed, even after earlier entries drop out.
type BuzzEntry struct {
	PlayerID     string    `json:"playerId"`
	PlayerName   string    `json:"playerName"`
	PlayerAvatar string    `json:"playerAvatar,omitempty"`
	Position     int       `json:"position"`
	Timestamp    time.Time `json:"timestamp"`
}

// LeaderboardEntry is a single row of the derived leaderboard.
type LeaderboardEntry struct {
	PlayerID     string `json:"playerId"`
	PlayerName   string `json:"playerName"`
	PlayerAvatar string `json:"playerAvatar,omitempty"`
	Score        int    `json:"score"`
}

// RoomState is the authoritative per-room snapshot. Transitions never
// mutate the receiver; they return a fresh snapshot (or the receiver
// itself when nothing changed, so callers can compare pointers).
type RoomState struct {
	BuzzerLocked       bool                   `json:"buzzerLocked"`
	BuzzQueue          []BuzzEntry            `json:"buzzQueue"`
	PassedPlayers      map[string]bool        `json:"passedPlayers"`
	GameEnded          bool                   `json:"gameEnded"`
	CompletedQuestions map[string]bool        `json:"completedQuestions"`
	Players            map[string]PlayerState `json:"players"`

	nextJoinSeq int
}

// NewRoomState returns an empty room with the buzzer locked.
func NewRoomState() *RoomState {
	return &RoomState{
		BuzzerLocked:       true,
		BuzzQueue:          []BuzzEntry{},
		PassedPlayers:      map[string]bool{},
		CompletedQuestions: map[string]bool{},
		Players:            map[string]PlayerState{},
	}
}

func (r *RoomState) clone() *RoomState {
	next := &RoomState{
		BuzzerLocked:       r.BuzzerLocked,
		BuzzQueue:          make([]BuzzEntry, len(r.BuzzQueue)),
		PassedPlayers:      make(map[string]bool, len(r.PassedPlayers)),
		GameEnded:          r.GameEnded,
		CompletedQuestions: make(map[string]bool, len(r.CompletedQuestions)),
		Players:            make(map[string]PlayerState, len(r.Players)),
		nextJoinSeq:        r.nextJoinSeq,
	}
	copy(next.BuzzQueue, r.BuzzQueue)
	for id := range r.PassedPlayers {
		next.PassedPlayers[id] = true
	}
	for id := range r.CompletedQuestions {
		next.CompletedQuestions[id] = true
	}
	for id, p := range r.Players {
		next.Players[id] = p
	}
	return next
}

// AddPlayer inserts (or replaces) a player. Duplicate-name and capacity
// policy belong to the caller. A replaced player keeps its original
// leaderboard tie-break order.
func (r *RoomState) AddPlayer(p PlayerState) *RoomState {
	next := r.clone()
	if prev, ok := next.Players[p.ID]; ok {
		p.joinSeq = prev.joinSeq
	} else {
		p.joinSeq = next.nextJoinSeq
		next.nextJoinSeq++
	}
	next.Players[p.ID] = p
	return next
}

// RemovePlayer deletes the player and drops their buzz-queue entry.
// Remaining entries keep their original Position values.
func (r *RoomState) RemovePlayer(playerID string) *RoomState {
	next := r.clone()
	delete(next.Players, playerID)
	next.BuzzQueue = dropBuzz(next.BuzzQueue, playerID)
	return next
}

// DisconnectPlayer marks the player disconnected and drops their
// buzz-queue entry. The player record and score survive, so a
// reconnecting player picks up where they left off.
func (r *RoomState) DisconnectPlayer(playerID string) *RoomState {
	p, ok := r.Players[playerID]
	if !ok {
		return r
	}
	next := r.clone()
	p.IsConnected = false
	next.Players[playerID] = p
	next.BuzzQueue = dropBuzz(next.BuzzQueue, playerID)
	return next
}

// ReconnectPlayer marks a previously disconnected player connected again.
func (r *RoomState) ReconnectPlayer(playerID string) *RoomState {
	p, ok := r.Players[playerID]
	if !ok || p.IsConnected {
		return r
	}
	next := r.clone()
	p.IsConnected = true
	next.Players[playerID] = p
	return next
}

func dropBuzz(queue []BuzzEntry, playerID string) []BuzzEntry {
	out := make([]BuzzEntry, 0, len(queue))
	for _, e := range queue {
		if e.PlayerID != playerID {
			out = append(out, e)
		}
	}
	return out
}

// Unlock opens the buzzer and clears the queue. The passed-player set
// is cleared only for a new question; re-opening the same question
// keeps players who already passed ineligible.
func (r *RoomState) Unlock(isNewQuestion bool) *RoomState {
	next := r.clone()
	next.BuzzerLocked = false
	next.BuzzQueue = []BuzzEntry{}
	if isNewQuestion {
		next.PassedPlayers = map[string]bool{}
	}
	return next
}

// Lock closes the buzzer and clears the queue. Passed players are untouched.
func (r *RoomState) Lock() *RoomState {
	next := r.clone()
	next.BuzzerLocked = true
	next.BuzzQueue = []BuzzEntry{}
	return next
}

// AddBuzz admits a buzz attempt. It returns ok=false, leaving the room
// unchanged, when the buzzer is locked, the player passed on this
// question, or the player already buzzed. Position is len(queue)+1 at
// admission time.
func (r *RoomState) AddBuzz(playerID, playerName, playerAvatar string) (*RoomState, int, bool) {
	if r.BuzzerLocked {
		return r, 0, false
	}
	if r.PassedPlayers[playerID] {
		return r, 0, false
	}
	for _, e := range r.BuzzQueue {
		if e.PlayerID == playerID {
			return r, 0, false
		}
	}
	next := r.clone()
	position := len(next.BuzzQueue) + 1
	next.BuzzQueue = append(next.BuzzQueue, BuzzEntry{
		PlayerID:     playerID,
		PlayerName:   playerName,
		PlayerAvatar: playerAvatar,
		Position:     position,
		Timestamp:    time.Now(),
	})
	return next, position, true
}

// PassPlayer opts the player out of the current question: their queue
// entry (if any) is dropped and they stay ineligible until the next
// new-question unlock.
func (r *RoomState) PassPlayer(playerID string) *RoomState {
	next := r.clone()
	next.BuzzQueue = dropBuzz(next.BuzzQueue, playerID)
	next.PassedPlayers[playerID] = true
	return next
}

// ValidateScoreUpdate accepts only finite deltas within ±MaxScoreDelta.
func ValidateScoreUpdate(points float64) bool {
	if math.IsNaN(points) || math.IsInf(points, 0) {
		return false
	}
	return math.Abs(points) <= MaxScoreDelta
}

// ApplyScoreUpdate adds a validated delta to one player's score.
// Invalid deltas and unknown players are no-ops returning the receiver
// unchanged. Scores may go negative; there is no clamping.
func (r *RoomState) ApplyScoreUpdate(playerID string, points float64) *RoomState {
	if !ValidateScoreUpdate(points) {
		return r
	}
	p, ok := r.Players[playerID]
	if !ok {
		return r
	}
	next := r.clone()
	p.Score += int(points)
	next.Players[playerID] = p
	return next
}

// Leaderboard returns all players sorted by score descending. Ties keep
// room-insertion order, so repeated calls on an unchanged room are
// deterministic.
func (r *RoomState) Leaderboard() []LeaderboardEntry {
	players := make([]PlayerState, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].joinSeq < players[j].joinSeq })
	sort.SliceStable(players, func(i, j int) bool { return players[i].Score > players[j].Score })

	entries := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = LeaderboardEntry{
			PlayerID:     p.ID,
			PlayerName:   p.Name,
			PlayerAvatar: p.Avatar,
			Score:        p.Score,
		}
	}
	return entries
}

// CompleteQuestion records a question as revealed/answered for this grid.
func (r *RoomState) CompleteQuestion(questionID string) *RoomState {
	next := r.clone()
	next.CompletedQuestions[questionID] = true
	return next
}

// EndGame marks the game ended. Returns nil when the game already
// ended, so concurrent completion triggers fire end-of-game side
// effects at most once.
func (r *RoomState) EndGame() *RoomState {
	if r.GameEnded {
		return nil
	}
	next := r.clone()
	next.GameEnded = true
	return next
}

// ResetForNextGrid clears round-scoped state (queue, passed set,
// completed questions, ended flag) and re-locks the buzzer, while
// players and their cumulative scores carry forward.
func (r *RoomState) ResetForNextGrid() *RoomState {
	next := r.clone()
	next.BuzzerLocked = true
	next.BuzzQueue = []BuzzEntry{}
	next.PassedPlayers = map[string]bool{}
	next.CompletedQuestions = map[string]bool{}
	next.GameEnded = false
	return next
}

// CheckGameCompletion reports whether a grid with totalCells cells is
// finished: every cell revealed and at least one player present.
func CheckGameCompletion(revealedCount, totalCells, playerCount int) bool {
	return totalCells > 0 && revealedCount >= totalCells && playerCount > 0
}
