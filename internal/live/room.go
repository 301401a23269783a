package live

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"trivialive/internal/game"
	"trivialive/internal/model"
)

// Broadcast message types emitted by a room worker.
const (
	MsgRoomState         = "room_state"
	MsgBuzzAccepted      = "buzz_accepted"
	MsgLeaderboardUpdate = "leaderboard_update"
	MsgMVPMoment         = "mvp_moment"
	MsgGameEnded         = "game_ended"
)

// Broadcaster fans a room's state out to its connections. Implemented
// by the WebSocket hub; kept as an interface so the room worker stays
// connection-agnostic.
type Broadcaster interface {
	BroadcastToHost(roomCode, msgType string, payload interface{})
	BroadcastToPlayer(roomCode, playerID, msgType string, payload interface{})
	BroadcastToAllPlayers(roomCode, msgType string, payload interface{})
}

// Scoreboard mirrors player scores into an external leaderboard store.
type Scoreboard interface {
	UpdateScore(ctx context.Context, roomCode, playerID string, score int) error
}

// SummaryStore persists finished-session summaries.
type SummaryStore interface {
	Save(ctx context.Context, summary *model.SessionSummary) error
}

// Deps are the collaborators a room worker pushes results into. Any of
// them may be nil, in which case that concern is skipped.
type Deps struct {
	Broadcaster Broadcaster
	Scoreboard  Scoreboard
	Summaries   SummaryStore
}

// Room owns one live session. All state transitions run on a single
// goroutine fed by the ops channel, so every operation sees a linear
// history: buzz order is admission order at this serialization point,
// regardless of how client messages raced through the transport.
type Room struct {
	Code   string
	HostID string

	deps Deps

	ops  chan func()
	quit chan struct{}
	once sync.Once

	// Owned by the worker goroutine.
	state      *game.RoomState
	stats      *game.GameStats
	totalCells int
}

// NewRoom creates a room and starts its worker. totalCells is the grid
// size used for completion detection; zero disables auto-completion.
func NewRoom(code, hostID string, totalCells int, deps Deps) *Room {
	r := &Room{
		Code:       code,
		HostID:     hostID,
		deps:       deps,
		ops:        make(chan func(), 64),
		quit:       make(chan struct{}),
		state:      game.NewRoomState(),
		stats:      game.NewGameStats(),
		totalCells: totalCells,
	}
	go r.run()
	return r
}

func (r *Room) run() {
	for {
		select {
		case op := <-r.ops:
			op()
		case <-r.quit:
			return
		}
	}
}

// Close stops the worker. Pending and later calls become no-ops.
func (r *Room) Close() {
	r.once.Do(func() { close(r.quit) })
}

// do runs fn on the worker goroutine and waits for it to finish.
func (r *Room) do(fn func()) {
	done := make(chan struct{})
	select {
	case r.ops <- func() { fn(); close(done) }:
	case <-r.quit:
		return
	}
	select {
	case <-done:
	case <-r.quit:
	}
}

// Join adds a player and announces the new roster.
func (r *Room) Join(p game.PlayerState) {
	r.do(func() {
		r.state = r.state.AddPlayer(p)
		r.broadcastState()
	})
}

// Leave removes a player for good.
func (r *Room) Leave(playerID string) {
	r.do(func() {
		r.state = r.state.RemovePlayer(playerID)
		r.broadcastState()
	})
}

// Disconnect soft-removes a player: the record and score stay for a
// later reconnect, the buzz-queue entry does not.
func (r *Room) Disconnect(playerID string) {
	r.do(func() {
		next := r.state.DisconnectPlayer(playerID)
		if next == r.state {
			return
		}
		r.state = next
		r.broadcastState()
	})
}

// Reconnect marks a returning player connected again.
func (r *Room) Reconnect(playerID string) {
	r.do(func() {
		next := r.state.ReconnectPlayer(playerID)
		if next == r.state {
			return
		}
		r.state = next
		r.broadcastState()
	})
}

// Lock closes the buzzer.
func (r *Room) Lock() {
	r.do(func() {
		r.state = r.state.Lock()
		r.broadcastState()
	})
}

// Unlock opens the buzzer, optionally for a new question.
func (r *Room) Unlock(isNewQuestion bool) {
	r.do(func() {
		r.state = r.state.Unlock(isNewQuestion)
		r.broadcastState()
	})
}

// Buzz admits a buzz attempt for a known player and returns the
// assigned rank. Unknown players and core rejections report ok=false.
func (r *Room) Buzz(playerID string) (position int, ok bool) {
	r.do(func() {
		p, known := r.state.Players[playerID]
		if !known {
			return
		}
		next, pos, accepted := r.state.AddBuzz(playerID, p.Name, p.Avatar)
		if !accepted {
			return
		}
		r.state = next
		position, ok = pos, true
		if r.deps.Broadcaster != nil {
			r.deps.Broadcaster.BroadcastToPlayer(r.Code, playerID, MsgBuzzAccepted, map[string]int{"position": pos})
		}
		r.broadcastState()
	})
	return position, ok
}

// Pass opts a player out of the current question.
func (r *Room) Pass(playerID string) {
	r.do(func() {
		r.state = r.state.PassPlayer(playerID)
		r.broadcastState()
	})
}

// Score applies a score delta. Gameplay deltas (tied to a category)
// also feed the stats tracker; host nudges and undos do not.
func (r *Room) Score(playerID string, points float64, categoryID string, gameplay bool) {
	r.do(func() {
		next := r.state.ApplyScoreUpdate(playerID, points)
		if next == r.state {
			return
		}
		r.state = next

		p := r.state.Players[playerID]
		if r.deps.Scoreboard != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := r.deps.Scoreboard.UpdateScore(ctx, r.Code, playerID, p.Score); err != nil {
				log.Warn().Err(err).Str("room", r.Code).Str("player", playerID).Msg("leaderboard mirror failed")
			}
			cancel()
		}

		prevMoments := len(r.stats.MVPMoments)
		r.stats = r.stats.Update(playerID, p.Name, int(points), categoryID, gameplay)
		if r.deps.Broadcaster != nil {
			r.deps.Broadcaster.BroadcastToHost(r.Code, MsgLeaderboardUpdate, r.state.Leaderboard())
			r.deps.Broadcaster.BroadcastToAllPlayers(r.Code, MsgLeaderboardUpdate, r.state.Leaderboard())
			if len(r.stats.MVPMoments) > prevMoments {
				moment := r.stats.MVPMoments[len(r.stats.MVPMoments)-1]
				r.deps.Broadcaster.BroadcastToAllPlayers(r.Code, MsgMVPMoment, moment)
				r.deps.Broadcaster.BroadcastToHost(r.Code, MsgMVPMoment, moment)
			}
		}
		r.broadcastState()
	})
}

// CompleteQuestion records a revealed question and ends the game once
// the whole grid is revealed.
func (r *Room) CompleteQuestion(questionID string) {
	r.do(func() {
		r.state = r.state.CompleteQuestion(questionID)
		if game.CheckGameCompletion(len(r.state.CompletedQuestions), r.totalCells, len(r.state.Players)) {
			r.endGame()
		}
		r.broadcastState()
	})
}

// EndGame ends the session explicitly. Reports false when the game had
// already ended (the end-of-game side effects fired exactly once).
func (r *Room) EndGame() (ended bool) {
	r.do(func() {
		ended = r.endGame()
		r.broadcastState()
	})
	return ended
}

// NextGrid starts the next round: round-scoped state and stats are
// cleared, players and their cumulative scores carry forward.
func (r *Room) NextGrid(totalCells int) {
	r.do(func() {
		r.state = r.state.ResetForNextGrid()
		r.stats = game.NewGameStats()
		r.totalCells = totalCells
		r.broadcastState()
	})
}

// Snapshot returns the current room state.
func (r *Room) Snapshot() *game.RoomState {
	var s *game.RoomState
	r.do(func() { s = r.state })
	return s
}

// Stats returns the current per-session aggregate.
func (r *Room) Stats() *game.GameStats {
	var s *game.GameStats
	r.do(func() { s = r.stats })
	return s
}

// endGame runs on the worker goroutine.
func (r *Room) endGame() bool {
	next := r.state.EndGame()
	if next == nil {
		return false
	}
	r.state = next

	summary := r.summary()
	if r.deps.Summaries != nil {
		// Persist off the worker so a slow store never stalls the room.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := r.deps.Summaries.Save(ctx, summary); err != nil {
				log.Error().Err(err).Str("room", r.Code).Msg("session summary save failed")
			}
		}()
	}
	if r.deps.Broadcaster != nil {
		r.deps.Broadcaster.BroadcastToHost(r.Code, MsgGameEnded, summary)
		r.deps.Broadcaster.BroadcastToAllPlayers(r.Code, MsgGameEnded, summary)
	}
	log.Info().Str("room", r.Code).Msg("game ended")
	return true
}

// summary runs on the worker goroutine.
func (r *Room) summary() *model.SessionSummary {
	completed := make([]string, 0, len(r.state.CompletedQuestions))
	for id := range r.state.CompletedQuestions {
		completed = append(completed, id)
	}
	return &model.SessionSummary{
		RoomCode:           r.Code,
		HostID:             r.HostID,
		StartedAt:          r.stats.StartTime,
		EndedAt:            time.Now(),
		FinalStandings:     r.state.Leaderboard(),
		CompletedQuestions: completed,
		Stats:              r.stats,
	}
}

func (r *Room) broadcastState() {
	if r.deps.Broadcaster == nil {
		return
	}
	r.deps.Broadcaster.BroadcastToHost(r.Code, MsgRoomState, r.state)
	r.deps.Broadcaster.BroadcastToAllPlayers(r.Code, MsgRoomState, r.state)
}
