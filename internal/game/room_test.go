package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoom(ids ...string) *RoomState {
	room := NewRoomState()
	for _, id := range ids {
		room = room.AddPlayer(PlayerState{ID: id, Name: "name-" + id, IsConnected: true})
	}
	return room
}

func TestNewRoomState(t *testing.T) {
	assert := assert.New(t)

	room := NewRoomState()

	assert.True(room.BuzzerLocked)
	assert.Empty(room.BuzzQueue)
	assert.Empty(room.PassedPlayers)
	assert.Empty(room.CompletedQuestions)
	assert.Empty(room.Players)
	assert.False(room.GameEnded)
}

func TestAddPlayer_DoesNotMutateOriginal(t *testing.T) {
	assert := assert.New(t)

	room := NewRoomState()
	room2 := room.AddPlayer(PlayerState{ID: "p1", Name: "Alice"})

	assert.Empty(room.Players)
	assert.Len(room2.Players, 1)
	assert.Equal("Alice", room2.Players["p1"].Name)
}

func TestRemovePlayer_DropsQueueEntryWithoutRenumbering(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1", "p2", "p3").Unlock(true)
	room, _, _ = room.AddBuzz("p1", "Alice", "")
	room, _, _ = room.AddBuzz("p2", "Bob", "")
	room, _, _ = room.AddBuzz("p3", "Carol", "")

	room = room.RemovePlayer("p1")

	assert.NotContains(room.Players, "p1")
	require.Len(t, room.BuzzQueue, 2)
	// Positions reflect original admission order, not current index.
	assert.Equal(2, room.BuzzQueue[0].Position)
	assert.Equal(3, room.BuzzQueue[1].Position)
}

func TestDisconnectPlayer_KeepsScoreDropsBuzz(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1").ApplyScoreUpdate("p1", 100).Unlock(true)
	room, _, ok := room.AddBuzz("p1", "Alice", "")
	assert.True(ok)

	room = room.DisconnectPlayer("p1")

	assert.False(room.Players["p1"].IsConnected)
	assert.Equal(100, room.Players["p1"].Score)
	assert.Empty(room.BuzzQueue)
}

func TestDisconnectPlayer_UnknownIsNoop(t *testing.T) {
	room := newTestRoom("p1")
	assert.Same(t, room, room.DisconnectPlayer("ghost"))
}

func TestReconnectPlayer(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1").DisconnectPlayer("p1")
	room = room.ReconnectPlayer("p1")
	assert.True(room.Players["p1"].IsConnected)

	// Already connected is a no-op.
	assert.Same(room, room.ReconnectPlayer("p1"))
}

func TestLock_ClearsQueue(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1", "p2").Unlock(true)
	room, _, _ = room.AddBuzz("p1", "Alice", "")
	room, _, _ = room.AddBuzz("p2", "Bob", "")

	room = room.Lock()

	assert.True(room.BuzzerLocked)
	assert.Empty(room.BuzzQueue)
}

func TestUnlock_NewQuestionClearsPassedPlayers(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1").Unlock(true).PassPlayer("p1")
	require.True(t, room.PassedPlayers["p1"])

	sameQuestion := room.Unlock(false)
	assert.True(sameQuestion.PassedPlayers["p1"])

	newQuestion := room.Unlock(true)
	assert.Empty(newQuestion.PassedPlayers)
}

func TestAddBuzz_RejectedWhileLocked(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1")
	next, pos, ok := room.AddBuzz("p1", "Alice", "")

	assert.False(ok)
	assert.Zero(pos)
	assert.Same(room, next)
}

func TestAddBuzz_PositionsAreAdmissionOrder(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1", "p2", "p3").Unlock(true)

	var pos int
	var ok bool
	room, pos, ok = room.AddBuzz("p2", "Bob", "")
	assert.True(ok)
	assert.Equal(1, pos)

	room, pos, ok = room.AddBuzz("p1", "Alice", "")
	assert.True(ok)
	assert.Equal(2, pos)

	room, pos, ok = room.AddBuzz("p3", "Carol", "")
	assert.True(ok)
	assert.Equal(3, pos)

	assert.Len(room.BuzzQueue, 3)
	for i, e := range room.BuzzQueue {
		assert.Equal(i+1, e.Position)
	}
}

func TestAddBuzz_DuplicateRejected(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1").Unlock(true)
	room, _, ok := room.AddBuzz("p1", "Alice", "")
	assert.True(ok)

	next, _, ok := room.AddBuzz("p1", "Alice", "")
	assert.False(ok)
	assert.Same(room, next)
	assert.Len(room.BuzzQueue, 1)
}

func TestAddBuzz_PassedPlayerRejected(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1").Unlock(true).PassPlayer("p1")

	next, _, ok := room.AddBuzz("p1", "Alice", "")
	assert.False(ok)
	assert.Same(room, next)

	// Eligible again after a new-question unlock.
	room = room.Unlock(true)
	_, pos, ok := room.AddBuzz("p1", "Alice", "")
	assert.True(ok)
	assert.Equal(1, pos)
}

func TestPassPlayer_DropsExistingBuzz(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1", "p2").Unlock(true)
	room, _, _ = room.AddBuzz("p1", "Alice", "")
	room, _, _ = room.AddBuzz("p2", "Bob", "")

	room = room.PassPlayer("p1")

	assert.True(room.PassedPlayers["p1"])
	require.Len(t, room.BuzzQueue, 1)
	assert.Equal("p2", room.BuzzQueue[0].PlayerID)
}

func TestValidateScoreUpdate(t *testing.T) {
	assert := assert.New(t)

	assert.True(ValidateScoreUpdate(0))
	assert.True(ValidateScoreUpdate(500))
	assert.True(ValidateScoreUpdate(-500))
	assert.True(ValidateScoreUpdate(10000))
	assert.True(ValidateScoreUpdate(-10000))

	assert.False(ValidateScoreUpdate(10001))
	assert.False(ValidateScoreUpdate(-10001))
	assert.False(ValidateScoreUpdate(math.NaN()))
	assert.False(ValidateScoreUpdate(math.Inf(1)))
	assert.False(ValidateScoreUpdate(math.Inf(-1)))
}

func TestApplyScoreUpdate(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1")

	room = room.ApplyScoreUpdate("p1", 50)
	assert.Equal(50, room.Players["p1"].Score)

	// Negative scores are allowed, no clamping.
	room = room.ApplyScoreUpdate("p1", -80)
	assert.Equal(-30, room.Players["p1"].Score)
}

func TestApplyScoreUpdate_NoopCases(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1")

	assert.Same(room, room.ApplyScoreUpdate("p1", 10001))
	assert.Same(room, room.ApplyScoreUpdate("p1", math.NaN()))
	assert.Same(room, room.ApplyScoreUpdate("ghost", 50))
}

func TestLeaderboard_SortedAndStable(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1", "p2", "p3")
	room = room.ApplyScoreUpdate("p2", 100)
	room = room.ApplyScoreUpdate("p3", 100)

	lb := room.Leaderboard()
	require.Len(t, lb, 3)
	// Ties keep join order: p2 joined before p3.
	assert.Equal("p2", lb[0].PlayerID)
	assert.Equal("p3", lb[1].PlayerID)
	assert.Equal("p1", lb[2].PlayerID)

	// Deterministic across repeated calls on an unchanged room.
	assert.Equal(lb, room.Leaderboard())
}

func TestEndGame_Idempotent(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1")

	ended := room.EndGame()
	require.NotNil(t, ended)
	assert.True(ended.GameEnded)

	assert.Nil(ended.EndGame())

	// Reset re-arms the guard.
	reset := ended.ResetForNextGrid()
	assert.NotNil(reset.EndGame())
}

func TestResetForNextGrid(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("p1", "p2").ApplyScoreUpdate("p1", 300).Unlock(true)
	room, _, _ = room.AddBuzz("p2", "Bob", "")
	room = room.PassPlayer("p1").CompleteQuestion("q1")
	room = room.EndGame()
	require.NotNil(t, room)

	next := room.ResetForNextGrid()

	assert.True(next.BuzzerLocked)
	assert.Empty(next.BuzzQueue)
	assert.Empty(next.PassedPlayers)
	assert.Empty(next.CompletedQuestions)
	assert.False(next.GameEnded)
	assert.Len(next.Players, 2)
	assert.Equal(300, next.Players["p1"].Score)
}

func TestCheckGameCompletion(t *testing.T) {
	assert := assert.New(t)

	assert.True(CheckGameCompletion(25, 25, 3))
	assert.False(CheckGameCompletion(24, 25, 3))
	assert.False(CheckGameCompletion(25, 25, 0))
	assert.False(CheckGameCompletion(0, 0, 3))
}

func TestFullRoundScenario(t *testing.T) {
	assert := assert.New(t)

	room := newTestRoom("alice", "bob")
	room = room.Unlock(true)

	var pos int
	var ok bool
	room, pos, ok = room.AddBuzz("alice", "Alice", "")
	assert.True(ok)
	assert.Equal(1, pos)

	room, pos, ok = room.AddBuzz("bob", "Bob", "")
	assert.True(ok)
	assert.Equal(2, pos)

	room = room.Lock()
	assert.Empty(room.BuzzQueue)

	room = room.ApplyScoreUpdate("alice", 50)
	assert.Equal(50, room.Players["alice"].Score)

	lb := room.Leaderboard()
	require.Len(t, lb, 2)
	assert.Equal("alice", lb[0].PlayerID)
	assert.Equal(50, lb[0].Score)
	assert.Equal("bob", lb[1].PlayerID)
	assert.Equal(0, lb[1].Score)
}
