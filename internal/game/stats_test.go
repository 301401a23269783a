package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate_UntrackedIsNoop(t *testing.T) {
	assert := assert.New(t)

	stats := NewGameStats()

	// Host point nudge: not gameplay.
	assert.Same(stats, stats.Update("p1", "Alice", 50, "cat1", false))

	// No category (free-form adjustment or undo).
	assert.Same(stats, stats.Update("p1", "Alice", 50, "", true))

	assert.Empty(stats.PlayerStats)
	assert.Zero(stats.TotalQuestions)
}

func TestUpdate_CorrectAnswer(t *testing.T) {
	assert := assert.New(t)

	stats := NewGameStats().Update("p1", "Alice", 200, "history", true)

	ps := stats.PlayerStats["p1"]
	assert.Equal("Alice", ps.PlayerName)
	assert.Equal(1, ps.CorrectAnswers)
	assert.Equal(0, ps.WrongAnswers)
	assert.Equal(200, ps.TotalPoints)
	assert.Equal(1, ps.CurrentStreak)
	assert.Equal(1, ps.BestStreak)
	assert.Equal(200, ps.BiggestGain)
	assert.Equal(200, ps.PointsByCategory["history"])
	assert.False(ps.LastAnswerTime.IsZero())
	assert.Equal(1, stats.TotalQuestions)
}

func TestUpdate_WrongAnswerResetsStreak(t *testing.T) {
	assert := assert.New(t)

	stats := NewGameStats()
	stats = stats.Update("p1", "Alice", 100, "history", true)
	stats = stats.Update("p1", "Alice", 100, "history", true)
	stats = stats.Update("p1", "Alice", -100, "history", true)

	ps := stats.PlayerStats["p1"]
	assert.Equal(2, ps.CorrectAnswers)
	assert.Equal(1, ps.WrongAnswers)
	assert.Equal(100, ps.TotalPoints)
	assert.Equal(0, ps.CurrentStreak)
	assert.Equal(2, ps.BestStreak)
	// Wrong answers never touch category totals.
	assert.Equal(200, ps.PointsByCategory["history"])
	assert.Equal(3, stats.TotalQuestions)
}

func TestUpdate_ZeroPointsCountsNowhere(t *testing.T) {
	assert := assert.New(t)

	stats := NewGameStats().Update("p1", "Alice", 0, "history", true)

	ps := stats.PlayerStats["p1"]
	assert.Equal(0, ps.CorrectAnswers)
	assert.Equal(0, ps.WrongAnswers)
	assert.Equal(0, ps.CurrentStreak)
	assert.Zero(stats.TotalQuestions)
}

func TestUpdate_StreakMomentFiresOnceAtThree(t *testing.T) {
	assert := assert.New(t)

	stats := NewGameStats()
	stats = stats.Update("p1", "Alice", 100, "history", true)
	stats = stats.Update("p1", "Alice", 100, "science", true)
	assert.Empty(stats.MVPMoments)

	stats = stats.Update("p1", "Alice", 100, "sports", true)
	require.Len(t, stats.MVPMoments, 1)
	moment := stats.MVPMoments[0]
	assert.Equal(MomentStreak, moment.Type)
	assert.Equal("p1", moment.PlayerID)
	assert.Equal("Alice", moment.PlayerName)
	assert.Equal(3, moment.Streak)

	// Fourth correct in a row extends the streak but fires nothing new.
	stats = stats.Update("p1", "Alice", 100, "history", true)
	assert.Len(stats.MVPMoments, 1)
	assert.Equal(4, stats.PlayerStats["p1"].CurrentStreak)
	assert.Equal(4, stats.PlayerStats["p1"].BestStreak)
}

func TestUpdate_StreakMomentRefiresAfterReset(t *testing.T) {
	assert := assert.New(t)

	stats := NewGameStats()
	for i := 0; i < 3; i++ {
		stats = stats.Update("p1", "Alice", 100, "history", true)
	}
	stats = stats.Update("p1", "Alice", -100, "history", true)
	for i := 0; i < 3; i++ {
		stats = stats.Update("p1", "Alice", 100, "history", true)
	}

	assert.Len(stats.MVPMoments, 2)
}

func TestUpdate_BiggestGainOnlyOnCorrect(t *testing.T) {
	assert := assert.New(t)

	stats := NewGameStats()
	stats = stats.Update("p1", "Alice", 300, "history", true)
	stats = stats.Update("p1", "Alice", 100, "history", true)
	stats = stats.Update("p1", "Alice", -500, "history", true)

	assert.Equal(300, stats.PlayerStats["p1"].BiggestGain)
}

func TestUpdate_PerCategoryTotals(t *testing.T) {
	assert := assert.New(t)

	stats := NewGameStats()
	stats = stats.Update("p1", "Alice", 100, "history", true)
	stats = stats.Update("p1", "Alice", 200, "history", true)
	stats = stats.Update("p1", "Alice", 400, "science", true)

	ps := stats.PlayerStats["p1"]
	assert.Equal(300, ps.PointsByCategory["history"])
	assert.Equal(400, ps.PointsByCategory["science"])
}

func TestUpdate_DoesNotMutateOriginal(t *testing.T) {
	assert := assert.New(t)

	stats := NewGameStats()
	next := stats.Update("p1", "Alice", 100, "history", true)

	assert.Empty(stats.PlayerStats)
	assert.Zero(stats.TotalQuestions)
	assert.Len(next.PlayerStats, 1)
}

func TestUpdate_TracksPlayersIndependently(t *testing.T) {
	assert := assert.New(t)

	stats := NewGameStats()
	stats = stats.Update("p1", "Alice", 100, "history", true)
	stats = stats.Update("p2", "Bob", -100, "history", true)
	stats = stats.Update("p1", "Alice", 100, "history", true)

	assert.Equal(2, stats.PlayerStats["p1"].CurrentStreak)
	assert.Equal(0, stats.PlayerStats["p2"].CurrentStreak)
	assert.Equal(1, stats.PlayerStats["p2"].WrongAnswers)
	assert.Equal(3, stats.TotalQuestions)
}
