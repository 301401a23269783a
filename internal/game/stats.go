package game

import "time"

// MVP moment types.
const MomentStreak = "streak"

// streakMomentAt is the streak length that fires the one-shot moment.
const streakMomentAt = 3

// MomentEvent is a one-shot notable event recorded during a session.
type MomentEvent struct {
	Type       string    `json:"type"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Streak     int       `json:"streak,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// PlayerGameStats accumulates one player's gameplay record. Mutated
// only through GameStats.Update.
type PlayerGameStats struct {
	PlayerName       string         `json:"playerName"`
	CorrectAnswers   int            `json:"correctAnswers"`
	WrongAnswers     int            `json:"wrongAnswers"`
	TotalPoints      int            `json:"totalPoints"`
	PointsByCategory map[string]int `json:"pointsByCategory"`
	CurrentStreak    int            `json:"currentStreak"`
	BestStreak       int            `json:"bestStreak"`
	BiggestGain      int            `json:"biggestGain"`
	LastAnswerTime   time.Time      `json:"lastAnswerTime,omitempty"`
}

// GameStats is the per-session aggregate derived from scoring actions.
type GameStats struct {
	PlayerStats    map[string]PlayerGameStats `json:"playerStats"`
	TotalQuestions int                        `json:"totalQuestions"`
	StartTime      time.Time                  `json:"startTime"`
	MVPMoments     []MomentEvent              `json:"mvpMoments"`
}

// NewGameStats returns an empty aggregate stamped with the session start.
func NewGameStats() *GameStats {
	return &GameStats{
		PlayerStats: map[string]PlayerGameStats{},
		StartTime:   time.Now(),
		MVPMoments:  []MomentEvent{},
	}
}

func (s *GameStats) clone() *GameStats {
	next := &GameStats{
		PlayerStats:    make(map[string]PlayerGameStats, len(s.PlayerStats)),
		TotalQuestions: s.TotalQuestions,
		StartTime:      s.StartTime,
		MVPMoments:     make([]MomentEvent, len(s.MVPMoments)),
	}
	for id, ps := range s.PlayerStats {
		byCat := make(map[string]int, len(ps.PointsByCategory))
		for cat, pts := range ps.PointsByCategory {
			byCat[cat] = pts
		}
		ps.PointsByCategory = byCat
		next.PlayerStats[id] = ps
	}
	copy(next.MVPMoments, s.MVPMoments)
	return next
}

// Update folds one scoring action into the aggregate and returns the
// new snapshot. Calls with trackForGameplay=false or no category are
// pure no-ops: host point nudges and undo reversals must not pollute
// streaks or per-category totals. A positive delta counts as a correct
// answer, a negative one as wrong; zero-point actions count toward
// neither counter nor the question total. A streak reaching exactly
// three fires a single MVP moment for that run.
func (s *GameStats) Update(playerID, playerName string, points int, categoryID string, trackForGameplay bool) *GameStats {
	if !trackForGameplay || categoryID == "" {
		return s
	}

	next := s.clone()
	ps, ok := next.PlayerStats[playerID]
	if !ok {
		ps = PlayerGameStats{PointsByCategory: map[string]int{}}
	}
	ps.PlayerName = playerName

	now := time.Now()
	isCorrect := points > 0
	if isCorrect {
		ps.CorrectAnswers++
		ps.TotalPoints += points
		ps.CurrentStreak++
		if ps.CurrentStreak > ps.BestStreak {
			ps.BestStreak = ps.CurrentStreak
		}
		if points > ps.BiggestGain {
			ps.BiggestGain = points
		}
		ps.PointsByCategory[categoryID] += points
		if ps.CurrentStreak == streakMomentAt {
			next.MVPMoments = append(next.MVPMoments, MomentEvent{
				Type:       MomentStreak,
				PlayerID:   playerID,
				PlayerName: playerName,
				Streak:     streakMomentAt,
				Timestamp:  now,
			})
		}
	} else {
		if points < 0 {
			ps.WrongAnswers++
		}
		ps.TotalPoints += points
		ps.CurrentStreak = 0
	}
	ps.LastAnswerTime = now
	next.PlayerStats[playerID] = ps

	if isCorrect || points < 0 {
		next.TotalQuestions++
	}
	return next
}
