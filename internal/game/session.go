package game

import "github.com/google/uuid"

// SessionState is the lifecycle of a run through the levels.
type SessionState int

const (
	SessionPlaying       SessionState = iota
	SessionLevelComplete              // chain cleared, waiting for next level
	SessionLevelFailed                // out of lives
)

// String returns a lowercase state name for logs and payloads.
func (s SessionState) String() string {
	switch s {
	case SessionPlaying:
		return "playing"
	case SessionLevelComplete:
		return "level_complete"
	case SessionLevelFailed:
		return "level_failed"
	}
	return "unknown"
}

// Session tracks everything that outlives a single tick but belongs to
// the player rather than the board: score, lives, the combo meter, and
// level progression. The chain never touches any of this; the engine
// routes tick outcomes here.
type Session struct {
	RunID string       `json:"runId"` // stable across levels, new on restart
	Score int          `json:"score"`
	Lives int          `json:"lives"`
	Level int          `json:"level"`
	State SessionState `json:"state"`

	Combo      int     `json:"combo"`
	Multiplier int     `json:"multiplier"`
	comboTimer float64

	comboWindow    float64
	maxMultiplier  int
	startingLives  int
	bonusLifeEvery int
	milestones     int // bonus-life thresholds already crossed
}

// NewSession starts a fresh run at level 1 with full lives.
func NewSession(cfg EngineConfig) *Session {
	return &Session{
		RunID:          uuid.NewString(),
		Lives:          cfg.StartingLives,
		Level:          1,
		Multiplier:     1,
		comboWindow:    cfg.ComboWindow,
		maxMultiplier:  cfg.MaxComboMultiplier,
		startingLives:  cfg.StartingLives,
		bonusLifeEvery: cfg.BonusLifeEvery,
	}
}

// Update ticks the combo window. Once it runs dry the combo resets and
// the next match starts over at 1x.
func (s *Session) Update(dt float64) {
	if dt <= 0 || s.comboTimer <= 0 {
		return
	}
	s.comboTimer -= dt
	if s.comboTimer <= 0 {
		s.Combo = 0
		s.Multiplier = 1
	}
}

// ScoreMatch awards points for one resolution pass. Each pass inside
// the combo window raises the combo, and the multiplier is the combo
// count capped at the configured maximum. Returns the points awarded
// and how many bonus lives the new total crossed into.
func (s *Session) ScoreMatch(removed int) (points, bonusLives int) {
	if removed <= 0 {
		return 0, 0
	}
	s.Combo++
	s.comboTimer = s.comboWindow
	s.Multiplier = s.Combo
	if s.Multiplier > s.maxMultiplier {
		s.Multiplier = s.maxMultiplier
	}
	points = removed * 10 * s.Multiplier
	return points, s.addScore(points)
}

// AddBonus awards flat points that skip the combo multiplier, such as
// bomb blast bonuses. Returns bonus lives crossed into.
func (s *Session) AddBonus(points int) int {
	if points <= 0 {
		return 0
	}
	return s.addScore(points)
}

func (s *Session) addScore(points int) int {
	s.Score += points
	if s.bonusLifeEvery <= 0 {
		return 0
	}
	crossed := s.Score/s.bonusLifeEvery - s.milestones
	if crossed <= 0 {
		return 0
	}
	s.milestones += crossed
	s.Lives += crossed
	return crossed
}

// LifeLost burns one life for a portal breach. Returns the remaining
// lives and whether the run just failed.
func (s *Session) LifeLost() (remaining int, failed bool) {
	if s.State != SessionPlaying {
		return s.Lives, false
	}
	s.Lives--
	if s.Lives <= 0 {
		s.Lives = 0
		s.State = SessionLevelFailed
		return 0, true
	}
	return s.Lives, false
}

// CompleteLevel marks the current level cleared.
func (s *Session) CompleteLevel() {
	if s.State == SessionPlaying {
		s.State = SessionLevelComplete
	}
}

// AdvanceLevel moves to the next level and resumes play. Score, lives,
// and milestones carry over; the combo meter resets.
func (s *Session) AdvanceLevel() int {
	s.Level++
	s.State = SessionPlaying
	s.Combo = 0
	s.Multiplier = 1
	s.comboTimer = 0
	return s.Level
}

// Restart resets the whole run back to level 1 under a new run ID.
func (s *Session) Restart() {
	s.RunID = uuid.NewString()
	s.Score = 0
	s.Lives = s.startingLives
	s.Level = 1
	s.State = SessionPlaying
	s.Combo = 0
	s.Multiplier = 1
	s.comboTimer = 0
	s.milestones = 0
}
