package game

import "testing"

func newTestSession() *Session {
	cfg := DefaultEngineConfig()
	cfg.StartingLives = 5
	cfg.ComboWindow = 2.0
	cfg.MaxComboMultiplier = 10
	cfg.BonusLifeEvery = 5000
	return NewSession(cfg)
}

// TestScoreMatchBase verifies the 10-points-per-orb base and that the
// first match scores at 1x.
func TestScoreMatchBase(t *testing.T) {
	s := newTestSession()

	points, bonus := s.ScoreMatch(3)
	if points != 30 {
		t.Errorf("Expected 30 points, got %d", points)
	}
	if bonus != 0 {
		t.Errorf("Expected no bonus life, got %d", bonus)
	}
	if s.Score != 30 || s.Combo != 1 || s.Multiplier != 1 {
		t.Errorf("Unexpected session: score=%d combo=%d mult=%d", s.Score, s.Combo, s.Multiplier)
	}
}

// TestScoreMatchCombo verifies consecutive matches inside the window
// raise the multiplier and the window expiry resets it.
func TestScoreMatchCombo(t *testing.T) {
	s := newTestSession()

	s.ScoreMatch(3) // 30 at 1x

	points, _ := s.ScoreMatch(3) // combo 2, 2x
	if points != 60 {
		t.Errorf("Expected 60 points at 2x, got %d", points)
	}
	points, _ = s.ScoreMatch(4) // combo 3, 3x
	if points != 120 {
		t.Errorf("Expected 120 points at 3x, got %d", points)
	}

	// Window expires: combo resets
	s.Update(2.5)
	if s.Combo != 0 || s.Multiplier != 1 {
		t.Errorf("Combo survived the window: combo=%d mult=%d", s.Combo, s.Multiplier)
	}
	points, _ = s.ScoreMatch(3)
	if points != 30 {
		t.Errorf("Expected 30 points after reset, got %d", points)
	}
}

// TestScoreMatchMultiplierCap verifies the combo multiplier caps out.
func TestScoreMatchMultiplierCap(t *testing.T) {
	s := newTestSession()

	for i := 0; i < 15; i++ {
		s.ScoreMatch(3)
	}
	if s.Multiplier != 10 {
		t.Errorf("Expected capped multiplier 10, got %d", s.Multiplier)
	}
	if points, _ := s.ScoreMatch(3); points != 300 {
		t.Errorf("Expected 300 points at the cap, got %d", points)
	}
}

// TestScoreMatchZeroRemoved verifies empty passes score nothing and do
// not touch the combo.
func TestScoreMatchZeroRemoved(t *testing.T) {
	s := newTestSession()
	if points, bonus := s.ScoreMatch(0); points != 0 || bonus != 0 {
		t.Errorf("Empty pass scored %d points, %d lives", points, bonus)
	}
	if s.Combo != 0 {
		t.Errorf("Empty pass bumped the combo to %d", s.Combo)
	}
}

// TestBonusLives verifies a life per score milestone, including a
// single award crossing two milestones at once.
func TestBonusLives(t *testing.T) {
	s := newTestSession() // bonus every 5000

	if got := s.AddBonus(4999); got != 0 {
		t.Errorf("Expected no bonus at 4999, got %d", got)
	}
	if got := s.AddBonus(1); got != 1 {
		t.Errorf("Expected a bonus life at 5000, got %d", got)
	}
	if s.Lives != 6 {
		t.Errorf("Expected 6 lives, got %d", s.Lives)
	}

	// Jump straight across two milestones
	if got := s.AddBonus(10000); got != 2 {
		t.Errorf("Expected 2 bonus lives, got %d", got)
	}
	if s.Lives != 8 {
		t.Errorf("Expected 8 lives, got %d", s.Lives)
	}

	// Milestones never award twice
	if got := s.AddBonus(100); got != 0 {
		t.Errorf("Re-crossed an old milestone: %d", got)
	}
}

// TestLifeLost verifies losing lives down to failure and that further
// breaches while failed are ignored.
func TestLifeLost(t *testing.T) {
	s := newTestSession()

	for i := 4; i >= 1; i-- {
		remaining, failed := s.LifeLost()
		if remaining != i || failed {
			t.Fatalf("Expected %d remaining, failed=false; got %d, %v", i, remaining, failed)
		}
	}

	remaining, failed := s.LifeLost()
	if remaining != 0 || !failed {
		t.Errorf("Expected final breach to fail the run, got %d, %v", remaining, failed)
	}
	if s.State != SessionLevelFailed {
		t.Errorf("Expected failed state, got %s", s.State)
	}

	// Breaches after failure are no-ops
	remaining, failed = s.LifeLost()
	if remaining != 0 || failed {
		t.Errorf("Post-failure breach changed state: %d, %v", remaining, failed)
	}
}

// TestLevelProgression verifies complete/advance carry score and lives
// but reset the combo meter.
func TestLevelProgression(t *testing.T) {
	s := newTestSession()
	s.ScoreMatch(5)
	s.ScoreMatch(5)
	s.LifeLost()

	s.CompleteLevel()
	if s.State != SessionLevelComplete {
		t.Errorf("Expected level_complete, got %s", s.State)
	}

	next := s.AdvanceLevel()
	if next != 2 || s.Level != 2 {
		t.Errorf("Expected level 2, got %d", next)
	}
	if s.State != SessionPlaying {
		t.Errorf("Expected playing, got %s", s.State)
	}
	if s.Combo != 0 || s.Multiplier != 1 {
		t.Errorf("Combo carried across levels: combo=%d mult=%d", s.Combo, s.Multiplier)
	}
	if s.Score == 0 || s.Lives != 4 {
		t.Errorf("Score or lives did not carry: score=%d lives=%d", s.Score, s.Lives)
	}
}

// TestCompleteLevelOnlyWhilePlaying verifies a failed run cannot be
// marked complete.
func TestCompleteLevelOnlyWhilePlaying(t *testing.T) {
	s := newTestSession()
	for i := 0; i < 5; i++ {
		s.LifeLost()
	}
	s.CompleteLevel()
	if s.State != SessionLevelFailed {
		t.Errorf("Failed run flipped to %s", s.State)
	}
}

// TestSessionRestart verifies a full reset under a fresh run ID.
func TestSessionRestart(t *testing.T) {
	s := newTestSession()
	oldID := s.RunID
	s.ScoreMatch(500)
	s.ScoreMatch(500)
	s.LifeLost()
	s.AdvanceLevel()

	s.Restart()

	if s.RunID == oldID {
		t.Error("Restart kept the old run ID")
	}
	if s.Score != 0 || s.Level != 1 || s.Lives != 5 {
		t.Errorf("Restart left state behind: score=%d level=%d lives=%d", s.Score, s.Level, s.Lives)
	}
	if s.State != SessionPlaying {
		t.Errorf("Expected playing, got %s", s.State)
	}

	// Milestones reset too: the same score awards lives again
	if got := s.AddBonus(5000); got != 1 {
		t.Errorf("Expected a fresh milestone after restart, got %d", got)
	}
}
