package game

import (
	"testing"
)

// TestSnapshotPoolWriteReadCycle verifies readers always see the last
// published snapshot, never a partial write.
func TestSnapshotPoolWriteReadCycle(t *testing.T) {
	pool := NewSnapshotPool(DefaultLimits)

	w := pool.AcquireWrite()
	w.Level = 3
	w.Score = 420
	w.Orbs = append(w.Orbs, OrbSnapshot{ID: 1, ColorName: "red"})

	// Not yet published: the reader still sees the previous slot
	if r := pool.AcquireRead(); r.Level == 3 {
		t.Error("Reader observed an unpublished write")
	}

	pool.PublishWrite()

	r := pool.AcquireRead()
	if r.Level != 3 || r.Score != 420 {
		t.Errorf("Expected level 3 score 420, got level %d score %d", r.Level, r.Score)
	}
	if len(r.Orbs) != 1 || r.Orbs[0].ID != 1 {
		t.Errorf("Orb slice did not publish: %v", r.Orbs)
	}
}

// TestSnapshotPoolSequence verifies every write gets a new monotonic
// sequence number.
func TestSnapshotPoolSequence(t *testing.T) {
	pool := NewSnapshotPool(DefaultLimits)

	var last uint64
	for i := 0; i < 10; i++ {
		w := pool.AcquireWrite()
		if w.Sequence <= last {
			t.Fatalf("Sequence not monotonic: %d after %d", w.Sequence, last)
		}
		last = w.Sequence
		pool.PublishWrite()
	}
}

// TestSnapshotPoolReusesCapacity verifies acquired slots come back with
// slices reset but capacity retained, and stale projectile state cleared.
func TestSnapshotPoolReusesCapacity(t *testing.T) {
	pool := NewSnapshotPool(Limits{MaxChainOrbs: 8, MaxSubSteps: 4, MaxEventsPerTick: 16})

	w := pool.AcquireWrite()
	for i := 0; i < 8; i++ {
		w.Orbs = append(w.Orbs, OrbSnapshot{ID: uint64(i)})
	}
	w.HasProjectile = true
	w.Projectile = ProjectileSnapshot{ID: 99}
	pool.PublishWrite()

	// Cycle through the other two slots back to the first
	pool.AcquireWrite()
	pool.PublishWrite()
	pool.AcquireWrite()
	pool.PublishWrite()

	w2 := pool.AcquireWrite()
	if len(w2.Orbs) != 0 {
		t.Errorf("Expected reset orb slice, got %d entries", len(w2.Orbs))
	}
	if cap(w2.Orbs) < 8 {
		t.Errorf("Capacity lost on reuse: %d", cap(w2.Orbs))
	}
	if w2.HasProjectile || w2.Projectile.ID != 0 {
		t.Error("Stale projectile state survived reuse")
	}
}

// TestSnapshotPoolReadStability verifies the documented contract: a
// snapshot returned by AcquireRead keeps its contents while up to two
// more writes land, because the writer cycles the other two slots first.
func TestSnapshotPoolReadStability(t *testing.T) {
	pool := NewSnapshotPool(DefaultLimits)

	w := pool.AcquireWrite()
	w.Level = 100
	pool.PublishWrite()

	r := pool.AcquireRead()
	if r.Level != 100 {
		t.Fatalf("Expected level 100, got %d", r.Level)
	}

	for i := 0; i < 2; i++ {
		w := pool.AcquireWrite()
		w.Level = 200 + i
		pool.PublishWrite()

		if r.Level != 100 {
			t.Fatalf("Held snapshot mutated after %d writes", i+1)
		}
	}

	// The third acquire recycles the held slot
	seq := r.Sequence
	pool.AcquireWrite()
	if r.Sequence == seq {
		t.Error("Third write should have recycled the held slot")
	}
}

// TestDefaultLimits verifies the production caps stay sane.
func TestDefaultLimits(t *testing.T) {
	if DefaultLimits.MaxChainOrbs <= 0 || DefaultLimits.MaxSubSteps <= 0 || DefaultLimits.MaxEventsPerTick <= 0 {
		t.Errorf("Default limits must be positive: %+v", DefaultLimits)
	}
	pool := NewSnapshotPool(DefaultLimits)
	if pool.GetLimits() != DefaultLimits {
		t.Errorf("Pool limits mismatch: %+v", pool.GetLimits())
	}
}
