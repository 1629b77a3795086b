package game

import (
	"testing"
	"time"
)

func specFor(t *testing.T, kind ObstacleKind) kindSpec {
	t.Helper()
	for _, ks := range kindSpecs {
		if ks.kind == kind {
			return ks
		}
	}
	t.Fatalf("unknown kind %q", kind)
	return kindSpec{}
}

func TestSpawnObstacleBounds(t *testing.T) {
	room := NewRegistry().Create(time.Now())
	const worldSpeed = 10.0

	for i := 0; i < 300; i++ {
		room.spawnObstacle(worldSpeed)
	}

	seen := map[ObstacleKind]int{}
	for _, o := range room.obstacles {
		ks := specFor(t, o.Kind)
		seen[o.Kind]++
		if o.W != ks.w || o.H != ks.h {
			t.Fatalf("%s has size %fx%f, want %fx%f", o.Kind, o.W, o.H, ks.w, ks.h)
		}
		if o.X < 0 || o.X > CanvasW-ks.w {
			t.Fatalf("%s spawned at x=%f, outside [0,%f]", o.Kind, o.X, CanvasW-ks.w)
		}
		if o.Y != -ks.h-6 {
			t.Fatalf("%s spawned at y=%f, want above the visible area", o.Kind, o.Y)
		}
		lo := worldSpeed * ks.speedMult * JitterMin
		hi := worldSpeed * ks.speedMult * (JitterMin + JitterSpan)
		if o.VY < lo || o.VY >= hi {
			t.Fatalf("%s fall speed %f outside jitter range [%f,%f)", o.Kind, o.VY, lo, hi)
		}
		if o.ID == "" {
			t.Fatal("obstacle should have an id")
		}
	}

	// With 300 draws every archetype should show up.
	for _, ks := range kindSpecs {
		if seen[ks.kind] == 0 {
			t.Fatalf("kind %s never spawned in 300 draws", ks.kind)
		}
	}
}

func TestSpawnDeadlineAndCap(t *testing.T) {
	room := NewRegistry().Create(time.Now())
	t0 := time.Now()
	if _, err := room.Apply(t0, Join{SID: "s1", Pseudo: "Nova"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := room.Apply(t0, Start{}); err != nil {
		t.Fatalf("start: %v", err)
	}

	// First tick spawns immediately and arms the deadline.
	room.Advance(t0.Add(TickInterval))
	if len(room.obstacles) != 1 {
		t.Fatalf("expected 1 obstacle after first tick, got %d", len(room.obstacles))
	}

	// Before the deadline no further spawn happens.
	room.Advance(t0.Add(2 * TickInterval))
	if len(room.obstacles) != 1 {
		t.Fatalf("expected still 1 obstacle before the deadline, got %d", len(room.obstacles))
	}

	// Past the deadline a second obstacle drops.
	room.Advance(t0.Add(TickInterval + SpawnStart + TickInterval))
	if len(room.obstacles) != 2 {
		t.Fatalf("expected 2 obstacles past the deadline, got %d", len(room.obstacles))
	}

	// The active-obstacle cap blocks spawning entirely.
	for len(room.obstacles) < MaxObstacles {
		room.spawnObstacle(1)
	}
	before := len(room.obstacles)
	room.Advance(t0.Add(time.Hour))
	if len(room.obstacles) > before {
		t.Fatalf("spawned past the cap: %d obstacles", len(room.obstacles))
	}
}
