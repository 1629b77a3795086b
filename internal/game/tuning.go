package game

import "time"

// Canvas constants must match the client canvas logic exactly, otherwise
// collisions look unfair on screen.
const (
	TickInterval = 50 * time.Millisecond // 20 simulation ticks per second

	CanvasW = 640.0
	CanvasH = 720.0

	// Bottom touch-control band. Obstacles past BoundaryY count as dodged.
	ControlH  = 160.0
	BoundaryY = CanvasH - ControlH

	PlayerW = 26.0
	PlayerH = 42.0
	// The ship sits with its bottom on the boundary line.
	PlayerY = BoundaryY - PlayerH
)

// Difficulty tuning: speed rises and spawns get denser, both saturating.
const (
	StartSpeed  = 5.0
	SpeedPerSec = 0.28
	MaxSpeed    = 26.0

	SpawnStart       = 820 * time.Millisecond
	SpawnMin         = 220 * time.Millisecond
	SpawnDecayPerSec = 14 * time.Millisecond

	MaxObstacles = 10

	// Late in a run a second obstacle occasionally drops in the same tick.
	DoubleSpawnAfter  = 18.0 // seconds
	DoubleSpawnChance = 0.22

	// Obstacles are culled once fully past the boundary by this margin.
	PassMargin = 30.0

	// Per-obstacle fall speed jitter, fixed at spawn.
	JitterMin  = 0.92
	JitterSpan = 0.16
)

const MaxPseudoLen = 16
