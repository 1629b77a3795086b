package game

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
)

type kindSpec struct {
	kind      ObstacleKind
	w, h      float64
	weight    float64
	speedMult float64
}

// Three archetypes, simple and readable. Weights sum to 1.
var kindSpecs = []kindSpec{
	{kind: KindAsteroid, w: 52, h: 52, weight: 0.55, speedMult: 1.0},
	{kind: KindSatellite, w: 78, h: 28, weight: 0.23, speedMult: 0.90},
	{kind: KindUfo, w: 64, h: 36, weight: 0.22, speedMult: 1.05},
}

func pickKind(rng *rand.Rand) kindSpec {
	r := rng.Float64()
	acc := 0.0
	for _, ks := range kindSpecs {
		acc += ks.weight
		if r < acc {
			return ks
		}
	}
	return kindSpecs[0]
}

// spawnObstacle appends one obstacle just above the visible area. Fall speed
// is the current world speed scaled by the archetype and a small jitter so
// spacing never feels perfectly regular. Caller holds the room lock.
func (r *Room) spawnObstacle(worldSpeed float64) {
	ks := pickKind(r.rng)
	jitter := JitterMin + r.rng.Float64()*JitterSpan
	r.obstacles = append(r.obstacles, &Obstacle{
		ID:   uuid.NewString(),
		Kind: ks.kind,
		X:    math.Floor(r.rng.Float64() * (CanvasW - ks.w)),
		Y:    -ks.h - 6,
		W:    ks.w,
		H:    ks.h,
		VY:   worldSpeed * ks.speedMult * jitter,
	})
}
