package game

import "time"

// WorldSpeed returns the downward scroll speed for a run that has lasted
// elapsed seconds. Monotonically non-decreasing, capped at MaxSpeed.
func WorldSpeed(elapsed float64) float64 {
	s := StartSpeed + SpeedPerSec*elapsed
	if s < StartSpeed {
		return StartSpeed
	}
	if s > MaxSpeed {
		return MaxSpeed
	}
	return s
}

// SpawnInterval returns the delay until the next permitted spawn. It shrinks
// linearly over the run and bottoms out at SpawnMin.
func SpawnInterval(elapsed float64) time.Duration {
	d := SpawnStart - time.Duration(elapsed*float64(SpawnDecayPerSec))
	if d < SpawnMin {
		return SpawnMin
	}
	if d > SpawnStart {
		return SpawnStart
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
