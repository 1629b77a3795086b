package game

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoundInProgress = errors.New("round already in progress")
	ErrInvalidPseudo   = errors.New("pseudo required")
	ErrPseudoTaken     = errors.New("pseudo already taken")
	ErrNotEliminated   = errors.New("only eliminated players may cheer")
	ErrUnknownPlayer   = errors.New("unknown player")
)

// Neon palette, readable on a dark background.
var palette = []string{
	"#38E8FF",
	"#FF4FD8",
	"#9B5CFF",
	"#4DFFB5",
	"#FFD24D",
	"#4DA3FF",
	"#FFFFFF",
}

// Room is one isolated game instance. All mutation, both commands and the
// tick, happens under mu; a phase transition therefore always completes
// before the next tick is processed.
type Room struct {
	Code      string
	CreatedAt time.Time
	Seed      int64

	mu sync.Mutex

	phase              Phase
	startedAt          time.Time
	endedAt            time.Time
	winnerID           string
	startedPlayerCount int

	worldSpeed  float64
	nextSpawnAt time.Time
	ticks       int

	playersBySID   map[string]*Player
	cheersByPlayer map[string]int
	obstacles      []*Obstacle

	rng        *rand.Rand
	lastActive time.Time
}

func newRoom(code string, now time.Time) *Room {
	seed := rand.Int63()
	return &Room{
		Code:           code,
		CreatedAt:      now,
		Seed:           seed,
		phase:          PhaseLobby,
		playersBySID:   make(map[string]*Player),
		cheersByPlayer: make(map[string]int),
		rng:            rand.New(rand.NewSource(seed)),
		lastActive:     now,
	}
}

// Apply runs one command against the room.
func (r *Room) Apply(now time.Time, cmd Command) (ApplyResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = now

	switch c := cmd.(type) {
	case Join:
		return r.join(c)
	case Start:
		return r.start(now)
	case Reset:
		return r.reset()
	case Input:
		return r.input(c)
	case Cheer:
		return r.cheer(c)
	case Leave:
		return r.leave(c)
	}
	return ApplyResult{}, nil
}

func (r *Room) join(c Join) (ApplyResult, error) {
	// Joins are accepted in lobby and ended so the next round can fill up
	// while results are still on screen.
	if r.phase == PhaseRunning {
		return ApplyResult{}, ErrRoundInProgress
	}
	pseudo := strings.TrimSpace(c.Pseudo)
	if pseudo == "" {
		return ApplyResult{}, ErrInvalidPseudo
	}
	if runes := []rune(pseudo); len(runes) > MaxPseudoLen {
		pseudo = string(runes[:MaxPseudoLen])
	}
	for _, p := range r.playersBySID {
		if strings.EqualFold(p.Pseudo, pseudo) {
			return ApplyResult{}, ErrPseudoTaken
		}
	}

	p := &Player{
		ID:     uuid.NewString(),
		Pseudo: pseudo,
		Color:  palette[r.rng.Intn(len(palette))],
		X:      0.5,
		Alive:  true,
	}
	r.playersBySID[c.SID] = p
	r.cheersByPlayer[p.ID] = 0
	return ApplyResult{PlayerID: p.ID, Pseudo: pseudo, RosterChange: true}, nil
}

func (r *Room) start(now time.Time) (ApplyResult, error) {
	if r.phase == PhaseRunning {
		// Duplicate start is a no-op.
		return ApplyResult{}, nil
	}
	r.phase = PhaseRunning
	r.startedAt = now
	r.endedAt = time.Time{}
	r.winnerID = ""
	r.obstacles = nil
	r.nextSpawnAt = time.Time{}
	r.worldSpeed = 0
	r.ticks = 0
	r.startedPlayerCount = len(r.playersBySID)
	r.resetPlayers()
	return ApplyResult{Started: true, StartedAt: now.UnixMilli()}, nil
}

func (r *Room) reset() (ApplyResult, error) {
	r.phase = PhaseLobby
	r.startedAt = time.Time{}
	r.endedAt = time.Time{}
	r.winnerID = ""
	r.startedPlayerCount = 0
	r.obstacles = nil
	r.nextSpawnAt = time.Time{}
	r.worldSpeed = 0
	r.ticks = 0
	r.resetPlayers()
	return ApplyResult{RosterChange: true}, nil
}

func (r *Room) resetPlayers() {
	for _, p := range r.playersBySID {
		p.Alive = true
		p.Score = 0
		p.X = 0.5
		p.EliminatedAt = 0
		r.cheersByPlayer[p.ID] = 0
	}
}

func (r *Room) input(c Input) (ApplyResult, error) {
	if r.phase != PhaseRunning {
		return ApplyResult{}, nil
	}
	p := r.playersBySID[c.SID]
	if p == nil || !p.Alive {
		return ApplyResult{}, nil
	}
	if math.IsNaN(c.X) {
		return ApplyResult{}, nil
	}
	// Last write before the next tick wins.
	p.X = clamp(c.X, 0, 1)
	return ApplyResult{}, nil
}

func (r *Room) cheer(c Cheer) (ApplyResult, error) {
	if r.phase != PhaseRunning {
		return ApplyResult{}, nil
	}
	from := r.playersBySID[c.SID]
	if from == nil {
		return ApplyResult{}, ErrUnknownPlayer
	}
	if from.Alive {
		return ApplyResult{}, ErrNotEliminated
	}
	// An absent target is silently ignored, it may have just disconnected.
	if _, ok := r.cheersByPlayer[c.TargetID]; !ok {
		return ApplyResult{}, nil
	}
	r.cheersByPlayer[c.TargetID]++
	return ApplyResult{}, nil
}

func (r *Room) leave(c Leave) (ApplyResult, error) {
	p := r.playersBySID[c.SID]
	if p == nil {
		return ApplyResult{}, nil
	}
	delete(r.playersBySID, c.SID)
	delete(r.cheersByPlayer, p.ID)
	return ApplyResult{RosterChange: true}, nil
}

// TickResult is what one simulation step produced.
type TickResult struct {
	Ran    bool
	Deaths []Death
	Ended  bool
}

// Advance runs one authoritative simulation step. It is a no-op unless the
// room is running. The tick that ends the round still reflects that tick's
// collisions.
func (r *Room) Advance(now time.Time) TickResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseRunning {
		return TickResult{}
	}
	r.lastActive = now
	r.ticks++

	elapsed := now.Sub(r.startedAt).Seconds()
	r.worldSpeed = WorldSpeed(elapsed)

	if (r.nextSpawnAt.IsZero() || !now.Before(r.nextSpawnAt)) && len(r.obstacles) < MaxObstacles {
		r.nextSpawnAt = now.Add(SpawnInterval(elapsed))
		r.spawnObstacle(r.worldSpeed)
		if elapsed > DoubleSpawnAfter && r.rng.Float64() < DoubleSpawnChance && len(r.obstacles) < MaxObstacles {
			r.spawnObstacle(r.worldSpeed)
		}
	}

	for _, o := range r.obstacles {
		o.Y += o.VY
	}

	// Past the boundary means dodged.
	kept := r.obstacles[:0]
	for _, o := range r.obstacles {
		if o.Y < BoundaryY+PassMargin {
			kept = append(kept, o)
		}
	}
	r.obstacles = kept

	var deaths []Death
	for _, p := range r.playersBySID {
		if !p.Alive {
			continue
		}
		// Tick-count based, tenths of a second at 20 ticks/s. Monotonic and
		// insensitive to wall-clock jitter.
		p.Score = r.ticks / 2

		px := clamp(p.X, 0, 1) * (CanvasW - PlayerW)
		for _, o := range r.obstacles {
			if Overlap(px, PlayerY, PlayerW, PlayerH, o.X, o.Y, o.W, o.H) {
				p.Alive = false
				p.EliminatedAt = now.UnixMilli()
				deaths = append(deaths, Death{
					Room:     r.Code,
					PlayerID: p.ID,
					X:        px + PlayerW/2,
					Y:        PlayerY + PlayerH/2,
					At:       now.UnixMilli(),
				})
				break
			}
		}
	}

	alive := 0
	var survivor *Player
	for _, p := range r.playersBySID {
		if p.Alive {
			alive++
			survivor = p
		}
	}
	ended := false
	if r.startedPlayerCount <= 1 {
		// Solo run: play until the one player is down. No winner.
		if alive == 0 {
			ended = true
		}
	} else if alive <= 1 {
		ended = true
		if alive == 1 {
			r.winnerID = survivor.ID
		}
	}
	if ended {
		r.phase = PhaseEnded
		r.endedAt = now
	}
	return TickResult{Ran: true, Deaths: deaths, Ended: ended}
}

// Phase returns the room's current lifecycle phase.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Roster builds the public lobby payload.
func (r *Room) Roster() RosterPayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	players := make([]RosterEntry, 0, len(r.playersBySID))
	for _, p := range r.playersBySID {
		players = append(players, RosterEntry{ID: p.ID, Pseudo: p.Pseudo, Color: p.Color})
	}
	return RosterPayload{Room: r.Code, State: r.phase, Players: players}
}

// Snapshot builds the shared world payload for the latest tick.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := Snapshot{
		Room:       r.Code,
		State:      r.phase,
		StartedAt:  unixMilli(r.startedAt),
		EndedAt:    unixMilli(r.endedAt),
		WinnerID:   r.winnerID,
		Seed:       r.Seed,
		WorldSpeed: r.worldSpeed,
		BoundaryY:  BoundaryY,
		ControlH:   ControlH,
		Players:    make([]PlayerView, 0, len(r.playersBySID)),
		Obstacles:  make([]ObstacleView, 0, len(r.obstacles)),
	}
	for _, p := range r.playersBySID {
		snap.Players = append(snap.Players, PlayerView{
			ID:     p.ID,
			Pseudo: p.Pseudo,
			Color:  p.Color,
			X:      p.X,
			Alive:  p.Alive,
			Score:  p.Score,
			Cheers: r.cheersByPlayer[p.ID],
		})
	}
	for _, o := range r.obstacles {
		snap.Obstacles = append(snap.Obstacles, ObstacleView{
			ID: o.ID, Type: string(o.Kind), X: o.X, Y: o.Y, W: o.W, H: o.H,
		})
	}
	return snap
}

// PersonalSnapshots builds the per-player payloads, keyed by socket id.
func (r *Room) PersonalSnapshots() map[string]PersonalSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]PersonalSnapshot, len(r.playersBySID))
	for sid, p := range r.playersBySID {
		out[sid] = PersonalSnapshot{
			Room:     r.Code,
			State:    r.phase,
			WinnerID: r.winnerID,
			Me:       SelfView{ID: p.ID, Pseudo: p.Pseudo, Alive: p.Alive, Score: p.Score, X: p.X},
		}
	}
	return out
}

func (r *Room) expired(now time.Time, ttl time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase != PhaseRunning && now.Sub(r.lastActive) > ttl
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
