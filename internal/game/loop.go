package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Broadcaster delivers tick output to room subscribers. Implemented by the
// socket layer.
type Broadcaster interface {
	ToRoom(code, event string, payload any)
	ToConn(code, sid, event string, payload any)
}

const sweepInterval = time.Minute

// Loop drives every running room forward on a fixed wall-clock tick and
// periodically garbage-collects abandoned rooms.
type Loop struct {
	reg *Registry
	out Broadcaster
	ttl time.Duration
}

func NewLoop(reg *Registry, out Broadcaster, ttl time.Duration) *Loop {
	return &Loop{reg: reg, out: out, ttl: ttl}
}

func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	sweeper := time.NewTicker(sweepInterval)
	defer sweeper.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, room := range l.reg.Rooms() {
				l.tickRoom(room, now)
			}
		case now := <-sweeper.C:
			for _, code := range l.reg.Sweep(now, l.ttl) {
				log.Info().Str("room", code).Msg("idle room removed")
			}
		}
	}
}

// tickRoom advances one room and broadcasts the results. A failure in one
// room must not abort processing of the others, so panics stop here; the room
// keeps its last good state and is retried on the next tick.
func (l *Loop) tickRoom(room *Room, now time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("room", room.Code).Interface("panic", rec).Msg("tick failed")
		}
	}()

	res := room.Advance(now)
	if !res.Ran {
		return
	}
	for _, d := range res.Deaths {
		l.out.ToRoom(room.Code, "event:death", d)
	}
	snap := room.Snapshot()
	l.out.ToRoom(room.Code, "state", snap)
	for sid, my := range room.PersonalSnapshots() {
		l.out.ToConn(room.Code, sid, "myState", my)
	}
	if res.Ended {
		log.Info().Str("room", room.Code).Str("winner", snap.WinnerID).Msg("round ended")
	}
}
