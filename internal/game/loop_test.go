package game

import (
	"sync"
	"testing"
	"time"
)

type recordedEvent struct {
	Code    string
	SID     string
	Event   string
	Payload any
}

type recordingSink struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (rs *recordingSink) ToRoom(code, event string, payload any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.events = append(rs.events, recordedEvent{Code: code, Event: event, Payload: payload})
}

func (rs *recordingSink) ToConn(code, sid, event string, payload any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.events = append(rs.events, recordedEvent{Code: code, SID: sid, Event: event, Payload: payload})
}

func (rs *recordingSink) byName(event string) []recordedEvent {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	var out []recordedEvent
	for _, e := range rs.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type panickySink struct{}

func (panickySink) ToRoom(code, event string, payload any)      { panic("broadcast blew up") }
func (panickySink) ToConn(code, sid, event string, payload any) { panic("broadcast blew up") }

func TestTickRoomBroadcastsSharedAndPersonal(t *testing.T) {
	reg := NewRegistry()
	sink := &recordingSink{}
	loop := NewLoop(reg, sink, time.Hour)

	room := reg.Create(time.Now())
	t0 := time.Now()
	room.Apply(t0, Join{SID: "s1", Pseudo: "Nova"})
	room.Apply(t0, Join{SID: "s2", Pseudo: "Comet"})
	room.Apply(t0, Start{})

	loop.tickRoom(room, t0.Add(TickInterval))

	states := sink.byName("state")
	if len(states) != 1 {
		t.Fatalf("expected one shared snapshot, got %d", len(states))
	}
	snap, ok := states[0].Payload.(Snapshot)
	if !ok {
		t.Fatalf("state payload should be a Snapshot, got %T", states[0].Payload)
	}
	if snap.State != PhaseRunning || len(snap.Players) != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	personals := sink.byName("myState")
	if len(personals) != 2 {
		t.Fatalf("expected a personal snapshot per player, got %d", len(personals))
	}
	sids := map[string]bool{}
	for _, e := range personals {
		sids[e.SID] = true
	}
	if !sids["s1"] || !sids["s2"] {
		t.Fatalf("personal snapshots should target each player connection, got %v", sids)
	}
}

func TestTickRoomSkipsNonRunningRooms(t *testing.T) {
	reg := NewRegistry()
	sink := &recordingSink{}
	loop := NewLoop(reg, sink, time.Hour)

	room := reg.Create(time.Now())
	room.Apply(time.Now(), Join{SID: "s1", Pseudo: "Nova"})

	loop.tickRoom(room, time.Now())
	if len(sink.events) != 0 {
		t.Fatalf("lobby room should not broadcast, got %d events", len(sink.events))
	}
}

func TestEndingTickBroadcastsDeathAndFinalState(t *testing.T) {
	reg := NewRegistry()
	sink := &recordingSink{}
	loop := NewLoop(reg, sink, time.Hour)

	room := reg.Create(time.Now())
	t0 := time.Now()
	room.Apply(t0, Join{SID: "s1", Pseudo: "Nova"})
	room.Apply(t0, Start{})
	blockerOver(room, room.playersBySID["s1"])

	loop.tickRoom(room, t0.Add(TickInterval))

	deaths := sink.byName("event:death")
	if len(deaths) != 1 {
		t.Fatalf("expected one death event, got %d", len(deaths))
	}
	states := sink.byName("state")
	if len(states) != 1 {
		t.Fatal("the ending tick must still broadcast a shared snapshot")
	}
	snap := states[0].Payload.(Snapshot)
	if snap.State != PhaseEnded {
		t.Fatalf("final snapshot should carry the ended phase, got %s", snap.State)
	}
}

func TestTickRoomRecoversFromPanic(t *testing.T) {
	reg := NewRegistry()
	loop := NewLoop(reg, panickySink{}, time.Hour)

	room := reg.Create(time.Now())
	t0 := time.Now()
	room.Apply(t0, Join{SID: "s1", Pseudo: "Nova"})
	room.Apply(t0, Start{})

	// Must not propagate; the room keeps its last good state.
	loop.tickRoom(room, t0.Add(TickInterval))

	if room.Phase() != PhaseRunning {
		t.Fatalf("room should keep running after a failed tick, got %s", room.Phase())
	}

	// A healthy sink keeps working on the next tick.
	sink := &recordingSink{}
	healthy := NewLoop(reg, sink, time.Hour)
	healthy.tickRoom(room, t0.Add(2*TickInterval))
	if len(sink.byName("state")) != 1 {
		t.Fatal("the next tick should broadcast normally")
	}
}
