package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Alphabet excludes ambiguous characters: 0, O, 1, I, L.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 6

// Registry owns the process-wide code -> room table.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create makes a new lobby room under a fresh code, regenerating on the
// unlikely collision with a live room.
func (reg *Registry) Create(now time.Time) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code := randomCode(codeLength)
	for reg.rooms[code] != nil {
		code = randomCode(codeLength)
	}
	r := newRoom(code, now)
	reg.rooms[code] = r
	return r
}

// Get looks a room up by code, case-insensitively.
func (reg *Registry) Get(code string) (*Room, error) {
	code = NormalizeCode(code)
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r := reg.rooms[code]
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

func (reg *Registry) Remove(code string) {
	code = NormalizeCode(code)
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, code)
}

// Rooms returns a snapshot of all live rooms.
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

// Sweep drops rooms that have been idle past ttl and returns their codes.
// Running rooms refresh on every tick and are never swept mid-round.
func (reg *Registry) Sweep(now time.Time, ttl time.Duration) []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	var removed []string
	for code, r := range reg.rooms {
		if r.expired(now, ttl) {
			delete(reg.rooms, code)
			removed = append(removed, code)
		}
	}
	return removed
}

// NormalizeCode uppercases a room code for lookup. All inbound codes go
// through this.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func randomCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
