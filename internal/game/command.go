package game

// Command is the only way external events mutate a room. Commands go through
// Room.Apply, which serializes them against the tick, so there is a single
// serialization point instead of ad hoc mutation from socket callbacks.
type Command interface{ isCommand() }

// Join adds a participant bound to socket SID.
type Join struct {
	SID    string
	Pseudo string
}

// Start begins a round from lobby or ended. A no-op while running.
type Start struct{}

// Reset returns the room to lobby, keeping the roster.
type Reset struct{}

// Input updates a player's normalized horizontal position.
type Input struct {
	SID string
	X   float64
}

// Cheer bumps the tally of TargetID. Only eliminated players may cheer.
type Cheer struct {
	SID      string
	TargetID string
}

// Leave removes the participant bound to SID entirely.
type Leave struct {
	SID string
}

func (Join) isCommand()  {}
func (Start) isCommand() {}
func (Reset) isCommand() {}
func (Input) isCommand() {}
func (Cheer) isCommand() {}
func (Leave) isCommand() {}

// ApplyResult carries the observable outcome of a command.
type ApplyResult struct {
	PlayerID     string // set on Join
	Pseudo       string // set on Join, trimmed
	RosterChange bool   // subscribers need a fresh roster
	Started      bool   // a round just began
	StartedAt    int64  // unix ms, set when Started
}
