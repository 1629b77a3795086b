package game

type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhaseRunning Phase = "running"
	PhaseEnded   Phase = "ended"
)

// Player is one steering participant. The ID is a durable per-round identity,
// independent of the socket the player happens to be connected on.
type Player struct {
	ID           string
	Pseudo       string
	Color        string
	X            float64 // normalized horizontal position in [0,1]
	Alive        bool
	Score        int
	EliminatedAt int64 // unix ms, 0 while alive
}

type ObstacleKind string

const (
	KindAsteroid  ObstacleKind = "asteroid"
	KindSatellite ObstacleKind = "satellite"
	KindUfo       ObstacleKind = "ufo"
)

type Obstacle struct {
	ID   string
	Kind ObstacleKind
	X    float64
	Y    float64
	W    float64
	H    float64
	VY   float64 // fixed at spawn time
}

// RosterEntry is the public lobby view of a player.
type RosterEntry struct {
	ID     string `json:"id"`
	Pseudo string `json:"pseudo"`
	Color  string `json:"color"`
}

// RosterPayload is broadcast on every roster change.
type RosterPayload struct {
	Room    string        `json:"room"`
	State   Phase         `json:"state"`
	Players []RosterEntry `json:"players"`
}

// PlayerView is the public per-tick view of a player inside Snapshot.
type PlayerView struct {
	ID     string  `json:"id"`
	Pseudo string  `json:"pseudo"`
	Color  string  `json:"color"`
	X      float64 `json:"x"`
	Alive  bool    `json:"alive"`
	Score  int     `json:"score"`
	Cheers int     `json:"cheers"`
}

type ObstacleView struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// Snapshot is the shared world state sent to every subscriber of a room after
// each tick.
type Snapshot struct {
	Room       string         `json:"room"`
	State      Phase          `json:"state"`
	StartedAt  int64          `json:"startedAt"`
	EndedAt    int64          `json:"endedAt"`
	WinnerID   string         `json:"winnerId"`
	Seed       int64          `json:"seed"`
	WorldSpeed float64        `json:"worldSpeed"`
	BoundaryY  float64        `json:"boundaryY"`
	ControlH   float64        `json:"controlH"`
	Players    []PlayerView   `json:"players"`
	Obstacles  []ObstacleView `json:"obstacles"`
}

// SelfView echoes a player's own authoritative state back to them.
type SelfView struct {
	ID     string  `json:"id"`
	Pseudo string  `json:"pseudo"`
	Alive  bool    `json:"alive"`
	Score  int     `json:"score"`
	X      float64 `json:"x"`
}

// PersonalSnapshot is sent to exactly one player connection per tick.
type PersonalSnapshot struct {
	Room     string   `json:"room"`
	State    Phase    `json:"state"`
	WinnerID string   `json:"winnerId"`
	Me       SelfView `json:"me"`
}

// Death is emitted once when a player is hit, with the impact center.
type Death struct {
	Room     string  `json:"room"`
	PlayerID string  `json:"playerId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	At       int64   `json:"at"`
}
