package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/pagaczynski-max/starcup-rocket/internal/game"
)

// ConnCtx binds a transient socket to its room and, for players, to a durable
// participant identity.
type ConnCtx struct {
	Code     string
	Role     string // "host" | "projector" | "player"
	PlayerID string
}

type Server struct {
	Reg *game.Registry

	mu      sync.RWMutex
	members map[string]map[string]socketio.Conn // room code -> socket id -> conn
}

func New(reg *game.Registry) *Server {
	return &Server{Reg: reg, members: make(map[string]map[string]socketio.Conn)}
}

// Mount attaches the Socket.IO server with all game handlers to the given Gin
// engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "host:join", func(s socketio.Conn, payload struct {
		Room string `json:"room"`
	}) {
		room, err := srv.Reg.Get(payload.Room)
		if err != nil {
			srv.err(s, "room_not_found", "Room not found")
			return
		}
		srv.subscribe(s, room.Code, "host", "")
		s.Emit("ok", map[string]any{"room": room.Code})
		s.Emit("lobby", room.Roster())
		log.Info().Str("sid", s.ID()).Str("room", room.Code).Msg("host:join")
	})

	io.OnEvent("/", "projector:join", func(s socketio.Conn, payload struct {
		Room string `json:"room"`
	}) {
		room, err := srv.Reg.Get(payload.Room)
		if err != nil {
			srv.err(s, "room_not_found", "Room not found")
			return
		}
		srv.subscribe(s, room.Code, "projector", "")
		s.Emit("ok", map[string]any{"room": room.Code})
		log.Info().Str("sid", s.ID()).Str("room", room.Code).Msg("projector:join")
	})

	io.OnEvent("/", "player:join", func(s socketio.Conn, payload struct {
		Room   string `json:"room"`
		Pseudo string `json:"pseudo"`
	}) {
		room, err := srv.Reg.Get(payload.Room)
		if err != nil {
			srv.err(s, "room_not_found", "Room not found")
			return
		}
		res, err := room.Apply(time.Now(), game.Join{SID: s.ID(), Pseudo: payload.Pseudo})
		if err != nil {
			srv.rejectJoin(s, err)
			return
		}
		srv.subscribe(s, room.Code, "player", res.PlayerID)
		s.Emit("ok", map[string]any{"room": room.Code, "playerId": res.PlayerID, "pseudo": res.Pseudo})
		srv.ToRoom(room.Code, "lobby", room.Roster())
		log.Info().Str("sid", s.ID()).Str("room", room.Code).Str("playerId", res.PlayerID).Msg("player:join")
	})

	io.OnEvent("/", "host:start", func(s socketio.Conn, payload struct {
		Room string `json:"room"`
	}) {
		room, err := srv.Reg.Get(payload.Room)
		if err != nil {
			srv.err(s, "room_not_found", "Room not found")
			return
		}
		res, err := room.Apply(time.Now(), game.Start{})
		if err != nil {
			srv.err(s, "bad_request", err.Error())
			return
		}
		if res.Started {
			srv.ToRoom(room.Code, "game:started", map[string]any{
				"room":      room.Code,
				"startedAt": res.StartedAt,
				"seed":      room.Seed,
			})
			log.Info().Str("room", room.Code).Msg("round started")
		}
	})

	io.OnEvent("/", "host:reset", func(s socketio.Conn, payload struct {
		Room string `json:"room"`
	}) {
		room, err := srv.Reg.Get(payload.Room)
		if err != nil {
			srv.err(s, "room_not_found", "Room not found")
			return
		}
		if _, err := room.Apply(time.Now(), game.Reset{}); err != nil {
			srv.err(s, "bad_request", err.Error())
			return
		}
		srv.ToRoom(room.Code, "lobby", room.Roster())
		log.Info().Str("room", room.Code).Msg("room reset")
	})

	io.OnEvent("/", "player:input", func(s socketio.Conn, payload struct {
		Room string  `json:"room"`
		X    float64 `json:"x"`
	}) {
		room, err := srv.Reg.Get(payload.Room)
		if err != nil {
			return
		}
		// Stale or out-of-phase input is dropped silently.
		_, _ = room.Apply(time.Now(), game.Input{SID: s.ID(), X: payload.X})
	})

	io.OnEvent("/", "player:cheer", func(s socketio.Conn, payload struct {
		Room           string `json:"room"`
		TargetPlayerID string `json:"targetPlayerId"`
	}) {
		room, err := srv.Reg.Get(payload.Room)
		if err != nil {
			return
		}
		_, err = room.Apply(time.Now(), game.Cheer{SID: s.ID(), TargetID: payload.TargetPlayerID})
		if errors.Is(err, game.ErrNotEliminated) {
			srv.err(s, "not_eliminated", "Only eliminated players may cheer")
		}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		ctx, ok := s.Context().(*ConnCtx)
		if ok && ctx.Code != "" {
			srv.removeMember(ctx.Code, s)
			if ctx.Role == "player" {
				if room, err := srv.Reg.Get(ctx.Code); err == nil {
					res, _ := room.Apply(time.Now(), game.Leave{SID: s.ID()})
					if res.RosterChange {
						srv.ToRoom(ctx.Code, "lobby", room.Roster())
					}
				}
			}
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io serve")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// ToRoom emits an event to every connection subscribed to a room.
func (srv *Server) ToRoom(code, event string, payload any) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	for _, c := range srv.members[code] {
		c.Emit(event, payload)
	}
}

// ToConn emits an event to one specific connection in a room.
func (srv *Server) ToConn(code, sid, event string, payload any) {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	if m := srv.members[code]; m != nil {
		if c := m[sid]; c != nil {
			c.Emit(event, payload)
		}
	}
}

func (srv *Server) subscribe(s socketio.Conn, code, role, playerID string) {
	s.SetContext(&ConnCtx{Code: code, Role: role, PlayerID: playerID})
	s.Join(code)
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[code] == nil {
		srv.members[code] = make(map[string]socketio.Conn)
	}
	srv.members[code][s.ID()] = s
}

func (srv *Server) removeMember(code string, s socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[code]; m != nil {
		delete(m, s.ID())
		if len(m) == 0 {
			delete(srv.members, code)
		}
	}
}

func (srv *Server) rejectJoin(s socketio.Conn, err error) {
	switch {
	case errors.Is(err, game.ErrRoundInProgress):
		srv.err(s, "round_in_progress", "Round already in progress")
	case errors.Is(err, game.ErrInvalidPseudo):
		srv.err(s, "invalid_pseudo", "Pseudo required")
	case errors.Is(err, game.ErrPseudoTaken):
		srv.err(s, "pseudo_taken", "Pseudo already taken")
	default:
		srv.err(s, "bad_request", err.Error())
	}
}

func (srv *Server) err(s socketio.Conn, code, message string) {
	s.Emit("err", map[string]any{"code": code, "message": message})
}
