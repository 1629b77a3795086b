package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/pagaczynski-max/starcup-rocket/internal/config"
	"github.com/pagaczynski-max/starcup-rocket/internal/game"
	"github.com/pagaczynski-max/starcup-rocket/internal/ws"
	staticserver "github.com/pagaczynski-max/starcup-rocket/static"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Starcup Rocket - Dodge the falling space junk

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 3000 or PORT env var)

Environment Variables:
  PORT       Port to listen on (default: 3000)
  BASE_URL   Public base URL used in join links and QR codes
             (default: derived from the incoming request)
  ROOM_TTL   Idle rooms older than this are removed (default: 30m)

Examples:
  %s                  Start server with default settings
  %s --port 8080      Start server on port 8080

Open http://localhost:3000/host after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Starcup Rocket %s\n", version)
		return
	}

	cfg := config.FromEnv()

	// Determine port
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Registry + socket server + tick loop
	reg := game.NewRegistry()
	sock := ws.New(reg)
	io := sock.Mount(r)
	defer io.Close()

	loop := game.NewLoop(reg, sock, cfg.RoomTTL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	// Page routes
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/host") })
	r.GET("/host", func(c *gin.Context) { c.Redirect(http.StatusFound, "/host.html") })
	r.GET("/projector", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/projector.html"+queryString(c))
	})
	r.GET("/player", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/player.html"+queryString(c))
	})

	// Onboarding: create a room and hand back the join link + QR code.
	r.GET("/api/create-room", func(c *gin.Context) {
		room := reg.Create(time.Now())
		joinURL := baseURL(cfg, c.Request) + "/join/" + room.Code
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			zerologlog.Error().Err(err).Str("room", room.Code).Msg("qr encode failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "qr_failed"})
			return
		}
		zerologlog.Info().Str("room", room.Code).Msg("room created")
		c.JSON(http.StatusOK, gin.H{
			"room":      room.Code,
			"joinUrl":   joinURL,
			"qrDataUrl": "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		})
	})

	// Join-by-link: normalize the code and land on the player page.
	r.GET("/join/:room", func(c *gin.Context) {
		code := game.NormalizeCode(c.Param("room"))
		c.Redirect(http.StatusFound, "/player.html?room="+url.QueryEscape(code))
	})

	// Serve frontend for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func queryString(c *gin.Context) string {
	if raw := c.Request.URL.RawQuery; raw != "" {
		return "?" + raw
	}
	return ""
}

func baseURL(cfg config.Config, req *http.Request) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	scheme := "http"
	if req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + req.Host
}
