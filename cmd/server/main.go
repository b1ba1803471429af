package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/fakeout-game/backend/internal/ai"
	"github.com/fakeout-game/backend/internal/ai/groq"
	"github.com/fakeout-game/backend/internal/config"
	"github.com/fakeout-game/backend/internal/httpapi"
	"github.com/fakeout-game/backend/internal/lobby"
	"github.com/fakeout-game/backend/internal/store"
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
		fmt.Printf(`Fakeout - party game backend

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT            Port to listen on (default: 8080)
  REDIS_URL       Redis connection URL; omit to keep lobbies in memory
  GROQ_API_KEY    Groq API key for prompt generation (optional; built-in
                  prompts are used without it)
  GROQ_MODEL      Model for prompt generation (default: openai/gpt-oss-20b)
  GROQ_BASE_URL   Custom Groq API base URL (optional)
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Fakeout %s\n", version)
		return
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()

	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zerologlog.Info().
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	var lobbies store.Store
	if cfg.RedisURL != "" {
		rs := store.NewRedis(cfg.RedisURL)
		defer rs.Close()
		lobbies = rs
		zerologlog.Info().Msg("using redis lobby store")
	} else {
		lobbies = store.NewMemory()
		zerologlog.Warn().Msg("REDIS_URL not set, lobbies will not survive restarts")
	}

	var prompts ai.Provider
	if cfg.GroqAPIKey != "" {
		prompts = groq.New(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqBaseURL)
	}

	svc := lobby.NewService(lobbies, prompts, zerologlog.Logger)
	httpapi.New(svc).Register(r)

	zerologlog.Info().Str("port", port).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server exited")
	}
}
