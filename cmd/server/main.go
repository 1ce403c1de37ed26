package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pavilionhq/pavilion/internal/config"
	"github.com/pavilionhq/pavilion/internal/game"
	"github.com/pavilionhq/pavilion/internal/quiz"
	"github.com/pavilionhq/pavilion/internal/store"
	"github.com/pavilionhq/pavilion/internal/ws"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
)

const version = "v1.1.0"

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
		fmt.Printf(`Pavilion - Real-time cricket engagement server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT            Port to listen on (default: 8080)
  ROUND_SECONDS   Battle round countdown length (default: 30)
  TICK_INTERVAL   Battle clock tick interval (default: 1s)
  QUIZ_INTERVAL   Time between quiz questions (default: 45s)
  DATABASE_URL    Postgres DSN for prediction history (optional)
  QUESTIONS_FILE  Path to a quiz question bank JSON (default: embedded bank)
  AVATARS_DIR     Directory of sample avatar images (default: ./sample_avatars)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Pavilion %s\n", version)
		return
	}

	// .env is optional
	_ = godotenv.Load()

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
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Pavilion cricket engagement backend %s", version)
	})

	// Config
	cfg := config.FromEnv()
	if *portFlag != "" {
		cfg.Port = *portFlag
	}

	sink := openSink(cfg)
	defer sink.Close()

	bank := loadBank(cfg)

	// Engine + transport
	engine := game.NewEngine(game.Config{RoundSeconds: cfg.RoundSeconds}, bank, game.WithSink(sink))
	sock := ws.New(engine)
	io := sock.Mount(r)
	defer io.Close()
	engine.SetBroadcaster(sock)

	// Minimal API around the engine
	r.GET("/api/participants", func(c *gin.Context) {
		c.JSON(http.StatusOK, engine.Participants())
	})
	r.GET("/api/leaderboard", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"battle": engine.BattleStandings(),
			"quiz":   engine.QuizStandings(),
		})
	})
	r.GET("/predict", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"prediction": game.RandomOutcome()})
	})

	// Avatar assets (purely cosmetic; the picker builds URLs from this list)
	r.Static("/sample_avatars", cfg.AvatarsDir)
	r.GET("/api/avatars", func(c *gin.Context) {
		c.JSON(http.StatusOK, listAvatars(cfg.AvatarsDir))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := game.NewClock(engine, cfg.TickInterval, cfg.QuizInterval)
	go clock.Run(ctx)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		zerologlog.Info().Str("port", cfg.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerologlog.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func openSink(cfg config.Config) store.Sink {
	if cfg.DatabaseURL == "" {
		zerologlog.Info().Msg("no DATABASE_URL set, predictions will not be persisted")
		return store.Noop{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pg, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		zerologlog.Error().Err(err).Msg("database unavailable, predictions will not be persisted")
		return store.Noop{}
	}
	zerologlog.Info().Msg("connected to predictions database")
	return pg
}

func loadBank(cfg config.Config) []quiz.Question {
	bank, err := quiz.Load(cfg.QuestionsFile)
	if err != nil {
		zerologlog.Error().Err(err).Msg("failed to load quiz questions, quiz disabled")
		return nil
	}
	zerologlog.Info().Int("count", len(bank)).Msg("loaded quiz questions")
	return bank
}

func listAvatars(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
