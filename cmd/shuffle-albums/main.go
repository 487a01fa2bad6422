// Package main is the entry point for shuffle-albums.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/edumarques81/shuffle-albums/internal/domain/shuffle"
	"github.com/edumarques81/shuffle-albums/internal/infra/config"
	"github.com/edumarques81/shuffle-albums/internal/infra/logger"
	"github.com/edumarques81/shuffle-albums/internal/infra/mpd"
	"github.com/edumarques81/shuffle-albums/internal/transport/socketio"
	"github.com/edumarques81/shuffle-albums/internal/version"
)

var (
	app        = kingpin.New("shuffle-albums", "Shuffles the albums in the MPD play queue, keeping track order within each album.")
	configPath = app.Flag("config", "YAML configuration file").Short('c').ExistingFile()
	host       = app.Flag("host", "MPD host, optionally password@host (default 127.0.0.1, env MPD_HOST)").Short('H').String()
	port       = app.Flag("port", "MPD port (default 6600, env MPD_PORT)").Short('p').Int()
	password   = app.Flag("password", "MPD password (env MPD_PASSWORD)").String()
	logLevel   = app.Flag("log-level", "Log level: debug, info, warn, error").Enum("debug", "info", "warn", "error")
	debug      = app.Flag("debug", "Enable debug logging").Bool()

	shuffleCmd = app.Command("shuffle", "Shuffle the albums in the queue once").Default()
	dryRun     = shuffleCmd.Flag("dry-run", "Print the shuffled album order without moving anything").Bool()

	serveCmd = app.Command("serve", "Serve Socket.io and HTTP endpoints that trigger shuffles")
	listen   = serveCmd.Flag("listen", "HTTP listen address (default :3001)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	app.HelpFlag.Short('h')
	app.Version(version.GetInfo().String())
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := logger.Init(logger.Config{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if err := logger.Init(logger.Config{Output: cfg.Log.Output, Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	if err := run(command, cfg); err != nil {
		log.Error().Err(err).Msg("shuffle-albums failed")
		os.Exit(1)
	}
}

// loadConfig merges the config file, environment and command line flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	if *host != "" {
		cfg.SetHost(*host)
	}
	if *port != 0 {
		cfg.MPD.Port = *port
	}
	if *password != "" {
		cfg.MPD.Password = *password
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(command string, cfg *config.Config) error {
	log.Debug().
		Str("version", version.GetInfo().String()).
		Str("mpd_host", cfg.MPD.Host).
		Int("mpd_port", cfg.MPD.Port).
		Bool("password_set", cfg.MPD.Password != "").
		Msg("Configuration")

	mpdClient := mpd.NewClient(cfg.MPD.Host, cfg.MPD.Port, cfg.MPD.Password)
	if err := mpdClient.Connect(); err != nil {
		return err
	}
	defer mpdClient.Close()

	shuffleService := shuffle.NewService(mpd.NewQueueService(mpdClient), nil)

	switch command {
	case serveCmd.FullCommand():
		return serve(cfg, mpdClient, shuffleService)
	default:
		return shuffleOnce(shuffleService)
	}
}

func shuffleOnce(svc *shuffle.Service) error {
	result, err := svc.Run(shuffle.Options{DryRun: *dryRun})
	if err != nil {
		return err
	}

	if result.DryRun {
		// The last album of the plan ends up at the head, so print in final queue order.
		for i := len(result.Plan) - 1; i >= 0; i-- {
			fmt.Println(result.Plan[i])
		}
	}
	return nil
}

func serve(cfg *config.Config, mpdClient *mpd.Client, svc *shuffle.Service) error {
	socketServer, err := socketio.NewServer(svc, mpd.NewQueueService(mpdClient),
		time.Duration(cfg.Server.DebounceMs)*time.Millisecond)
	if err != nil {
		return errors.Wrap(err, "failed to create Socket.io server")
	}
	defer socketServer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := socketServer.StartMPDWatcher(ctx, mpdClient); err != nil {
		return errors.Wrap(err, "failed to start MPD watcher")
	}

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", socketServer)
	mux.HandleFunc("/api/v1/shuffle", socketServer.ShuffleHandler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := mpdClient.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"error","mpd":"disconnected"}`))
			return
		}
		w.Write([]byte(`{"status":"ok","mpd":"connected"}`))
	})

	mux.HandleFunc("/api/v1/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		json.NewEncoder(w).Encode(version.GetInfo())
	})

	server := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	log.Info().Str("addr", cfg.Server.Listen).Str("mpd", mpdClient.Addr()).Msg("HTTP server listening")
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "HTTP server error")
	}

	log.Info().Msg("Server stopped")
	return nil
}
