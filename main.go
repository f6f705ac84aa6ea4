package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("saucer-server", pflag.ExitOnError)
	configDir := flags.String("config", ".", "Directory containing "+configName)
	flags.String("addr", ":8080", "HTTP listen address")
	flags.String("client", "../client", "Path to client directory")
	flags.String("db", "saucer.db", "SQLite database path")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Parse(os.Args[1:])

	cfg, err := LoadConfig(*configDir, flags)
	log := NewLogger(cfg.LogLevel, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	db, err := OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("opening database")
	}
	defer db.Close()

	recorder := NewScoreRecorder(db, log)
	defer recorder.Stop()

	session := NewSessionState(recorder, log)
	hub := NewHub(cfg.EffectsVolume, log)
	game := NewGame(cfg, log, Collaborators{
		Audio:   hub,
		Effects: hub,
		Status:  session,
	})
	game.Subscribe(session.HandleEvent)
	hub.Attach(game, session)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx.Done())
	go game.Run(ctx)

	pairing := NewPairing(db, cfg.PairingTTL, log)
	mux := SetupRoutes(hub, db, pairing, cfg.ClientDir, cfg.HighScoreLimit)
	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("client", cfg.ClientDir).Msg("server starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	game.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
