package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robertazzopardi/asteroids/config"
	"github.com/robertazzopardi/asteroids/logging"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfgPath := flag.String("config", "", "Path to a config file (yaml, json or toml)")
	addr := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	clientDir := flag.String("client", "", "Path to client directory (overrides server.clientDir)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *clientDir != "" {
		cfg.Server.ClientDir = *clientDir
	}

	var out io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.Log.File).Msg("open log file")
		}
		defer f.Close()
		out = f
	}
	log.Logger = logging.New(cfg.Log.Level, out)

	if cfg.Server.IdleTimeout > 0 {
		SessionIdleTimeout = cfg.Server.IdleTimeout
	}

	db, err := OpenDB(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DB.Path).Msg("open database")
	}
	defer db.Close()

	gameCfg := GameConfig{
		Params:         cfg.Params(),
		NewRand:        cfg.Rand,
		TickRate:       cfg.Sim.TickRate,
		BroadcastEvery: cfg.BroadcastEvery(),
	}
	hub := NewHub(db, gameCfg, cfg.Auth.Enabled)
	go hub.Run()

	server := &http.Server{Addr: cfg.Server.Addr, Handler: SetupRoutes(hub, cfg.Server.ClientDir)}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("client", cfg.Server.ClientDir).
			Bool("auth", cfg.Auth.Enabled).Msg("server starting")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe")
		}
	}()

	<-stop
	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
	hub.Close()
}
