// Command tui plays asteroids in a terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"
	"github.com/rs/zerolog/log"

	"github.com/robertazzopardi/asteroids/config"
	"github.com/robertazzopardi/asteroids/logging"
	"github.com/robertazzopardi/asteroids/sim"
)

const defaultLogFile = "asteroids-tui.log"

func main() {
	cfgPath := flag.String("config", "", "Path to a config file (yaml, json or toml)")
	prof := flag.String("profile", "", "Write a cpu or mem profile to the working directory")
	mute := flag.Bool("mute", false, "Disable sound")
	seed := flag.Uint64("seed", 0, "Fixed world seed (0 = random)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *prof != "" {
		cfg.TUI.Profile = *prof
	}
	if *seed != 0 {
		cfg.Sim.Seed = *seed
	}

	// the terminal belongs to tcell, so logs go to a file
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = defaultLogFile
	}
	f, err := logging.OpenFile(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	log.Logger = logging.New(cfg.Log.Level, f)

	switch cfg.TUI.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		log.Warn().Str("profile", cfg.TUI.Profile).Msg("unknown profile mode, ignoring")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	sound := NewSound(cfg.TUI.Sound && !*mute)
	app := NewApp(screen, cfg.Params(), cfg.Rand, sound)
	log.Info().Float64("field", cfg.Sim.FieldSize).Uint64("seed", cfg.Sim.Seed).Msg("tui starting")

	app.Run()

	sound.Close()
	screen.Fini()
	log.Info().Int("score", app.world.Score()).Msg("bye")
}
