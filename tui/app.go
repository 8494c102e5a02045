package main

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/robertazzopardi/asteroids/sim"
)

const frameInterval = time.Second / 60

// App drives one world from the terminal
type App struct {
	screen  tcell.Screen
	canvas  *Canvas
	params  sim.Params
	newRand func() *sim.Rand
	world   *sim.World
	keys    *HoldTracker
	sound   *Sound
	last    time.Time
	crashed bool
	quit    bool
}

// NewApp starts a world sized by p. newRand supplies each world's
// generator; sound may be nil.
func NewApp(screen tcell.Screen, p sim.Params, newRand func() *sim.Rand, sound *Sound) *App {
	w, h := screen.Size()
	a := &App{
		screen:  screen,
		canvas:  NewCanvas(w, h),
		params:  p,
		newRand: newRand,
		keys:    NewHoldTracker(),
		sound:   sound,
	}
	a.restart()
	return a
}

func (a *App) restart() {
	a.world = sim.NewWorld(a.params, a.newRand())
	a.keys.Reset()
	a.crashed = false
	log.Info().Msg("new game")
}

// Run polls input and steps the world until the player quits
func (a *App) Run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			events <- ev
		}
	}()

	a.last = time.Now()
	for !a.quit {
		select {
		case ev := <-events:
			a.handleEvent(ev, time.Now())
		case now := <-ticker.C:
			a.tick(now)
			a.draw()
		}
	}
}

func (a *App) handleEvent(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.press(keyOf(ev.Key(), ev.Rune()), ev.Rune(), now)
	case *tcell.EventResize:
		w, h := a.screen.Size()
		a.canvas.Resize(w, h)
		a.screen.Sync()
	}
}

// press applies one key press. r is the rune for KeyRune presses.
func (a *App) press(k sim.Key, r rune, now time.Time) {
	if a.world.Done() {
		switch {
		case k == sim.KeyEscape || r == 'q':
			a.quit = true
		case r == 'r' || r == 'R':
			a.restart()
		}
		return
	}
	for _, ev := range a.keys.Press(k, now) {
		a.apply(ev)
	}
}

func (a *App) apply(ev sim.Event) {
	if a.world.Handle(ev) {
		a.sound.Fire()
	}
	if ev == sim.Quit {
		a.quit = true
	}
}

// tick releases expired keys and advances the world by the elapsed time
func (a *App) tick(now time.Time) {
	for _, ev := range a.keys.Expire(now) {
		a.apply(ev)
	}
	dt := now.Sub(a.last).Seconds()
	a.last = now

	res := a.world.Step(dt)
	for i := 0; i < res.Hits; i++ {
		a.sound.Hit()
	}
	if res.Over && !a.crashed {
		a.crashed = true
		a.sound.Crash()
		log.Info().Int("score", a.world.Score()).Uint64("ticks", a.world.Ticks()).Msg("game over")
	}
}

func (a *App) draw() {
	Render(a.canvas, a.world.Frame(), a.params.FieldSize)
	a.canvas.Flush(a.screen)
}
