package main

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/robertazzopardi/asteroids/sim"
)

const (
	DefaultTickRate      = 60 // physics ticks per second
	DefaultBroadcastRate = 30 // frame broadcasts per second

	maxWatchersPerSession = 20
	maxQueuedInputs       = 64
)

var (
	ErrPilotTaken  = errors.New("session already has a pilot")
	ErrSessionFull = errors.New("session full")
)

// Broadcaster sends messages to one connected client
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// GameObserver is told about scoring, game over and tick timing. Calls are
// made with the game lock held and must not block.
type GameObserver interface {
	Destroyed(sid string, hits int)
	Over(sid string, res GameResult)
	Ticked(d time.Duration)
}

// GameConfig is what every session's game is built from
type GameConfig struct {
	Params         sim.Params
	NewRand        func() *sim.Rand
	TickRate       int
	BroadcastEvery int
}

// DefaultGameConfig uses the classic tuning with a random seed per game
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Params:         sim.DefaultParams(),
		NewRand:        sim.NewSeededRand,
		TickRate:       DefaultTickRate,
		BroadcastEvery: DefaultTickRate / DefaultBroadcastRate,
	}
}

// Pilot is the player flying the session's ship
type Pilot struct {
	ID           string
	Name         string
	AuthPlayerID int64 // 0 = guest
}

// GameResult describes a finished game
type GameResult struct {
	Pilot  Pilot
	Score  int
	Ticks  uint64
	Reason string
}

// Game runs one world on a ticker and fans frames out to its clients
type Game struct {
	mu         sync.Mutex
	id         string
	cfg        GameConfig
	obs        GameObserver
	world      *sim.World // nil until the first pilot joins
	pilot      *Pilot
	clients    map[string]Broadcaster // pilot and watchers by client ID
	controller Broadcaster
	inputs     []sim.Event
	tick       uint64
	reported   bool
	stopped    bool
	stop       chan struct{}
}

// NewGame creates a Game. obs may be nil.
func NewGame(id string, cfg GameConfig, obs GameObserver) *Game {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.BroadcastEvery <= 0 {
		cfg.BroadcastEvery = 1
	}
	if cfg.NewRand == nil {
		cfg.NewRand = sim.NewSeededRand
	}
	return &Game{
		id:      id,
		cfg:     cfg,
		obs:     obs,
		clients: make(map[string]Broadcaster),
		stop:    make(chan struct{}),
	}
}

// Run starts the game loop; dt is measured between ticks
func (g *Game) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(g.cfg.TickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			g.update(now.Sub(last).Seconds())
			last = now
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.stopped {
		g.stopped = true
		close(g.stop)
	}
}

// Join seats clientID as the pilot. The seat is never counted against the
// spectator limit. A finished or not yet started world is replaced with a
// fresh one.
func (g *Game) Join(clientID, name string, authID int64, b Broadcaster) (*Pilot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pilot != nil {
		return nil, ErrPilotTaken
	}
	if g.world == nil || g.world.Done() {
		g.reset()
	}
	g.pilot = &Pilot{ID: clientID, Name: name, AuthPlayerID: authID}
	g.clients[clientID] = b
	p := *g.pilot
	return &p, nil
}

// Watch adds a spectator, up to maxWatchersPerSession
func (g *Game) Watch(clientID string, b Broadcaster) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.clients[clientID]; !ok && g.watchers() >= maxWatchersPerSession {
		return ErrSessionFull
	}
	g.clients[clientID] = b
	return nil
}

// RemoveClient drops a pilot or watcher. A departing pilot forfeits the
// running game.
func (g *Game) RemoveClient(clientID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.clients, clientID)
	if g.pilot == nil || g.pilot.ID != clientID {
		return
	}
	if g.world != nil && !g.world.Done() {
		g.world.Handle(sim.Quit)
		g.finish()
	}
	g.pilot = nil
	if g.controller != nil {
		g.controller.SendJSON(Envelope{T: MsgCtrlOff})
		g.controller = nil
	}
}

// SetController attaches a phone controller to the pilot
func (g *Game) SetController(pilotID string, b Broadcaster) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pilot == nil || g.pilot.ID != pilotID {
		return false
	}
	g.controller = b
	if c, ok := g.clients[pilotID]; ok {
		c.SendJSON(Envelope{T: MsgCtrlOn})
	}
	return true
}

// RemoveController detaches the controller if b is the attached one
func (g *Game) RemoveController(b Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.controller != b {
		return
	}
	g.controller = nil
	if g.pilot != nil {
		if c, ok := g.clients[g.pilot.ID]; ok {
			c.SendJSON(Envelope{T: MsgCtrlOff})
		}
	}
}

// HandleInput queues an event from the pilot; it is applied on the next tick
func (g *Game) HandleInput(pilotID string, ev sim.Event) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pilot == nil || g.pilot.ID != pilotID || !ev.Valid() {
		return false
	}
	if len(g.inputs) >= maxQueuedInputs {
		return false
	}
	g.inputs = append(g.inputs, ev)
	return true
}

// Restart begins a new world once the current one has finished
func (g *Game) Restart(pilotID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pilot == nil || g.pilot.ID != pilotID || g.world == nil || !g.world.Done() {
		return false
	}
	g.reset()
	return true
}

func (g *Game) reset() {
	g.world = sim.NewWorld(g.cfg.Params, g.cfg.NewRand())
	g.inputs = g.inputs[:0]
	g.reported = false
}

// ClientCount returns the number of pilots and watchers
func (g *Game) ClientCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clients)
}

// watchers counts connected clients other than the pilot
func (g *Game) watchers() int {
	n := len(g.clients)
	if g.pilot != nil {
		if _, ok := g.clients[g.pilot.ID]; ok {
			n--
		}
	}
	return n
}

// PilotID returns the current pilot's client ID, or ""
func (g *Game) PilotID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pilot == nil {
		return ""
	}
	return g.pilot.ID
}

// Info summarises the game for session listings
func (g *Game) Info() (pilot string, watchers, score int, over bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	watchers = g.watchers()
	if g.pilot != nil {
		pilot = g.pilot.Name
	}
	if g.world != nil {
		score = g.world.Score()
		over = g.world.Done()
	}
	return pilot, watchers, score, over
}

// update runs one game tick
func (g *Game) update(dt float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.world == nil {
		return
	}
	start := time.Now()
	g.tick++

	for _, ev := range g.inputs {
		g.world.Handle(ev)
	}
	g.inputs = g.inputs[:0]

	res := g.world.Step(dt)
	if res.Hits > 0 {
		g.broadcastMsg(Envelope{T: MsgScore, Data: ScoreMsg{
			Score: g.world.Score(),
			Delta: res.ScoreDelta,
			Hits:  res.Hits,
		}})
		if g.obs != nil {
			g.obs.Destroyed(g.id, res.Hits)
		}
	}

	justOver := g.world.Done() && !g.reported
	if justOver || g.tick%uint64(g.cfg.BroadcastEvery) == 0 {
		g.broadcastFrame()
	}
	if justOver {
		g.finish()
	}

	if g.obs != nil {
		g.obs.Ticked(time.Since(start))
	}
}

// finish announces the end of the current world once
func (g *Game) finish() {
	if g.reported {
		return
	}
	g.reported = true

	reason := "quit"
	if g.world.Over() {
		reason = "collision"
	}
	res := GameResult{Score: g.world.Score(), Ticks: g.world.Ticks(), Reason: reason}
	if g.pilot != nil {
		res.Pilot = *g.pilot
	}
	g.broadcastMsg(Envelope{T: MsgOver, Data: OverMsg{Score: res.Score, Ticks: res.Ticks, Reason: reason}})
	if g.obs != nil {
		g.obs.Over(g.id, res)
	}
}

// broadcastFrame sends the current geometry to every client as msgpack
func (g *Game) broadcastFrame() {
	data, err := msgpack.Marshal(ToFrameState(g.world.Frame(), g.tick))
	if err != nil {
		log.Error().Err(err).Str("sid", g.id).Msg("frame encode failed")
		return
	}
	for _, c := range g.clients {
		c.SendBinary(data)
	}
}

// broadcastMsg sends a message to all clients in the session
func (g *Game) broadcastMsg(msg Envelope) {
	for _, c := range g.clients {
		c.SendJSON(msg)
	}
}
