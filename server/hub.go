package main

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Hub owns every connection and routes clients to sessions
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	sessions   *SessionManager

	// connection limits, touched from HTTP handlers
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	db        *DB
	auth      *Auth // nil when accounts are disabled
	analytics *Analytics
	metrics   *Metrics
}

// NewHub wires sessions to the score ledger. db may be nil, which disables
// accounts and persistence.
func NewHub(db *DB, cfg GameConfig, authEnabled bool) *Hub {
	analytics := NewAnalytics(db)
	metrics, err := NewMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("metrics disabled")
	}
	h := &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		quit:       make(chan struct{}),
		sessions:   NewSessionManager(cfg, db, analytics, metrics),
		ipConns:    make(map[string]int),
		db:         db,
		analytics:  analytics,
		metrics:    metrics,
	}
	if authEnabled && db != nil {
		h.auth = NewAuth(db)
	}
	return h
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	return h.ipConns[ip] < maxConnsPerIP
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Register hands a new client to Run. It is a no-op once the hub is closed.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.quit:
	}
}

// Unregister hands a departing client to Run. It never blocks after Close.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// Run processes register/unregister events until Close
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			client.detach()

		case <-h.quit:
			return
		}
	}
}

// Close stops every game and flushes analytics
func (h *Hub) Close() {
	close(h.quit)
	h.sessions.StopAll()
	h.analytics.Stop()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
