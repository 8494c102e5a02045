package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const statsDays = 7

var uuidPathRe = regexp.MustCompile(`^/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // non-browser clients
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write json")
	}
}

// StatsResponse is served at /stats
type StatsResponse struct {
	Clients  int            `json:"clients"`
	Conns    int            `json:"conns"`
	Sessions int            `json:"sessions"`
	Events   map[string]int `json:"events"`
	Games    []DayCount     `json:"games"`
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, clientDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// static files revalidate on every load
	fs := http.FileServer(http.Dir(clientDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		// SPA: index.html for root and session paths
		if r.URL.Path == "/" || uuidPathRe.MatchString(r.URL.Path) {
			http.ServeFile(w, r, filepath.Join(clientDir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}))

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Str("ip", ip).Msg("upgrade error")
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	})

	mux.HandleFunc("GET /qr/{sid}", handleQR(hub))

	mux.HandleFunc("GET /scores", func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		scores, err := topScores(hub.db, limit)
		if err != nil {
			log.Error().Err(err).Msg("leaderboard query failed")
			http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, scores)
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		events, err := hub.analytics.EventCounts(statsDays)
		if err != nil {
			log.Warn().Err(err).Msg("event counts")
		}
		games, err := hub.analytics.DailyGames(statsDays)
		if err != nil {
			log.Warn().Err(err).Msg("daily games")
		}
		writeJSON(w, StatsResponse{
			Clients:  hub.ClientCount(),
			Conns:    hub.TotalConns(),
			Sessions: hub.sessions.Count(),
			Events:   events,
			Games:    games,
		})
	})

	return mux
}
