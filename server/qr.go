package main

import (
	"net/http"
	"net/url"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// controllerURL is the link a phone opens to drive sid's pilot
func controllerURL(r *http.Request, sid, pilotID string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	q := url.Values{}
	q.Set("ctrl", pilotID)
	u := url.URL{Scheme: scheme, Host: r.Host, Path: "/" + sid, RawQuery: q.Encode()}
	return u.String()
}

// handleQR renders a PNG QR code of the controller link for a session
func handleQR(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := r.PathValue("sid")
		sess := hub.sessions.GetSession(sid)
		if sess == nil {
			http.NotFound(w, r)
			return
		}
		pid := sess.Game.PilotID()
		if pid == "" {
			http.Error(w, "no pilot", http.StatusNotFound)
			return
		}
		png, err := qrcode.Encode(controllerURL(r, sid, pid), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	}
}
