package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
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

// SetupRoutes configures HTTP routes. db may be nil, which disables /highscores.
func SetupRoutes(hub *Hub, db *DB, pairing *Pairing, clientDir string, highScoreLimit int) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve static files with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(clientDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fs.ServeHTTP(w, r)
	}))

	// WebSocket endpoint; a valid ?token= attaches the connection as a controller
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		controller := false
		if tok := r.URL.Query().Get("token"); tok != "" {
			if err := pairing.ValidateToken(tok); err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			controller = true
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn().Err(err).Msg("upgrade error")
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip, controller)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	// QR code for pairing a phone controller
	mux.HandleFunc("/pair", func(w http.ResponseWriter, r *http.Request) {
		token, err := pairing.IssueToken()
		if err != nil {
			hub.log.Error().Err(err).Msg("issuing pairing token")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		link := (&url.URL{
			Scheme:   scheme,
			Host:     r.Host,
			Path:     "/controller.html",
			RawQuery: url.Values{"token": {token}}.Encode(),
		}).String()

		png, err := pairing.QRCode(link)
		if err != nil {
			hub.log.Error().Err(err).Msg("rendering pairing code")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	})

	mux.HandleFunc("/highscores", func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			http.Error(w, "high scores unavailable", http.StatusServiceUnavailable)
			return
		}
		entries, err := db.TopScores(highScoreLimit)
		if err != nil {
			hub.log.Error().Err(err).Msg("reading high scores")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	})

	return mux
}
