package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

// Health reports liveness. It never touches the database, so it answers 200
// even when storage is down.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready pings the database and reports 503 until it is reachable.
func Ready(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			WriteError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		WriteEnvelope(w, http.StatusOK, "ready", nil)
	}
}
