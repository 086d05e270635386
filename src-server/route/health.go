package route

import (
	"guestlist/src-server/utils"
	"log/slog"
	"net/http"
)

func Health(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := as.BunDB.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unreachable"))
			slog.Warn("health check failed", "error", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// where guests land after a redirect with no event to show
	muxer.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Notice string `json:"notice,omitempty"`
			Alert  string `json:"alert,omitempty"`
		}{
			Notice: r.URL.Query().Get("notice"),
			Alert:  r.URL.Query().Get("alert"),
		})
	})
}
