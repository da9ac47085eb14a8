package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/oneshop/internal/httpserver/deps"
)

type healthzResponse struct {
	Status         string  `json:"status"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Version        string  `json:"version,omitempty"`
	Commit         string  `json:"commit,omitempty"`
	BuildDate      string  `json:"build_date,omitempty"`
	GoVersion      string  `json:"go_version,omitempty"`
	CatalogVersion int64   `json:"catalog_version,omitempty"`
}

// Healthz is the liveness probe; it never depends on storage
func Healthz(d deps.Deps) http.HandlerFunc {
	start := d.StartTime
	now := d.TimeNow
	if now == nil {
		now = timeNow
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthzResponse{
			Status:        "ok",
			Version:       d.Version,
			Commit:        d.Commit,
			BuildDate:     d.BuildDate,
			GoVersion:     d.GoVersion,
			UptimeSeconds: now().Sub(start).Seconds(),
		}
		if snapshot := d.MemoryIndex.Current(); snapshot != nil {
			resp.CatalogVersion = snapshot.Version
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
