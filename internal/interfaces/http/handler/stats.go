package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"smartwallet-fraud-shield/internal/infrastructure/cache/redis"
)

// StatsHandler serves aggregated payment counters
type StatsHandler struct {
	stats *redis.StatsCache
}

// NewStatsHandler creates a new stats handler. stats may be nil when Redis
// is not configured.
func NewStatsHandler(stats *redis.StatsCache) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Stats handles GET /stats
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		// No Redis means no counters; serve an empty snapshot rather than
		// failing the endpoint.
		writeJSON(w, http.StatusOK, &redis.Snapshot{SettledVolume: decimal.Zero})
		return
	}

	snapshot, err := h.stats.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read stats: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
