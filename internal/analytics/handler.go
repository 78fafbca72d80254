package analytics

import (
	"encoding/json"
	"net/http"
)

const defaultTopQueries = 10

// Handler serves the aggregated analytics snapshot as JSON. When the
// aggregator is nil (Kafka not configured) it reports 503 so callers can
// tell "analytics off" from "no traffic yet".
func Handler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if agg == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "analytics pipeline is not enabled",
			})
			return
		}
		json.NewEncoder(w).Encode(agg.Snapshot(defaultTopQueries))
	}
}
