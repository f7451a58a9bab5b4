package monitor

import (
	"context"
	"net/http"
	"slices"

	"github.com/rubik/orizuru"
)

// consumerInfo describes a consumer's liveness as seen by the monitor.
// LastHeartbeat is a Unix timestamp, zero when the consumer never announced.
type consumerInfo struct {
	ID            string `json:"id"`
	Alive         bool   `json:"alive"`
	LastHeartbeat int64  `json:"last_heartbeat,omitempty"`
}

// handleListConsumers returns all known consumers with heartbeat state.
func (m *Monitor) handleListConsumers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := m.consumerIDs(ctx)
	if err != nil {
		m.logger.Error("consumer discovery failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list consumers", "INTERNAL")
		return
	}

	var beats map[string]int64
	if reg, ok := m.transport.(orizuru.ConsumerRegistry); ok {
		beats, err = reg.Heartbeats(ctx, m.key("heartbeats"))
		if err != nil {
			m.logger.Error("heartbeat read failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to read heartbeats", "INTERNAL")
			return
		}
	}

	results := make([]consumerInfo, 0, len(ids))
	for _, id := range ids {
		ci := consumerInfo{ID: id, LastHeartbeat: beats[id]}
		v, err := m.transport.Get(ctx, m.key("heartbeat", id))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read heartbeats", "INTERNAL")
			return
		}
		ci.Alive = v != nil
		results = append(results, ci)
	}

	writeJSON(w, http.StatusOK, response{Data: results})
}

// consumerIDs returns the configured consumer ids, merged with the registry
// when discovery is enabled. The result is sorted and deduplicated.
func (m *Monitor) consumerIDs(ctx context.Context) ([]string, error) {
	ids := slices.Clone(m.cfg.Consumers)
	if m.cfg.RegistryDiscovery {
		if reg, ok := m.transport.(orizuru.ConsumerRegistry); ok {
			found, err := reg.Consumers(ctx, m.key("consumers"))
			if err != nil {
				return nil, err
			}
			ids = append(ids, found...)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}
