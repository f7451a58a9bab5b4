package monitor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rubik/orizuru"
)

// handleCollect runs a garbage collection sweep, returning unacknowledged
// messages to their source queues. An optional JSON body restricts the sweep
// to a single queue.
func (m *Monitor) handleCollect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Queue string `json:"queue"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	queues := m.cfg.Queues
	if req.Queue != "" {
		if !m.hasQueue(req.Queue) {
			writeError(w, http.StatusNotFound, "queue not found", "NOT_FOUND")
			return
		}
		queues = []string{req.Queue}
	}

	opts := []orizuru.Option{
		orizuru.WithPrefix(m.prefix),
		orizuru.WithLogger(m.logger),
		orizuru.WithConsumers(m.cfg.Consumers...),
	}
	if m.cfg.RegistryDiscovery {
		opts = append(opts, orizuru.WithRegistryDiscovery())
	}

	perQueue := make(map[string]int64, len(queues))
	var total int64
	for _, q := range queues {
		col, err := orizuru.NewCollector(q, m.transport, opts...)
		if err != nil {
			m.logger.Error("collector setup failed", "queue", q, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to collect", "INTERNAL")
			return
		}
		n, err := col.Collect(ctx)
		if err != nil {
			m.logger.Error("collect failed", "queue", q, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to collect", "INTERNAL")
			return
		}
		perQueue[q] = n
		total += n
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"collected": total,
		"queues":    perQueue,
	}})
}
