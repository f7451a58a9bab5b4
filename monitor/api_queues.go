package monitor

import (
	"context"
	"net/http"
	"slices"
)

// queueInfo summarizes the lists backing one logical queue. Processing and
// Unack are summed over all known consumers.
type queueInfo struct {
	Name       string `json:"name"`
	Source     int64  `json:"source"`
	Processing int64  `json:"processing"`
	Unack      int64  `json:"unack"`
	Total      int64  `json:"total"`
}

// consumerQueueInfo is the per-consumer slice of a queue's state.
type consumerQueueInfo struct {
	ID         string `json:"id"`
	Processing int64  `json:"processing"`
	Unack      int64  `json:"unack"`
}

// handleListQueues returns all configured queues with their depths.
func (m *Monitor) handleListQueues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := m.consumerIDs(ctx)
	if err != nil {
		m.logger.Error("consumer discovery failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list consumers", "INTERNAL")
		return
	}

	queues := slices.Clone(m.cfg.Queues)
	slices.Sort(queues)

	results := make([]queueInfo, 0, len(queues))
	for _, q := range queues {
		qi, err := m.queueCounts(ctx, q, ids)
		if err != nil {
			m.logger.Error("queue count failed", "queue", q, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to count queues", "INTERNAL")
			return
		}
		results = append(results, qi)
	}

	writeJSON(w, http.StatusOK, response{Data: results})
}

// handleGetQueue returns one queue with a per-consumer breakdown.
func (m *Monitor) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")
	if !validatePathParam(w, "name", name) {
		return
	}
	if !m.hasQueue(name) {
		writeError(w, http.StatusNotFound, "queue not found", "NOT_FOUND")
		return
	}

	ids, err := m.consumerIDs(ctx)
	if err != nil {
		m.logger.Error("consumer discovery failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list consumers", "INTERNAL")
		return
	}

	source, err := m.transport.Len(ctx, m.key(name, "source"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count queue", "INTERNAL")
		return
	}

	consumers := make([]consumerQueueInfo, 0, len(ids))
	var processing, unack int64
	for _, id := range ids {
		p, err := m.transport.Len(ctx, m.key(name, "processing", id))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to count queue", "INTERNAL")
			return
		}
		u, err := m.transport.Len(ctx, m.key(name, "unack", id))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to count queue", "INTERNAL")
			return
		}
		consumers = append(consumers, consumerQueueInfo{ID: id, Processing: p, Unack: u})
		processing += p
		unack += u
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"name":       name,
		"source":     source,
		"processing": processing,
		"unack":      unack,
		"total":      source + processing + unack,
		"consumers":  consumers,
	}})
}

// queueCounts reads the source depth and the summed per-consumer processing
// and unack depths for one queue.
func (m *Monitor) queueCounts(ctx context.Context, queue string, ids []string) (queueInfo, error) {
	qi := queueInfo{Name: queue}
	var err error
	qi.Source, err = m.transport.Len(ctx, m.key(queue, "source"))
	if err != nil {
		return qi, err
	}
	for _, id := range ids {
		p, err := m.transport.Len(ctx, m.key(queue, "processing", id))
		if err != nil {
			return qi, err
		}
		u, err := m.transport.Len(ctx, m.key(queue, "unack", id))
		if err != nil {
			return qi, err
		}
		qi.Processing += p
		qi.Unack += u
	}
	qi.Total = qi.Source + qi.Processing + qi.Unack
	return qi, nil
}
