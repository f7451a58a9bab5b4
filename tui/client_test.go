package tui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key")
}

func TestClientListQueues(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/queues" {
			t.Errorf("path = %q, want /api/v1/queues", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("X-API-Key = %q, want test-key", r.Header.Get("X-API-Key"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"name":"jobs","source":4,"processing":1,"unack":2,"total":7}]}`))
	})

	queues, err := c.ListQueues()
	if err != nil {
		t.Fatalf("ListQueues: %v", err)
	}
	if len(queues) != 1 {
		t.Fatalf("len(queues) = %d, want 1", len(queues))
	}
	q := queues[0]
	if q.Name != "jobs" || q.Source != 4 || q.Processing != 1 || q.Unack != 2 || q.Total != 7 {
		t.Errorf("queue = %+v", q)
	}
}

func TestClientListConsumers(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/consumers" {
			t.Errorf("path = %q, want /api/v1/consumers", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"w1","alive":true,"last_heartbeat":1700000000},{"id":"w2","alive":false}]}`))
	})

	consumers, err := c.ListConsumers()
	if err != nil {
		t.Fatalf("ListConsumers: %v", err)
	}
	if len(consumers) != 2 {
		t.Fatalf("len(consumers) = %d, want 2", len(consumers))
	}
	if !consumers[0].Alive || consumers[0].LastHeartbeat != 1700000000 {
		t.Errorf("w1 = %+v", consumers[0])
	}
	if consumers[1].Alive || consumers[1].LastHeartbeat != 0 {
		t.Errorf("w2 = %+v", consumers[1])
	}
}

func TestClientCollect(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/v1/gc/collect" {
			t.Errorf("%s %s, want POST /api/v1/gc/collect", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"collected":3,"queues":{"jobs":3}}}`))
	})

	result, err := c.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if result.Collected != 3 || result.Queues["jobs"] != 3 {
		t.Errorf("result = %+v", result)
	}
}

func TestClientHealth(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	if err := c.Health(); err != nil {
		t.Errorf("Health: %v", err)
	}
}

func TestClientUnauthorized(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.ListQueues()
	if err == nil || !strings.Contains(err.Error(), "unauthorized") {
		t.Errorf("err = %v, want unauthorized", err)
	}
}

func TestClientForbidden(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Collect()
	if err == nil || !strings.Contains(err.Error(), "forbidden") {
		t.Errorf("err = %v, want forbidden", err)
	}
}

func TestClientServerError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom","code":"INTERNAL"}`))
	})

	_, err := c.ListQueues()
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("err = %v, want API error 500", err)
	}
}

func TestClientNoAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["X-Api-Key"]; ok {
			t.Error("X-API-Key header sent despite empty key")
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	if err := c.Health(); err != nil {
		t.Errorf("Health: %v", err)
	}
}
