package orizuru

import (
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"
)

func TestWithPrefix(t *testing.T) {
	o := newOptions()
	WithPrefix("app")(&o)
	if o.prefix != "app" {
		t.Errorf("prefix = %q, want app", o.prefix)
	}
}

func TestWithPrefix_Default(t *testing.T) {
	o := newOptions()
	if o.prefix != DefaultPrefix {
		t.Errorf("default prefix = %q, want %q", o.prefix, DefaultPrefix)
	}
}

func TestWithLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	o := newOptions()
	WithLogger(logger)(&o)
	if o.logger != logger {
		t.Error("logger not applied")
	}
}

func TestWithLogger_NilIgnored(t *testing.T) {
	o := newOptions()
	WithLogger(nil)(&o)
	if o.logger == nil {
		t.Error("nil logger should fall back to the default")
	}
}

func TestWithNextTimeout(t *testing.T) {
	o := newOptions()
	if o.nextTimeout != 0 {
		t.Errorf("default next timeout = %v, want 0 (block)", o.nextTimeout)
	}
	WithNextTimeout(5 * time.Second)(&o)
	if o.nextTimeout != 5*time.Second {
		t.Errorf("next timeout = %v, want 5s", o.nextTimeout)
	}
}

func TestWithConsumers_Appends(t *testing.T) {
	o := newOptions()
	WithConsumers("w1", "w2")(&o)
	WithConsumers("w3")(&o)
	if !slices.Equal(o.consumers, []string{"w1", "w2", "w3"}) {
		t.Errorf("consumers = %v, want [w1 w2 w3]", o.consumers)
	}
}

func TestWithInterval(t *testing.T) {
	o := newOptions()
	if o.interval != DefaultSweepInterval {
		t.Errorf("default interval = %v, want %v", o.interval, DefaultSweepInterval)
	}
	WithInterval(time.Minute)(&o)
	if o.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", o.interval)
	}
}

func TestWithInterval_NonPositiveIgnored(t *testing.T) {
	o := newOptions()
	WithInterval(0)(&o)
	if o.interval != DefaultSweepInterval {
		t.Errorf("interval = %v after WithInterval(0), want default", o.interval)
	}
	WithInterval(-time.Second)(&o)
	if o.interval != DefaultSweepInterval {
		t.Errorf("interval = %v after negative, want default", o.interval)
	}
}

func TestWithRegistryDiscovery(t *testing.T) {
	o := newOptions()
	if o.registryDiscovery {
		t.Error("registry discovery should default to off")
	}
	WithRegistryDiscovery()(&o)
	if !o.registryDiscovery {
		t.Error("registry discovery not enabled")
	}
}
