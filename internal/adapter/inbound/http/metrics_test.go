package http

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	if m.RequestsTotal == nil {
		t.Error("RequestsTotal not initialized")
	}
	if m.RequestDuration == nil {
		t.Error("RequestDuration not initialized")
	}
	if m.HooksTotal == nil {
		t.Error("HooksTotal not initialized")
	}
	if m.HookDuration == nil {
		t.Error("HookDuration not initialized")
	}
	if m.SyncTotal == nil {
		t.Error("SyncTotal not initialized")
	}
	if m.FeedSubscribers == nil {
		t.Error("FeedSubscribers not initialized")
	}
	if m.BlockedIPHits == nil {
		t.Error("BlockedIPHits not initialized")
	}
}

func TestMetricsRecording(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RequestsTotal.WithLabelValues("POST", "/mta-hook", "ok").Inc()
	count := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("POST", "/mta-hook", "ok"))
	if count != 1 {
		t.Errorf("RequestsTotal = %v, want 1", count)
	}

	m.HooksTotal.WithLabelValues("rcpt", "reject").Inc()
	hooks := testutil.ToFloat64(m.HooksTotal.WithLabelValues("rcpt", "reject"))
	if hooks != 1 {
		t.Errorf("HooksTotal = %v, want 1", hooks)
	}

	m.FeedSubscribers.Set(3)
	subs := testutil.ToFloat64(m.FeedSubscribers)
	if subs != 3 {
		t.Errorf("FeedSubscribers = %v, want 3", subs)
	}

	m.RequestDuration.WithLabelValues("POST", "/mta-hook").Observe(0.1)
	gathered, err := reg.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range gathered {
		if strings.Contains(mf.GetName(), "request_duration") {
			found = true
			break
		}
	}
	if !found {
		t.Error("request_duration histogram not found in gathered metrics")
	}
}
