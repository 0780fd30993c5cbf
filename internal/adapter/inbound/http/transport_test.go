package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/solawi-gate/listgate/internal/adapter/outbound/memstore"
	"github.com/solawi-gate/listgate/internal/service"
	"github.com/solawi-gate/listgate/internal/wire"
)

// markerHandler returns an http.Handler that writes a specific marker string.
func markerHandler(marker string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Handler", marker)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, marker)
	})
}

func newTestTransport(t *testing.T) *HTTPTransport {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))

	st := memstore.New("listgate-test")
	hookSvc := service.NewHookService(st, logger, time.Second)
	syncSvc := service.NewSyncService(st, logger)

	return NewHTTPTransport(hookSvc, syncSvc,
		WithAddr("127.0.0.1:0"),
		WithLogger(logger),
		WithExtraHandler(markerHandler("admin")),
		WithHealthChecker(NewHealthChecker(st, "test")),
	)
}

// testWriter adapts testing.T to io.Writer for slog output during tests.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}

func TestTransport_StartAndServe(t *testing.T) {
	transport := newTestTransport(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- transport.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return within 5 seconds after cancel")
	}
}

func TestTransport_RoutingViaHTTPTest(t *testing.T) {
	transport := newTestTransport(t)

	mux := http.NewServeMux()
	mux.Handle("/admin/", transport.extraHandler)
	mux.Handle("/health", transport.healthChecker.Handler())
	mux.Handle("/mta-hook", hookHandler(transport.hookService, false))
	mux.Handle("/user-sync", userSyncHandler(transport.syncService))

	server := httptest.NewServer(mux)
	defer server.Close()

	t.Run("admin route", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/admin/accounts")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if got := resp.Header.Get("X-Handler"); got != "admin" {
			t.Errorf("handler = %q, want admin", got)
		}
	})

	t.Run("health route", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/health")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("mta-hook route", func(t *testing.T) {
		body, _ := json.Marshal(wire.HookRequest{
			Context: wire.HookContext{
				Stage:  "ehlo",
				Client: wire.HookClient{IP: "203.0.113.7"},
				Server: wire.HookServer{Name: "mail.example.org"},
			},
		})
		resp, err := http.Post(server.URL+"/mta-hook", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	t.Run("user-sync route", func(t *testing.T) {
		name := "Test User"
		body, _ := json.Marshal(wire.UserSyncRequest{
			Action: "upsert",
			User:   wire.UserSyncUser{MembershipNumber: 1, Name: &name},
		})
		resp, err := http.Post(server.URL+"/user-sync", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})
}
