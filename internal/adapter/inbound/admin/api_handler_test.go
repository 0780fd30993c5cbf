package admin

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/solawi-gate/listgate/internal/adapter/outbound/memstore"
	"github.com/solawi-gate/listgate/internal/domain/principal"
	"github.com/solawi-gate/listgate/internal/domain/store"
	"github.com/solawi-gate/listgate/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testHandler builds an AdminAPIHandler over a fresh in-memory store,
// returning it alongside the raw admin credential that resolves to
// IsAdmin=true.
func testHandler(t *testing.T) (*AdminAPIHandler, string) {
	t.Helper()

	const rawCred = "test-admin-credential"
	hash, err := principal.HashCredential(rawCred)
	if err != nil {
		t.Fatalf("HashCredential() error: %v", err)
	}

	st := memstore.New("listgate-test")
	h := NewAdminAPIHandler(
		WithStore(st),
		WithStatsService(service.NewStatsService()),
		WithFeedService(service.NewFeedService(st, discardLogger())),
		WithResolver(principal.NewResolver([]string{hash})),
		WithAPILogger(discardLogger()),
	)
	return h, rawCred
}

func doRequest(h *AdminAPIHandler, method, path, cred string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if cred != "" {
		req.Header.Set("Authorization", "Bearer "+cred)
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestAdminAPI_AuthStatus_NoCredentialRequired(t *testing.T) {
	h, _ := testHandler(t)
	rec := doRequest(h, http.MethodGet, "/admin/api/auth/status", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAdminAPI_ProtectedRoute_RejectsMissingCredential(t *testing.T) {
	h, _ := testHandler(t)
	rec := doRequest(h, http.MethodGet, "/admin/api/categories", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminAPI_ProtectedRoute_RejectsNonAdminCredential(t *testing.T) {
	h, _ := testHandler(t)
	rec := doRequest(h, http.MethodGet, "/admin/api/categories", "some-other-credential", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestAdminAPI_CategoryCRUD(t *testing.T) {
	h, cred := testHandler(t)

	createBody, _ := json.Marshal(createCategoryRequest{
		Name: "garden", EmailAddress: "garden@example.org", Description: "garden list",
	})
	rec := doRequest(h, http.MethodPost, "/admin/api/categories", cred, createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201, body=%s", rec.Code, rec.Body.String())
	}

	var created store.MessageCategory
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created category: %v", err)
	}

	rec = doRequest(h, http.MethodGet, "/admin/api/categories", cred, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var cats []store.MessageCategory
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode category list: %v", err)
	}
	if len(cats) != 1 {
		t.Fatalf("categories = %+v, want exactly one", cats)
	}

	toggleBody, _ := json.Marshal(setActiveRequest{Active: false})
	rec = doRequest(h, http.MethodPut,
		"/admin/api/categories/"+strconv.FormatUint(created.ID, 10)+"/active", cred, toggleBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdminAPI_BlockedIPLifecycle(t *testing.T) {
	h, cred := testHandler(t)

	body, _ := json.Marshal(blockIPRequest{IP: "198.51.100.4", Reason: "spam"})
	rec := doRequest(h, http.MethodPost, "/admin/api/blocked-ips", cred, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("block status = %d, want 201", rec.Code)
	}

	rec = doRequest(h, http.MethodGet, "/admin/api/blocked-ips", cred, nil)
	var ips []store.BlockedIP
	if err := json.Unmarshal(rec.Body.Bytes(), &ips); err != nil {
		t.Fatalf("decode blocked ip list: %v", err)
	}
	if len(ips) != 1 || !ips[0].Active {
		t.Fatalf("blocked ips = %+v, want one active entry", ips)
	}

	rec = doRequest(h, http.MethodDelete, "/admin/api/blocked-ips/198.51.100.4", cred, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unblock status = %d, want 204", rec.Code)
	}
}

func TestAdminAPI_Stats(t *testing.T) {
	h, cred := testHandler(t)
	rec := doRequest(h, http.MethodGet, "/admin/api/stats", cred, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
}
