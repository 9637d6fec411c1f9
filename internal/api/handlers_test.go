package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/dto"
	"github.com/eleven-am/cortexview/internal/history"
	"github.com/eleven-am/cortexview/internal/storage"
	"github.com/labstack/echo/v4"
)

type reloadingPersonas struct {
	fakePersonas
	reloads int
}

func (r *reloadingPersonas) Reload() []analysis.Persona {
	r.reloads++
	return r.fakePersonas
}

func TestPersonaHandler_List(t *testing.T) {
	e := echo.New()
	NewPersonaHandler(testPersonas()).RegisterRoutes(e.Group("/v1/personas"))

	rec := doJSON(t, e, http.MethodGet, "/v1/personas", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	list := decode[dto.PersonaListResponse](t, rec)
	if len(list.Personas) != 2 || list.Personas[0].Name != "Code Reviewer" {
		t.Errorf("unexpected personas %+v", list)
	}
	if list.Personas[0].MaxTokens != analysis.DefaultMaxTokens {
		t.Errorf("unexpected max tokens %d", list.Personas[0].MaxTokens)
	}
}

func TestPersonaHandler_Reload(t *testing.T) {
	source := &reloadingPersonas{fakePersonas: testPersonas()}
	e := echo.New()
	NewPersonaHandler(source).RegisterRoutes(e.Group("/v1/personas"))

	rec := doJSON(t, e, http.MethodPost, "/v1/personas/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if source.reloads != 1 {
		t.Errorf("expected one reload, got %d", source.reloads)
	}
}

func TestHistoryHandler_Disabled(t *testing.T) {
	e := echo.New()
	NewHistoryHandler(nil, testLogger()).RegisterRoutes(e.Group("/v1/history"))

	for _, path := range []string{"/v1/history", "/v1/history/usage", "/v1/history/hist_1"} {
		rec := doJSON(t, e, http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
		if code := errorCode(t, rec); code != "history_disabled" {
			t.Errorf("%s: unexpected code %s", path, code)
		}
	}
}

func TestHistoryHandler_List(t *testing.T) {
	fraction := 0.3
	store := &fakeHistory{records: []*history.Record{{
		ID:              "hist_1",
		RunID:           "run_1",
		Persona:         "Tutor",
		Suggestion:      "Try a map.",
		TokenUsage:      9,
		ChangedFraction: &fraction,
		CreatedAt:       time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}}}

	e := echo.New()
	NewHistoryHandler(store, testLogger()).RegisterRoutes(e.Group("/v1/history"))

	rec := doJSON(t, e, http.MethodGet, "/v1/history?limit=5&persona=Tutor", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.lastLimit != 5 || store.lastPersona != "Tutor" {
		t.Errorf("expected query params to pass through, got %d %q", store.lastLimit, store.lastPersona)
	}

	list := decode[dto.HistoryListResponse](t, rec)
	if len(list.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list.Entries))
	}
	entry := list.Entries[0]
	if entry.ID != "hist_1" || entry.CreatedAt != "2026-01-15T10:30:00Z" || *entry.ChangedFraction != 0.3 {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestHistoryHandler_Errors(t *testing.T) {
	e := echo.New()
	NewHistoryHandler(&fakeHistory{err: errors.New("db down")}, testLogger()).RegisterRoutes(e.Group("/v1/history"))

	if rec := doJSON(t, e, http.MethodGet, "/v1/history?limit=abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodGet, "/v1/history", ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for store error, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodGet, "/v1/history/usage?days=0", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad days, got %d", rec.Code)
	}
}

func TestHistoryHandler_GetAndPrune(t *testing.T) {
	store := &fakeHistory{records: []*history.Record{{ID: "hist_1", Persona: "Tutor", CreatedAt: time.Now().UTC()}}}
	e := echo.New()
	NewHistoryHandler(store, testLogger()).RegisterRoutes(e.Group("/v1/history"))

	rec := doJSON(t, e, http.MethodGet, "/v1/history/hist_1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if entry := decode[dto.HistoryEntry](t, rec); entry.Persona != "Tutor" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if rec := doJSON(t, e, http.MethodGet, "/v1/history/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}

	if rec := doJSON(t, e, http.MethodDelete, "/v1/history", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without days, got %d", rec.Code)
	}
	rec = doJSON(t, e, http.MethodDelete, "/v1/history?days=30", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decode[dto.PruneResponse](t, rec); resp.Deleted != 1 {
		t.Errorf("unexpected prune response %+v", resp)
	}
	if age := time.Since(store.lastCutoff); age < 29*24*time.Hour || age > 31*24*time.Hour {
		t.Errorf("expected a 30 day cutoff, got %v", age)
	}
}

func TestHistoryHandler_Usage(t *testing.T) {
	store := &fakeHistory{usage: []history.Usage{{Persona: "Tutor", Analyses: 3, TokenUsage: 90}}}
	e := echo.New()
	NewHistoryHandler(store, testLogger()).RegisterRoutes(e.Group("/v1/history"))

	rec := doJSON(t, e, http.MethodGet, "/v1/history/usage?days=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	usage := decode[dto.UsageResponse](t, rec)
	if len(usage.Usage) != 1 || usage.Usage[0].TokenUsage != 90 {
		t.Errorf("unexpected usage %+v", usage)
	}
	if age := time.Since(store.lastSince); age < 47*time.Hour || age > 49*time.Hour {
		t.Errorf("expected a two-day window, got %v", age)
	}
}

func TestStorageHandler(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures")
	store := storage.NewLocalStore(storage.Config{Enabled: true, Path: dir, RetentionDays: 7}, testLogger())

	e := echo.New()
	NewStorageHandler(store, testLogger()).RegisterRoutes(e.Group("/v1/storage"))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	old := filepath.Join(dir, "old.png")
	os.WriteFile(old, []byte("x"), 0o644)
	past := time.Now().AddDate(0, 0, -30)
	os.Chtimes(old, past, past)

	rec := doJSON(t, e, http.MethodPost, "/v1/storage/cleanup", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cleanup expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expected old screenshot to be removed")
	}

	fresh := filepath.Join(dir, "fresh.png")
	os.WriteFile(fresh, []byte("x"), 0o644)

	rec = doJSON(t, e, http.MethodDelete, "/v1/storage", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("purge expected 200, got %d", rec.Code)
	}
	resp := decode[dto.StorageResponse](t, rec)
	if resp.Status != "purged" || resp.Path != dir {
		t.Errorf("unexpected response %+v", resp)
	}
	if _, err := os.Stat(fresh); !os.IsNotExist(err) {
		t.Error("expected purge to remove every file")
	}
}
