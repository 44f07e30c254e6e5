package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestRecordAndRecent(t *testing.T) {
	store, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := Entry{
		ID:          "a1",
		TelegramID:  "555",
		Description: "This product is broken and not working properly",
		HasImage:    true,
		Success:     true,
		ProductName: "Lamp",
		StepTitle:   "Repaired",
		Confidence:  87,
		Message:     "High confidence match",
		CreatedAt:   base,
	}
	second := Entry{
		ID:          "a2",
		TelegramID:  "555",
		Description: "text only",
		Success:     false,
		Message:     "No matching product",
		CreatedAt:   base.Add(time.Minute),
	}
	if err := store.Record(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(ctx, second); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "a2" {
		t.Errorf("expected newest first, got %s", entries[0].ID)
	}
	got := entries[1]
	if !got.HasImage || !got.Success || got.ProductName != "Lamp" || got.Confidence != 87 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestRecentLimit(t *testing.T) {
	store, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		e := Entry{
			ID:          string(rune('a' + i)),
			TelegramID:  "1",
			Description: "d",
			CreatedAt:   time.Date(2025, 6, 1, 12, i, 0, 0, time.UTC),
		}
		if err := store.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestRecentRoute(t *testing.T) {
	store, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Record(context.Background(), Entry{ID: "a1", TelegramID: "555", Description: "d", Success: true}); err != nil {
		t.Fatal(err)
	}

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/journal/recent?limit=5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Submissions []Entry `json:"submissions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if len(resp.Submissions) != 1 || resp.Submissions[0].ID != "a1" {
		t.Errorf("unexpected response: %+v", resp.Submissions)
	}
}

func TestRecentRouteBadLimit(t *testing.T) {
	store, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/journal/recent?limit=nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
