package lifeapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSubmitEventSuccess(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lifecycle/telegram-event" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		w.Write([]byte(`{
			"success": true,
			"matchedProduct": {"name": "Lamp"},
			"lifecycleStep": {"title": "Repaired", "description": "Fixed the lamp"},
			"matchInfo": {"confidence": 87, "message": "High confidence match"}
		}`))
	}))
	defer srv.Close()

	fixed := time.Unix(1700000000, 0)
	c := NewClient(srv.URL, "shared-secret", WithClock(func() time.Time { return fixed }))

	outcome := c.SubmitEvent(context.Background(), "555", "Fixed my lamp", "data:image/jpeg;base64,abcd")
	if !outcome.Success {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.MatchedProduct.Name != "Lamp" {
		t.Errorf("expected product Lamp, got %q", outcome.MatchedProduct.Name)
	}
	if outcome.LifecycleStep.Title != "Repaired" {
		t.Errorf("expected step Repaired, got %q", outcome.LifecycleStep.Title)
	}
	if outcome.MatchInfo.Confidence != 87 {
		t.Errorf("expected confidence 87, got %d", outcome.MatchInfo.Confidence)
	}

	if gotBody["telegramId"] != "555" {
		t.Errorf("expected telegramId 555, got %v", gotBody["telegramId"])
	}
	if gotBody["botToken"] != "shared-secret" {
		t.Errorf("expected botToken shared-secret, got %v", gotBody["botToken"])
	}
	if gotBody["timestamp"].(float64) != 1700000000 {
		t.Errorf("expected timestamp 1700000000, got %v", gotBody["timestamp"])
	}
	if gotBody["imageBase64"] != "data:image/jpeg;base64,abcd" {
		t.Errorf("unexpected imageBase64: %v", gotBody["imageBase64"])
	}
}

func TestSubmitEventOmitsEmptyImage(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	c.SubmitEvent(context.Background(), "555", "text only", "")
	if _, present := gotBody["imageBase64"]; present {
		t.Error("imageBase64 should be omitted when empty")
	}
}

func TestSubmitEventConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	c := NewClient(srv.URL, "secret")
	outcome := c.SubmitEvent(context.Background(), "555", "desc", "")
	if outcome == nil {
		t.Fatal("expected a synthetic outcome, got nil")
	}
	if outcome.Success {
		t.Error("expected failure outcome")
	}
	if outcome.FailureText() == "" {
		t.Error("expected a failure message")
	}
}

func TestSubmitEventNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>502 Bad Gateway</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	outcome := c.SubmitEvent(context.Background(), "555", "desc", "")
	if outcome.Success {
		t.Error("expected failure outcome for non-JSON body")
	}
}

func TestStatusLinked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/telegram/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("telegramId"); got != "555" {
			t.Errorf("expected telegramId 555, got %q", got)
		}
		w.Write([]byte(`{
			"linked": true,
			"user": {"name": "Alice", "linkedAt": "2024-01-15"},
			"stats": {"trackedProducts": 4},
			"recentActivity": [{"stepIcon": "🔧", "stepLabel": "Repaired", "productName": "Lamp"}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	info, err := c.Status(context.Background(), "555")
	if err != nil {
		t.Fatal(err)
	}
	if !info.Linked || info.User.Name != "Alice" || info.Stats.TrackedProducts != 4 {
		t.Errorf("unexpected status: %+v", info)
	}
	if len(info.RecentActivity) != 1 || info.RecentActivity[0].ProductName != "Lamp" {
		t.Errorf("unexpected activity: %+v", info.RecentActivity)
	}
}

func TestProductsUnlinked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"linked": false}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	info, err := c.Products(context.Background(), "555")
	if err != nil {
		t.Fatal(err)
	}
	if info.Linked {
		t.Error("expected unlinked")
	}
	if len(info.Products) != 0 {
		t.Errorf("expected no products, got %+v", info.Products)
	}
}

func TestStatusTransportError(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	c := NewClient(srv.URL, "secret")
	if _, err := c.Status(context.Background(), "555"); err == nil {
		t.Fatal("expected transport error")
	}
}
