package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"ollamagate/pkg/endpoints"
)

func newModelBackend(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	active := endpoints.NewActiveTarget()
	active.Set(server.URL)
	return NewClient(endpoints.Parse(server.URL), active, Options{})
}

func TestListModels_EnrichmentAndSort(t *testing.T) {
	client := newModelBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[
				{"name":"mistral","size":123},
				{"name":"alpaca","size":456},
				{"name":"broken","size":789}
			]}`))
		case "/api/show":
			var req struct {
				Model string `json:"model"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Model == "broken" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`{"family":"llama","parameter_size":"7B"}`))
		default:
			t.Errorf("unexpected backend path %s", r.URL.Path)
		}
	})

	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}

	// All three models survive; only the failed detail call lacks details.
	if len(models) != 3 {
		t.Fatalf("got %d models, want 3", len(models))
	}

	wantOrder := []string{"alpaca", "broken", "mistral"}
	for i, want := range wantOrder {
		if got := models[i].Name(); got != want {
			t.Errorf("models[%d] = %q, want %q (sorted by name)", i, got, want)
		}
	}

	for _, m := range models {
		_, hasDetails := m["details"]
		if m.Name() == "broken" && hasDetails {
			t.Error("model with failed detail call gained a details field")
		}
		if m.Name() != "broken" && !hasDetails {
			t.Errorf("model %q missing details", m.Name())
		}
	}
}

func TestListModels_ListFailureFailsTheCall(t *testing.T) {
	client := newModelBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := client.ListModels(context.Background()); err == nil {
		t.Fatal("expected error when the list call itself fails")
	}
}

func TestDeleteModels_PerItemIsolation(t *testing.T) {
	var mu sync.Mutex
	attempted := map[string]bool{}

	client := newModelBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/delete" || r.Method != http.MethodDelete {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}

		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		mu.Lock()
		attempted[req.Model] = true
		mu.Unlock()

		if req.Model == "b" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	failed := client.DeleteModels(context.Background(), []string{"a", "b", "c"})

	if len(failed) != 1 || failed[0] != "b" {
		t.Errorf("failed = %v, want [b]", failed)
	}

	// b's failure must not block its siblings.
	for _, name := range []string{"a", "b", "c"} {
		if !attempted[name] {
			t.Errorf("deletion of %q was never attempted", name)
		}
	}
}

func TestDeleteModels_AllSucceed(t *testing.T) {
	client := newModelBackend(t, func(w http.ResponseWriter, r *http.Request) {})

	if failed := client.DeleteModels(context.Background(), []string{"x", "y"}); failed != nil {
		t.Errorf("failed = %v, want none", failed)
	}
}

func TestListRunning_PassesBodyThrough(t *testing.T) {
	const body = `{"models":[{"name":"llama3","size_vram":42}]}`
	client := newModelBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ps" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(body))
	})

	got, err := client.ListRunning(context.Background())
	if err != nil {
		t.Fatalf("ListRunning failed: %v", err)
	}
	if string(got) != body {
		t.Errorf("body = %q, want backend body verbatim", got)
	}
}
