package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ollamagate/pkg/endpoints"
)

func TestClient_AttachesConfiguredCredential(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	registry := endpoints.Parse(server.URL + "_sekret")
	active := endpoints.NewActiveTarget()
	active.Set(server.URL)

	client := NewClient(registry, active, Options{})
	if err := client.DoJSON(context.Background(), http.MethodGet, "/api/tags", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer sekret" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer sekret")
	}
}

func TestClient_MissingCredentialSendsLiteralNull(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	registry := endpoints.Parse(server.URL)
	active := endpoints.NewActiveTarget()
	active.Set(server.URL)

	client := NewClient(registry, active, Options{})
	if err := client.DoJSON(context.Background(), http.MethodGet, "/api/tags", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An endpoint without a credential still carries the header, with the
	// literal value "null".
	if gotAuth != "Bearer null" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer null")
	}
}

func TestClient_SwitchingTargetSwitchesCredential(t *testing.T) {
	auths := map[string]string{}
	newBackend := func(name string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auths[name] = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{}`))
		}))
	}

	first := newBackend("first")
	defer first.Close()
	second := newBackend("second")
	defer second.Close()

	registry := endpoints.Parse(first.URL + "_tok-one," + second.URL + "_tok-two")
	active := endpoints.NewActiveTarget()
	active.Set(first.URL)

	client := NewClient(registry, active, Options{})
	ctx := context.Background()

	if err := client.DoJSON(ctx, http.MethodGet, "/api/tags", nil, nil); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	active.Set(second.URL)
	if err := client.DoJSON(ctx, http.MethodGet, "/api/tags", nil, nil); err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if auths["first"] != "Bearer tok-one" {
		t.Errorf("first backend saw %q, want %q", auths["first"], "Bearer tok-one")
	}
	if auths["second"] != "Bearer tok-two" {
		t.Errorf("second backend saw %q, want %q", auths["second"], "Bearer tok-two")
	}
}

func TestClient_Non2xxYieldsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	registry := endpoints.Parse(server.URL)
	active := endpoints.NewActiveTarget()
	active.Set(server.URL)

	client := NewClient(registry, active, Options{})
	_, err := client.Do(context.Background(), http.MethodGet, "/api/tags", nil)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}

	var backendErr *Error
	if !errors.As(err, &backendErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if backendErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", backendErr.StatusCode)
	}
}

func TestClient_TransportFailureYieldsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	registry := endpoints.Parse(server.URL)
	active := endpoints.NewActiveTarget()
	active.Set(server.URL)

	client := NewClient(registry, active, Options{})
	_, err := client.Do(context.Background(), http.MethodGet, "/api/tags", nil)

	var backendErr *Error
	if !errors.As(err, &backendErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if backendErr.StatusCode != 0 {
		t.Errorf("status = %d, want 0 for transport failure", backendErr.StatusCode)
	}
	if backendErr.Cause == nil {
		t.Error("expected a wrapped transport cause")
	}
}

func TestClient_ProbeArbitraryEndpoint(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	// The probed url is not the active target.
	registry := endpoints.Parse(server.URL + "_probe-tok")
	active := endpoints.NewActiveTarget()

	client := NewClient(registry, active, Options{})
	if err := client.Probe(context.Background(), server.URL); err != nil {
		t.Fatalf("probe failed: %v", err)
	}

	if gotPath != "/api/tags" {
		t.Errorf("probe path = %q, want /api/tags", gotPath)
	}
	if gotAuth != "Bearer probe-tok" {
		t.Errorf("probe Authorization = %q, want the probed url's credential", gotAuth)
	}
}
