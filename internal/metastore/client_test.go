package metastore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testClient(url string) *Client {
	return NewClient(url, time.Second, zerolog.Nop())
}

func TestExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		switch r.URL.Path {
		case "/present":
			w.WriteHeader(http.StatusOK)
		case "/absent":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()
	c := testClient(srv.URL)

	ok, err := c.Exists(context.Background(), "present")
	if err != nil || !ok {
		t.Fatalf("present: (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = c.Exists(context.Background(), "absent")
	if err != nil || ok {
		t.Fatalf("absent: (%v, %v), want (false, nil)", ok, err)
	}
	if _, err = c.Exists(context.Background(), "broken"); err == nil {
		t.Fatal("expected error for unexpected status")
	}
}

func TestCreateSendsSettings(t *testing.T) {
	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := testClient(srv.URL).Create(context.Background(), "my-index", 1, 1); err != nil {
		t.Fatalf("create: %v", err)
	}
	if gotPath != "/my-index" {
		t.Fatalf("path = %q, want /my-index", gotPath)
	}

	var body createIndexBody
	if err := json.Unmarshal(gotBody, &body); err != nil {
		t.Fatalf("unmarshal settings: %v", err)
	}
	if body.Settings.Index.NumberOfShards != 1 || body.Settings.Index.NumberOfReplicas != 1 {
		t.Fatalf("settings = %+v", body.Settings)
	}
}

func TestCreateToleratesExistingIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"resource_already_exists_exception"}}`))
	}))
	defer srv.Close()

	if err := testClient(srv.URL).Create(context.Background(), "my-index", 1, 1); err != nil {
		t.Fatalf("duplicate create must succeed, got %v", err)
	}
}

func TestCreateSurfacesOtherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "shards exhausted", http.StatusForbidden)
	}))
	defer srv.Close()

	if err := testClient(srv.URL).Create(context.Background(), "my-index", 1, 1); err == nil {
		t.Fatal("expected error")
	}
}
