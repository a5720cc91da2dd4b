package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(5 * time.Second)
	if client.MaxRetries != 1 {
		t.Errorf("MaxRetries: got %d, want 1", client.MaxRetries)
	}
	if client.Timeout != 5*time.Second {
		t.Errorf("Timeout: got %v, want 5s", client.Timeout)
	}
}

func TestGetSingleAttempt(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()
	_, err := Get(context.Background(), NewHTTPClient(time.Second), ts.URL, nil)
	if !errors.Is(err, ErrHTTPStatus) {
		t.Fatalf("got %v, want ErrHTTPStatus", err)
	}
	if n := requests.Load(); n != 1 {
		t.Fatalf("got %d requests, want 1", n)
	}
}

func TestGet(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.Header.Get("X-Test"))
	}))
	defer ts.Close()
	b, err := Get(context.Background(), NewHTTPClient(time.Second), ts.URL, http.Header{"X-Test": {"ok"}})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(b) != "ok" {
		t.Fatalf("got %q, want ok", b)
	}
}
