package clock

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fixedLocal(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSyncAppliesRemoteOffset(t *testing.T) {
	remote := time.Date(2026, 10, 16, 0, 30, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"datetime": %q, "unixtime": %d}`, remote.Format(time.RFC3339Nano), remote.Unix())
	}))
	defer srv.Close()

	c := NewNetwork(srv.URL, time.Second, time.UTC, nil)
	c.local = fixedLocal(time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC))
	c.Sync(context.Background())

	if !c.Synced() {
		t.Fatal("expected a successful sync")
	}
	if got := c.Now(); !got.Equal(remote) {
		t.Errorf("Now() = %v, want %v", got, remote)
	}
}

func TestSyncFallsBackOnFailures(t *testing.T) {
	local := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>")
		}},
		{"no time", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"timezone": "Europe/Istanbul"}`)
		}},
		{"timeout", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := NewNetwork(srv.URL, 50*time.Millisecond, time.UTC, nil)
			c.local = fixedLocal(local)
			c.Sync(context.Background())

			if c.Synced() {
				t.Error("sync should have failed")
			}
			if got := c.Now(); !got.Equal(local) {
				t.Errorf("Now() = %v, want local %v", got, local)
			}
		})
	}
}

func TestSyncWithoutURLIsNoop(t *testing.T) {
	c := NewNetwork("", time.Second, nil, nil)
	c.Sync(context.Background())
	if c.Synced() {
		t.Error("no URL should never sync")
	}
}
