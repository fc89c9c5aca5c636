package location

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"placeswipe/internal/domain"
)

func newTestLocator(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *IPLocator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewIPLocator(srv.URL, timeout, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestIPLocator_Success(t *testing.T) {
	l := newTestLocator(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"success","lat":41.5236,"lon":-90.5776,"city":"Davenport"}`)
	}, time.Second)

	got, err := l.CurrentPosition(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lat != 41.5236 || got.Lng != -90.5776 {
		t.Errorf("unexpected coordinate %+v", got)
	}
}

func TestIPLocator_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"provider fail", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"status":"fail","message":"private range"}`)
		}},
		{"missing position", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"status":"success"}`)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `nope`)
		}},
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLocator(t, tt.handler, time.Second)
			_, err := l.CurrentPosition(context.Background())
			if !errors.Is(err, domain.ErrLocationUnavailable) {
				t.Errorf("expected ErrLocationUnavailable, got %v", err)
			}
		})
	}
}

func TestIPLocator_Timeout(t *testing.T) {
	l := newTestLocator(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, 50*time.Millisecond)

	start := time.Now()
	_, err := l.CurrentPosition(context.Background())
	if !errors.Is(err, domain.ErrLocationUnavailable) {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("timeout not honored")
	}
}

func TestFixedAndDisabled(t *testing.T) {
	want := domain.Coordinate{Lat: 1, Lng: 2}
	got, err := Fixed{Coordinate: want}.CurrentPosition(context.Background())
	if err != nil || got != want {
		t.Errorf("Fixed.CurrentPosition() = %+v, %v", got, err)
	}

	if _, err := (Disabled{}).CurrentPosition(context.Background()); !errors.Is(err, domain.ErrLocationUnavailable) {
		t.Errorf("Disabled.CurrentPosition() error = %v", err)
	}
}
