// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/aesthetica/internal/database"
	"github.com/tomtom215/aesthetica/internal/metrics"
)

type fakeServer struct {
	listenErr   error
	shutdownErr error
	stopped     chan struct{}
	once        sync.Once
	shutdowns   atomic.Int32
}

func newFakeServer() *fakeServer {
	return &fakeServer{stopped: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stopped
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdowns.Add(1)
	f.once.Do(func() { close(f.stopped) })
	return f.shutdownErr
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	server := newFakeServer()
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return")
	}
	if server.shutdowns.Load() != 1 {
		t.Errorf("Shutdown called %d times, want 1", server.shutdowns.Load())
	}
	if svc.String() != "http-server" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestHTTPServerService_ListenFailure(t *testing.T) {
	server := newFakeServer()
	server.listenErr = errors.New("address already in use")
	svc := NewHTTPServerService(server, 0)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, server.listenErr) {
		t.Errorf("Serve() error = %v, want wrapped listen error", err)
	}
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("default shutdown timeout = %v", svc.shutdownTimeout)
	}
}

type fakeCollector struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeCollector) GC(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 1, f.err
}

func (f *fakeCollector) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRevocationGCService(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result string
	}{
		{"success", nil, "success"},
		{"failure keeps looping", errors.New("badger closed"), "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := &fakeCollector{err: tt.err}
			svc := NewRevocationGCService(collector, 10*time.Millisecond)
			before := testutil.ToFloat64(metrics.RevocationGCRuns.WithLabelValues(tt.result))

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() error = %v", err)
			}

			calls := collector.count()
			if calls < 2 {
				t.Errorf("GC ran %d times, want at least 2", calls)
			}
			after := testutil.ToFloat64(metrics.RevocationGCRuns.WithLabelValues(tt.result))
			if after-before != float64(calls) {
				t.Errorf("%s runs counted %v, want %d", tt.result, after-before, calls)
			}
		})
	}

	if svc := NewRevocationGCService(&fakeCollector{}, 0); svc.interval != DefaultRevocationGCInterval {
		t.Errorf("default interval = %v", svc.interval)
	}
}

type fakePool struct{}

func (fakePool) Stats() database.PoolStats {
	return database.PoolStats{TotalConns: 4, IdleConns: 3, AcquiredConns: 1, MaxConns: 20}
}

func TestPoolStatsService(t *testing.T) {
	svc := NewPoolStatsService(fakePool{}, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if got := testutil.ToFloat64(metrics.DBPoolConnections.WithLabelValues("acquired")); got != 1 {
		t.Errorf("acquired = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.DBPoolConnections.WithLabelValues("max")); got != 20 {
		t.Errorf("max = %v, want 20", got)
	}
}
