package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*HTTPService)(nil)

func localListener() (net.Listener, error) {
	return net.Listen("tcp", "127.0.0.1:0")
}

func TestHTTPServiceServesUntilCanceled(t *testing.T) {
	var addr atomic.Value
	listen := func() (net.Listener, error) {
		l, err := localListener()
		if err == nil {
			addr.Store(l.Addr().String())
		}
		return l, err
	}
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})}
	svc := NewHTTPService(server, listen, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	var res *http.Response
	for time.Now().Before(deadline) {
		if a, ok := addr.Load().(string); ok {
			var err error
			res, err = http.Get("http://" + a)
			if err == nil {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	if res == nil {
		t.Fatalf("server never answered")
	}
	_ = res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("service did not stop")
	}
}

func TestHTTPServiceReportsListenFailure(t *testing.T) {
	svc := NewHTTPService(&http.Server{}, func() (net.Listener, error) {
		return nil, errors.New("address in use")
	}, 0)

	if err := svc.Serve(context.Background()); err == nil {
		t.Fatalf("expected listen error")
	}
	if svc.String() != "http-server" {
		t.Fatalf("unexpected service name %q", svc.String())
	}
}

type countingService struct {
	runs atomic.Int32
}

func (s *countingService) Serve(ctx context.Context) error {
	if s.runs.Add(1) == 1 {
		return errors.New("first run fails")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return "counting" }

func TestTreeRestartsFailedService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tree := NewTree(logger, TreeConfig{FailureBackoff: 10 * time.Millisecond, ShutdownTimeout: time.Second})
	svc := &countingService{}
	tree.AddMessagingService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for svc.runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-errCh

	if svc.runs.Load() < 2 {
		t.Fatalf("expected the failed service to be restarted, runs=%d", svc.runs.Load())
	}
}
