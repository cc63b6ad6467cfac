package apiapp

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/krjofficial/mern-ecomm/internal/config"
)

func newServeApp(addr string) *App {
	cfg := config.Default()
	cfg.HTTP.Addr = addr
	cfg.HTTP.ShutdownTimeout = 2 * time.Second
	return &App{
		cfg:    cfg,
		logger: zap.NewNop(),
		server: &http.Server{Addr: addr, Handler: http.NotFoundHandler()},
	}
}

func TestServeStopsOnContextCancel(t *testing.T) {
	app := newServeApp("127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error after cancel: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
}

func TestServeReportsListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	app := newServeApp(ln.Addr().String())
	if err := app.Serve(context.Background()); err == nil {
		t.Fatalf("expected error when the address is taken")
	}
}
