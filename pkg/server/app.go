package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "FinQuote/pkg/http"
	applogger "FinQuote/pkg/logger"
)

// CloserFunc adapts a plain func to io.Closer.
type CloserFunc func() error

func (f CloserFunc) Close() error { return f() }

type closer struct {
	name string
	c    io.Closer
}

// App encapsulates the application lifecycle: it serves HTTP until a
// shutdown signal and then releases resources in registration order.
type App struct {
	server          *xhttp.Server
	logger          *applogger.Logger
	shutdownTimeout time.Duration
	closers         []closer
}

type Option func(*App)

// WithCloser registers a resource closed after the HTTP server stops.
func WithCloser(name string, c io.Closer) Option {
	return func(a *App) {
		if c != nil {
			a.closers = append(a.closers, closer{name: name, c: c})
		}
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}

func New(srv *xhttp.Server, logger *applogger.Logger, opts ...Option) *App {
	a := &App{
		server:          srv,
		logger:          logger,
		shutdownTimeout: 10 * time.Second,
	}
	if a.logger == nil {
		a.logger = applogger.Nop()
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.server.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started")

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.server.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	for _, c := range a.closers {
		if err := c.c.Close(); err != nil {
			a.logger.Warn("close error", applogger.String("resource", c.name), applogger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.logger.Info("shutdown complete")
	return firstErr
}
