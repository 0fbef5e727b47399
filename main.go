package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/ledger"
	"github.com/Zachkp/folio/internal/metrics"
	"github.com/Zachkp/folio/internal/scrollstate"
	"github.com/Zachkp/folio/internal/server"
	"github.com/Zachkp/folio/internal/views"
)

const (
	purgeInterval   = time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, nil); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func newLogger(c config.Log) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Dev {
		zc = zap.NewDevelopmentConfig()
	}
	if c.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

// run serves until ctx is cancelled. A nil listener listens on the
// configured port.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, ln net.Listener) error {
	gin.SetMode(cfg.Server.Mode)

	store, err := content.NewStore(cfg.Content.Path, logger.Named("content"))
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	if cfg.Content.Watch {
		if err := store.Watch(ctx); err != nil {
			return err
		}
	}

	led, err := ledger.Open(ctx, cfg.Ledger.DSN, logger.Named("ledger"))
	if err != nil {
		return err
	}
	defer func() { _ = led.Close() }()

	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		handler  http.Handler
	)
	if cfg.Server.Metrics {
		p := metrics.NewPrometheusRecorder(nil)
		recorder, handler = p, p.Handler()
	}

	vm := views.NewManager(
		func() scrollstate.LayoutProvider { return store.Current().LayoutProvider() },
		views.Options{Scroll: cfg.ScrollConfig(), IdleTTL: cfg.Views.IdleTTL, Retention: cfg.Ledger.Retention},
		views.WithLedger(led),
		views.WithRecorder(recorder),
		views.WithLogger(logger.Named("views")),
	)
	if err := vm.StartSweeper(cfg.Views.SweepInterval, purgeInterval); err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := vm.Shutdown(sctx); err != nil {
			logger.Warn("Error stopping view sweeper", zap.Error(err))
		}
	}()

	sub := cfg.Submitter()
	if _, ok := sub.(contact.Simulated); ok {
		logger.Info("SMTP not configured, contact submissions are simulated")
	}

	deps := server.Deps{
		Site:      store,
		Views:     vm,
		Contact:   contact.NewService(sub, contact.WithLogger(logger.Named("contact")), contact.WithRecorder(recorder)),
		Metrics:   handler,
		Logger:    logger.Named("http"),
		StaticDir: cfg.Server.Static,
		ImagesDir: cfg.Server.Images,
	}
	if cfg.Ledger.Stats {
		deps.Stats = led
	}
	srv, err := server.New(deps)
	if err != nil {
		return err
	}

	if ln == nil {
		if ln, err = net.Listen("tcp", ":"+cfg.Server.Port); err != nil {
			return err
		}
	}
	hs := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(ln) }()
	logger.Info("Listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
