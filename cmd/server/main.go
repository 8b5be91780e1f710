package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/evgeniy-krivenko/notes-query/internal/api/notes"
	"github.com/evgeniy-krivenko/notes-query/internal/api/status"
	"github.com/evgeniy-krivenko/notes-query/internal/config"
	"github.com/evgeniy-krivenko/notes-query/internal/ctxtr"
	notesuc "github.com/evgeniy-krivenko/notes-query/internal/usecase/notes"
	"github.com/evgeniy-krivenko/notes-query/pkg/grpcx"
	"github.com/evgeniy-krivenko/notes-query/pkg/gwserver"
	"github.com/evgeniy-krivenko/notes-query/pkg/logger/slogx"
	"github.com/evgeniy-krivenko/notes-query/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("parse cfg: %v", err)
	}

	if err := slogx.InitGlobal(
		os.Stdout,
		cfg.App.LogLevel,
		cfg.App.Pretty,
		ctxtr.LogHandler,
	); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	m := metrics.New()

	st, closeStore, err := openStore(ctx, cfg.Database, m.Registerer())
	if err != nil {
		return fmt.Errorf("open %s store: %v", cfg.Database.Driver, err)
	}
	defer closeStore()

	uc, err := notesuc.New(notesuc.NewOptions(
		st,
		notesuc.WithDefaultLimit(cfg.App.DefaultLimit),
		notesuc.WithMaxLimit(cfg.App.MaxLimit),
	))
	if err != nil {
		return fmt.Errorf("init notes usecase: %v", err)
	}

	notesSvc, err := notes.New(notes.NewOptions(uc))
	if err != nil {
		return fmt.Errorf("init notes service: %v", err)
	}

	monitor, err := status.New(status.NewOptions(
		st,
		cfg.Database.Driver,
		status.WithDatabase(storeName(cfg.Database)),
		status.WithHost(storeHost(cfg.Database)),
		status.WithInterval(cfg.Database.MonitorInterval),
	))
	if err != nil {
		return fmt.Errorf("init status monitor: %v", err)
	}

	mux := http.NewServeMux()
	notesSvc.Register(mux)
	monitor.Register(mux)

	apiSrv, err := gwserver.New(gwserver.NewOptions(
		cfg.HTTP.Addr,
		mux,
		gwserver.WithLogger(slogx.Default()),
		gwserver.WithMiddlewares(
			gwserver.Recover(slogx.Default()),
			m.HTTPMiddleware,
			slogx.HTTPMiddleware,
			ctxtr.Middleware,
			gwserver.RateLimit(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst),
			gwserver.CORS(cfg.HTTP.AllowedOrigins),
		),
	))
	if err != nil {
		return fmt.Errorf("init api server: %v", err)
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", m.Handler())

	metricsSrv, err := gwserver.New(gwserver.NewOptions(
		cfg.MetricsHTTP.Addr,
		metricsMux,
		gwserver.WithLogger(slogx.Default()),
	))
	if err != nil {
		return fmt.Errorf("init metrics server: %v", err)
	}

	grpcSrv, err := grpcx.New(grpcx.NewOptions(
		cfg.GRPC.Addr,
		grpcx.WithServices(monitor),
		grpcx.WithLogger(slogx.Default()),
		grpcx.WithInterceptors(
			ctxtr.UnaryInterceptor,
			slogx.LoggingInterceptor,
			m.UnaryServerInterceptor,
		),
		grpcx.WithTime(cfg.GRPC.KeepaliveTime),
		grpcx.WithTimeout(cfg.GRPC.KeepaliveTimeout),
		grpcx.WithMaxConnIdle(cfg.GRPC.MaxConnIdle),
	))
	if err != nil {
		return fmt.Errorf("init grpc server: %v", err)
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error { return monitor.Run(ctx) })
	eg.Go(func() error { return apiSrv.Run(ctx) })
	eg.Go(func() error { return metricsSrv.Run(ctx) })
	eg.Go(func() error { return grpcSrv.Run(ctx) })

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("wait app stop: %v", err)
	}

	return nil
}
