// Package status reports the store connection state over HTTP and the gRPC health protocol.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/evgeniy-krivenko/notes-query/pkg/grpcx"
	"github.com/evgeniy-krivenko/notes-query/pkg/logger/slogx"
)

var _ grpcx.Service = (*Monitor)(nil)

type pinger interface {
	Ping(ctx context.Context) error
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.3 -out-filename=monitor_options.gen.go -from-struct=Options
type Options struct {
	pinger   pinger `option:"mandatory" validate:"required"`
	driver   string `option:"mandatory" validate:"required"`
	database string
	host     string

	interval    time.Duration `default:"5s" validate:"min=100ms"`
	pingTimeout time.Duration `default:"2s" validate:"min=10ms"`
	now         func() time.Time
}

// State is a snapshot of the store connection.
type State struct {
	Connected   bool
	Error       string
	Driver      string
	Database    string
	Host        string
	ConnectedAt time.Time
	CheckedAt   time.Time
}

type Monitor struct {
	Options

	startedAt time.Time
	health    *health.Server
	log       *slogx.Logger

	mu    sync.RWMutex
	state State
}

func New(opts Options) (*Monitor, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate status monitor options: %v", err)
	}

	if opts.now == nil {
		opts.now = time.Now
	}

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	return &Monitor{
		Options:   opts,
		startedAt: opts.now(),
		health:    hs,
		log: slogx.Default().With(
			slog.String("driver", opts.driver),
			slog.String("database", opts.database),
		),
		state: State{
			Driver:   opts.driver,
			Database: opts.database,
			Host:     opts.host,
		},
	}, nil
}

// RegisterService implements grpcx.Service.
func (m *Monitor) RegisterService(reg grpc.ServiceRegistrar) {
	healthpb.RegisterHealthServer(reg, m.health)
}

// Run checks the store until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.Check(ctx)

		select {
		case <-ctx.Done():
			m.health.Shutdown()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Check pings the store once and records the result.
func (m *Monitor) Check(ctx context.Context) State {
	pingCtx, cancel := context.WithTimeout(ctx, m.pingTimeout)
	err := m.pinger.Ping(pingCtx)
	cancel()

	now := m.now()

	m.mu.Lock()
	prev := m.state
	next := prev
	next.CheckedAt = now

	if err != nil {
		next.Connected = false
		next.Error = err.Error()
		next.ConnectedAt = time.Time{}
	} else {
		next.Connected = true
		next.Error = ""
		if !prev.Connected {
			next.ConnectedAt = now
		}
	}
	m.state = next
	m.mu.Unlock()

	if next.Connected != prev.Connected || prev.CheckedAt.IsZero() {
		m.report(ctx, next)
	}

	return next
}

func (m *Monitor) report(ctx context.Context, s State) {
	if s.Connected {
		m.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		m.log.Info(ctx, "store connected")
		return
	}

	m.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	m.log.Warn(ctx, "store disconnected", slog.String("err", s.Error))
}

func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state
}

func (m *Monitor) Uptime() time.Duration {
	return m.now().Sub(m.startedAt)
}
