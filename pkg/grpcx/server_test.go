package grpcx_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/evgeniy-krivenko/notes-query/pkg/grpcx"
)

type healthService struct {
	*health.Server
}

func (s healthService) RegisterService(reg grpc.ServiceRegistrar) {
	healthpb.RegisterHealthServer(reg, s.Server)
}

func serve(t *testing.T, opts ...grpcx.OptOptionsSetter) healthpb.HealthClient {
	t.Helper()

	opts = append(opts, grpcx.WithServices(healthService{Server: health.NewServer()}))
	srv, err := grpcx.New(grpcx.NewOptions("localhost:50051", opts...))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func TestNewValidates(t *testing.T) {
	_, err := grpcx.New(grpcx.NewOptions("localhost:50051"))
	assert.Error(t, err, "no services")

	_, err = grpcx.New(grpcx.NewOptions("", grpcx.WithServices(healthService{Server: health.NewServer()})))
	assert.Error(t, err)
}

func TestInterceptorsRunInOrder(t *testing.T) {
	var calls []string
	mark := func(name string) grpc.UnaryServerInterceptor {
		return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
			calls = append(calls, name)
			return h(ctx, req)
		}
	}

	client := serve(t, grpcx.WithInterceptors(mark("first"), mark("second")))

	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPanicBecomesInternal(t *testing.T) {
	client := serve(t, grpcx.WithInterceptors(
		func(context.Context, any, *grpc.UnaryServerInfo, grpc.UnaryHandler) (any, error) {
			panic("boom")
		},
	))

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))
}
