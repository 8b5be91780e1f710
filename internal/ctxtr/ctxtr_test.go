package ctxtr_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/evgeniy-krivenko/notes-query/internal/ctxtr"
)

func TestMiddleware(t *testing.T) {
	var seen string
	h := ctxtr.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = ctxtr.RequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get(ctxtr.Header))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(ctxtr.Header, "abc")

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, "abc", seen)
		assert.Equal(t, "abc", rr.Header().Get(ctxtr.Header))
	})
}

func TestUnaryInterceptor(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(ctxtr.Header, "from-client"))

	_, err := ctxtr.UnaryInterceptor(ctx, nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, _ any) (any, error) {
		id, ok := ctxtr.RequestID(ctx)
		assert.True(t, ok)
		assert.Equal(t, "from-client", id)
		return nil, nil
	})
	require.NoError(t, err)
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ctxtr.LogHandler(slog.NewJSONHandler(&buf, nil)))

	logger.InfoContext(ctxtr.WithRequestID(context.Background(), "req-1"), "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "req-1", rec["request_id"])
}
