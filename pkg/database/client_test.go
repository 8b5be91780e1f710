package database_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evgeniy-krivenko/notes-query/pkg/database"
)

func TestOptionsValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts database.Options
		ok   bool
	}{
		{
			name: "valid",
			opts: database.NewOptions("localhost:5432", "notes", "secret", "notes"),
			ok:   true,
		},
		{
			name: "address without port",
			opts: database.NewOptions("localhost", "notes", "secret", "notes"),
		},
		{
			name: "missing password",
			opts: database.NewOptions("localhost:5432", "notes", "", "notes"),
		},
		{
			name: "too many attempts",
			opts: database.NewOptions("localhost:5432", "notes", "secret", "notes", database.WithRetryAttempts(50)),
		},
		{
			name: "pool too large",
			opts: database.NewOptions("localhost:5432", "notes", "secret", "notes", database.WithMaxConns(100)),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

type warnings struct {
	n int
}

func (w *warnings) Warn(context.Context, string, ...slog.Attr) { w.n++ }

func TestNewPGXGivesUpOnUnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	w := &warnings{}
	_, err := database.NewPGX(ctx, database.NewOptions(
		"127.0.0.1:1", "notes", "secret", "notes",
		database.WithRetryAttempts(2),
		database.WithRetryDelay(10*time.Millisecond),
		database.WithLogger(w),
	))
	require.Error(t, err)
	assert.GreaterOrEqual(t, w.n, 1)
}
