package db

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryHook_AfterQuery(t *testing.T) {
	var buf bytes.Buffer
	hook := NewQueryHook(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	event := &pg.QueryEvent{Query: "SELECT 1", StartTime: time.Now()}
	ctx, err := hook.BeforeQuery(context.Background(), event)
	require.NoError(t, err)
	require.NoError(t, hook.AfterQuery(ctx, event))

	assert.Contains(t, buf.String(), "SQL query executed")
	assert.Contains(t, buf.String(), "SELECT 1")
}

func TestQueryHook_UnsupportedQuery(t *testing.T) {
	var buf bytes.Buffer
	hook := NewQueryHook(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	require.NoError(t, hook.AfterQuery(context.Background(), &pg.QueryEvent{Query: 42}))
	assert.Contains(t, buf.String(), "failed to format query")
}
