package ctxlogger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandlerAddsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ContextHandler{slog.NewJSONHandler(&buf, nil)}).With("service", "frequency")

	ctx := AppendCtx(context.Background(), slog.String("request_id", "r1"))
	child := AppendCtx(ctx, slog.String("connection_id", "c1"))
	logger.InfoContext(child, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "r1", record["request_id"])
	assert.Equal(t, "c1", record["connection_id"])
	assert.Equal(t, "frequency", record["service"])

	buf.Reset()
	logger.InfoContext(ctx, "parent")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, buf.String(), "connection_id")
}
