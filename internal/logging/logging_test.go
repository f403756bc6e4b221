package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	l := New("debug").With("service", "test")
	ctx := IntoContext(context.Background(), l)
	require.Same(t, l, FromContext(ctx))
}

func TestFromContextDefault(t *testing.T) {
	require.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestNewLevels(t *testing.T) {
	ctx := context.Background()
	require.True(t, New("debug").Enabled(ctx, slog.LevelDebug))
	require.False(t, New("").Enabled(ctx, slog.LevelDebug))
	require.False(t, New("warn").Enabled(ctx, slog.LevelInfo))
	require.True(t, New("ERROR").Enabled(ctx, slog.LevelError))
}

func TestForService(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ForService(base, "loja_grid").Info("started")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "loja_grid", line["service"])

	require.Same(t, base, ForService(base, ""))
}
