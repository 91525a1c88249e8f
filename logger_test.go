package simgo

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	path := filepath.Join(t.TempDir(), "names.sim")
	buildIndex(t, path, []string{"abcde", "abcdf", "xyz"}, WithLogger(logger))

	r, err := Open(path, WithLogger(logger))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Retrieve(context.Background(), "abcde", Dice, 0.6)
	require.NoError(t, err)

	out := buf.String()
	for _, msg := range []string{"index build started", "index finalized", "index opened", "retrieve completed", "bucket loaded"} {
		assert.Contains(t, out, `"msg":"`+msg+`"`)
	}
	assert.Contains(t, out, `"path":"`+path+`"`)
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))

	o := applyOptions([]Option{WithLogger(nil)})
	assert.NotNil(t, o.logger)
}
