package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/logger"
)

type ctxKey struct{}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json output with service attrs", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("shop"), logger.WithOutput(&buf))
		log.Info("hello", logger.Component("test"))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["msg"])
		assert.Equal(t, "shop", line["service"])
		assert.Equal(t, "production", line["env"])
		assert.Equal(t, "test", line["component"])
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithLevelName("warn"), logger.WithOutput(&buf))
		log.Info("dropped")
		assert.Empty(t, buf.String())
		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("unknown level name keeps default", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithLevelName("loud"), logger.WithOutput(&buf))
		log.Info("visible")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("context extractors", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(
			logger.WithProduction("shop"),
			logger.WithOutput(&buf),
			logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
				id, ok := ctx.Value(ctxKey{}).(string)
				return logger.RequestID(id), ok
			}),
		)
		ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
		log.With(logger.Component("x")).InfoContext(ctx, "with id")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "req-1", line["request_id"])
		assert.Equal(t, "x", line["component"])
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	assert.Equal(t, "error", logger.Error(err).Key)
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
	assert.Len(t, logger.Errors(err, nil, err).Value.Group(), 2)

	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.UserID("").Equal(slog.Attr{}))
	assert.Equal(t, "u1", logger.UserID("u1").Value.String())
	assert.Equal(t, int64(200), logger.StatusCode(200).Value.Int64())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.True(t, logger.Key("k", nil).Equal(slog.Attr{}))
	assert.Equal(t, "order_id", logger.Key("order_id", "o1").Key)
}
