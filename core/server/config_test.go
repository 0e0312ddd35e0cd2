package server_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopfront/core/server"
)

func TestConfigAddr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ":3000", server.DefaultConfig().Addr())
	assert.Equal(t, "127.0.0.1:8080", server.Config{Host: "127.0.0.1", Port: 8080}.Addr())
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		srv, err := server.NewFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, ":3000", srv.Addr())
	})

	t.Run("custom values", func(t *testing.T) {
		t.Parallel()
		srv, err := server.NewFromConfig(server.Config{
			Host:            "127.0.0.1",
			Port:            9000,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    20 * time.Second,
			IdleTimeout:     30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxHeaderBytes:  2 << 20,
		})
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9000", srv.Addr())
	})

	t.Run("invalid port", func(t *testing.T) {
		t.Parallel()
		_, err := server.NewFromConfig(server.Config{Port: 70000})
		assert.ErrorIs(t, err, server.ErrMissingAddress)
	})
}
