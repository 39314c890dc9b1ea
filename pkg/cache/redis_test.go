package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("empty url disables redis", func(t *testing.T) {
		client, err := NewRedisClient(context.Background(), "")
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("invalid url", func(t *testing.T) {
		client, err := NewRedisClient(context.Background(), "http://not-redis")
		assert.Error(t, err)
		assert.Nil(t, client)
	})
}
