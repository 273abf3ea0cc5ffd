package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	require.NoError(t, Init("", "", 0))
	assert.False(t, Enabled())

	ctx := context.Background()
	require.NoError(t, SetObject(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	found, err := GetObject(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, out)

	assert.NoError(t, Delete(ctx, "k"))
	assert.NoError(t, DeleteMatching(ctx, "k:*"))
	assert.NoError(t, Close())
}

func TestInitFailsOnUnreachableRedis(t *testing.T) {
	err := Init("127.0.0.1:1", "", 0)
	assert.Error(t, err)
	assert.False(t, Enabled())
}
