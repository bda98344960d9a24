package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "")
	ctx := context.Background()

	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "overlap:x:30", &dest), appErrors.ErrCacheMiss)
	require.NoError(t, repo.Set(ctx, "overlap:x:30", map[string]int{"a": 1}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "overlap:*"))
	require.NoError(t, repo.Ping(ctx))
}

func TestCacheRepositoryKeyPrefix(t *testing.T) {
	assert.Equal(t, "sma-timetable:overlap:x:30", NewCacheRepository(nil, "").key("overlap:x:30"))
	assert.Equal(t, "t1:overlap:*", NewCacheRepository(nil, "t1:").key("overlap:*"))
}
