package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unisocial_server/pkg/errorx"
)

func TestLocalCacheExpiry(t *testing.T) {
	ctx := context.Background()
	l := NewLocalCache()

	require.NoError(t, l.Set(ctx, "user_token:U1", "t1", 50*time.Millisecond))
	require.NoError(t, l.Set(ctx, "forever", "v", 0))

	v, err := l.GetOrError(ctx, "user_token:U1")
	require.NoError(t, err)
	assert.Equal(t, "t1", v)

	assert.Eventually(t, func() bool {
		v, err := l.Get(ctx, "user_token:U1")
		return err == nil && v == ""
	}, 2*time.Second, 10*time.Millisecond)
	_, err = l.GetOrError(ctx, "user_token:U1")
	assert.True(t, errorx.IsNotFound(err))

	v, _ = l.Get(ctx, "forever")
	assert.Equal(t, "v", v)
}

func TestLocalCacheDeleteByPattern(t *testing.T) {
	ctx := context.Background()
	l := NewLocalCache()
	for _, k := range []string{"club_info_C1:0", "club_info_C2:3", "user_token:U1"} {
		require.NoError(t, l.Set(ctx, k, "x", 0))
	}

	require.NoError(t, l.DeleteByPattern(ctx, "club_info_*"))
	_, err := l.GetOrError(ctx, "club_info_C1:0")
	assert.Error(t, err)
	_, err = l.GetOrError(ctx, "club_info_C2:3")
	assert.Error(t, err)
	_, err = l.GetOrError(ctx, "user_token:U1")
	assert.NoError(t, err)

	assert.Equal(t, errorx.CodeCacheError, errorx.GetCode(l.DeleteByPattern(ctx, "[")))
}

func TestLocalCacheIncr(t *testing.T) {
	ctx := context.Background()
	l := NewLocalCache()

	n, err := l.Incr(ctx, "club_ver_C1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = l.Incr(ctx, "club_ver_C1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	v, err := l.Get(ctx, "club_ver_C1")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	require.NoError(t, l.Set(ctx, "plain", "abc", 0))
	_, err = l.Incr(ctx, "plain")
	assert.Equal(t, errorx.CodeCacheError, errorx.GetCode(err))
}

func TestLocalCacheSubmitTaskRunsInline(t *testing.T) {
	l := NewLocalCache()
	ran := false
	l.SubmitTask(func() { ran = true })
	assert.True(t, ran)
}

func TestClubInfoKeyFollowsVersion(t *testing.T) {
	ctx := context.Background()
	l := NewLocalCache()

	k0, err := ClubInfoKey(ctx, l, "C1")
	require.NoError(t, err)
	assert.Equal(t, "club_info_C1:0", k0)

	require.NoError(t, InvalidateClub(ctx, l, "C1"))
	k1, err := ClubInfoKey(ctx, l, "C1")
	require.NoError(t, err)
	assert.Equal(t, "club_info_C1:1", k1)

	// 其它社团不受影响
	other, err := ClubInfoKey(ctx, l, "C2")
	require.NoError(t, err)
	assert.Equal(t, "club_info_C2:0", other)
}
