package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	blacklist := NewInMemoryTokenBlacklist()
	blacklist.now = func() time.Time { return now }

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Minute))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entries drop once the token would have expired anyway")
}

func TestInMemoryTokenBlacklist_IgnoresExpiredTokens(t *testing.T) {
	ctx := context.Background()
	blacklist := NewInMemoryTokenBlacklist()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", 0))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNewTokenBlacklist_WithoutClient(t *testing.T) {
	assert.IsType(t, &InMemoryTokenBlacklist{}, NewTokenBlacklist(nil))
}
