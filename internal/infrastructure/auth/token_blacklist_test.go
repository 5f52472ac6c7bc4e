package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vclothes/backend/internal/infrastructure/auth"
)

func TestInMemoryBlacklistRevokesByJTI(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-revoked", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-revoked")
	require.NoError(t, err)
	assert.True(t, revoked)

	other, err := blacklist.IsBlacklisted(ctx, "jti-still-good")
	require.NoError(t, err)
	assert.False(t, other)
}

func TestInMemoryBlacklistEntryExpires(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-short", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-short")
	require.NoError(t, err)
	assert.False(t, revoked, "entries lapse with the token's own expiry")
}

func TestInMemoryBlacklistUserInvalidation(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	issuedBefore := time.Now().Add(-time.Minute)
	require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "user-1", time.Hour))

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.True(t, invalidated, "tokens issued before the stamp die")

	fresh, err := blacklist.IsUserTokenInvalidated(ctx, "user-1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, fresh, "tokens issued after the stamp survive")

	untouched, err := blacklist.IsUserTokenInvalidated(ctx, "user-2", issuedBefore)
	require.NoError(t, err)
	assert.False(t, untouched, "other users are unaffected")
}

func TestInMemoryBlacklistConcurrentAccess(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = blacklist.AddToBlacklist(ctx, "jti-contended", time.Hour)
		}
	}()
	for i := 0; i < 100; i++ {
		_, err := blacklist.IsBlacklisted(ctx, "jti-contended")
		assert.NoError(t, err)
	}
	<-done
}
