package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// IdentityCache is satisfied by the Redis client.
type IdentityCache interface {
	GetIdentity(ctx context.Context, key string, dest interface{}) (bool, error)
	SetIdentity(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteIdentity(ctx context.Context, key string) error
}

// Forgetter is implemented by verifiers that remember tokens.
type Forgetter interface {
	Forget(ctx context.Context, token string) error
}

type cachedVerifier struct {
	next  Verifier
	cache IdentityCache
	ttl   time.Duration
	now   func() time.Time
}

// NewCachedVerifier remembers successful verifications for at most ttl and
// never past the token's exp claim. Tokens without exp bypass the cache,
// rejections are never cached, and a failing cache falls through to next.
func NewCachedVerifier(next Verifier, cache IdentityCache, ttl time.Duration) Verifier {
	if cache == nil || ttl <= 0 {
		return next
	}
	return &cachedVerifier{next: next, cache: cache, ttl: ttl, now: time.Now}
}

// tokenKey digests the token so raw credentials never reach the cache.
func tokenKey(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// tokenExpiry reads exp without checking the signature. The value only bounds
// how long a verification is reused; the provider stays the authority.
func tokenExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// cacheTTL is zero when the token must not be cached.
func (v *cachedVerifier) cacheTTL(token string) time.Duration {
	exp, ok := tokenExpiry(token)
	if !ok {
		return 0
	}
	remaining := exp.Sub(v.now())
	if remaining <= 0 {
		return 0
	}
	if remaining < v.ttl {
		return remaining
	}
	return v.ttl
}

func (v *cachedVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	ttl := v.cacheTTL(token)
	if ttl == 0 {
		return v.next.Verify(ctx, token)
	}
	key := tokenKey(token)

	var cached Identity
	found, err := v.cache.GetIdentity(ctx, key, &cached)
	switch {
	case err != nil:
		zap.L().Warn("identity cache read failed", zap.Error(err))
	case found && cached.UserID != "":
		return &cached, nil
	}

	identity, err := v.next.Verify(ctx, token)
	if errors.Is(err, ErrUnauthorized) {
		v.evict(ctx, key)
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if err := v.cache.SetIdentity(ctx, key, identity, ttl); err != nil {
		zap.L().Warn("identity cache write failed", zap.Error(err))
	}
	return identity, nil
}

// Forget drops the cached verification so the next request with token goes
// back to the provider.
func (v *cachedVerifier) Forget(ctx context.Context, token string) error {
	return v.cache.DeleteIdentity(ctx, tokenKey(token))
}

func (v *cachedVerifier) evict(ctx context.Context, key string) {
	if err := v.cache.DeleteIdentity(ctx, key); err != nil {
		zap.L().Warn("identity cache eviction failed", zap.Error(err))
	}
}
