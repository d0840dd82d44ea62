package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task_analytics/internal/middleware"
	"task_analytics/pkg/supabase"
	"task_analytics/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{})
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	args := m.Called(ctx, token)
	identity, _ := args.Get(0).(*Identity)
	return identity, args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetIdentity(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	if fill, ok := args.Get(2).(func(interface{})); ok && fill != nil {
		fill(dest)
	}
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) SetIdentity(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) DeleteIdentity(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

var cacheNow = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

// signedToken builds an HS256 token; verification never checks the signature
// locally, only exp is read.
func signedToken(t *testing.T, exp *time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "u1"}
	if exp != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*exp)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newCachedVerifier(next Verifier, cache IdentityCache, ttl time.Duration, now *time.Time) Verifier {
	v := NewCachedVerifier(next, cache, ttl)
	v.(*cachedVerifier).now = func() time.Time { return *now }
	return v
}

func timePtr(t time.Time) *time.Time { return &t }

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"valid":          {"Bearer abc.def", "abc.def", true},
		"lowercase":      {"bearer abc", "abc", true},
		"missing":        {"", "", false},
		"basic":          {"Basic dXNlcjpwYXNz", "", false},
		"empty token":    {"Bearer   ", "", false},
		"no separator":   {"Bearerabc", "", false},
		"embedded space": {"Bearer a b", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			token, ok := BearerToken(tc.header)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func newRouter(v Verifier) *gin.Engine {
	r := gin.New()
	r.Use(middleware.LanguageMiddleware())
	r.GET("/me", Middleware(v), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserID(c), "email": CurrentIdentity(c).Email})
	})
	return r
}

func TestMiddleware(t *testing.T) {
	v := new(mockVerifier)
	v.On("Verify", mock.Anything, "good").Return(&Identity{UserID: "u1", Email: "a@b.c"}, nil)
	v.On("Verify", mock.Anything, "bad").Return(nil, ErrUnauthorized)
	v.On("Verify", mock.Anything, "outage").Return(nil, errors.New("dial tcp: refused"))
	r := newRouter(v)

	for header, want := range map[string]int{
		"":              http.StatusUnauthorized,
		"Token good":    http.StatusUnauthorized,
		"Bearer bad":    http.StatusUnauthorized,
		"Bearer outage": http.StatusUnauthorized,
		"Bearer good":   http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, want, w.Code, header)
		if want == http.StatusUnauthorized {
			assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
		} else {
			assert.JSONEq(t, `{"userId":"u1","email":"a@b.c"}`, w.Body.String())
		}
	}
	v.AssertNotCalled(t, "Verify", mock.Anything, "Token good")
}

func TestMiddleware_TranslatesMessage(t *testing.T) {
	r := newRouter(new(mockVerifier))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Accept-Language", "ja")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"error":"認証されていません"}`, w.Body.String())
}

func TestSupabaseVerifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"u1","email":"ann@example.com","user_metadata":{"name":"Ann"}}`))
	}))
	defer server.Close()

	v := NewSupabaseVerifier(supabase.NewClient(server.URL, "key", time.Second))
	identity, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)
	assert.Equal(t, "Ann", *identity.Name)
	assert.Nil(t, identity.AvatarURL)
	assert.Equal(t, "u1", identity.Profile().ID)

	_, err = v.Verify(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCachedVerifier_HitSkipsUpstream(t *testing.T) {
	ctx := context.Background()
	next := new(mockVerifier)
	cache := new(mockCache)
	now := cacheNow
	token := signedToken(t, timePtr(now.Add(time.Hour)))
	key := tokenKey(token)
	require.Len(t, key, 64)
	require.NotContains(t, key, token)

	cache.On("GetIdentity", ctx, key, mock.Anything).Return(true, nil, func(dest interface{}) {
		*dest.(*Identity) = Identity{UserID: "u1"}
	})

	identity, err := newCachedVerifier(next, cache, time.Minute, &now).Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)
	next.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestCachedVerifier_MissStoresIdentity(t *testing.T) {
	ctx := context.Background()
	next := new(mockVerifier)
	cache := new(mockCache)
	identity := &Identity{UserID: "u1"}
	now := cacheNow
	token := signedToken(t, timePtr(now.Add(time.Hour)))

	cache.On("GetIdentity", ctx, tokenKey(token), mock.Anything).Return(false, nil, nil)
	cache.On("SetIdentity", ctx, tokenKey(token), identity, time.Minute).Return(nil)
	next.On("Verify", ctx, token).Return(identity, nil)

	got, err := newCachedVerifier(next, cache, time.Minute, &now).Verify(ctx, token)
	require.NoError(t, err)
	assert.Same(t, identity, got)
	cache.AssertExpectations(t)
}

func TestCachedVerifier_TTLStopsAtTokenExpiry(t *testing.T) {
	ctx := context.Background()
	next := new(mockVerifier)
	cache := new(mockCache)
	now := cacheNow
	token := signedToken(t, timePtr(now.Add(90*time.Second)))

	cache.On("GetIdentity", ctx, tokenKey(token), mock.Anything).Return(false, nil, nil)
	cache.On("SetIdentity", ctx, tokenKey(token), mock.Anything, 90*time.Second).Return(nil)
	next.On("Verify", ctx, token).Return(&Identity{UserID: "u1"}, nil)

	_, err := newCachedVerifier(next, cache, 5*time.Minute, &now).Verify(ctx, token)
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestCachedVerifier_ExpiredTokenIsNotServedFromCache(t *testing.T) {
	ctx := context.Background()
	next := new(mockVerifier)
	cache := new(mockCache)
	now := cacheNow
	token := signedToken(t, timePtr(now.Add(time.Minute)))
	key := tokenKey(token)

	calls := 0
	next.On("Verify", ctx, token).Return(&Identity{UserID: "u1"}, nil).Once()
	next.On("Verify", ctx, token).Return(nil, ErrUnauthorized).Run(func(mock.Arguments) { calls++ })
	cache.On("GetIdentity", ctx, key, mock.Anything).Return(false, nil, nil).Once()
	cache.On("SetIdentity", ctx, key, mock.Anything, time.Minute).Return(nil).Once()
	cache.On("GetIdentity", ctx, key, mock.Anything).Return(true, nil, func(dest interface{}) {
		*dest.(*Identity) = Identity{UserID: "u1"}
	})

	v := newCachedVerifier(next, cache, 5*time.Minute, &now)
	identity, err := v.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)

	// A stale entry left behind by a store that ignores TTLs must not count.
	now = now.Add(2 * time.Minute)
	_, err = v.Verify(ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, calls)
	cache.AssertNumberOfCalls(t, "GetIdentity", 1)
}

func TestCachedVerifier_TokensWithoutExpiryBypassCache(t *testing.T) {
	ctx := context.Background()
	next := new(mockVerifier)
	cache := new(mockCache)
	now := cacheNow
	token := signedToken(t, nil)

	next.On("Verify", ctx, token).Return(&Identity{UserID: "u1"}, nil)
	next.On("Verify", ctx, "opaque").Return(&Identity{UserID: "u2"}, nil)

	v := newCachedVerifier(next, cache, time.Minute, &now)
	_, err := v.Verify(ctx, token)
	require.NoError(t, err)
	_, err = v.Verify(ctx, "opaque")
	require.NoError(t, err)
	cache.AssertNotCalled(t, "GetIdentity", mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "SetIdentity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedVerifier_DegradesAndEvictsRejections(t *testing.T) {
	ctx := context.Background()
	next := new(mockVerifier)
	cache := new(mockCache)
	now := cacheNow
	good := signedToken(t, timePtr(now.Add(time.Hour)))
	bad := signedToken(t, timePtr(now.Add(2*time.Hour)))

	cache.On("GetIdentity", ctx, mock.Anything, mock.Anything).Return(false, errors.New("redis down"), nil)
	cache.On("SetIdentity", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	cache.On("DeleteIdentity", ctx, tokenKey(bad)).Return(nil)
	next.On("Verify", ctx, good).Return(&Identity{UserID: "u1"}, nil)
	next.On("Verify", ctx, bad).Return(nil, ErrUnauthorized)

	v := newCachedVerifier(next, cache, time.Minute, &now)
	identity, err := v.Verify(ctx, good)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)

	_, err = v.Verify(ctx, bad)
	assert.ErrorIs(t, err, ErrUnauthorized)
	cache.AssertNumberOfCalls(t, "SetIdentity", 1)
	cache.AssertCalled(t, "DeleteIdentity", ctx, tokenKey(bad))
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	cache := new(mockCache)
	now := cacheNow
	token := signedToken(t, timePtr(now.Add(time.Hour)))
	cache.On("DeleteIdentity", ctx, tokenKey(token)).Return(nil)

	require.NoError(t, Forget(ctx, newCachedVerifier(new(mockVerifier), cache, time.Minute, &now), token))
	cache.AssertExpectations(t)

	require.NoError(t, Forget(ctx, new(mockVerifier), token), "uncached verifiers have nothing to forget")
}

func TestNewCachedVerifier_Disabled(t *testing.T) {
	next := new(mockVerifier)
	assert.Same(t, next, NewCachedVerifier(next, nil, time.Minute))
	assert.Same(t, next, NewCachedVerifier(next, new(mockCache), 0))
}
