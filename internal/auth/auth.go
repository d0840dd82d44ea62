// Package auth resolves bearer tokens to identities and guards the API
// routes with them.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"task_analytics/internal/middleware"
	"task_analytics/internal/models"
	"task_analytics/pkg/apierrors"
	"task_analytics/pkg/supabase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "identity"

// ErrUnauthorized covers every reason a token cannot be turned into an
// identity.
var ErrUnauthorized = errors.New("unauthorized")

type Identity struct {
	UserID    string  `json:"userId"`
	Email     string  `json:"email"`
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// Profile is the users row this identity should be synced to.
func (i *Identity) Profile() *models.User {
	return &models.User{ID: i.UserID, Email: i.Email, Name: i.Name, AvatarURL: i.AvatarURL}
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

type supabaseVerifier struct {
	client *supabase.Client
}

func NewSupabaseVerifier(client *supabase.Client) Verifier {
	return &supabaseVerifier{client: client}
}

func (v *supabaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	user, err := v.client.GetUser(ctx, token)
	if errors.Is(err, supabase.ErrInvalidToken) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	identity := &Identity{UserID: user.ID, Email: user.Email}
	if name := user.DisplayName(); name != "" {
		identity.Name = &name
	}
	if avatar := user.UserMetadata.AvatarURL; avatar != "" {
		identity.AvatarURL = &avatar
	}
	return identity, nil
}

// Middleware rejects the request with 401 unless it carries a token the
// verifier accepts. Verification outages are logged but still answered 401.
func Middleware(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}
		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrUnauthorized) {
				zap.L().Error("token verification failed",
					zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
			}
			abortUnauthorized(c)
			return
		}
		c.Set(identityKey, identity)
		c.Set(middleware.UserIDKey, identity.UserID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.CreateError(apierrors.MsgUnauthorized, middleware.GetLang(c)))
}

func CurrentIdentity(c *gin.Context) *Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(*Identity); ok {
			return identity
		}
	}
	return nil
}

func UserID(c *gin.Context) string {
	if identity := CurrentIdentity(c); identity != nil {
		return identity.UserID
	}
	return ""
}

// Forget evicts token from v's cache when v keeps one.
func Forget(ctx context.Context, v Verifier, token string) error {
	if f, ok := v.(Forgetter); ok {
		return f.Forget(ctx, token)
	}
	return nil
}
