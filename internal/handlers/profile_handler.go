package handlers

import (
	"net/http"

	"task_analytics/internal/auth"
	"task_analytics/internal/services"
	"task_analytics/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileSync
	verifier auth.Verifier
}

func NewProfileHandler(users services.UserService, verifier auth.Verifier) *ProfileHandler {
	return &ProfileHandler{profileSync: profileSync{users: users}, verifier: verifier}
}

// Me handles GET /api/me: the caller's stored profile, refreshed from the
// verified identity first.
func (h *ProfileHandler) Me(c *gin.Context) {
	h.sync(c)
	user, err := h.users.GetUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err, apierrors.MsgFailProfile)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout handles POST /api/auth/logout. Tokens are issued and revoked by the
// identity provider; this only drops the cached verification so a revoked
// token stops working here immediately.
func (h *ProfileHandler) Logout(c *gin.Context) {
	token, _ := auth.BearerToken(c.GetHeader("Authorization"))
	if err := auth.Forget(c.Request.Context(), h.verifier, token); err != nil {
		writeError(c, err, apierrors.MsgFailLogout)
		return
	}
	c.Status(http.StatusNoContent)
}
