// Package handlers exposes the services over HTTP. Every handler answers
// failures with {"error": "<translated message>"}.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"task_analytics/internal/analytics"
	"task_analytics/internal/auth"
	"task_analytics/internal/middleware"
	"task_analytics/internal/report"
	"task_analytics/internal/services"
	"task_analytics/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorMapping struct {
	err    error
	status int
	msgKey string
}

var errorTable = []errorMapping{
	{services.ErrForbidden, http.StatusForbidden, apierrors.MsgForbidden},
	{services.ErrTaskNotFound, http.StatusNotFound, apierrors.MsgTaskNotFound},
	{services.ErrProjectNotFound, http.StatusNotFound, apierrors.MsgProjectNotFound},
	{services.ErrTagNotFound, http.StatusNotFound, apierrors.MsgTagNotFound},
	{services.ErrGoalNotFound, http.StatusNotFound, apierrors.MsgGoalNotFound},
	{services.ErrTaskTagNotFound, http.StatusNotFound, apierrors.MsgTaskTagNotFound},
	{services.ErrTagNameTaken, http.StatusConflict, apierrors.MsgTagNameTaken},
	{services.ErrTaskTagExists, http.StatusConflict, apierrors.MsgTaskTagExists},
	{analytics.ErrMissingDate, http.StatusBadRequest, apierrors.MsgDatesRequired},
	{analytics.ErrInvalidDate, http.StatusBadRequest, apierrors.MsgInvalidDate},
	{analytics.ErrInvertedWindow, http.StatusBadRequest, apierrors.MsgInvertedDates},
	{report.ErrUnknownType, http.StatusBadRequest, apierrors.MsgInvalidReportType},
	{report.ErrUnknownFormat, http.StatusBadRequest, apierrors.MsgInvalidFormat},
}

// writeError maps a service error onto a status and message. Anything not in
// the table is logged and answered with failKey as a 500.
func writeError(c *gin.Context, err error, failKey string) {
	lang := middleware.GetLang(c)

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, apierrors.CreateError(verr.Key, lang))
		return
	}
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			c.JSON(m.status, apierrors.CreateError(m.msgKey, lang))
			return
		}
	}

	_ = c.Error(err)
	zap.L().Error("request failed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", auth.UserID(c)),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, apierrors.CreateError(failKey, lang))
}

func badRequest(c *gin.Context, msgKey string) {
	c.JSON(http.StatusBadRequest, apierrors.CreateError(msgKey, middleware.GetLang(c)))
}

// parseID reads a positive integer id. ok is false when the value is absent.
func parseID(raw string) (id uint, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, true, errors.New("invalid id")
	}
	return uint(n), true, nil
}

// requiredQueryID writes the 400 itself and returns ok=false on failure.
func requiredQueryID(c *gin.Context, key string) (uint, bool) {
	id, present, err := parseID(c.Query(key))
	switch {
	case !present:
		badRequest(c, apierrors.MsgMissingID)
		return 0, false
	case err != nil:
		badRequest(c, apierrors.MsgInvalidID)
		return 0, false
	}
	return id, true
}

// optionalQueryID returns nil when the parameter is absent.
func optionalQueryID(c *gin.Context, key string) (*uint, bool) {
	id, present, err := parseID(c.Query(key))
	if err != nil {
		badRequest(c, apierrors.MsgInvalidID)
		return nil, false
	}
	if !present {
		return nil, true
	}
	return &id, true
}

// parseIDList reads "1,2,3". Blank items are skipped.
func parseIDList(raw string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, present, err := parseID(part)
		if err != nil {
			return nil, err
		}
		if present {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// rawBody keeps each top-level field as raw JSON so an update can tell an
// absent field from an explicit null.
type rawBody map[string]json.RawMessage

func bindRawBody(c *gin.Context) (rawBody, bool) {
	var body rawBody
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return nil, false
	}
	return body, true
}

func (b rawBody) has(key string) bool {
	_, ok := b[key]
	return ok
}

func (b rawBody) isNull(key string) bool {
	raw, ok := b[key]
	return ok && strings.TrimSpace(string(raw)) == "null"
}

// decode fills dest when key is present and not null.
func (b rawBody) decode(key string, dest interface{}) (bool, error) {
	if !b.has(key) || b.isNull(key) {
		return false, nil
	}
	if err := json.Unmarshal(b[key], dest); err != nil {
		return false, err
	}
	return true, nil
}

// id reads key with parseRawID. present is false for absent, null, "" and 0.
func (b rawBody) id(key string) (uint, bool, error) {
	if !b.has(key) {
		return 0, false, nil
	}
	id, err := parseRawID(b[key])
	if err != nil {
		return 0, true, err
	}
	return id, id != 0, nil
}

// parseRawID accepts 12 and "12". null, "" and 0 all mean no id.
func parseRawID(raw []byte) (uint, error) {
	value := strings.TrimSpace(string(raw))
	if value == "null" {
		return 0, nil
	}
	value = strings.TrimSpace(strings.Trim(value, `"`))
	if value == "" || value == "0" {
		return 0, nil
	}
	id, _, err := parseID(value)
	return id, err
}

// jsonID is an id field in a bound request body. Zero means unset.
type jsonID uint

func (j *jsonID) UnmarshalJSON(data []byte) error {
	id, err := parseRawID(data)
	if err != nil {
		return err
	}
	*j = jsonID(id)
	return nil
}

func (j jsonID) ptr() *uint {
	if j == 0 {
		return nil
	}
	id := uint(j)
	return &id
}

// optionalTime parses a nullable timestamp field. set reports whether the
// field was sent at all.
func (b rawBody) optionalTime(key string, loc *time.Location) (value *time.Time, set bool, err error) {
	if !b.has(key) {
		return nil, false, nil
	}
	var raw string
	present, err := b.decode(key, &raw)
	if err != nil {
		return nil, true, err
	}
	if !present || strings.TrimSpace(raw) == "" {
		return nil, true, nil
	}
	t, err := analytics.ParseTime(raw, loc)
	if err != nil {
		return nil, true, err
	}
	t = t.UTC()
	return &t, true, nil
}

func parseOptionalTime(raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := analytics.ParseTime(*raw, loc)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

// profileSync refreshes the caller's users row on create requests. A failure
// never fails the request.
type profileSync struct {
	users services.UserService
}

func (p profileSync) sync(c *gin.Context) {
	identity := auth.CurrentIdentity(c)
	if p.users == nil || identity == nil {
		return
	}
	if err := p.users.SyncProfile(c.Request.Context(), identity.Profile()); err != nil {
		zap.L().Warn("failed to sync user profile",
			zap.String("user_id", identity.UserID), zap.Error(err))
	}
}
