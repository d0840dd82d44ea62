package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"task_analytics/internal/analytics"
	"task_analytics/internal/auth"
	"task_analytics/internal/models"
	"task_analytics/internal/report"
	"task_analytics/internal/services"
	"task_analytics/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics   services.AnalyticsService
	activities  services.ActivityService
	preferences services.PreferenceService
}

func NewAnalyticsHandler(analytics services.AnalyticsService, activities services.ActivityService, preferences services.PreferenceService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, activities: activities, preferences: preferences}
}

type recordActivityRequest struct {
	TaskID      jsonID  `json:"taskId"`
	Action      string  `json:"action"`
	OldStatus   *string `json:"oldStatus"`
	NewStatus   *string `json:"newStatus"`
	OldPriority *int    `json:"oldPriority"`
	NewPriority *int    `json:"newPriority"`
}

func (h *AnalyticsHandler) RecordActivity(c *gin.Context) {
	var req recordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	activity, err := h.activities.RecordActivity(c.Request.Context(), auth.UserID(c), services.ActivityInput{
		TaskID:      uint(req.TaskID),
		Action:      strings.TrimSpace(req.Action),
		OldStatus:   req.OldStatus,
		NewStatus:   req.NewStatus,
		OldPriority: req.OldPriority,
		NewPriority: req.NewPriority,
	})
	if err != nil {
		writeError(c, err, apierrors.MsgFailActivities)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// ListActivities handles GET /api/analytics/activities with optional
// startDate, endDate, taskId and action filters.
func (h *AnalyticsHandler) ListActivities(c *gin.Context) {
	loc := h.analytics.Location()
	var q services.ActivityQuery

	if raw := c.Query("startDate"); raw != "" {
		from, err := analytics.ParseTime(raw, loc)
		if err != nil {
			badRequest(c, apierrors.MsgInvalidDate)
			return
		}
		from = from.UTC()
		q.From = &from
	}
	if raw := c.Query("endDate"); raw != "" {
		to, err := analytics.ParseEndTime(raw, loc)
		if err != nil {
			badRequest(c, apierrors.MsgInvalidDate)
			return
		}
		to = to.UTC()
		q.To = &to
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		badRequest(c, apierrors.MsgInvertedDates)
		return
	}

	taskID, ok := optionalQueryID(c, "taskId")
	if !ok {
		return
	}
	q.TaskID = taskID
	if action := strings.TrimSpace(c.Query("action")); action != "" {
		q.Action = &action
	}

	activities, err := h.activities.ListActivities(c.Request.Context(), auth.UserID(c), q)
	if err != nil {
		writeError(c, err, apierrors.MsgFailActivities)
		return
	}
	c.JSON(http.StatusOK, activities)
}

// Dashboard handles GET /api/analytics/dashboard?timeRange=
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.analytics.Dashboard(c.Request.Context(), auth.UserID(c), strings.TrimSpace(c.Query("timeRange")))
	if err != nil {
		writeError(c, err, apierrors.MsgFailDashboard)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// Report handles GET /api/analytics/reports. JSON is the default; csv
// answers with an attachment named after the report type.
func (h *AnalyticsHandler) Report(c *gin.Context) {
	window, err := analytics.ParseReportWindow(c.Query("startDate"), c.Query("endDate"), h.analytics.Location())
	if err != nil {
		writeError(c, err, apierrors.MsgFailReport)
		return
	}
	reportType, err := report.ParseType(c.Query("type"))
	if err != nil {
		writeError(c, err, apierrors.MsgFailReport)
		return
	}
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		writeError(c, err, apierrors.MsgFailReport)
		return
	}

	ctx := c.Request.Context()
	userID := auth.UserID(c)
	var data interface{}
	switch reportType {
	case report.TypeProject:
		projectID, ok := optionalQueryID(c, "projectId")
		if !ok {
			return
		}
		data, err = h.analytics.ProjectReport(ctx, userID, projectID, window)
	case report.TypeTeam:
		data, err = h.analytics.TeamReport(ctx, userID, window)
	default:
		data, err = h.analytics.ProductivityReport(ctx, userID, window)
	}
	if err != nil {
		writeError(c, err, apierrors.MsgFailReport)
		return
	}

	if format == report.FormatJSON {
		c.JSON(http.StatusOK, data)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, data); err != nil {
		writeError(c, err, apierrors.MsgFailReport)
		return
	}
	c.Header("Content-Disposition", report.ContentDisposition(reportType))
	c.Data(http.StatusOK, report.CSVContentType, buf.Bytes())
}

func (h *AnalyticsHandler) GetPreferences(c *gin.Context) {
	pref, err := h.preferences.GetPreferences(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err, apierrors.MsgFailPreferences)
		return
	}
	c.JSON(http.StatusOK, pref)
}

// UpdatePreferences applies only the fields present in the body. A null
// dashboardLayout clears it.
func (h *AnalyticsHandler) UpdatePreferences(c *gin.Context) {
	body, ok := bindRawBody(c)
	if !ok {
		return
	}

	var in services.UpdatePreferenceInput
	var enabled bool
	var timeRange string
	if ok, err := body.decode("dataCollectionEnabled", &enabled); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	} else if ok {
		in.DataCollectionEnabled = &enabled
	}
	if ok, err := body.decode("defaultTimeRange", &timeRange); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	} else if ok {
		in.DefaultTimeRange = &timeRange
	}
	if body.has("dashboardLayout") {
		in.DashboardLayoutSet = true
		if !body.isNull("dashboardLayout") {
			in.DashboardLayout = models.JSON(body["dashboardLayout"])
		}
	}

	pref, err := h.preferences.UpdatePreferences(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		writeError(c, err, apierrors.MsgFailPreferences)
		return
	}
	c.JSON(http.StatusOK, pref)
}
