package handlers

import (
	"net/http"
	"strconv"

	"task_analytics/internal/auth"
	"task_analytics/internal/services"
	"task_analytics/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	goals     services.GoalService
	analytics services.AnalyticsService
}

func NewGoalHandler(goals services.GoalService, analytics services.AnalyticsService) *GoalHandler {
	return &GoalHandler{goals: goals, analytics: analytics}
}

type createGoalRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	TargetType  string  `json:"targetType"`
	TargetValue float64 `json:"targetValue"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

// ListGoals handles GET /api/goals; ?active=true keeps goals that have not
// ended yet.
func (h *GoalHandler) ListGoals(c *gin.Context) {
	activeOnly := false
	if raw := c.Query("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, apierrors.MsgInvalidPayload)
			return
		}
		activeOnly = parsed
	}

	goals, err := h.goals.ListGoals(c.Request.Context(), auth.UserID(c), activeOnly)
	if err != nil {
		writeError(c, err, apierrors.MsgFailGoals)
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}
	loc := h.analytics.Location()
	startDate, err := parseOptionalTime(req.StartDate, loc)
	if err != nil {
		badRequest(c, apierrors.MsgInvalidDate)
		return
	}
	endDate, err := parseOptionalTime(req.EndDate, loc)
	if err != nil {
		badRequest(c, apierrors.MsgInvalidDate)
		return
	}

	goal, err := h.goals.CreateGoal(c.Request.Context(), auth.UserID(c), services.CreateGoalInput{
		Title:       req.Title,
		Description: req.Description,
		TargetType:  req.TargetType,
		TargetValue: req.TargetValue,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		writeError(c, err, apierrors.MsgFailGoals)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	body, ok := bindRawBody(c)
	if !ok {
		return
	}
	id, present, err := body.id("id")
	if !present {
		badRequest(c, apierrors.MsgMissingID)
		return
	}
	if err != nil {
		badRequest(c, apierrors.MsgInvalidID)
		return
	}

	in := services.UpdateGoalInput{ID: id}
	if err := decodeGoalUpdate(body, &in); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	loc := h.analytics.Location()
	if in.StartDate, _, err = body.optionalTime("startDate", loc); err != nil {
		badRequest(c, apierrors.MsgInvalidDate)
		return
	}
	if in.EndDate, in.EndDateSet, err = body.optionalTime("endDate", loc); err != nil {
		badRequest(c, apierrors.MsgInvalidDate)
		return
	}

	goal, err := h.goals.UpdateGoal(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		writeError(c, err, apierrors.MsgFailGoals)
		return
	}
	c.JSON(http.StatusOK, goal)
}

func decodeGoalUpdate(body rawBody, in *services.UpdateGoalInput) error {
	var title, targetType, description string
	var targetValue, progress float64
	var achieved bool

	if ok, err := body.decode("title", &title); err != nil {
		return err
	} else if ok {
		in.Title = &title
	}
	if ok, err := body.decode("targetType", &targetType); err != nil {
		return err
	} else if ok {
		in.TargetType = &targetType
	}
	if ok, err := body.decode("targetValue", &targetValue); err != nil {
		return err
	} else if ok {
		in.TargetValue = &targetValue
	}
	if ok, err := body.decode("achieved", &achieved); err != nil {
		return err
	} else if ok {
		in.Achieved = &achieved
	}
	if ok, err := body.decode("progress", &progress); err != nil {
		return err
	} else if ok {
		in.Progress = &progress
	}
	if body.has("description") {
		in.DescriptionSet = true
		if ok, err := body.decode("description", &description); err != nil {
			return err
		} else if ok {
			in.Description = &description
		}
	}
	return nil
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	id, ok := requiredQueryID(c, "id")
	if !ok {
		return
	}
	if err := h.goals.DeleteGoal(c.Request.Context(), auth.UserID(c), id); err != nil {
		writeError(c, err, apierrors.MsgFailGoals)
		return
	}
	c.Status(http.StatusNoContent)
}
