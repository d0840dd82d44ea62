package handlers

import (
	"net/http"
	"strings"

	"task_analytics/internal/auth"
	"task_analytics/internal/services"
	"task_analytics/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	profileSync
	tasks     services.TaskService
	analytics services.AnalyticsService
}

func NewTaskHandler(tasks services.TaskService, users services.UserService, analytics services.AnalyticsService) *TaskHandler {
	return &TaskHandler{profileSync: profileSync{users: users}, tasks: tasks, analytics: analytics}
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *int    `json:"priority"`
	DueDate     *string `json:"dueDate"`
	ProjectID   jsonID  `json:"projectId"`
	TagIDs      []uint  `json:"tagIds"`
}

// ListTasks handles GET /api/tasks?tags=1,2
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tagIDs, err := parseIDList(c.Query("tags"))
	if err != nil {
		badRequest(c, apierrors.MsgInvalidID)
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), auth.UserID(c), tagIDs)
	if err != nil {
		writeError(c, err, apierrors.MsgFailListTasks)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}
	dueDate, err := parseOptionalTime(req.DueDate, h.analytics.Location())
	if err != nil {
		badRequest(c, apierrors.MsgInvalidDate)
		return
	}

	h.sync(c)
	task, err := h.tasks.CreateTask(c.Request.Context(), auth.UserID(c), services.CreateTaskInput{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate,
		ProjectID:   req.ProjectID.ptr(),
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		writeError(c, err, apierrors.MsgFailSaveTask)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks. Only the fields present in the body
// change; null clears description, dueDate and projectId.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
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

	in := services.UpdateTaskInput{ID: id}
	if err := h.decodeTaskUpdate(body, &in); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}
	if in.DueDate, in.DueDateSet, err = body.optionalTime("dueDate", h.analytics.Location()); err != nil {
		badRequest(c, apierrors.MsgInvalidDate)
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		writeError(c, err, apierrors.MsgFailSaveTask)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) decodeTaskUpdate(body rawBody, in *services.UpdateTaskInput) error {
	var title, status string
	if ok, err := body.decode("title", &title); err != nil {
		return err
	} else if ok {
		in.Title = &title
	}
	if ok, err := body.decode("status", &status); err != nil {
		return err
	} else if ok {
		in.Status = &status
	}

	var priority int
	if ok, err := body.decode("priority", &priority); err != nil {
		return err
	} else if ok {
		in.Priority = &priority
	}

	if body.has("description") {
		in.DescriptionSet = true
		var description string
		if ok, err := body.decode("description", &description); err != nil {
			return err
		} else if ok {
			in.Description = &description
		}
	}

	if body.has("projectId") {
		in.ProjectIDSet = true
		projectID, present, err := body.id("projectId")
		if err != nil {
			return err
		}
		if present {
			in.ProjectID = &projectID
		}
	}

	if body.has("tagIds") {
		in.TagIDsSet = true
		if _, err := body.decode("tagIds", &in.TagIDs); err != nil {
			return err
		}
	}
	return nil
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := requiredQueryID(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.DeleteTask(c.Request.Context(), auth.UserID(c), id); err != nil {
		writeError(c, err, apierrors.MsgFailDeleteTask)
		return
	}
	c.Status(http.StatusNoContent)
}
