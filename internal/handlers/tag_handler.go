package handlers

import (
	"net/http"

	"task_analytics/internal/auth"
	"task_analytics/internal/models"
	"task_analytics/internal/services"
	"task_analytics/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TagHandler struct {
	profileSync
	tags services.TagService
}

func NewTagHandler(tags services.TagService, users services.UserService) *TagHandler {
	return &TagHandler{profileSync: profileSync{users: users}, tags: tags}
}

type createTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type taskTagRequest struct {
	TaskID jsonID `json:"taskId"`
	TagID  jsonID `json:"tagId"`
}

// ListTags returns every tag. A storage failure is logged and answered with
// an empty list so the tag picker keeps working.
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tags.ListTags(c.Request.Context())
	if err != nil {
		zap.L().Error("failed to list tags", zap.Error(err))
		tags = nil
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	h.sync(c)
	tag, err := h.tags.CreateTag(c.Request.Context(), services.CreateTagInput{Name: req.Name, Color: req.Color})
	if err != nil {
		writeError(c, err, apierrors.MsgFailSaveTag)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) UpdateTag(c *gin.Context) {
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

	in := services.UpdateTagInput{ID: id}
	var name, color string
	if ok, err := body.decode("name", &name); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	} else if ok {
		in.Name = &name
	}
	if ok, err := body.decode("color", &color); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	} else if ok {
		in.Color = &color
	}

	tag, err := h.tags.UpdateTag(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		writeError(c, err, apierrors.MsgFailSaveTag)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := requiredQueryID(c, "id")
	if !ok {
		return
	}
	if err := h.tags.DeleteTag(c.Request.Context(), auth.UserID(c), id); err != nil {
		writeError(c, err, apierrors.MsgFailDeleteTag)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTaskTags handles GET /api/tasks/tags?taskId=
func (h *TagHandler) ListTaskTags(c *gin.Context) {
	taskID, ok := requiredQueryID(c, "taskId")
	if !ok {
		return
	}
	tags, err := h.tags.ListTaskTags(c.Request.Context(), auth.UserID(c), taskID)
	if err != nil {
		writeError(c, err, apierrors.MsgFailTaskTags)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) AttachTag(c *gin.Context) {
	var req taskTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}
	if req.TaskID == 0 || req.TagID == 0 {
		badRequest(c, apierrors.MsgTaskTagRequired)
		return
	}

	link, err := h.tags.AttachTag(c.Request.Context(), auth.UserID(c), uint(req.TaskID), uint(req.TagID))
	if err != nil {
		writeError(c, err, apierrors.MsgFailTaskTags)
		return
	}
	c.JSON(http.StatusCreated, link)
}

// DetachTag handles DELETE /api/tasks/tags?taskId=&tagId=
func (h *TagHandler) DetachTag(c *gin.Context) {
	taskID, present, err := parseID(c.Query("taskId"))
	if err != nil {
		badRequest(c, apierrors.MsgInvalidID)
		return
	}
	tagID, tagPresent, err := parseID(c.Query("tagId"))
	if err != nil {
		badRequest(c, apierrors.MsgInvalidID)
		return
	}
	if !present || !tagPresent {
		badRequest(c, apierrors.MsgTaskTagRequired)
		return
	}

	if err := h.tags.DetachTag(c.Request.Context(), auth.UserID(c), taskID, tagID); err != nil {
		writeError(c, err, apierrors.MsgFailTaskTags)
		return
	}
	c.Status(http.StatusNoContent)
}
