package handlers

import (
	"net/http"

	"task_analytics/internal/auth"
	"task_analytics/internal/services"
	"task_analytics/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	profileSync
	projects services.ProjectService
}

func NewProjectHandler(projects services.ProjectService, users services.UserService) *ProjectHandler {
	return &ProjectHandler{profileSync: profileSync{users: users}, projects: projects}
}

type createProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projects.ListProjects(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err, apierrors.MsgFailListProjects)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	h.sync(c)
	project, err := h.projects.CreateProject(c.Request.Context(), auth.UserID(c), services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err, apierrors.MsgFailSaveProject)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
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

	in := services.UpdateProjectInput{ID: id}
	var name, description string
	if ok, err := body.decode("name", &name); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	} else if ok {
		in.Name = &name
	}
	if body.has("description") {
		in.DescriptionSet = true
		if ok, err := body.decode("description", &description); err != nil {
			badRequest(c, apierrors.MsgInvalidPayload)
			return
		} else if ok {
			in.Description = &description
		}
	}

	project, err := h.projects.UpdateProject(c.Request.Context(), auth.UserID(c), in)
	if err != nil {
		writeError(c, err, apierrors.MsgFailSaveProject)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject removes the project together with its tasks.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := requiredQueryID(c, "id")
	if !ok {
		return
	}
	if err := h.projects.DeleteProject(c.Request.Context(), auth.UserID(c), id); err != nil {
		writeError(c, err, apierrors.MsgFailDeleteProject)
		return
	}
	c.Status(http.StatusNoContent)
}
