package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitedocs/internal/app"
	"sitedocs/internal/model"
	"sitedocs/internal/transport/http/response"
)

type ProjectHandler struct {
	projects *app.ProjectService
}

func NewProjectHandler(projects *app.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type createProjectRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	StartDate     string   `json:"startDate" binding:"required"`
	EndDate       string   `json:"endDate" binding:"required"`
	Status        string   `json:"status"`
	TeamMemberIDs []string `json:"teamMemberIds"`
}

type updateProjectRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	StartDate     *string  `json:"startDate"`
	EndDate       *string  `json:"endDate"`
	Status        *string  `json:"status"`
	TeamMemberIDs []string `json:"teamMemberIds"`
}

func (h *ProjectHandler) List(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	summaries, err := h.projects.List(identity)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.OK(c, summaries)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid endDate")
		return
	}
	memberIDs, ok := parseUUIDs(c, req.TeamMemberIDs)
	if !ok {
		return
	}

	summary, err := h.projects.Create(c.Request.Context(), identity, app.CreateProjectInput{
		Name:          req.Name,
		Description:   req.Description,
		StartDate:     startDate,
		EndDate:       endDate,
		Status:        model.ProjectStatus(req.Status),
		TeamMemberIDs: memberIDs,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Created(c, summary)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.projects.Get(identity, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.OK(c, detail)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}

	input := app.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			response.Error(c, 400, response.CodeBadRequest, "invalid startDate")
			return
		}
		input.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			response.Error(c, 400, response.CodeBadRequest, "invalid endDate")
			return
		}
		input.EndDate = &endDate
	}
	if req.Status != nil {
		status := model.ProjectStatus(*req.Status)
		input.Status = &status
	}
	if req.TeamMemberIDs != nil {
		memberIDs, ok := parseUUIDs(c, req.TeamMemberIDs)
		if !ok {
			return
		}
		input.TeamMemberIDs = memberIDs
	}

	detail, err := h.projects.Update(identity, id, input)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.OK(c, detail)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.projects.Delete(c.Request.Context(), identity, id); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseUUIDs(c *gin.Context, raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			response.Error(c, 400, response.CodeBadRequest, "invalid team member id")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
