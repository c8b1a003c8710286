package handlers

import (
	"net/http"
	"time"

	"github.com/Arhamhir/Taskflow/internal/domain"
	"github.com/Arhamhir/Taskflow/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Members     []int64    `json:"members"`
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, ok := middleware.CurrentUserID(ctx)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, err := h.svc.CreateProject(userID, domain.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		Members:     req.Members,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newProjectResponse(project))
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	skip, limit := pageParams(ctx)

	projects, err := h.svc.ListProjects(userID, skip, limit)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for i := range projects {
		response = append(response, newProjectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) GetProject(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	project, err := h.svc.GetProject(userID, projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newProjectResponse(project))
}

func (h *Handler) AddProjectMember(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	memberID, ok := parseIDParam(ctx, "user_id")

	if !ok {
		return
	}

	project, err := h.svc.AddMember(userID, projectID, memberID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newProjectResponse(project))
}

func (h *Handler) RemoveProjectMember(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	memberID, ok := parseIDParam(ctx, "user_id")

	if !ok {
		return
	}

	project, err := h.svc.RemoveMember(userID, projectID, memberID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newProjectResponse(project))
}

func (h *Handler) DeleteProject(ctx *gin.Context) {
	if _, ok := middleware.CurrentUserID(ctx); !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	if err := h.svc.DeleteProject(projectID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
