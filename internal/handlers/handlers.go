package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Arhamhir/Taskflow/internal/auth"
	"github.com/Arhamhir/Taskflow/internal/domain"
	"github.com/Arhamhir/Taskflow/internal/models"
	"github.com/gin-gonic/gin"
)

// Handler is the API layer: it binds requests, calls the domain service and
// translates domain error kinds into HTTP status codes.
type Handler struct {
	svc    *domain.Service
	tokens *auth.TokenService
}

func New(svc *domain.Service, tokens *auth.TokenService) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrConflict):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated):
		ctx.Header("WWW-Authenticate", "Bearer")
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// pageParams reads skip/limit query parameters with the reference defaults.
func pageParams(ctx *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))
	return skip, limit
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}

	return uint(id), true
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

type ProjectResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	OwnerID     uint       `json:"owner_id"`
	Members     []int64    `json:"members"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newProjectResponse(project *models.Project) ProjectResponse {
	members := project.Members

	if members == nil {
		members = []int64{}
	}

	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Deadline:    project.Deadline,
		OwnerID:     project.OwnerID,
		Members:     members,
		CreatedAt:   project.CreatedAt,
	}
}

type TaskResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ProjectID   uint       `json:"project_id"`
	AssignedTo  *uint      `json:"assigned_to"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		ProjectID:   task.ProjectID,
		AssignedTo:  task.AssignedTo,
		Status:      task.Status,
		Deadline:    task.Deadline,
		CreatedAt:   task.CreatedAt,
	}
}
