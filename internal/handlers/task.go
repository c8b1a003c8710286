package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Arhamhir/Taskflow/internal/domain"
	"github.com/Arhamhir/Taskflow/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CreateTaskRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	ProjectID   uint       `json:"project_id" binding:"required"`
	AssignedTo  *uint      `json:"assigned_to"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
}

func (h *Handler) CreateTask(ctx *gin.Context) {
	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, ok := middleware.CurrentUserID(ctx)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, err := h.svc.CreateTask(userID, domain.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		Deadline:    req.Deadline,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *Handler) ListTasks(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	skip, limit := pageParams(ctx)

	var projectID *uint

	if raw := ctx.Query("project_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id parameter"})
			return
		}

		// A zero id means no filter, like an absent parameter.
		if parsed != 0 {
			id := uint(parsed)
			projectID = &id
		}
	}

	tasks, err := h.svc.ListTasks(userID, skip, limit, projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for i := range tasks {
		response = append(response, newTaskResponse(&tasks[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *Handler) UpdateTask(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	var patch domain.TaskPatch

	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.svc.UpdateTask(userID, taskID, patch)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *Handler) DeleteTask(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := parseIDParam(ctx, "id")

	if !ok {
		return
	}

	if err := h.svc.DeleteTask(userID, taskID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
