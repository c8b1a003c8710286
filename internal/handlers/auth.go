package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Arhamhir/Taskflow/internal/domain"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

func (h *Handler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.svc.Login(req.Email, req.Password)

	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := h.tokens.Issue(user.Email)

	if err != nil {
		log.Printf("Failed to issue token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *Handler) CreateUser(ctx *gin.Context) {
	var req CreateUserRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.svc.RegisterUser(domain.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})

	if err != nil {
		// Registration is the one path where an unexpected failure is
		// surfaced with its message.
		if !errors.Is(err, domain.ErrConflict) {
			log.Printf("Failed to create user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error: " + err.Error()})
			return
		}
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newUserResponse(user))
}

func (h *Handler) ListUsers(ctx *gin.Context) {
	skip, limit := pageParams(ctx)

	users, err := h.svc.ListUsers(skip, limit)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]UserResponse, 0, len(users))

	for i := range users {
		response = append(response, newUserResponse(&users[i]))
	}

	ctx.JSON(http.StatusOK, response)
}
