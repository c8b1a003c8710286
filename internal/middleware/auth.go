package middleware

import (
	"net/http"
	"strings"

	"github.com/Arhamhir/Taskflow/internal/auth"
	"github.com/Arhamhir/Taskflow/internal/domain"
	"github.com/gin-gonic/gin"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

const ContextUserKey = "user"

// CurrentUser returns the caller stored by Auth. The second result is false
// on routes that never passed through the middleware.
func CurrentUser(ctx *gin.Context) (AuthenticatedUser, bool) {
	value, exists := ctx.Get(ContextUserKey)

	if !exists {
		return AuthenticatedUser{}, false
	}

	user, ok := value.(AuthenticatedUser)
	return user, ok
}

func CurrentUserID(ctx *gin.Context) (uint, bool) {
	user, ok := CurrentUser(ctx)
	return user.ID, ok
}

func abortUnauthorized(ctx *gin.Context, message string) {
	ctx.Header("WWW-Authenticate", "Bearer")
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

// Auth validates the Bearer token, resolves the subject to a user record and
// stores it in the request context.
func Auth(tokens *auth.TokenService, svc *domain.Service) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			abortUnauthorized(ctx, "Authorization token is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(ctx, "Authorization header format must be Bearer {token}")
			return
		}

		email, err := tokens.Validate(parts[1])

		if err != nil {
			abortUnauthorized(ctx, "Invalid or expired token")
			return
		}

		user, err := svc.GetUserByEmail(email)

		if err != nil {
			abortUnauthorized(ctx, "User not found")
			return
		}

		ctx.Set(ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		})
		ctx.Next()
	}
}
