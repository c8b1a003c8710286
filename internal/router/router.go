package router

import (
	"time"

	"github.com/Arhamhir/Taskflow/internal/handlers"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP surface. authRequired is the Bearer-token
// middleware; registration and login are the only routes outside it.
func NewRouter(h *handlers.Handler, authRequired gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/", h.Root)
	r.GET("/health", h.HealthCheck)
	r.POST("/login", h.Login)

	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", authRequired, h.ListUsers)
	}

	projects := r.Group("/projects", authRequired)
	{
		projects.POST("", h.CreateProject)
		projects.GET("", h.ListProjects)
		projects.GET("/:id", h.GetProject)
		projects.DELETE("/:id", h.DeleteProject)
		projects.POST("/:id/members/:user_id", h.AddProjectMember)
		projects.DELETE("/:id/members/:user_id", h.RemoveProjectMember)
	}

	tasks := r.Group("/tasks", authRequired)
	{
		tasks.POST("", h.CreateTask)
		tasks.GET("", h.ListTasks)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}

	return r
}
