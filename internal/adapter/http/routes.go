package http

import (
	"github.com/gin-gonic/gin"

	"workops/internal/adapter/http/handlers"
	"workops/internal/adapter/http/middleware"
	"workops/internal/auth"
)

func RegisterRoutes(
	r *gin.Engine,
	authenticator *middleware.Authenticator,
	healthHandler *handlers.HealthHandler,
	taskHandler *handlers.TaskHandler,
	authHandler *handlers.AuthHandler,
	notificationsHandler *handlers.NotificationsHandler,
) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", healthHandler.CheckHealth)
		api.GET("/health/report", healthHandler.CheckHealthReport)

		authenticated := api.Group("")
		authenticated.Use(authenticator.Authenticate())
		{
			authenticated.GET("/tasks", authenticator.RequirePolicy(auth.PolicyRead), taskHandler.ListTasks)
			authenticated.GET("/tasks/:id", authenticator.RequirePolicy(auth.PolicyRead), taskHandler.GetTask)
			authenticated.POST("/tasks", authenticator.RequirePolicy(auth.PolicyWrite), taskHandler.CreateTask)
			authenticated.PUT("/tasks/:id", authenticator.RequirePolicy(auth.PolicyWrite), taskHandler.UpdateTask)
			authenticated.DELETE("/tasks/:id", authenticator.RequirePolicy(auth.PolicyAdmin), taskHandler.DeleteTask)

			authenticated.GET("/auth/me", authenticator.RequirePolicy(auth.PolicyRead), authHandler.Me)
			authenticated.GET("/auth/claims", authenticator.RequirePolicy(auth.PolicyRead), authHandler.Claims)
		}
	}

	// Realtime channel; the token rides in the access_token query
	// parameter since websocket dialers cannot always set headers.
	ws := r.Group("/ws")
	ws.Use(middleware.LanguageMiddleware(), authenticator.Authenticate())
	{
		ws.GET("/notifications", notificationsHandler.Subscribe)
	}
}
