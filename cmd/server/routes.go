package main

import (
	"github.com/gin-gonic/gin"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/handlers"
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/middleware"
	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
	"github.com/Mohsintl/testersplaybook-app-sub000/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// AI routes are expensive; throttle per client IP
	aiLimiter := middleware.NewRateLimiter(1, 5)

	db := models.GetDB()

	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			// Dashboard
			dashboardHandler := handlers.NewDashboardHandler(db)
			protected.GET("/dashboard/stats", dashboardHandler.Stats)

			// Projects and membership
			projectHandler := handlers.NewProjectHandler(db)
			protected.GET("/projects", projectHandler.List)
			protected.POST("/projects", projectHandler.Create)
			protected.GET("/projects/:id", projectHandler.GetByID)
			protected.PUT("/projects/:id", projectHandler.Update)
			protected.DELETE("/projects/:id", projectHandler.Delete)
			protected.GET("/projects/:id/members", projectHandler.ListMembers)

			// Invitations
			invitationHandler := handlers.NewInvitationHandler(db)
			protected.POST("/projects/:id/invitations", invitationHandler.Create)
			protected.GET("/projects/:id/invitations", invitationHandler.List)
			protected.POST("/invitations/accept", invitationHandler.Accept)

			// Modules
			moduleHandler := handlers.NewModuleHandler(db)
			protected.POST("/projects/:id/modules", moduleHandler.Create)
			protected.GET("/projects/:id/modules", moduleHandler.List)
			protected.PUT("/modules/:id", moduleHandler.Update)
			protected.DELETE("/modules/:id", moduleHandler.Delete)

			// Test cases
			caseHandler := handlers.NewTestCaseHandler(db)
			protected.POST("/projects/:id/test-cases", caseHandler.Create)
			protected.GET("/projects/:id/test-cases", caseHandler.List)
			protected.GET("/test-cases/:id", caseHandler.GetByID)
			protected.PUT("/test-cases/:id", caseHandler.Update)
			protected.DELETE("/test-cases/:id", caseHandler.Delete)

			// Comments
			commentHandler := handlers.NewCommentHandler(db)
			protected.POST("/test-cases/:id/comments", commentHandler.Create)
			protected.GET("/test-cases/:id/comments", commentHandler.List)
			protected.DELETE("/comments/:id", commentHandler.Delete)

			// Test runs and results
			runHandler := handlers.NewRunHandler(db)
			protected.POST("/projects/:id/runs", runHandler.Create)
			protected.GET("/projects/:id/runs", runHandler.List)
			protected.GET("/runs/:id", runHandler.GetByID)
			protected.POST("/runs/:id/assign", runHandler.Assign)
			protected.POST("/runs/:id/start", runHandler.Start)
			protected.POST("/runs/:id/complete", runHandler.Complete)
			protected.DELETE("/runs/:id", runHandler.Delete)
			protected.PATCH("/results/:id", runHandler.UpdateResult)

			// Tasks
			taskHandler := handlers.NewTaskHandler(db)
			protected.POST("/projects/:id/tasks", taskHandler.Create)
			protected.GET("/projects/:id/tasks", taskHandler.List)
			protected.PUT("/tasks/:id", taskHandler.Update)
			protected.DELETE("/tasks/:id", taskHandler.Delete)

			// AI assist (rate-limited)
			ai := protected.Group("", aiLimiter.Middleware())
			{
				ai.POST("/projects/:id/ai/draft", svc.aiHandler.Draft)
				ai.POST("/projects/:id/ai/critique", svc.aiHandler.Critique)
				ai.GET("/ai/generations/:id", svc.aiHandler.GetGeneration)
				ai.GET("/ai/quota", svc.aiHandler.Quota)
			}
		}
	}
}
