package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/middleware"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth     *AuthHandler
	Category *CategoryHandler
	Task     *TaskHandler
	Offer    *OfferHandler
	Progress *ProgressHandler
	Skill    *SkillHandler
}

// RegisterRoutes mounts the health check and the /api routes. Session
// middleware must already be installed on r.
func RegisterRoutes(r *gin.Engine, h Handlers, resolver identity.Resolver) {
	requireAuth := middleware.RequireAuth(resolver)
	taskID := middleware.RequireTaskID()
	categoryID := middleware.RequireID("Category not found")
	skillID := middleware.RequireID("Skill not found")

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Marketplace API is running",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/users/signup", h.Auth.UserSignup)
			auth.POST("/providers/signup", h.Auth.ProviderSignup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", requireAuth, h.Auth.Me)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", h.Category.ListCategories)
			categories.GET("/:id", categoryID, h.Category.GetCategory)
			categories.POST("", requireAuth, h.Category.CreateCategory)
			categories.PATCH("/:id", requireAuth, categoryID, h.Category.UpdateCategory)
			categories.DELETE("/:id", requireAuth, categoryID, h.Category.DeleteCategory)
		}

		skills := api.Group("/skills")
		{
			skills.GET("", h.Skill.ListSkills)
			skills.GET("/:id", skillID, h.Skill.GetSkill)
			skills.POST("", requireAuth, h.Skill.CreateSkill)
			skills.PATCH("/:id", requireAuth, skillID, h.Skill.UpdateSkill)
			skills.DELETE("/:id", requireAuth, skillID, h.Skill.DeleteSkill)
		}

		// Browsing the marketplace is public
		api.GET("/tasks", h.Task.ListTasks)
		api.GET("/tasks/:id", taskID, h.Task.GetTask)

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("", h.Task.CreateTask)
			tasks.GET("/me", h.Task.ListMyTasks)
			tasks.POST("/draft", h.Task.DraftTasks)
			tasks.GET("/:id/offers", taskID, h.Offer.ListOffers)
			tasks.GET("/:id/progress", taskID, h.Progress.ListProgress)
			tasks.POST("/:id/cancel", taskID, h.Task.CancelTask)

			tasks.POST("/offer", h.Offer.SubmitOffer)
			tasks.PATCH("/offer/respond", h.Offer.RespondToOffer)
			tasks.POST("/progress", h.Progress.AddProgress)
			tasks.PATCH("/complete", h.Progress.MarkCompleted)
			tasks.PATCH("/completion/respond", h.Progress.RespondToCompletion)
		}
	}
}
