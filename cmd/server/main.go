// @title Taskboard API
// @version 1.0
// @description Backend API for the Taskboard kanban app
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@example.com
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"log"
	"time"

	"taskboard-be/config"
	"taskboard-be/internal/database"
	"taskboard-be/internal/handlers"
	"taskboard-be/internal/middleware"
	"taskboard-be/internal/realtime"
	"taskboard-be/internal/repository"
	"taskboard-be/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	_ "taskboard-be/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to MongoDB
	mongodb, err := database.NewMongoDB(cfg.MongoDBURI, cfg.MongoDBDatabase)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongodb.Disconnect()

	// Initialize repositories
	userRepo := repository.NewUserRepository(mongodb.Database)
	projectRepo := repository.NewProjectRepository(mongodb.Database)
	columnRepo := repository.NewColumnRepository(mongodb.Database)
	taskRepo := repository.NewTaskRepository(mongodb.Database)
	commentRepo := repository.NewCommentRepository(mongodb.Database)

	// Initialize services
	hub := realtime.NewHub()
	mailer := services.NewLogMailer(cfg)

	cleanup, err := services.StartCleanupWorker(cfg.CleanupSchedule, projectRepo, columnRepo, taskRepo)
	if err != nil {
		log.Fatal("Failed to schedule cleanup worker:", err)
	}
	defer cleanup.Stop()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, userRepo, mailer)
	projectHandler := handlers.NewProjectHandler(projectRepo, columnRepo, taskRepo, commentRepo, userRepo, hub)
	columnHandler := handlers.NewColumnHandler(projectRepo, columnRepo, hub)
	taskHandler := handlers.NewTaskHandler(projectRepo, columnRepo, taskRepo, commentRepo, userRepo, hub)
	commentHandler := handlers.NewCommentHandler(projectRepo, taskRepo, commentRepo)
	eventsHandler := handlers.NewEventsHandler(projectRepo, hub)

	// Initialize Gin
	r := gin.Default()

	// Apply CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes
	public := r.Group("/api")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":   "ok",
				"message":  "Taskboard API is running",
				"database": "MongoDB connected",
			})
		})

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.GET("/confirm/:token", authHandler.Confirm)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google", authHandler.GoogleAuth)
			auth.POST("/refresh", authHandler.RefreshToken)
		}
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		// Auth protected routes
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.GetMe)
		protected.PUT("/auth/me", authHandler.UpdateProfile)
		protected.PUT("/auth/password", authHandler.ChangePassword)

		// Project routes
		protected.GET("/projects", projectHandler.List)
		protected.POST("/projects", projectHandler.Create)
		protected.GET("/projects/:projectId", projectHandler.ViewBoard)
		protected.DELETE("/projects/:projectId", projectHandler.Delete)
		protected.GET("/projects/:projectId/delete-summary", projectHandler.DeleteSummary)
		protected.GET("/projects/:projectId/members", projectHandler.ListMembers)
		protected.POST("/projects/:projectId/members", projectHandler.AddMember)
		protected.DELETE("/projects/:projectId/members/:memberId", projectHandler.RemoveMember)

		// Column routes
		protected.POST("/projects/:projectId/columns", columnHandler.Create)

		// Task routes
		protected.POST("/projects/:projectId/tasks", taskHandler.Create)
		protected.POST("/projects/:projectId/tasks/move", taskHandler.Move)
		protected.GET("/projects/:projectId/tasks/search", taskHandler.Search)
		protected.GET("/projects/:projectId/tasks/:taskId", taskHandler.Detail)
		protected.PUT("/projects/:projectId/tasks/:taskId", taskHandler.Update)
		protected.DELETE("/projects/:projectId/tasks/:taskId", taskHandler.Delete)
		protected.GET("/tasks/my", taskHandler.MyTasks)

		// Comment routes
		protected.GET("/projects/:projectId/tasks/:taskId/comments", commentHandler.List)
		protected.POST("/projects/:projectId/tasks/:taskId/comments", commentHandler.Create)
		protected.PUT("/projects/:projectId/tasks/:taskId/comments/:commentId", commentHandler.Update)
		protected.DELETE("/projects/:projectId/tasks/:taskId/comments/:commentId", commentHandler.Delete)

		// Realtime events (SSE)
		protected.GET("/projects/:projectId/events", eventsHandler.Stream)
	}

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Connected to MongoDB: %s", cfg.MongoDBDatabase)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
