package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/taskdesk/taskdesk-api/internal/config"
	"github.com/taskdesk/taskdesk-api/internal/constants"
	"github.com/taskdesk/taskdesk-api/internal/database"
	"github.com/taskdesk/taskdesk-api/internal/handlers"
	"github.com/taskdesk/taskdesk-api/internal/middleware"
	"github.com/taskdesk/taskdesk-api/internal/permissions"
	"github.com/taskdesk/taskdesk-api/internal/repository"
	"github.com/taskdesk/taskdesk-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Policy and services
	policy := permissions.NewPolicy(groupRepo, profileRepo)
	groupSync := services.NewGroupSyncService(groupRepo)
	accountService := services.NewAccountService(userRepo, groupSync, policy)
	profileService := services.NewProfileService(profileRepo, groupSync, policy)
	taskService := services.NewTaskService(taskRepo, userRepo, policy)

	// Role groups must exist before any membership lookup; write paths
	// re-create a missing group lazily but the bootstrap runs up front.
	if err := groupSync.EnsureRoleGroups(); err != nil {
		log.Fatalf("Failed to bootstrap role groups: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionName, store))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accountService)
	userHandler := handlers.NewUserHandler(accountService, profileService)
	taskHandler := handlers.NewTaskHandler(taskService, accountService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskdesk API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// SuperAdmin account management
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(), middleware.RequireSuperAdmin(userRepo, policy))
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.PUT("/:id/role", userHandler.ChangeRole)
			users.PUT("/:id/assigned-admin", userHandler.AssignAdmin)
		}

		// Role-scoped task routes
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.PUT("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.GET("/:id/report", taskHandler.GetTaskReport)
		}

		// Admin/SuperAdmin task panel
		adminTasks := api.Group("/admin/tasks")
		adminTasks.Use(middleware.RequireAuth(), middleware.RequireAdminOrSuperAdmin(userRepo, policy))
		{
			adminTasks.GET("", taskHandler.ListTasks)
			adminTasks.POST("", taskHandler.CreateTask)
			adminTasks.GET("/:id", taskHandler.GetTask)
			adminTasks.PUT("/:id", taskHandler.UpdateTask)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
