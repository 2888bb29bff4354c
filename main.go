package main

import (
	"log"
	"os"
	"time"

	"arise/database"
	"arise/handlers"
	"arise/middleware"
	"arise/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Wire services behind the handlers
	handlers.Init(database.GetDB())

	// Background daily sweep: optional, the reset is also pull-triggered
	// on every daily read. Hourly is plenty; the sweep is idempotent.
	sweep := services.NewSweepService(database.GetDB(), handlers.Daily(), time.Hour)
	sweep.Start()
	defer sweep.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/guest", handlers.GuestLogin)

	// Task routes
	api.Get("/tasks", middleware.AuthMiddleware, handlers.GetTasks)
	api.Post("/tasks", middleware.AuthMiddleware, handlers.CreateTask)
	api.Put("/tasks/:id", middleware.AuthMiddleware, handlers.UpdateTask)
	api.Delete("/tasks/:id", middleware.AuthMiddleware, handlers.DeleteTask)
	api.Post("/tasks/:id/complete", middleware.AuthMiddleware, handlers.CompleteTask)

	// Gate routes
	api.Get("/gates", middleware.AuthMiddleware, handlers.GetGates)
	api.Post("/gates", middleware.AuthMiddleware, handlers.CreateGate)
	api.Post("/gates/:id/tasks", middleware.AuthMiddleware, handlers.AddGateTask)
	api.Post("/gates/:id/claim", middleware.AuthMiddleware, handlers.ClaimGate)

	// Guild routes
	api.Post("/guilds", middleware.AuthMiddleware, handlers.CreateGuild)
	api.Post("/guilds/join", middleware.AuthMiddleware, handlers.JoinGuild)
	api.Get("/guilds/mine", middleware.AuthMiddleware, handlers.MyGuilds)
	api.Get("/guilds/:id", middleware.AuthMiddleware, handlers.GetGuild)

	// Raid routes
	api.Post("/guilds/:id/raids", middleware.AuthMiddleware, handlers.StartRaid)
	api.Get("/guilds/:id/raids/active", middleware.AuthMiddleware, handlers.ActiveRaid)
	api.Post("/raids/:id/tasks", middleware.AuthMiddleware, handlers.AssignRaidTask)

	// Daily quest routes
	api.Get("/daily/quests", middleware.AuthMiddleware, handlers.GetDailyQuests)
	api.Post("/daily/quests", middleware.AuthMiddleware, handlers.CreateDailyQuest)
	api.Post("/daily/quests/:id/progress", middleware.AuthMiddleware, handlers.LogDailyProgress)
	api.Post("/daily/reset", middleware.AuthMiddleware, handlers.CheckDailyReset)
	api.Get("/daily/status", middleware.AuthMiddleware, handlers.GetDailyStatus)

	// Badge and stats routes
	api.Get("/badges", middleware.AuthMiddleware, handlers.GetBadges)
	api.Get("/stats", middleware.AuthMiddleware, handlers.GetStats)

	// WebSocket notification stream
	app.Use("/ws", middleware.AuthMiddleware, handlers.WebSocketUpgrade)
	app.Get("/ws", handlers.WebSocketHandler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func validateEnvironment() {
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("Warning: JWT_SECRET not set, using insecure default")
	}
	if os.Getenv("DATABASE_URL") == "" && os.Getenv("DB_HOST") == "" {
		log.Println("Warning: no database configuration found, falling back to localhost defaults")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
