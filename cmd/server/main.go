package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"go.uber.org/zap"

	"github.com/docvault/docvault/internal/config"
	"github.com/docvault/docvault/internal/database"
	"github.com/docvault/docvault/internal/handlers"
	"github.com/docvault/docvault/internal/middleware"
	"github.com/docvault/docvault/internal/services"
	"github.com/docvault/docvault/internal/storage"
	"github.com/docvault/docvault/internal/types"
	"github.com/docvault/docvault/internal/utils"

	_ "github.com/docvault/docvault/docs/api" // Swagger docs
)

// @title DocVault API
// @version 1.0.0
// @description Role-based document management service with category access control and document versioning
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/docvault/docvault

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Blob storage
	store, err := openStorage(cfg, zlog)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	secret := []byte(cfg.JWTSecret)
	tokenTTL := time.Duration(cfg.TokenTTLMins) * time.Minute

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    int(cfg.MaxUploadBytes) + 1024*1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("docvault")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(c.UserContext(), cfg, db, store)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	requireAuth := middleware.RequireAuth(db, secret)
	requireAdmin := middleware.RequireAdmin()

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, Secret: secret, TokenTTL: tokenTTL}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	accessHandler := &handlers.AccessHandler{DB: db}
	folderHandler := &handlers.FolderHandler{DB: db}
	documentHandler := &handlers.DocumentHandler{DB: db, Store: store, Log: zlog, MaxUploadBytes: cfg.MaxUploadBytes}

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/admin/register", authHandler.RegisterAdmin)
	authRoutes.Post("/admin/login", authHandler.LoginAdmin)
	authRoutes.Post("/user/register", authHandler.RegisterMember)
	authRoutes.Post("/user/login", authHandler.LoginMember)
	authRoutes.Get("/me", requireAuth, authHandler.Me)

	// Category routes
	categories := api.Group("/categories", requireAuth)
	categories.Post("/", requireAdmin, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.Get)
	categories.Put("/:id", requireAdmin, categoryHandler.Update)
	categories.Delete("/:id", requireAdmin, categoryHandler.Delete)

	// Access control routes (admin only)
	access := api.Group("/access", requireAuth, requireAdmin)
	access.Post("/grant", accessHandler.Grant)
	access.Post("/revoke", accessHandler.Revoke)
	access.Get("/users", accessHandler.ListUsers)
	access.Get("/users/:userId", accessHandler.UserAccess)
	access.Get("/categories/:categoryId", accessHandler.CategoryAccess)

	// Folder routes
	folders := api.Group("/folders", requireAuth)
	folders.Post("/", folderHandler.Create)
	folders.Get("/category/:categoryId", folderHandler.ListByCategory)
	folders.Get("/:id", folderHandler.Get)
	folders.Put("/:id", folderHandler.Update)
	folders.Delete("/:id", folderHandler.Delete)

	// Document routes
	documents := api.Group("/documents", requireAuth)
	documents.Post("/", documentHandler.Create)
	documents.Get("/folder/:folderId", documentHandler.ListByFolder)
	documents.Get("/:id", documentHandler.Get)
	documents.Put("/:id", documentHandler.Update)
	documents.Delete("/:id", documentHandler.Delete)
	documents.Post("/:id/versions", documentHandler.CreateVersion)
	documents.Get("/:id/versions", documentHandler.ListVersions)
	documents.Post("/:id/versions/:versionId/restore", documentHandler.RestoreVersion)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.ErrorResponse(c, "[404] Resource Not Found", fiber.StatusNotFound, "not_found")
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// openStorage selects the configured blob store implementation.
func openStorage(cfg *config.Config, zlog *zap.Logger) (storage.BlobStore, error) {
	if cfg.StorageType == "memory" {
		zlog.Warn("using in-memory blob storage; payloads will not survive a restart")
		return storage.NewMemoryStore(), nil
	}
	return storage.ConnectMinIO(storage.MinIOConfig{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
	}, zlog)
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
