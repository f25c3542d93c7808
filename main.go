package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"site-assistant/config"
	"site-assistant/handlers"
	"site-assistant/middleware"
	"site-assistant/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// Initialize structured logger
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, closeStore, err := openContextStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open context store", "store", cfg.ContextStore, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	businessContext, err := services.LoadBusinessContext(ctx, store)
	if err != nil {
		// Continue with an empty context - admins can still set it
		slog.Error("Failed to load business context", "error", err)
	}

	fetcher := services.NewPageFetcher(cfg.SiteFetchTimeout, cfg.SiteUserAgent)
	siteCache := services.NewSiteCache(fetcher, cfg.SiteSources, cfg.SiteCacheTTL)
	chat := services.NewChatService(
		siteCache,
		services.NewTopicRouter(nil),
		businessContext,
		services.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL),
		services.Persona{AssistantName: cfg.AssistantName, BusinessName: cfg.BusinessName},
		cfg.OpenAIModel,
	)

	warmerCtx, cancelWarmer := context.WithCancel(context.Background())
	defer cancelWarmer()
	services.StartSiteCacheWarmer(warmerCtx, siteCache, cfg.SiteCacheWarmInterval)

	app := newApp(cfg, handlers.NewHandler(chat, businessContext, siteCache, fetcher, cfg.SiteBaseURL))

	slog.Info("Server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config, h *handlers.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("Request error", "error", err, "status", code)
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.AdminTokenHeader,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))

	handlers.RegisterRoutes(app, h, middleware.RequireAdmin(middleware.NewAdminVerifier(cfg.AdminToken, cfg.AdminTokenHash)))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "site-assistant",
		})
	})

	return app
}

// openContextStore returns the configured business context store and a
// function releasing its resources.
func openContextStore(ctx context.Context, cfg *config.Config) (services.ContextStore, func(), error) {
	if cfg.ContextStore != config.ContextStoreMongo {
		slog.Info("Using file context store", "path", cfg.ContextFile)
		return services.NewFileContextStore(cfg.ContextFile), func() {}, nil
	}

	client, err := services.ConnectMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}
	return services.NewMongoContextStore(client.Database(cfg.DatabaseName)), closeFn, nil
}
