package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/redis/go-redis/v9"

	"gig-system/config"
	"gig-system/handlers"
	_ "gig-system/migrations"
	"gig-system/monitoring"
	"gig-system/security"
	"gig-system/services"
	"gig-system/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	notifyService := services.NewNotifyService(cfg)
	gigService := services.NewGigService(app, redisClient, cfg)
	applicationService := services.NewApplicationService(app, redisClient, gigService, notifyService, cfg)

	// Initialize handlers
	gigHandler := handlers.NewGigHandler(gigService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, gigService)
	adminHandler := handlers.NewAdminHandler(applicationService, gigService, notifyService, redisClient)

	rateLimiter := security.NewRateLimiter(redisClient, cfg.SubmitRatePerMinute)
	submitGuard := rateLimiter.SubmitGuard()
	adminKey := security.RequireAdminKey(cfg.AdminKeyHash)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Start ops server and metrics collection
	if cfg.EnableMetrics {
		monitoring.NewMonitor(redisClient)
		opsServer := monitoring.NewOpsServer(cfg.MetricsPort,
			rateLimiter.OpsRateLimit(),
			rateLimiter.AntiBotMiddleware(),
		)
		go opsServer.Start()
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		gigService.SyncOpenGigs(ctx)

		// Decision endpoints (read-only)
		e.Router.GET("/api/v1/gigs/{gigId}/decision", gigHandler.GetDecision)
		e.Router.GET("/api/v1/gigs/{gigId}/capacity", gigHandler.GetCapacity)
		e.Router.GET("/api/v1/gigs/{gigId}/window", gigHandler.GetWindow)
		e.Router.GET("/api/v1/gigs/{gigId}/requirements", gigHandler.GetRequirements)

		// Interest endpoints (individual and specialty gigs)
		e.Router.POST("/api/v1/gigs/{gigId}/interest", applicationHandler.ShowInterest).BindFunc(submitGuard)
		e.Router.DELETE("/api/v1/gigs/{gigId}/interest", applicationHandler.WithdrawInterest)

		// Role application endpoints (band-creation gigs)
		e.Router.POST("/api/v1/gigs/{gigId}/roles/{role}/apply", applicationHandler.ApplyToRole).BindFunc(submitGuard)
		e.Router.DELETE("/api/v1/gigs/{gigId}/roles/{role}/apply", applicationHandler.WithdrawRoleApplication)

		// Band application endpoints (full-band gigs)
		e.Router.POST("/api/v1/gigs/{gigId}/band-applications", applicationHandler.ApplyAsBand).BindFunc(submitGuard)
		e.Router.DELETE("/api/v1/gigs/{gigId}/band-applications", applicationHandler.WithdrawBandApplication)

		// Poster endpoints
		e.Router.POST("/api/v1/gigs/{gigId}/roles/{role}/book", adminHandler.BookRole)
		e.Router.POST("/api/v1/gigs/{gigId}/roles/{role}/unbook", adminHandler.UnbookRole)
		e.Router.POST("/api/v1/gigs/{gigId}/roles/{role}/lock", adminHandler.SetRoleLock(true))
		e.Router.POST("/api/v1/gigs/{gigId}/roles/{role}/unlock", adminHandler.SetRoleLock(false))
		e.Router.POST("/api/v1/gigs/{gigId}/finalize", adminHandler.FinalizeGig)

		// Admin endpoints
		e.Router.GET("/api/v1/admin/dashboard", adminHandler.GetDashboard).BindFunc(adminKey)
		e.Router.POST("/api/v1/admin/sync-open-gigs", adminHandler.ForceSyncOpenGigs).BindFunc(adminKey)
		e.Router.POST("/api/v1/admin/gigs/{gigId}/invalidate", adminHandler.ForceInvalidate).BindFunc(adminKey)

		// Health check
		e.Router.GET("/health", adminHandler.GetHealth)

		log.Println("Server routes registered")

		setupGigHooks(app, gigService, redisClient)

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// setupGigHooks keeps the Redis open-gig index and the snapshot cache
// in step with gig records changed through the record API.
func setupGigHooks(app *pocketbase.PocketBase, gigService *services.GigService, redisClient *redis.Client) {
	app.OnRecordCreateRequest("gigs").BindFunc(func(e *core.RecordRequestEvent) error {
		if err := e.Next(); err != nil {
			return err
		}
		ctx := e.Request.Context()

		if !e.Record.GetBool("is_taken") {
			if err := redisClient.SAdd(ctx, "open_gigs", e.Record.Id).Err(); err != nil {
				slog.Error("Failed to index new gig", "gigID", e.Record.Id, "error", err)
			}
		}
		return nil
	})

	app.OnRecordUpdateRequest("gigs").BindFunc(func(e *core.RecordRequestEvent) error {
		if err := e.Next(); err != nil {
			return err
		}
		ctx := e.Request.Context()

		gigService.InvalidateSnapshot(ctx, e.Record.Id)

		if e.Record.GetBool("is_taken") {
			if err := redisClient.SRem(ctx, "open_gigs", e.Record.Id).Err(); err != nil {
				slog.Error("Failed to drop taken gig from index", "gigID", e.Record.Id, "error", err)
			}
		} else {
			if err := redisClient.SAdd(ctx, "open_gigs", e.Record.Id).Err(); err != nil {
				slog.Error("Failed to re-index gig", "gigID", e.Record.Id, "error", err)
			}
		}
		return nil
	})

	app.OnRecordDeleteRequest("gigs").BindFunc(func(e *core.RecordRequestEvent) error {
		if err := e.Next(); err != nil {
			return err
		}
		ctx := e.Request.Context()

		gigService.InvalidateSnapshot(ctx, e.Record.Id)
		if err := redisClient.SRem(ctx, "open_gigs", e.Record.Id).Err(); err != nil {
			slog.Error("Failed to drop deleted gig from index", "gigID", e.Record.Id, "error", err)
		}
		return nil
	})
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
