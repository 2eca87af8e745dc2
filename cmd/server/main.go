package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/yourorg/gmbcrawl/internal/bootstrap"
	"github.com/yourorg/gmbcrawl/internal/config"
	"github.com/yourorg/gmbcrawl/internal/debug"
	"github.com/yourorg/gmbcrawl/internal/handlers"
	"github.com/yourorg/gmbcrawl/internal/middleware"
	"github.com/yourorg/gmbcrawl/internal/models"
	"github.com/yourorg/gmbcrawl/internal/routes"
	"github.com/yourorg/gmbcrawl/internal/scheduler"
)

var version = "dev"

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("❌ CRITICAL: %v", err)
	}
	debug.Enable(cfg.Server.DebugDashboard)

	// ============================================================================
	// STORE + CRAWLER
	// ============================================================================
	var rt *bootstrap.Runtime
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		rt, err = bootstrap.Open(ctx, cfg)
		cancel()
		if err == nil {
			break
		}
		if attempt == 12 {
			log.Fatalf("❌ CRITICAL: store not available: %v", err)
		}
		log.Printf("db connect error: %v (retrying in 5s)", err)
		time.Sleep(5 * time.Second)
	}
	log.Printf("✅ Store ready (driver=%s)", cfg.Store.Driver)

	// ============================================================================
	// SCHEDULER
	// ============================================================================
	trigger := scheduler.NewTrigger(rt.Crawler.Run, cfg.Schedule.Budget)
	sched, err := scheduler.New(cfg.Schedule.Cron, cfg.Schedule.Timezone, trigger)
	if err != nil {
		log.Fatalf("❌ CRITICAL: %v", err)
	}
	sched.Start()

	if cfg.Schedule.OnStart {
		if err := trigger.FireAsync(context.Background(), models.TriggerStartup); err != nil {
			log.Printf("⚠️  startup crawl not started: %v", err)
		}
	}

	// ============================================================================
	// HTTP
	// ============================================================================
	handlers.Setup(handlers.Deps{
		DB:                rt.DB,
		Store:             rt.Store,
		StoreDriver:       cfg.Store.Driver,
		Runs:              rt.Runs,
		Trigger:           trigger,
		Schedule:          sched,
		JWTSecret:         []byte(cfg.Server.JWTSecret),
		TokenTTL:          cfg.Server.JWTTTL,
		AdminPasswordHash: cfg.Server.AdminPasswordHash,
		Version:           version,
	})
	if cfg.Server.AdminPasswordHash == "" {
		log.Println("⚠️  ADMIN_PASSWORD_HASH not set: POST /api/login and manual crawls are disabled")
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(logger.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.GlobalRateLimiter())
	app.Use(middleware.DashboardLogger())
	routes.Register(app, []byte(cfg.Server.JWTSecret))

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		<-sigChan
		log.Println("🛑 Señal de terminación recibida, cerrando servidor...")
		shutdown(app, sched, rt, 10*time.Second)
		close(done)
	}()

	log.Printf("🚀 Servidor escuchando en :%s", cfg.Server.Port)
	log.Println("📍 Endpoints disponibles:")
	log.Println("   GET  /api/health   - Health check")
	log.Println("   GET  /api/status   - Estado del crawler")
	log.Println("   GET  /api/runs     - Historial de ejecuciones")
	log.Println("   POST /api/login    - Token de operador")
	log.Println("   POST /api/crawl    - Disparo manual (JWT)")
	if debug.IsEnabled() {
		log.Println("   GET  /api/debug/ws - Dashboard en vivo")
	}

	if err := app.Listen(":" + cfg.Server.Port); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	// Listen vuelve apenas empieza el shutdown; esperar a que termine
	<-done
}
