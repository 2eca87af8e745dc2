package handlers

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthResponse representa el estado de salud del sistema
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version,omitempty"`
}

// Health proporciona un health check completo del sistema
func Health(c *fiber.Ctx) error {
	d := getDeps()
	services := make(map[string]string)
	overall := "healthy"

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	// ============================================================================
	// CHECK: Base de Datos (solo con STORE_DRIVER=mysql)
	// ============================================================================
	if d.DB != nil {
		if err := d.DB.PingContext(ctx); err != nil {
			services["database"] = "unhealthy: " + err.Error()
			overall = "degraded"
		} else {
			services["database"] = "healthy"
		}
	}

	// ============================================================================
	// CHECK: Document store
	// ============================================================================
	if d.Store != nil {
		count, err := d.Store.Count(ctx)
		if err != nil {
			services["store"] = "unhealthy: " + err.Error()
			overall = "degraded"
		} else {
			services["store"] = "healthy (" + strconv.Itoa(count) + " documents)"
		}
	} else {
		services["store"] = "not_initialized"
		overall = "degraded"
	}

	if d.Trigger != nil && d.Trigger.Running() {
		services["crawler"] = "running"
	} else {
		services["crawler"] = "idle"
	}

	statusCode := fiber.StatusOK
	if overall == "degraded" {
		statusCode = fiber.StatusServiceUnavailable
	}

	version := d.Version
	if version == "" {
		version = os.Getenv("APP_VERSION")
	}
	return c.Status(statusCode).JSON(HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  services,
		Version:   version,
	})
}
