package controllers

import (
	"time"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/gofiber/fiber/v2"
)

type HealthCheckController struct {
	app *config.AppConfig
}

func NewHealthCheckController(app *config.AppConfig) *HealthCheckController {
	return &HealthCheckController{app: app}
}

func (hc *HealthCheckController) HandleHealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("Healthy")
}

// HandleHealth reports liveness together with whether engine credentials are present.
func (hc *HealthCheckController) HandleHealth(c *fiber.Ctx) error {
	credentials := "Missing"
	if hc.app.Credentials.IsConfigured() {
		credentials = "Present"
	}
	return c.JSON(fiber.Map{
		"status":      "ok",
		"credentials": credentials,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
