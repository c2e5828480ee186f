package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alaaharoun/livetranslate-server/pkg/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageController_WithoutBackends(t *testing.T) {
	appCnf := newTestAppConfig(t, true)
	usageModel := models.NewTranscriptionUsageModel(context.Background(), appCnf, nil, nil, nil, appCnf.Logger)
	t.Cleanup(usageModel.Shutdown)
	uc := NewUsageController(usageModel, appCnf.Logger)

	app := fiber.New()
	app.Get("/api/usage", uc.HandleGetUsage)
	app.Get("/api/sessions/:connId", uc.HandleGetSessionHistory)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "usage today", path: "/api/usage", status: http.StatusServiceUnavailable},
		{name: "usage for a day", path: "/api/usage?day=2026-03-09&language=en-US", status: http.StatusServiceUnavailable},
		{name: "bad day", path: "/api/usage?day=09.03.2026", status: http.StatusBadRequest},
		{name: "session history", path: "/api/sessions/conn-1", status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
