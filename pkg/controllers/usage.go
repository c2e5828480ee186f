package controllers

import (
	"errors"
	"time"

	"github.com/alaaharoun/livetranslate-server/pkg/models"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type UsageController struct {
	usageModel *models.TranscriptionUsageModel
	logger     *logrus.Entry
}

func NewUsageController(usageModel *models.TranscriptionUsageModel, logger *logrus.Logger) *UsageController {
	return &UsageController{
		usageModel: usageModel,
		logger:     logger.WithField("controller", "usage"),
	}
}

// HandleGetUsage returns the usage counters of ?day=YYYY-MM-DD (UTC, default today),
// optionally narrowed to ?language=.
func (uc *UsageController) HandleGetUsage(c *fiber.Ctx) error {
	day := time.Now().UTC()
	if d := c.Query("day"); d != "" {
		parsed, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "msg": "day must be formatted as YYYY-MM-DD"})
		}
		day = parsed
	}

	summary, err := uc.usageModel.GetUsageSummary(c.UserContext(), day, c.Query("language"))
	if err != nil {
		return uc.sendError(c, err)
	}
	return c.JSON(fiber.Map{"status": true, "usage": summary})
}

func (uc *UsageController) HandleGetSessionHistory(c *fiber.Ctx) error {
	connId := c.Params("connId")
	if connId == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": false, "msg": "connId is required"})
	}

	sessions, err := uc.usageModel.GetSessionHistory(connId)
	if err != nil {
		return uc.sendError(c, err)
	}
	return c.JSON(fiber.Map{"status": true, "sessions": sessions})
}

func (uc *UsageController) sendError(c *fiber.Ctx, err error) error {
	if errors.Is(err, models.ErrUsageUnavailable) || errors.Is(err, models.ErrHistoryUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": false, "msg": err.Error()})
	}
	uc.logger.WithError(err).Errorln("failed to read usage")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": false, "msg": "failed to read usage"})
}
