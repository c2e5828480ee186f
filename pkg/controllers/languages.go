package controllers

import (
	"github.com/alaaharoun/livetranslate-server/pkg/languages"
	"github.com/gofiber/fiber/v2"
)

type LanguagesController struct {
	validator *languages.Validator
}

func NewLanguagesController(validator *languages.Validator) *LanguagesController {
	return &LanguagesController{validator: validator}
}

func (lc *LanguagesController) HandleSupportedLanguages(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"default":    lc.validator.Default(),
		"supported":  lc.validator.Supported(),
		"autoDetect": lc.validator.AutoDetectCandidates(),
	})
}
