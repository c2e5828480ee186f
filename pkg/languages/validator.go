package languages

import (
	"slices"
	"strings"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/sirupsen/logrus"
)

// Validator maps a requested locale onto the supported set.
// It never mutates its lists after construction so it is safe to share
// between connections.
type Validator struct {
	supported       map[string]struct{}
	ordered         []string
	autoDetect      []string
	defaultLanguage string
	logger          *logrus.Entry
}

func New(settings *config.SpeechSettings, logger *logrus.Logger) *Validator {
	v := &Validator{
		supported:       make(map[string]struct{}, len(settings.SupportedLanguages)),
		ordered:         slices.Clone(settings.SupportedLanguages),
		autoDetect:      slices.Clone(settings.AutoDetectLanguages),
		defaultLanguage: settings.DefaultLanguage,
		logger:          logger.WithField("service", "language-validator"),
	}
	for _, l := range settings.SupportedLanguages {
		v.supported[l] = struct{}{}
	}
	return v
}

// Validate returns requested when it is supported, otherwise the default locale.
func (v *Validator) Validate(requested string) string {
	requested = strings.TrimSpace(requested)
	if _, ok := v.supported[requested]; ok {
		return requested
	}
	v.logger.WithFields(logrus.Fields{
		"requested": requested,
		"default":   v.defaultLanguage,
	}).Infoln("unsupported language requested, using default")
	return v.defaultLanguage
}

func (v *Validator) IsSupported(lang string) bool {
	_, ok := v.supported[lang]
	return ok
}

func (v *Validator) Default() string {
	return v.defaultLanguage
}

// Supported returns a copy of the supported locales in configured order.
func (v *Validator) Supported() []string {
	return slices.Clone(v.ordered)
}

// AutoDetectCandidates returns a copy of the language identification candidates.
func (v *Validator) AutoDetectCandidates() []string {
	return slices.Clone(v.autoDetect)
}
