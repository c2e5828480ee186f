package config

import (
	"fmt"
	"slices"
	"strings"
)

// SpeechSettings tunes the recognizer every session builds.
type SpeechSettings struct {
	DefaultLanguage         string   `yaml:"default_language"`
	SupportedLanguages      []string `yaml:"supported_languages"`
	AutoDetectLanguages     []string `yaml:"auto_detect_languages"`
	InitialSilenceTimeoutMs int      `yaml:"initial_silence_timeout_ms"`
	EndSilenceTimeoutMs     int      `yaml:"end_silence_timeout_ms"`
	DetailedResult          *bool    `yaml:"detailed_result"`
	InboundQueueSize        int      `yaml:"inbound_queue_size"`
}

func (s *SpeechSettings) setDefaults() error {
	if len(s.SupportedLanguages) == 0 {
		s.SupportedLanguages = slices.Clone(DefaultSupportedLanguages)
	}
	if s.DefaultLanguage == "" {
		s.DefaultLanguage = DefaultLanguage
	}
	if !slices.Contains(s.SupportedLanguages, s.DefaultLanguage) {
		return fmt.Errorf("default_language %q is not part of supported_languages", s.DefaultLanguage)
	}

	if len(s.AutoDetectLanguages) == 0 {
		s.AutoDetectLanguages = slices.Clone(DefaultAutoDetectLanguages)
	}
	if len(s.AutoDetectLanguages) > MaxAutoDetectLanguages {
		s.AutoDetectLanguages = s.AutoDetectLanguages[:MaxAutoDetectLanguages]
	}

	if s.InitialSilenceTimeoutMs <= 0 {
		s.InitialSilenceTimeoutMs = DefaultInitialSilenceTimeoutMs
	}
	if s.EndSilenceTimeoutMs <= 0 {
		s.EndSilenceTimeoutMs = DefaultEndSilenceTimeoutMs
	}
	if s.DetailedResult == nil {
		d := true
		s.DetailedResult = &d
	}
	if s.InboundQueueSize <= 0 {
		s.InboundQueueSize = DefaultInboundQueueSize
	}
	return nil
}

// IsAutoDetectRequest reports whether the requested language asks for language identification.
func IsAutoDetectRequest(lang string) bool {
	return strings.EqualFold(strings.TrimSpace(lang), "auto")
}
