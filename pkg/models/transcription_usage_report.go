package models

import (
	"context"
	"strings"
	"time"

	"github.com/alaaharoun/livetranslate-server/pkg/dbmodels"
	redisservice "github.com/alaaharoun/livetranslate-server/pkg/services/redis"
)

type UsageSummary struct {
	Day             string `json:"day"`
	TotalSeconds    int64  `json:"totalSeconds"`
	TotalSessions   int64  `json:"totalSessions"`
	ActiveSessions  int64  `json:"activeSessions"`
	Language        string `json:"language,omitempty"`
	LanguageSeconds int64  `json:"languageSeconds"`
}

// GetUsageSummary reads the daily usage counters. language is optional,
// "auto" selects the seconds of auto-detect sessions.
func (m *TranscriptionUsageModel) GetUsageSummary(ctx context.Context, day time.Time, language string) (*UsageSummary, error) {
	if m.usage == nil {
		return nil, ErrUsageUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	summary := &UsageSummary{
		Day:      day.UTC().Format(time.DateOnly),
		Language: strings.TrimSpace(language),
	}

	var err error
	if summary.TotalSeconds, err = m.usage.GetTranscriptionUsage(ctx, day, redisservice.TotalUsageField); err != nil {
		return nil, err
	}
	if summary.TotalSessions, err = m.usage.GetTranscriptionUsage(ctx, day, redisservice.TotalSessionsField); err != nil {
		return nil, err
	}
	if summary.ActiveSessions, err = m.usage.CountActiveSessions(ctx); err != nil {
		return nil, err
	}
	if summary.Language != "" {
		if summary.LanguageSeconds, err = m.usage.GetTranscriptionUsage(ctx, day, summary.Language); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// GetSessionHistory returns the stored sessions of one connection, oldest first.
func (m *TranscriptionUsageModel) GetSessionHistory(connectionId string) ([]dbmodels.TranscriptionSession, error) {
	if m.recorder == nil {
		return nil, ErrHistoryUnavailable
	}
	sessions, err := m.recorder.GetTranscriptionSessions(connectionId)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []dbmodels.TranscriptionSession{}
	}
	return sessions, nil
}
