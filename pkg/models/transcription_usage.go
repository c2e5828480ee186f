package models

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/alaaharoun/livetranslate-server/pkg/dbmodels"
	"github.com/alaaharoun/livetranslate-server/pkg/session"
	dbservice "github.com/alaaharoun/livetranslate-server/pkg/services/db"
	natsservice "github.com/alaaharoun/livetranslate-server/pkg/services/nats"
	redisservice "github.com/alaaharoun/livetranslate-server/pkg/services/redis"
	"github.com/gammazero/workerpool"
	"github.com/sirupsen/logrus"
)

const reportTimeout = 5 * time.Second

var (
	ErrUsageUnavailable   = errors.New("usage accounting is not configured")
	ErrHistoryUnavailable = errors.New("session history is not configured")
)

type usageStore interface {
	HandleActiveSession(ctx context.Context, sessionKey string, isStarted bool) error
	AddTranscriptionUsage(ctx context.Context, language string, endedAt time.Time, seconds int64) error
	GetTranscriptionUsage(ctx context.Context, day time.Time, field string) (int64, error)
	CountActiveSessions(ctx context.Context) (int64, error)
}

type transcriptPublisher interface {
	PublishTranscript(ev *natsservice.TranscriptEvent) error
}

type sessionRecorder interface {
	InsertTranscriptionSession(info *dbmodels.TranscriptionSession) (int64, error)
	GetTranscriptionSessions(connectionId string) ([]dbmodels.TranscriptionSession, error)
}

// TranscriptionUsageModel forwards session records to whichever reporting
// backends are configured. Work runs on a bounded worker pool so the
// session loops never wait on the network.
type TranscriptionUsageModel struct {
	ctx       context.Context
	app       *config.AppConfig
	usage     usageStore
	publisher transcriptPublisher
	recorder  sessionRecorder
	pool      *workerpool.WorkerPool
	logger    *logrus.Entry

	mu      sync.RWMutex
	stopped bool
}

func NewTranscriptionUsageModel(ctx context.Context, app *config.AppConfig, rs *redisservice.RedisService, ns *natsservice.NatsService, ds *dbservice.DatabaseService, logger *logrus.Logger) *TranscriptionUsageModel {
	m := &TranscriptionUsageModel{
		ctx:    ctx,
		app:    app,
		pool:   workerpool.New(app.Reporting.MaxWorkers),
		logger: logger.WithField("model", "transcription-usage"),
	}
	// keep the interfaces nil when a backend is disabled
	if rs != nil {
		m.usage = rs
	}
	if ns != nil {
		m.publisher = ns
	}
	if ds != nil {
		m.recorder = ds
	}
	return m
}

func (m *TranscriptionUsageModel) SessionStarted(rec *session.UsageRecord) {
	if m.usage == nil {
		return
	}
	key := rec.Key()
	m.submit(func() {
		ctx, cancel := context.WithTimeout(m.ctx, reportTimeout)
		defer cancel()
		if err := m.usage.HandleActiveSession(ctx, key, true); err != nil {
			m.logger.WithError(err).WithField("session", key).Errorln("failed to mark transcription session active")
		}
	})
}

func (m *TranscriptionUsageModel) SessionEnded(rec *session.UsageRecord) {
	if m.usage == nil && m.recorder == nil {
		return
	}
	seconds := int64(rec.Duration().Seconds())
	language := rec.Language
	if rec.AutoDetect {
		language = "auto"
	}

	m.submit(func() {
		log := m.logger.WithFields(logrus.Fields{
			"session":  rec.Key(),
			"language": language,
			"seconds":  seconds,
		})

		if m.usage != nil {
			ctx, cancel := context.WithTimeout(m.ctx, reportTimeout)
			defer cancel()
			if err := m.usage.HandleActiveSession(ctx, rec.Key(), false); err != nil {
				log.WithError(err).Warnln("failed to clear active transcription session")
			}
			if err := m.usage.AddTranscriptionUsage(ctx, language, rec.EndedAt, seconds); err != nil {
				log.WithError(err).Errorln("failed to add transcription usage")
			}
		}

		if m.recorder != nil {
			_, err := m.recorder.InsertTranscriptionSession(&dbmodels.TranscriptionSession{
				ConnectionID:   rec.ConnectionID,
				Generation:     rec.Generation,
				Language:       language,
				TargetLanguage: rec.TargetLanguage,
				AutoDetect:     rec.AutoDetect,
				RealTimeMode:   rec.RealTimeMode,
				Frames:         rec.Frames,
				Bytes:          rec.Bytes,
				DroppedFrames:  rec.DroppedFrames,
				Finals:         rec.Finals,
				DurationSec:    seconds,
				Started:        rec.StartedAt,
				Ended:          rec.EndedAt,
			})
			if err != nil {
				log.WithError(err).Errorln("failed to store transcription session")
			}
		}
		log.Debugln("transcription usage reported")
	})
}

func (m *TranscriptionUsageModel) FinalTranscript(t *session.Transcript) {
	if m.publisher == nil {
		return
	}
	ev := &natsservice.TranscriptEvent{
		ConnectionID:     t.ConnectionID,
		Generation:       t.Generation,
		Language:         t.Language,
		DetectedLanguage: t.DetectedLanguage,
		Text:             t.Text,
		Timestamp:        t.At.UnixMilli(),
	}
	m.submit(func() {
		if err := m.publisher.PublishTranscript(ev); err != nil {
			m.logger.WithError(err).WithField("connId", ev.ConnectionID).Errorln("failed to publish transcript")
		}
	})
}

// submit queues a report unless the model was already shut down.
func (m *TranscriptionUsageModel) submit(task func()) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.stopped {
		m.logger.Warnln("dropping report queued after shutdown")
		return
	}
	m.pool.Submit(task)
}

// Shutdown waits for queued reports to finish. Later reports are dropped.
func (m *TranscriptionUsageModel) Shutdown() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.mu.Unlock()

	m.pool.StopWait()
}
