package factory

import (
	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/alaaharoun/livetranslate-server/pkg/recognizer"
	"github.com/alaaharoun/livetranslate-server/pkg/recognizer/providers/azure"
	dbservice "github.com/alaaharoun/livetranslate-server/pkg/services/db"
	natsservice "github.com/alaaharoun/livetranslate-server/pkg/services/nats"
	redisservice "github.com/alaaharoun/livetranslate-server/pkg/services/redis"
)

// The reporting backends are optional, their services stay nil when not connected.

func provideRedisService(app *config.AppConfig) *redisservice.RedisService {
	if app.RDS == nil {
		return nil
	}
	return redisservice.New(app.RDS, app.Logger)
}

func provideNatsService(app *config.AppConfig) *natsservice.NatsService {
	if app.NatsConn == nil {
		return nil
	}
	return natsservice.New(app.NatsConn, app.Reporting.TranscriptTopic, app.Logger)
}

func provideDatabaseService(app *config.AppConfig) *dbservice.DatabaseService {
	if app.DB == nil {
		return nil
	}
	return dbservice.New(app.DB, app.Logger)
}

func provideSpeechEngine(app *config.AppConfig) recognizer.Engine {
	return azure.New(app.Credentials, app.Logger)
}

func provideSpeechSettings(app *config.AppConfig) *config.SpeechSettings {
	return &app.Speech
}
