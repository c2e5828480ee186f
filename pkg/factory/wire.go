//go:build wireinject
// +build wireinject

package factory

import (
	"context"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/alaaharoun/livetranslate-server/pkg/controllers"
	"github.com/alaaharoun/livetranslate-server/pkg/languages"
	"github.com/alaaharoun/livetranslate-server/pkg/models"
	"github.com/alaaharoun/livetranslate-server/pkg/session"
	"github.com/google/wire"
)

// build the dependency set for services
var serviceSet = wire.NewSet(
	provideRedisService,
	provideNatsService,
	provideDatabaseService,
	provideSpeechEngine,
	languages.New,
	wire.FieldsOf(new(*config.AppConfig), "Logger"),
	provideSpeechSettings,
)

// build the dependency set for models
var modelSet = wire.NewSet(
	models.NewTranscriptionUsageModel,
	wire.Bind(new(session.Observer), new(*models.TranscriptionUsageModel)),
)

// build the dependency set for controllers
var controllerSet = wire.NewSet(
	controllers.NewHealthCheckController,
	controllers.NewLanguagesController,
	controllers.NewUsageController,
	controllers.NewWebsocketController,
)

// NewAppFactory is the injector function that wire will implement.
func NewAppFactory(ctx context.Context, appConfig *config.AppConfig) (*Application, error) {
	wire.Build(
		serviceSet,
		modelSet,
		controllerSet,
		wire.Struct(new(ApplicationControllers), "*"),
		wire.Struct(new(Application), "*"),
	)
	return nil, nil // This return value is ignored.
}
