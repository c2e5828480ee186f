package factory

import (
	"context"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/alaaharoun/livetranslate-server/pkg/controllers"
	"github.com/alaaharoun/livetranslate-server/pkg/models"
	dbservice "github.com/alaaharoun/livetranslate-server/pkg/services/db"
)

// ApplicationControllers holds all the controllers.
type ApplicationControllers struct {
	HealthCheckController *controllers.HealthCheckController
	LanguagesController   *controllers.LanguagesController
	UsageController       *controllers.UsageController
	WebsocketController   *controllers.WebsocketController
}

// Application is the root struct holding all dependencies.
type Application struct {
	Controllers *ApplicationControllers
	AppConfig   *config.AppConfig
	Ctx         context.Context
	usageModel  *models.TranscriptionUsageModel
	dbService   *dbservice.DatabaseService
}

func (a *Application) Boot() error {
	log := a.AppConfig.Logger.WithField("factory", "application")
	if err := a.AppConfig.Credentials.Validate(); err != nil {
		// keep serving so that clients get a clear error message
		log.WithError(err).Warnln("speech credentials are not configured")
	}

	if a.dbService != nil {
		if err := a.dbService.Migrate(); err != nil {
			return err
		}
	}
	log.WithField("path", a.AppConfig.Client.WebsocketPath).Infoln("application booted")
	return nil
}

// Shutdown closes live sessions first so their usage still gets reported.
func (a *Application) Shutdown() {
	a.Controllers.WebsocketController.Shutdown()
	a.usageModel.Shutdown()
}
