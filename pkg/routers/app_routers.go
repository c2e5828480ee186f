package routers

import (
	"io"
	"runtime"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/alaaharoun/livetranslate-server/pkg/factory"
	"github.com/alaaharoun/livetranslate-server/version"
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	rr "github.com/gofiber/fiber/v2/middleware/recover"
)

type router struct {
	app    *fiber.App
	appCnf *config.AppConfig
	ctrl   *factory.ApplicationControllers
}

func New(appConfig *config.AppConfig, ctrl *factory.ApplicationControllers) *fiber.App {
	cnf := fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		AppName:     "livetranslate version: " + version.Version + " runtime: " + runtime.Version(),
	}

	if appConfig.Client.ProxyHeader != "" {
		cnf.ProxyHeader = appConfig.Client.ProxyHeader
	}

	app := fiber.New(cnf)

	app.Use(logger.New(logger.Config{
		Done: func(c *fiber.Ctx, logString []byte) {
			appConfig.Logger.Debugln(string(logString))
		},
		Format: "${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}",
		Output: io.Discard,
	}))

	if appConfig.Client.PrometheusConf.Enable {
		prometheus := fiberprometheus.New("livetranslate")
		prometheus.RegisterAt(app, appConfig.Client.PrometheusConf.MetricsPath)
		app.Use(prometheus.Middleware)
	}

	app.Use(rr.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,OPTIONS",
	}))

	r := &router{
		app:    app,
		appCnf: appConfig,
		ctrl:   ctrl,
	}
	r.registerBaseRoutes()
	r.registerWebsocketRoutes()

	// must stay last
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("not found")
	})

	return app
}

func (r *router) registerBaseRoutes() {
	r.app.Get("/healthCheck", r.ctrl.HealthCheckController.HandleHealthCheck)
	r.app.Get("/health", r.ctrl.HealthCheckController.HandleHealth)

	api := r.app.Group("/api")
	api.Get("/supportedLangs", r.ctrl.LanguagesController.HandleSupportedLanguages)
	api.Get("/usage", r.ctrl.UsageController.HandleGetUsage)
	api.Get("/sessions/:connId", r.ctrl.UsageController.HandleGetSessionHistory)
}

func (r *router) registerWebsocketRoutes() {
	path := r.appCnf.Client.WebsocketPath
	r.app.Use(path, r.ctrl.WebsocketController.HandleUpgradeCheck)
	r.app.Get(path, r.ctrl.WebsocketController.HandleWebSocket())
}
