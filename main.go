package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alaaharoun/livetranslate-server/helpers"
	"github.com/alaaharoun/livetranslate-server/pkg/factory"
	"github.com/alaaharoun/livetranslate-server/pkg/logging"
	"github.com/alaaharoun/livetranslate-server/pkg/routers"
	"github.com/alaaharoun/livetranslate-server/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	cli.VersionPrinter = func(c *cli.Command) {
		fmt.Printf("%s\n", c.Version)
	}

	app := &cli.Command{
		Name:        "livetranslate-server",
		Usage:       "Relays live microphone audio to streaming speech recognition",
		Description: "without option will start server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Configuration file",
				DefaultText: "config.yaml",
				Value:       "config.yaml",
			},
		},
		Action:  startServer,
		Version: version.Version,
	}
	err := app.Run(context.Background(), os.Args)
	if err != nil {
		logrus.Fatalln(err)
	}
}

func startServer(ctx context.Context, c *cli.Command) error {
	// the default config file is optional, an explicit one is not
	appCnf, err := helpers.ReadYamlConfigFile(c.String("config"), !c.IsSet("config"))
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(&appCnf.LogSettings, appCnf.Client.Debug)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to setup logger")
	}
	appCnf.Logger = logger

	err = helpers.PrepareServer(ctx, appCnf)
	if err != nil {
		logger.Fatalln(err)
	}
	defer helpers.HandleCloseConnections(appCnf)

	appFactory, err := factory.NewAppFactory(ctx, appCnf)
	if err != nil {
		logger.Fatalln(err)
	}
	if err = appFactory.Boot(); err != nil {
		logger.Fatalln(err)
	}

	rt := routers.New(appFactory.AppConfig, appFactory.Controllers)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		sig := <-sigChan
		logger.WithField("signal", sig.String()).Infoln("exit requested, shutting down")
		// stop accepting connections, live sessions are closed once Listen returns
		_ = rt.Shutdown()
	}()

	logger.WithField("port", appCnf.Client.Port).Infoln("starting livetranslate-server")
	err = rt.Listen(fmt.Sprintf(":%d", appCnf.Client.Port))
	appFactory.Shutdown()
	if err != nil {
		logger.Errorln(err)
		return err
	}
	return nil
}
