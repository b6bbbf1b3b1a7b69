package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"camino_routes/internal/config"
	"camino_routes/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg)

	app := &cli.App{
		Name:        "camino-routes",
		Description: "Authoring, storage and export service for multi-stage hiking routes",

		Commands: []*cli.Command{
			serveCommand(cfg),
			exportCommand(cfg),
			importCommand(cfg),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("camino-routes failed")
	}
}
