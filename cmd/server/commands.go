package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"camino_routes/internal/config"
	"camino_routes/internal/controllers"
	"camino_routes/internal/drafts"
	"camino_routes/internal/editor"
	"camino_routes/internal/events"
	"camino_routes/internal/middleware"
	"camino_routes/internal/routes"
	"camino_routes/internal/trail"
)

func serveCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: cfg.Port, Usage: "listen port"},
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context
			decoder := trail.NewDecoder(nil)

			be, err := openBackend(ctx, cfg, decoder)
			if err != nil {
				return err
			}
			defer be.close()

			hub := events.NewHub()
			defer hub.Close()

			jwt := middleware.NewAuth(cfg.JWTSecret, cfg.AuthEnabled)
			deps := routes.Deps{
				Routes: controllers.NewRouteController(be.routes, decoder, hub),
				Auth:   controllers.NewAuthController(be.accounts, jwt),
				Feed:   controllers.NewFeedController(hub, jwt, cfg.CORSOrigins),
				JWT:    jwt,
			}

			rdb, err := config.OpenRedis(ctx, cfg)
			if err != nil {
				logrus.WithError(err).Warn("Redis unavailable, draft endpoints disabled")
			} else {
				defer rdb.Close()
				deps.Drafts = controllers.NewDraftController(drafts.NewStore(rdb, cfg.DraftTTL), editor.New(decoder), be.routes, hub)
			}

			gin.SetMode(gin.ReleaseMode)
			handler := middleware.EnableCORS(cfg.CORSOrigins, routes.SetupRouter(deps))
			return listen(ctx, ":"+c.String("port"), handler)
		},
	}
}

// listen serves until SIGINT or SIGTERM, then drains in-flight requests.
func listen(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("Server running")
		errs <- srv.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-signals:
		logrus.WithField("signal", sig.String()).Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func exportCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write every route as a routes.json envelope",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: controllers.ExportFilename, Usage: "output file, - for stdout"},
			&cli.BoolFlag{Name: "canonical", Usage: "write distance band labels under label"},
		},
		Action: func(c *cli.Context) error {
			be, err := openBackend(c.Context, cfg, trail.NewDecoder(nil))
			if err != nil {
				return err
			}
			defer be.close()

			format := trail.Legacy
			if c.Bool("canonical") {
				format = trail.Canonical
			}

			out := c.String("out")
			w := os.Stdout
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			n, err := exportRoutes(c.Context, be.routes, w, format)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"routes": n, "out": out}).Info("Export complete")
			return nil
		},
	}
}

func importCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "store every route of a routes.json envelope",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("import needs a FILE argument", 2)
			}
			body, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			decoder := trail.NewDecoder(nil)
			be, err := openBackend(c.Context, cfg, decoder)
			if err != nil {
				return err
			}
			defer be.close()

			res, err := importRoutes(c.Context, be.routes, decoder, body)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"created": res.Created, "replaced": res.Replaced}).Info("Import complete")
			return nil
		},
	}
}
