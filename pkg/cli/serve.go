package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/mizuki-lab/nocturne/pkg/cli/config"
	"github.com/mizuki-lab/nocturne/pkg/controller/server"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/infra"
	"github.com/mizuki-lab/nocturne/pkg/usecase"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
	"github.com/robfig/cron/v3"

	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		addr     string
		schedule string

		githubApp config.GitHubApp
		pipeline  config.Pipeline
		bigQuery  config.BigQuery
		sentry    config.Sentry
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("NOCTURNE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "schedule",
			Usage:       "Cron spec for keep-warm rebuilds (empty to disable)",
			Value:       "0 3 1 * *",
			Sources:     cli.EnvVars("NOCTURNE_SCHEDULE"),
			Destination: &schedule,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Server mode",
		Flags: slice.Flatten(
			serveFlags,
			githubApp.Flags(),
			pipeline.Flags(),
			bigQuery.Flags(),
			sentry.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Any("Schedule", schedule),
				slog.Any("GitHubApp", githubApp),
				slog.Any("Pipeline", pipeline),
				slog.Any("BigQuery", bigQuery),
				slog.Any("Sentry", sentry),
			)

			if err := sentry.Configure(ctx); err != nil {
				return err
			}

			forge, err := githubApp.New()
			if err != nil {
				return err
			}

			target, err := pipeline.Load()
			if err != nil {
				return err
			}

			infraOptions := []infra.Option{
				infra.WithForge(forge),
				infra.WithHosting(forge),
			}

			if bqClient, err := bigQuery.NewClient(ctx); err != nil {
				return err
			} else if bqClient != nil {
				infraOptions = append(infraOptions, infra.WithRunRecorder(bqClient))
			}

			clients := infra.New(infraOptions...)

			uc := usecase.New(clients, target)
			s := server.New(uc, server.WithGitHubSecret(githubApp.Secret()))

			scheduler, err := startScheduler(schedule, uc, target)
			if err != nil {
				return err
			}
			if scheduler != nil {
				defer scheduler.Stop()
			}

			serverErr := make(chan error, 1)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: s.Mux(),

				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
			}

			go func() {
				logging.Default().Info("starting http server", "addr", addr)
				if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
					serverErr <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErr:
				return err

			case sig := <-quit:
				logging.Default().Info("shutting down server", "signal", sig)

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(ctx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
			}

			return nil
		},
	}
}

// startScheduler registers the periodic keep-warm rebuild. The scheduled
// run resolves the trunk head itself: no commit is pinned here.
func startScheduler(spec string, uc *usecase.UseCase, pipeline *model.Pipeline) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}

	scheduler := cron.New()
	_, err := scheduler.AddFunc(spec, func() {
		ctx := context.Background()
		trigger := &model.Trigger{
			Kind:   types.TriggerSchedule,
			Owner:  pipeline.Owner,
			Repo:   pipeline.Repo,
			Branch: pipeline.Trunk,
		}

		logger := logging.Default().With(slog.Any("trigger", trigger))
		logger.Info("starting scheduled pipeline run")
		if report, err := uc.RunPipeline(ctx, trigger); err != nil {
			logger.Error("scheduled pipeline run failed", slog.Any("error", err))
		} else {
			logger.Info("scheduled pipeline run completed", slog.Any("report", report))
		}
	})
	if err != nil {
		return nil, goerr.Wrap(err, "invalid schedule spec", goerr.V("spec", spec))
	}

	scheduler.Start()
	return scheduler, nil
}
