package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/gots/slice"
	"github.com/mizuki-lab/nocturne/pkg/cli/config"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/infra"
	"github.com/mizuki-lab/nocturne/pkg/usecase"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func runCommand() *cli.Command {
	var (
		commit string
		branch string

		githubApp config.GitHubApp
		pipeline  config.Pipeline
		bigQuery  config.BigQuery
		sentry    config.Sentry
	)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run the pipeline once for a single commit",
		Flags: slice.Flatten([]cli.Flag{
			&cli.StringFlag{
				Name:        "commit",
				Aliases:     []string{"c"},
				Usage:       "Commit SHA to build (auto-detect from git if not specified)",
				Sources:     cli.EnvVars("NOCTURNE_COMMIT"),
				Destination: &commit,
			},
			&cli.StringFlag{
				Name:        "branch",
				Aliases:     []string{"b"},
				Usage:       "Branch of the commit (auto-detect from git if not specified)",
				Sources:     cli.EnvVars("NOCTURNE_BRANCH"),
				Destination: &branch,
			},
		},
			githubApp.Flags(),
			pipeline.Flags(),
			bigQuery.Flags(),
			sentry.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
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

			trigger := &model.Trigger{
				Kind:      types.TriggerManual,
				Owner:     target.Owner,
				Repo:      target.Repo,
				Branch:    types.BranchName(branch),
				CommitSHA: types.CommitSHA(commit),
			}
			if trigger.CommitSHA == "" || trigger.Branch == "" {
				if err := AutoDetectGitTrigger(ctx, trigger); err != nil {
					logging.From(ctx).Warn("git auto-detection failed, falling back to trunk head",
						slog.Any("error", err))
					trigger.Branch = target.Trunk
				}
			}
			if trigger.Branch == "" {
				trigger.Branch = target.Trunk
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

			uc := usecase.New(infra.New(infraOptions...), target)

			report, err := uc.RunPipeline(ctx, trigger)
			if err != nil {
				return err
			}

			logging.From(ctx).Info("pipeline run completed", slog.Any("report", report))
			return nil
		},
	}
}
