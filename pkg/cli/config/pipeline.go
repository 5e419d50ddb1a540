package config

import (
	"log/slog"

	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Pipeline collects the static pipeline description from flags and the
// target table file.
type Pipeline struct {
	owner         string
	repo          string
	trunk         string
	tag           string
	releaseTitle  string
	releaseBody   string
	hostingBranch string
	targetsFile   string
}

func (x *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Repository owner",
			Category:    "Pipeline",
			Destination: &x.owner,
			Sources:     cli.EnvVars("NOCTURNE_OWNER"),
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository name",
			Category:    "Pipeline",
			Destination: &x.repo,
			Sources:     cli.EnvVars("NOCTURNE_REPO"),
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "trunk",
			Usage:       "Trunk branch name",
			Category:    "Pipeline",
			Value:       "main",
			Destination: &x.trunk,
			Sources:     cli.EnvVars("NOCTURNE_TRUNK"),
		},
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Floating release tag",
			Category:    "Pipeline",
			Value:       "nightly",
			Destination: &x.tag,
			Sources:     cli.EnvVars("NOCTURNE_TAG"),
		},
		&cli.StringFlag{
			Name:        "release-title",
			Usage:       "Title of the rolling release",
			Category:    "Pipeline",
			Value:       "Nightly Release",
			Destination: &x.releaseTitle,
			Sources:     cli.EnvVars("NOCTURNE_RELEASE_TITLE"),
		},
		&cli.StringFlag{
			Name:        "release-body",
			Usage:       "Body text of the rolling release",
			Category:    "Pipeline",
			Destination: &x.releaseBody,
			Sources:     cli.EnvVars("NOCTURNE_RELEASE_BODY"),
		},
		&cli.StringFlag{
			Name:        "hosting-branch",
			Usage:       "Branch serving the web bundle (e.g. gh-pages)",
			Category:    "Pipeline",
			Destination: &x.hostingBranch,
			Sources:     cli.EnvVars("NOCTURNE_HOSTING_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "targets",
			Usage:       "Path to the target table YAML file",
			Category:    "Pipeline",
			Value:       "targets.yml",
			Destination: &x.targetsFile,
			Sources:     cli.EnvVars("NOCTURNE_TARGETS"),
		},
	}
}

// Load reads the target table and assembles a validated pipeline.
func (x *Pipeline) Load() (*model.Pipeline, error) {
	targets, err := model.LoadTargets(x.targetsFile)
	if err != nil {
		return nil, err
	}

	pipeline := &model.Pipeline{
		Owner:         x.owner,
		Repo:          x.repo,
		Trunk:         types.BranchName(x.trunk),
		Tag:           types.TagName(x.tag),
		ReleaseTitle:  x.releaseTitle,
		ReleaseBody:   x.releaseBody,
		HostingBranch: types.BranchName(x.hostingBranch),
		Targets:       targets,
	}
	if err := pipeline.Validate(); err != nil {
		return nil, err
	}
	return pipeline, nil
}

func (x Pipeline) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("owner", x.owner),
		slog.String("repo", x.repo),
		slog.String("trunk", x.trunk),
		slog.String("tag", x.tag),
		slog.String("hostingBranch", x.hostingBranch),
		slog.String("targetsFile", x.targetsFile),
	)
}
