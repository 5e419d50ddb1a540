package usecase

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
)

// PublishArtifact attaches one platform's artifact to the release record
// of the floating tag, replacing only that platform's slot. A missing
// artifact file fails the job; the release must never silently gain an
// empty slot.
func (x *UseCase) PublishArtifact(ctx context.Context, artifact *model.Artifact) error {
	if artifact.Name == "" {
		return goerr.Wrap(types.ErrInvalidOption, "artifact has no asset name",
			goerr.V("platform", artifact.Platform))
	}
	if _, err := os.Stat(artifact.Path); err != nil {
		return goerr.Wrap(types.ErrArtifactMissing, "artifact vanished before publish",
			goerr.V("platform", artifact.Platform),
			goerr.V("path", artifact.Path),
		)
	}

	releaseID, err := x.clients.Forge().EnsureRelease(ctx, x.pipeline.Owner, x.pipeline.Repo, &model.Release{
		Tag:   x.pipeline.Tag,
		Title: x.pipeline.ReleaseTitle,
		Body:  x.pipeline.ReleaseBody,
	})
	if err != nil {
		return err
	}

	if err := x.clients.Forge().ReplaceAsset(ctx, x.pipeline.Owner, x.pipeline.Repo, releaseID, artifact.Name, artifact.Path); err != nil {
		return err
	}

	logging.From(ctx).Info("published artifact",
		slog.String("platform", string(artifact.Platform)),
		slog.String("asset", artifact.Name),
		slog.Int64("release_id", releaseID),
	)

	return nil
}
