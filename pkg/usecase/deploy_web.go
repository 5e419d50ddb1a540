package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
)

// DeployWeb ships the web bundle to the static hosting branch, replacing
// its previous contents. Gating on the trigger happens in the caller;
// this operation unconditionally publishes.
func (x *UseCase) DeployWeb(ctx context.Context, commit types.CommitSHA, artifact *model.Artifact) error {
	if x.clients.Hosting() == nil {
		return goerr.Wrap(types.ErrInvalidOption, "hosting client is not configured")
	}

	message := fmt.Sprintf("deploy web bundle for %s", commit)
	if err := x.clients.Hosting().PublishTree(ctx, x.pipeline.Owner, x.pipeline.Repo, x.pipeline.HostingBranch, artifact.Path, message); err != nil {
		return err
	}

	logging.From(ctx).Info("deployed web bundle",
		slog.String("branch", string(x.pipeline.HostingBranch)),
		slog.String("commit", string(commit)),
	)

	return nil
}
