package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
	"github.com/mizuki-lab/nocturne/pkg/utils/safe"
)

// BuildTarget produces one platform's artifact from the pipeline commit.
// The source tree is checked out into a job-private temp directory, the
// target's steps run strictly in order (compile, then tests as a gate for
// native targets, then strip or bundle), and the declared artifact path
// must exist afterwards. The returned cleanup removes the checkout; call
// it after the artifact has been consumed.
func (x *UseCase) BuildTarget(ctx context.Context, commit types.CommitSHA, target *model.TargetSpec) (*model.Artifact, func(), error) {
	workDir, err := os.MkdirTemp("", fmt.Sprintf("nocturne.%s.%s.%s.*", x.pipeline.Owner, x.pipeline.Repo, commit))
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create build directory")
	}
	cleanup := func() { safe.RemoveAll(workDir) }

	if err := x.checkout(ctx, commit, workDir); err != nil {
		cleanup()
		return nil, nil, err
	}

	for _, step := range target.Steps(commit) {
		if err := x.clients.Toolchain().Run(ctx, workDir, step); err != nil {
			cleanup()
			return nil, nil, goerr.Wrap(types.ErrBuildStepFailed, "target step failed",
				goerr.V("platform", target.Platform),
				goerr.V("argv", []string(step)),
				goerr.V("cause", err.Error()),
			)
		}
	}

	artifactPath := filepath.Join(workDir, target.ArtifactPath)
	info, err := os.Stat(artifactPath)
	if err != nil {
		cleanup()
		return nil, nil, goerr.Wrap(types.ErrArtifactMissing, "no artifact at the declared path",
			goerr.V("platform", target.Platform),
			goerr.V("artifact", target.ArtifactPath),
		)
	}
	// Web targets emit a bundle directory; native targets emit a file.
	if target.Web != info.IsDir() {
		cleanup()
		return nil, nil, goerr.Wrap(types.ErrArtifactMissing, "artifact has the wrong shape",
			goerr.V("platform", target.Platform),
			goerr.V("artifact", target.ArtifactPath),
			goerr.V("is_dir", info.IsDir()),
		)
	}

	logging.From(ctx).Info("built target",
		slog.String("platform", string(target.Platform)),
		slog.String("artifact", artifactPath),
	)

	return &model.Artifact{
		Platform: target.Platform,
		Name:     target.AssetName,
		Path:     artifactPath,
	}, cleanup, nil
}
