package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
)

const tagMoveAttempts = 3

var tagMoveBackoff = time.Second

// EnsureNightlyTag force-moves the pipeline's floating tag onto the
// commit. Every platform job of a cycle targets the same commit, so
// concurrent calls converge on the same pointer; the operation carries no
// per-platform data. Transient remote failures are retried a bounded
// number of times with a linear backoff.
func (x *UseCase) EnsureNightlyTag(ctx context.Context, commit types.CommitSHA) error {
	var lastErr error
	for attempt := 1; attempt <= tagMoveAttempts; attempt++ {
		err := x.clients.Forge().ForceMoveTag(ctx, x.pipeline.Owner, x.pipeline.Repo, x.pipeline.Tag, commit)
		if err == nil {
			return nil
		}
		lastErr = err

		if errors.Is(err, types.ErrValidationFailed) || errors.Is(err, types.ErrInvalidGitHubData) {
			// The remote rejected the ref itself; retrying cannot help.
			return err
		}

		logging.From(ctx).Warn("tag move failed, retrying",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)

		if attempt < tagMoveAttempts {
			select {
			case <-ctx.Done():
				return goerr.Wrap(ctx.Err(), "tag move cancelled", goerr.V("tag", x.pipeline.Tag))
			case <-time.After(time.Duration(attempt) * tagMoveBackoff):
			}
		}
	}

	return goerr.Wrap(lastErr, "failed to move tag after retries",
		goerr.V("tag", x.pipeline.Tag),
		goerr.V("commit", commit),
		goerr.V("attempts", tagMoveAttempts),
	)
}
