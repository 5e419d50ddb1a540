package usecase

import (
	"context"
	"log/slog"

	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
)

// recordRun persists the run report when a recorder is configured. The
// sink is best effort; a failed insert never fails the run.
func (x *UseCase) recordRun(ctx context.Context, report *model.RunReport) {
	if x.clients.RunRecorder() == nil {
		logging.From(ctx).Debug("run recorder is not configured, skipping record")
		return
	}

	if err := x.clients.RunRecorder().Insert(ctx, report); err != nil {
		logging.From(ctx).Warn("failed to record pipeline run",
			slog.String("run_id", string(report.ID)),
			slog.Any("error", err),
		)
	}
}
