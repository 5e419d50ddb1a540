package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
)

// RunPipeline executes one full cycle of the nightly pipeline for a
// trigger: resolve the trunk commit, build every configured target in an
// isolated parallel job, and for each successful job move the floating tag
// and publish the platform's artifact. Jobs never block or cancel each
// other; the report carries one result per platform.
func (x *UseCase) RunPipeline(ctx context.Context, trigger *model.Trigger) (*model.RunReport, error) {
	if err := x.pipeline.Validate(); err != nil {
		return nil, err
	}
	if err := trigger.Validate(); err != nil {
		return nil, err
	}
	if trigger.Owner != x.pipeline.Owner || trigger.Repo != x.pipeline.Repo {
		return nil, goerr.Wrap(types.ErrValidationFailed, "trigger is for another repository",
			goerr.V("owner", trigger.Owner), goerr.V("repo", trigger.Repo),
			goerr.V("pipeline_owner", x.pipeline.Owner), goerr.V("pipeline_repo", x.pipeline.Repo))
	}
	if trigger.Branch != x.pipeline.Trunk {
		return nil, goerr.Wrap(types.ErrValidationFailed, "trigger branch is not trunk",
			goerr.V("branch", trigger.Branch), goerr.V("trunk", x.pipeline.Trunk))
	}

	commit := trigger.CommitSHA
	if commit == "" {
		// Schedule and manual triggers carry no commit; rebuild whatever
		// trunk currently points at, even if nothing changed.
		head, err := x.clients.Forge().GetBranchHead(ctx, x.pipeline.Owner, x.pipeline.Repo, x.pipeline.Trunk)
		if err != nil {
			return nil, err
		}
		commit = head
	}

	report := &model.RunReport{
		ID:        types.NewRunID(),
		Kind:      trigger.Kind,
		Owner:     trigger.Owner,
		Repo:      trigger.Repo,
		Branch:    trigger.Branch,
		CommitSHA: commit,
		StartedAt: logging.CtxTime(ctx),
		Jobs:      make([]model.JobResult, len(x.pipeline.Targets)),
	}

	logger := logging.From(ctx).With(
		slog.String("run_id", string(report.ID)),
		slog.String("trigger", string(trigger.Kind)),
		slog.String("commit", string(commit)),
	)
	ctx = logging.With(ctx, logger)
	logger.Info("starting pipeline run", slog.Int("targets", len(x.pipeline.Targets)))

	var wg sync.WaitGroup
	for i := range x.pipeline.Targets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report.Jobs[i] = x.runTargetJob(ctx, trigger, commit, &x.pipeline.Targets[i])
		}(i)
	}
	wg.Wait()

	x.recordRun(ctx, report)

	logger.Info("pipeline run finished",
		slog.Int("success", report.Succeeded()),
		slog.Int("failure", report.Failed()),
	)

	if report.Failed() > 0 {
		return report, goerr.New("some platform jobs failed",
			goerr.V("run_id", report.ID),
			goerr.V("success_count", report.Succeeded()),
			goerr.V("failure_count", report.Failed()),
		)
	}

	return report, nil
}

// runTargetJob is one platform's isolated job. All steps of the job are
// strictly sequential; a step failure aborts only this job.
func (x *UseCase) runTargetJob(ctx context.Context, trigger *model.Trigger, commit types.CommitSHA, target *model.TargetSpec) model.JobResult {
	logger := logging.From(ctx).With(slog.String("platform", string(target.Platform)))
	ctx = logging.With(ctx, logger)

	result := model.JobResult{
		Platform:  target.Platform,
		CommitSHA: commit,
		AssetName: target.AssetName,
		StartedAt: time.Now(),
	}

	if err := x.buildAndPublish(ctx, trigger, commit, target); err != nil {
		logger.Error("platform job failed", slog.Any("error", err))
		result.Status = types.JobStatusFailure
		result.Error = err.Error()
	} else {
		result.Status = types.JobStatusSuccess
	}
	result.FinishedAt = time.Now()

	return result
}

func (x *UseCase) buildAndPublish(ctx context.Context, trigger *model.Trigger, commit types.CommitSHA, target *model.TargetSpec) error {
	artifact, cleanup, err := x.BuildTarget(ctx, commit, target)
	if err != nil {
		return err
	}
	defer cleanup()

	if target.Web {
		if !x.webDeployAllowed(trigger) {
			logging.From(ctx).Info("web deploy suppressed; trigger is not a trunk push",
				slog.String("trigger", string(trigger.Kind)))
			return nil
		}
		return x.DeployWeb(ctx, commit, artifact)
	}

	// The tag must be current before the asset lands on the release. The
	// move is idempotent, so every native job repeats it instead of
	// depending on a sibling job's ordering.
	if err := x.EnsureNightlyTag(ctx, commit); err != nil {
		return err
	}

	return x.PublishArtifact(ctx, artifact)
}

// webDeployAllowed gates the live site update to actual trunk pushes,
// decoupling it from the monthly keep-warm rebuild.
func (x *UseCase) webDeployAllowed(trigger *model.Trigger) bool {
	return trigger.Kind == types.TriggerPush && trigger.Branch == x.pipeline.Trunk
}
