package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/interfaces"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
)

// validateGitHubAppEvent validates and parses a GitHub App webhook event.
// It returns a pipeline trigger if the event should start a run, or nil if
// the event is to be ignored. This function is synchronous and should be
// called before starting background processing.
func validateGitHubAppEvent(r *http.Request, key types.GitHubAppSecret) (*model.Trigger, error) {
	ctx := r.Context()
	payload, err := github.ValidatePayload(r, []byte(key))
	if err != nil {
		return nil, goerr.Wrap(err, "validating payload")
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		return nil, goerr.Wrap(err, "parsing webhook")
	}

	logging.From(ctx).With(slog.Any("event", event)).Info("Received GitHub App event")

	return githubEventToTrigger(event), nil
}

// runPipelineAsync executes the pipeline run in the provided context.
// This function is designed to be called from a background goroutine.
func runPipelineAsync(ctx context.Context, uc interfaces.UseCase, trigger *model.Trigger) {
	logger := logging.From(ctx).With(slog.Any("trigger", trigger))
	logger.Info("Starting pipeline run")

	if report, err := uc.RunPipeline(ctx, trigger); err != nil {
		logger.Error("Background pipeline run failed", slog.Any("error", err))
	} else {
		logger.Info("Pipeline run completed", slog.Any("report", report))
	}
}

func refToBranch(v string) string {
	if ref := strings.SplitN(v, "/", 3); len(ref) == 3 && ref[0] == "refs" && ref[1] == "heads" {
		return ref[2]
	}
	return v
}

func githubEventToTrigger(event interface{}) *model.Trigger {
	switch ev := event.(type) {
	case *github.PushEvent:
		// Tag pushes come through the same event type. The nightly tag is
		// force-moved by the pipeline itself, so reacting to them would
		// loop.
		if !strings.HasPrefix(ev.GetRef(), "refs/heads/") {
			logging.Default().Debug("ignore non-branch push", slog.String("ref", ev.GetRef()))
			return nil
		}
		if ev.GetDeleted() {
			logging.Default().Debug("ignore branch deletion", slog.String("ref", ev.GetRef()))
			return nil
		}
		if ev.HeadCommit == nil || ev.HeadCommit.ID == nil {
			logging.Default().Warn("ignore push event without head commit", slog.Any("event", ev))
			return nil
		}

		// Only the default branch feeds the pipeline. Pushes to feature
		// branches never publish anything.
		branch := refToBranch(ev.GetRef())
		if branch != ev.GetRepo().GetDefaultBranch() {
			logging.Default().Debug("ignore push to non-default branch",
				slog.String("branch", branch),
				slog.String("default_branch", ev.GetRepo().GetDefaultBranch()))
			return nil
		}

		return &model.Trigger{
			Kind:      types.TriggerPush,
			Owner:     ev.GetRepo().GetOwner().GetLogin(),
			Repo:      ev.GetRepo().GetName(),
			Branch:    types.BranchName(branch),
			CommitSHA: types.CommitSHA(ev.GetHeadCommit().GetID()),
			InstallID: types.GitHubAppInstallID(ev.GetInstallation().GetID()),
		}

	case *github.InstallationEvent, *github.InstallationRepositoriesEvent, *github.CreateEvent:
		return nil // ignore

	default:
		logging.Default().Warn("unsupported event", slog.Any("event", fmt.Sprintf("%T", event)))
		return nil
	}
}

// Test helpers - exported for testing
func RefToBranchForTest(v string) string {
	return refToBranch(v)
}

func GithubEventToTriggerForTest(event interface{}) *model.Trigger {
	return githubEventToTrigger(event)
}
