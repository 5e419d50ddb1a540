package cli_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mizuki-lab/nocturne/pkg/cli"
	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
)

func TestAutoDetectGitTrigger(t *testing.T) {
	ctx := context.Background()

	t.Run("auto-detect from current git repository", func(t *testing.T) {
		trigger := model.Trigger{Kind: types.TriggerManual}
		err := cli.AutoDetectGitTrigger(ctx, &trigger)

		if err != nil {
			t.Skipf("Not in a git repository: %v", err)
		}

		gt.V(t, trigger.Owner).NotEqual("")
		gt.V(t, trigger.Repo).NotEqual("")
		gt.V(t, trigger.CommitSHA).NotEqual(types.CommitSHA(""))
	})

	t.Run("preserve existing trigger fields", func(t *testing.T) {
		trigger := model.Trigger{
			Kind:      types.TriggerManual,
			Owner:     "custom-owner",
			Repo:      "custom-repo",
			CommitSHA: "custom-commit",
		}
		err := cli.AutoDetectGitTrigger(ctx, &trigger)

		if err != nil {
			t.Skipf("Not in a git repository: %v", err)
		}

		gt.V(t, trigger.Owner).Equal("custom-owner")
		gt.V(t, trigger.Repo).Equal("custom-repo")
		gt.V(t, trigger.CommitSHA).Equal(types.CommitSHA("custom-commit"))
	})
}
