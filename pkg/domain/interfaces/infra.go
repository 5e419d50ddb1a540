package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . Forge Hosting RunRecorder

import (
	"context"
	"net/url"

	"github.com/mizuki-lab/nocturne/pkg/domain/model"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
)

// Forge is the code-host surface the pipeline depends on: commit
// resolution, source archives, the floating tag and the release record.
type Forge interface {
	// GetBranchHead resolves the current head commit of a branch.
	GetBranchHead(ctx context.Context, owner, repo string, branch types.BranchName) (types.CommitSHA, error)

	// GetArchiveURL returns a download URL for the source tree at a commit.
	GetArchiveURL(ctx context.Context, owner, repo string, commit types.CommitSHA) (*url.URL, error)

	// ForceMoveTag points the tag at the commit, creating it when absent
	// and overwriting it otherwise. Moving the tag to the commit it
	// already points at must succeed as a no-op.
	ForceMoveTag(ctx context.Context, owner, repo string, tag types.TagName, commit types.CommitSHA) error

	// EnsureRelease returns the ID of the release record for the tag,
	// creating the record when it does not exist yet.
	EnsureRelease(ctx context.Context, owner, repo string, release *model.Release) (int64, error)

	// ReplaceAsset attaches the file to the release under the given name,
	// replacing a previous asset of the same name. Other assets are left
	// untouched. A missing file is an error, never a silent skip.
	ReplaceAsset(ctx context.Context, owner, repo string, releaseID int64, name, path string) error
}

// Hosting publishes a directory tree to a static hosting surface,
// replacing its prior contents.
type Hosting interface {
	PublishTree(ctx context.Context, owner, repo string, branch types.BranchName, dir, message string) error
}

// RunRecorder persists pipeline run reports for fleet history.
type RunRecorder interface {
	Insert(ctx context.Context, report *model.RunReport) error
}
