package model

import (
	"regexp"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
)

var ptnValidCommitSHA = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Pipeline is the static description of one nightly release pipeline:
// which repository it watches, which branch counts as trunk, the floating
// tag it maintains and the targets it builds.
type Pipeline struct {
	Owner string
	Repo  string
	Trunk types.BranchName

	Tag          types.TagName
	ReleaseTitle string
	ReleaseBody  string

	// HostingBranch receives the web bundle tree (e.g. gh-pages).
	HostingBranch types.BranchName

	Targets []TargetSpec
}

func (x *Pipeline) Validate() error {
	if x.Owner == "" {
		return goerr.Wrap(types.ErrValidationFailed, "owner is empty")
	}
	if x.Repo == "" {
		return goerr.Wrap(types.ErrValidationFailed, "repo is empty")
	}
	if x.Trunk == "" {
		return goerr.Wrap(types.ErrValidationFailed, "trunk branch is empty")
	}
	if x.Tag == "" {
		return goerr.Wrap(types.ErrValidationFailed, "release tag is empty")
	}
	if len(x.Targets) == 0 {
		return goerr.Wrap(types.ErrValidationFailed, "no targets configured")
	}

	seen := map[types.Platform]struct{}{}
	for i := range x.Targets {
		tgt := &x.Targets[i]
		if err := tgt.Validate(); err != nil {
			return err
		}
		if _, ok := seen[tgt.Platform]; ok {
			return goerr.Wrap(types.ErrValidationFailed, "duplicated platform",
				goerr.V("platform", tgt.Platform))
		}
		seen[tgt.Platform] = struct{}{}

		// The bundle's internal asset references resolve under the public
		// path, and the hosting surface serves the bundle under the repo
		// subpath. Both must agree or relative asset loading breaks.
		if tgt.Web && tgt.PublicPath != "/"+x.Repo+"/" {
			return goerr.Wrap(types.ErrValidationFailed, "public path must match hosting subpath",
				goerr.V("platform", tgt.Platform),
				goerr.V("public_path", tgt.PublicPath),
				goerr.V("expected", "/"+x.Repo+"/"))
		}
		if tgt.Web && x.HostingBranch == "" {
			return goerr.Wrap(types.ErrValidationFailed, "hosting branch is required for web target",
				goerr.V("platform", tgt.Platform))
		}
	}

	return nil
}

// Trigger is a single cause for a pipeline run: a push to trunk, a
// schedule tick, or a manual invocation from the CLI.
type Trigger struct {
	Kind      types.TriggerKind
	Owner     string
	Repo      string
	Branch    types.BranchName
	CommitSHA types.CommitSHA

	InstallID types.GitHubAppInstallID
}

func (x *Trigger) Validate() error {
	switch x.Kind {
	case types.TriggerPush, types.TriggerSchedule, types.TriggerManual:
	default:
		return goerr.Wrap(types.ErrValidationFailed, "unknown trigger kind", goerr.V("kind", x.Kind))
	}
	if x.Owner == "" || x.Repo == "" {
		return goerr.Wrap(types.ErrValidationFailed, "owner and repo are required")
	}
	if x.Branch == "" {
		return goerr.Wrap(types.ErrValidationFailed, "branch is required")
	}
	// CommitSHA may be empty; the coordinator resolves the branch head then.
	if x.CommitSHA != "" && !ptnValidCommitSHA.MatchString(string(x.CommitSHA)) {
		return goerr.Wrap(types.ErrValidationFailed, "invalid commit SHA", goerr.V("commit", x.CommitSHA))
	}

	return nil
}

// JobResult is the outcome of one platform job within a run.
type JobResult struct {
	Platform   types.Platform  `json:"platform"`
	Status     types.JobStatus `json:"status"`
	CommitSHA  types.CommitSHA `json:"commit_sha"`
	AssetName  string          `json:"asset_name,omitempty"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
}

// RunReport aggregates per-platform job results of one pipeline run.
// Jobs are independent: a failed entry never implies anything about the
// other entries.
type RunReport struct {
	ID        types.RunID       `json:"id"`
	Kind      types.TriggerKind `json:"trigger"`
	Owner     string            `json:"owner"`
	Repo      string            `json:"repo"`
	Branch    types.BranchName  `json:"branch"`
	CommitSHA types.CommitSHA   `json:"commit_sha"`
	StartedAt time.Time         `json:"started_at"`
	Jobs      []JobResult       `json:"jobs"`
}

func (x *RunReport) CountByStatus(status types.JobStatus) int {
	var n int
	for _, job := range x.Jobs {
		if job.Status == status {
			n++
		}
	}
	return n
}

func (x *RunReport) Failed() int {
	return x.CountByStatus(types.JobStatusFailure)
}

func (x *RunReport) Succeeded() int {
	return x.CountByStatus(types.JobStatusSuccess)
}
