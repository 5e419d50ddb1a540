package types

import (
	"log/slog"

	"github.com/google/uuid"
)

type (
	Platform    string
	CommitSHA   string
	BranchName  string
	TagName     string
	TriggerKind string
	JobStatus   string
	RunID       string
	RequestID   string

	GitHubAppID         int64
	GitHubAppInstallID  int64
	GitHubAppSecret     string
	GitHubAppPrivateKey string

	GoogleProjectID string
	BQDatasetID     string
	BQTableID       string
)

const (
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
	PlatformWeb     Platform = "web"
)

const (
	TriggerPush     TriggerKind = "push"
	TriggerSchedule TriggerKind = "schedule"
	TriggerManual   TriggerKind = "manual"
)

const (
	JobStatusSuccess JobStatus = "success"
	JobStatusFailure JobStatus = "failure"
	JobStatusSkipped JobStatus = "skipped"
)

func NewRunID() RunID {
	return RunID(uuid.NewString())
}

func NewRequestID() RequestID {
	return RequestID(uuid.NewString())
}

func (x Platform) String() string   { return string(x) }
func (x CommitSHA) String() string  { return string(x) }
func (x BranchName) String() string { return string(x) }
func (x TagName) String() string    { return string(x) }

func (x GoogleProjectID) String() string { return string(x) }
func (x BQDatasetID) String() string     { return string(x) }
func (x BQTableID) String() string       { return string(x) }

func (x GitHubAppSecret) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubAppSecret) String() string {
	return "***********"
}

func (x GitHubAppPrivateKey) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubAppPrivateKey) String() string {
	return "***********"
}
