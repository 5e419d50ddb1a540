package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidOption     = goerr.New("invalid option")
	ErrValidationFailed  = goerr.New("validation failed")
	ErrArtifactMissing   = goerr.New("artifact missing")
	ErrInvalidGitHubData = goerr.New("invalid GitHub data")
	ErrBuildStepFailed   = goerr.New("build step failed")
)
