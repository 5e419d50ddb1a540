package model

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// Step is one command invocation of a build, as argv. Steps run strictly
// in order and a failed step aborts the remaining steps of its job.
type Step []string

// TargetSpec describes how one platform's artifact is produced from a
// source checkout. Native targets gate on Test and strip symbols before
// packaging; the web target bundles a static site under PublicPath.
type TargetSpec struct {
	Platform types.Platform `yaml:"platform"`

	Build []Step `yaml:"build"`
	Test  []Step `yaml:"test,omitempty"`
	Strip []Step `yaml:"strip,omitempty"`

	// ArtifactPath is relative to the checkout root. The file (or the
	// bundle directory for web targets) must exist after the steps ran.
	ArtifactPath string `yaml:"artifact"`

	// AssetName is the file name of the release asset slot this target
	// publishes into. Unused for web targets.
	AssetName string `yaml:"asset,omitempty"`

	Web        bool   `yaml:"web,omitempty"`
	PublicPath string `yaml:"public_path,omitempty"`
}

func (x *TargetSpec) Validate() error {
	if x.Platform == "" {
		return goerr.Wrap(types.ErrValidationFailed, "target platform is empty")
	}
	if len(x.Build) == 0 {
		return goerr.Wrap(types.ErrValidationFailed, "target has no build steps",
			goerr.V("platform", x.Platform))
	}
	for _, step := range append(append(append([]Step{}, x.Build...), x.Test...), x.Strip...) {
		if len(step) == 0 {
			return goerr.Wrap(types.ErrValidationFailed, "empty build step",
				goerr.V("platform", x.Platform))
		}
	}
	if x.ArtifactPath == "" {
		return goerr.Wrap(types.ErrValidationFailed, "target artifact path is empty",
			goerr.V("platform", x.Platform))
	}
	if filepath.IsAbs(x.ArtifactPath) || strings.Contains(x.ArtifactPath, "..") {
		return goerr.Wrap(types.ErrValidationFailed, "artifact path must stay inside the checkout",
			goerr.V("platform", x.Platform), goerr.V("artifact", x.ArtifactPath))
	}
	if x.Web {
		if x.PublicPath == "" {
			return goerr.Wrap(types.ErrValidationFailed, "web target requires public_path",
				goerr.V("platform", x.Platform))
		}
		if !strings.HasPrefix(x.PublicPath, "/") || !strings.HasSuffix(x.PublicPath, "/") {
			return goerr.Wrap(types.ErrValidationFailed, "public_path must begin and end with a slash",
				goerr.V("platform", x.Platform), goerr.V("public_path", x.PublicPath))
		}
	} else if x.AssetName == "" {
		return goerr.Wrap(types.ErrValidationFailed, "native target requires asset name",
			goerr.V("platform", x.Platform))
	}

	return nil
}

// Steps returns the full ordered command sequence of the target with
// placeholders expanded: {public_path} and {commit}.
func (x *TargetSpec) Steps(commit types.CommitSHA) []Step {
	raw := make([]Step, 0, len(x.Build)+len(x.Test)+len(x.Strip))
	raw = append(raw, x.Build...)
	raw = append(raw, x.Test...)
	raw = append(raw, x.Strip...)

	expanded := make([]Step, len(raw))
	for i, step := range raw {
		argv := make(Step, len(step))
		for j, arg := range step {
			arg = strings.ReplaceAll(arg, "{public_path}", x.PublicPath)
			arg = strings.ReplaceAll(arg, "{commit}", string(commit))
			argv[j] = arg
		}
		expanded[i] = argv
	}
	return expanded
}

type targetTable struct {
	Targets []TargetSpec `yaml:"targets"`
}

// LoadTargets reads the per-target capability table from a YAML file.
func LoadTargets(path string) ([]TargetSpec, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read target table", goerr.V("path", path))
	}
	return ParseTargets(raw)
}

func ParseTargets(raw []byte) ([]TargetSpec, error) {
	var table targetTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, goerr.Wrap(err, "failed to parse target table")
	}
	if len(table.Targets) == 0 {
		return nil, goerr.Wrap(types.ErrValidationFailed, "target table has no targets")
	}
	return table.Targets, nil
}
