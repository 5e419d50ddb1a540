package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mizuki-lab/nocturne/pkg/cli/config"
)

func TestPipelineFlags(t *testing.T) {
	pipelineConfig := &config.Pipeline{}
	flags := pipelineConfig.Flags()

	gt.V(t, len(flags)).Equal(8)

	flagNames := make(map[string]bool)
	for _, flag := range flags {
		flagNames[flag.Names()[0]] = true
	}

	gt.True(t, flagNames["owner"])
	gt.True(t, flagNames["repo"])
	gt.True(t, flagNames["trunk"])
	gt.True(t, flagNames["tag"])
	gt.True(t, flagNames["hosting-branch"])
	gt.True(t, flagNames["targets"])
}
