package toolchain

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mizuki-lab/nocturne/pkg/domain/types"
	"github.com/mizuki-lab/nocturne/pkg/utils/logging"
)

// Client runs one build command inside a source checkout. Implementations
// must not start the command when ctx is already done.
type Client interface {
	Run(ctx context.Context, dir string, argv []string) error
}

type commandClient struct{}

func New() Client {
	return &commandClient{}
}

func (x *commandClient) Run(ctx context.Context, dir string, argv []string) error {
	if len(argv) == 0 {
		return goerr.Wrap(types.ErrInvalidOption, "empty command")
	}

	logging.From(ctx).Debug("running build command",
		slog.String("dir", dir),
		slog.Any("argv", argv),
	)

	var out bytes.Buffer
	// #nosec G204: argv comes from the operator's target table, not from events
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return goerr.Wrap(err, "build command failed",
			goerr.V("argv", argv),
			goerr.V("dir", dir),
			goerr.V("output", out.String()),
		)
	}

	return nil
}
