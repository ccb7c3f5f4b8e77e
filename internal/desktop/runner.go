package desktop

import (
	"context"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Runner executes an external command given as an argument vector.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec. No shell is involved, so paths are
// passed through untouched.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if len(out) > 0 {
		log.Debugf("%s: %s", name, strings.TrimSpace(string(out)))
	}
	return err
}

// DryRunner logs the command instead of running it.
type DryRunner struct{}

func (DryRunner) Run(_ context.Context, name string, args ...string) error {
	log.Infof("[dry run] Would run %s %s", name, strings.Join(args, " "))
	return nil
}
