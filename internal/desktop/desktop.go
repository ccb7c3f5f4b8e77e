package desktop

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Environment names a supported desktop environment.
type Environment string

const (
	XFCE     Environment = "xfce"
	LXDE     Environment = "lxde"
	MATE     Environment = "mate"
	KDE4     Environment = "kde4"
	E17      Environment = "e17"
	Cinnamon Environment = "cinnamon"
)

// Environments lists every supported environment in the order shown in help output.
var Environments = []Environment{XFCE, MATE, LXDE, KDE4, E17, Cinnamon}

// Parse converts a name like "xfce" or "--xfce" into an Environment.
func Parse(name string) (Environment, error) {
	name = strings.ToLower(strings.TrimLeft(strings.TrimSpace(name), "-"))
	for _, env := range Environments {
		if string(env) == name {
			return env, nil
		}
	}
	return "", fmt.Errorf("unknown desktop environment %q", name)
}

// Applier sets the desktop wallpaper. Implementations never report failure
// of the underlying tool; they log it and return.
type Applier interface {
	Apply(ctx context.Context, path string)
}

// New returns the Applier for env, running its commands through runner.
func New(env Environment, runner Runner) (Applier, error) {
	switch env {
	case XFCE:
		return &command{env: env, runner: runner, args: xfceArgs}, nil
	case LXDE:
		return &command{env: env, runner: runner, args: lxdeArgs}, nil
	case MATE:
		return &command{env: env, runner: runner, args: mateArgs}, nil
	case Cinnamon:
		return &command{env: env, runner: runner, args: cinnamonArgs}, nil
	case KDE4:
		return &kde4{runner: runner}, nil
	case E17:
		return e17{}, nil
	default:
		return nil, fmt.Errorf("unknown desktop environment %q", env)
	}
}

func xfceArgs(path string) []string {
	return []string{"xfconf-query", "-c", "xfce4-desktop", "-p", "/backdrop/screen0/monitor0/image-path", "-s", path}
}

func lxdeArgs(path string) []string {
	return []string{"pcmanfm", "-w", path}
}

func mateArgs(path string) []string {
	return []string{"gsettings", "set", "org.mate.background", "picture-filename", path}
}

func cinnamonArgs(path string) []string {
	return []string{"gsettings", "set", "org.cinnamon.desktop.background", "picture-uri", "file://" + path}
}

// command is an Applier that runs a single external command.
type command struct {
	env    Environment
	runner Runner
	args   func(path string) []string
}

func (c *command) Apply(ctx context.Context, path string) {
	argv := c.args(path)
	if err := c.runner.Run(ctx, argv[0], argv[1:]...); err != nil {
		log.WithField("desktop", c.env).Debugf("%s failed: %v", argv[0], err)
	}
}

// e17 has no known command line interface for wallpapers yet.
type e17 struct{}

func (e17) Apply(_ context.Context, path string) {
	log.WithField("desktop", E17).Debugf("Setting wallpaper is not implemented, skipping %s", path)
}
