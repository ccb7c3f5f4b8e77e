package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/mahyarmirrashed/setbackground/internal/config"
	"github.com/mahyarmirrashed/setbackground/internal/daemon"
	"github.com/mahyarmirrashed/setbackground/internal/desktop"
	"github.com/mahyarmirrashed/setbackground/internal/utils"
	log "github.com/sirupsen/logrus"
	altsrc "github.com/urfave/cli-altsrc/v3"
	altyaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// Set at build time: go build -ldflags "-X main.version=1.2.3"
var version = "dev"

// minArgs includes the program name.
const minArgs = 3

// maxSeconds is the largest interval that fits in a time.Duration.
const maxSeconds = math.MaxInt64 / int64(time.Second)

func init() {
	// Configure logger to include timestamp and caller (file:line)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		},
	})
	log.SetReportCaller(true)
}

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newCommand(stdout, stderr)

	if len(args) < minArgs {
		name := cmd.Name
		if len(args) > 0 {
			name = args[0]
		}
		_ = cmd.Run(ctx, []string{name, "--help"})
		return 1
	}

	// Positional directories would otherwise be read as help topics.
	if wantsHelp(args[1:]) {
		_ = cmd.Run(ctx, []string{args[0], "--help"})
		return 0
	}

	err := cmd.Run(ctx, args)
	if err == nil {
		return 0
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintln(stderr, err)
	return 1
}

// wantsHelp reports whether -h or --help appears before a "--" terminator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "-h", "--help":
			return true
		}
	}
	return false
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	configFile := defaultConfigPath()

	// Command line wins over SETBG_* variables, which win over the config file.
	sources := func(name string) cli.ValueSourceChain {
		env := "SETBG_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		return cli.NewValueSourceChain(
			cli.EnvVar(env),
			altyaml.YAML(name, altsrc.NewStringPtrSourcer(&configFile)),
		)
	}

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to YAML config file",
			Sources:     cli.EnvVars("SETBG_CONFIG"),
			Value:       configFile,
			Destination: &configFile,
		},
	}
	for _, env := range desktop.Environments {
		flags = append(flags, &cli.BoolFlag{
			Name:     string(env),
			Usage:    fmt.Sprintf("setup for the %s desktop", desktopTitle(env)),
			Category: "Desktop environments",
		})
	}
	flags = append(flags,
		&cli.StringFlag{
			Name:     "desktop",
			Usage:    "desktop environment by name, used when no desktop flag is given",
			Category: "Desktop environments",
			Sources:  sources("desktop"),
		},
		&cli.IntFlag{
			Name:    "seconds",
			Usage:   "interval between wallpaper changes in seconds (minimum 3)",
			Sources: sources("seconds"),
			Value:   10,
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "logging level: debug, info, warn, error",
			Sources: sources("log-level"),
			Value:   "info",
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Usage:   "glob patterns to exclude (repeat or comma-separated)",
			Sources: sources("exclude"),
		},
		&cli.BoolFlag{
			Name:    "notifications",
			Usage:   "send a desktop notification on every change",
			Sources: sources("notifications"),
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Usage:   "log the commands instead of running them",
			Sources: sources("dry-run"),
		},
		&cli.DurationFlag{
			Name:    "empty-backoff",
			Usage:   "wait this long once every directory came up empty (0 retries at once)",
			Sources: sources("empty-backoff"),
		},
		&cli.BoolFlag{
			Name:    "watch",
			Usage:   "end the empty-directory wait as soon as a new image appears",
			Sources: sources("watch"),
		},
	)

	return &cli.Command{
		Name:      "setbackground",
		Usage:     "periodically set a random image as the desktop wallpaper",
		UsageText: "setbackground [--xfce|--mate|--lxde|--kde4|--e17|--cinnamon] [--seconds <seconds>] <directory> [directory ...]",
		Description: "Picks a random directory, then a random .jpg or .png below it, and applies it\n" +
			"with the desktop environment's own settings tool. Repeats every --seconds.",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     flags,
		// Exit codes are handled by run, not by os.Exit inside the library.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Action:         action,
	}
}

func action(ctx context.Context, cmd *cli.Command) error {
	seconds := int64(cmd.Int("seconds"))
	if seconds > maxSeconds {
		return cli.Exit(fmt.Sprintf("Maximum interval is %d seconds.", maxSeconds), 1)
	}

	cfg := config.Default()
	cfg.Interval = time.Duration(seconds) * time.Second
	cfg.LogLevel = cmd.String("log-level")
	cfg.DryRun = cmd.Bool("dry-run")
	cfg.Notifications = cmd.Bool("notifications")
	cfg.EmptyBackoff = cmd.Duration("empty-backoff")
	cfg.Watch = cmd.Bool("watch")

	var merged []string
	for _, e := range cmd.StringSlice("exclude") {
		merged = append(merged, strings.Split(e, ",")...)
	}
	cfg.Exclude = merged

	setLogLevel(cfg.LogLevel)

	env, err := selectDesktop(cmd)
	if err != nil {
		return usageError(cmd, err)
	}
	cfg.Desktop = env
	cfg.Directories = collectDirectories(cmd.Args().Slice())

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrIntervalTooShort) {
			return cli.Exit(err.Error(), 1)
		}
		return usageError(cmd, err)
	}

	return daemon.RunDaemon(ctx, cfg)
}

// usageError prints err and the help text, then exits with status 1.
func usageError(cmd *cli.Command, err error) error {
	fmt.Fprintln(cmd.ErrWriter, err)
	_ = cli.ShowAppHelp(cmd)
	return cli.Exit("", 1)
}

// selectDesktop returns the single environment chosen on the command line.
// The boolean flags take precedence over --desktop.
func selectDesktop(cmd *cli.Command) (desktop.Environment, error) {
	var chosen desktop.Environment
	for _, env := range desktop.Environments {
		if !cmd.Bool(string(env)) {
			continue
		}
		if chosen != "" {
			return "", config.ErrManyDesktops
		}
		chosen = env
	}
	if chosen != "" {
		return chosen, nil
	}

	if name := cmd.String("desktop"); name != "" {
		env, err := desktop.Parse(name)
		if err != nil {
			log.Debug(err)
			return "", config.ErrNoDesktop
		}
		return env, nil
	}
	return "", nil
}

// collectDirectories keeps the arguments that name existing directories.
func collectDirectories(args []string) []string {
	var dirs []string
	for _, arg := range args {
		dir := utils.ExpandTilde(arg)
		if !utils.IsDir(dir) {
			log.Debugf("Ignoring %s: not a directory", arg)
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// defaultConfigPath returns the XDG config file if one exists.
func defaultConfigPath() string {
	path, err := xdg.SearchConfigFile(config.DefaultConfigFilename)
	if err != nil {
		return ""
	}
	return path
}

func desktopTitle(env desktop.Environment) string {
	switch env {
	case desktop.XFCE:
		return "XFCE4"
	case desktop.LXDE:
		return "LXDE"
	case desktop.MATE:
		return "Mate"
	case desktop.KDE4:
		return "KDE4"
	case desktop.E17:
		return "Enlightenment"
	case desktop.Cinnamon:
		return "Cinnamon"
	}
	return string(env)
}
