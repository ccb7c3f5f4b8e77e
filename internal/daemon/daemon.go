package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mahyarmirrashed/setbackground/internal/config"
	"github.com/mahyarmirrashed/setbackground/internal/desktop"
	"github.com/mahyarmirrashed/setbackground/internal/excluder"
	"github.com/mahyarmirrashed/setbackground/internal/images"
	"github.com/mahyarmirrashed/setbackground/internal/rotator"
	"github.com/mahyarmirrashed/setbackground/internal/utils"
	"github.com/mahyarmirrashed/setbackground/internal/watch"
	log "github.com/sirupsen/logrus"
)

// RunDaemon rotates wallpapers until a signal arrives or ctx is cancelled.
// A shutdown either way is not an error.
func RunDaemon(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Signal handling for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		select {
		case sig := <-signals:
			log.Infof("Received signal: %s, shutting down...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	r, cleanup, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	log.WithFields(log.Fields{
		"desktop":  cfg.Desktop,
		"interval": cfg.Interval,
		"dirs":     len(cfg.Directories),
	}).Info("Starting wallpaper rotation")

	err = r.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("Cleanup complete. Exiting.")
		return nil
	}
	return err
}

// Build wires a Rotator from cfg. The returned cleanup releases the
// directory watcher, if any.
func Build(ctx context.Context, cfg *config.Config) (*rotator.Rotator, func(), error) {
	ex, err := excluder.New(cfg.Exclude)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile exclude patterns: %w", err)
	}
	log.Debugf("Active exclude patterns: %d", ex.Len())

	var runner desktop.Runner = desktop.ExecRunner{}
	if cfg.DryRun {
		runner = desktop.DryRunner{}
	}
	applier, err := desktop.New(cfg.Desktop, runner)
	if err != nil {
		return nil, nil, err
	}

	locator := &images.Locator{Exclude: ex}
	r := &rotator.Rotator{
		Dirs:         cfg.Directories,
		Interval:     cfg.Interval,
		EmptyBackoff: cfg.EmptyBackoff,
		Locate:       locator.Find,
		Applier:      applier,
		Rand:         rotator.NewRand(),
		OnApply: func(path string) {
			utils.SendNotification(cfg.Notifications, "setbackground", "Wallpaper set to "+filepath.Base(path), path)
		},
	}

	cleanup := func() {}
	if cfg.Watch {
		w, err := watch.New(cfg.Directories, ex)
		if err != nil {
			// The back-off still works without early wake-ups.
			log.Warnf("Could not watch directories: %v", err)
		} else {
			go w.Run(ctx)
			r.Wake = w.Wake()
			cleanup = func() {
				if err := w.Close(); err != nil {
					log.Warnf("Error closing watcher: %v", err)
				}
			}
		}
	}

	return r, cleanup, nil
}
