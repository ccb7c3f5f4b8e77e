package rotator

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/mahyarmirrashed/setbackground/internal/desktop"
	log "github.com/sirupsen/logrus"
)

// Rotator periodically applies a random image from one of its directories.
type Rotator struct {
	Dirs         []string
	Interval     time.Duration
	EmptyBackoff time.Duration // 0 retries immediately after an empty directory

	Locate  func(root string) []string
	Applier desktop.Applier
	Rand    *rand.Rand

	// Wake, when set, ends an empty-directory back-off early.
	Wake <-chan struct{}
	// OnApply is called after each wallpaper change.
	OnApply func(path string)
	// Sleep blocks for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error

	empty map[string]struct{}
}

// Run loops until ctx is cancelled and returns ctx.Err().
func (r *Rotator) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, ok := r.Step(ctx); !ok {
			if r.exhausted() {
				if err := r.backoff(ctx); err != nil {
					return err
				}
			}
			continue
		}

		if err := r.sleep(ctx, r.Interval); err != nil {
			return err
		}
	}
}

// Step runs one selection: pick a directory, locate its images, pick one
// and apply it. It reports the applied path, or false when the chosen
// directory held no images.
func (r *Rotator) Step(ctx context.Context) (string, bool) {
	dir := r.Dirs[r.Rand.IntN(len(r.Dirs))]

	paths := r.Locate(dir)
	if len(paths) == 0 {
		log.Warnf("No valid image files found in directory: %s", dir)
		r.markEmpty(dir)
		return "", false
	}
	r.empty = nil

	path := paths[r.Rand.IntN(len(paths))]
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	log.Infof("Setting wallpaper to %s", path)
	r.Applier.Apply(ctx, path)
	if r.OnApply != nil {
		r.OnApply(path)
	}
	return path, true
}

func (r *Rotator) markEmpty(dir string) {
	if r.empty == nil {
		r.empty = make(map[string]struct{}, len(r.Dirs))
	}
	r.empty[dir] = struct{}{}
}

// exhausted reports whether every directory came up empty since the last
// applied wallpaper.
func (r *Rotator) exhausted() bool {
	for _, dir := range r.Dirs {
		if _, ok := r.empty[dir]; !ok {
			return false
		}
	}
	return true
}

func (r *Rotator) backoff(ctx context.Context) error {
	if r.EmptyBackoff <= 0 {
		return nil
	}
	r.empty = nil

	log.Debugf("All directories are empty, waiting %s", r.EmptyBackoff)
	if r.Wake == nil {
		return r.sleep(ctx, r.EmptyBackoff)
	}

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-r.Wake:
			log.Debug("New image detected, retrying")
			cancel()
		case <-waitCtx.Done():
		}
	}()

	if err := r.sleep(waitCtx, r.EmptyBackoff); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

func (r *Rotator) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	return Sleep(ctx, d)
}

// Sleep waits for d, returning early with ctx.Err() if ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NewRand returns a generator seeded from the current time.
func NewRand() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>1|1))
}
