package watch

import (
	"context"
	"io"

	"github.com/farmergreg/rfsnotify"
	"github.com/mahyarmirrashed/setbackground/internal/excluder"
	"github.com/mahyarmirrashed/setbackground/internal/images"
	log "github.com/sirupsen/logrus"
	"gopkg.in/fsnotify.v1"
)

// Watcher signals when a new image file shows up below any watched root.
type Watcher struct {
	events <-chan fsnotify.Event
	errors <-chan error
	closer io.Closer
	ex     *excluder.Excluder
	wake   chan struct{}
}

// New starts watching every directory in roots recursively.
func New(roots []string, ex *excluder.Excluder) (*Watcher, error) {
	watcher, err := rfsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, root := range roots {
		if err := watcher.AddRecursive(root); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	return &Watcher{
		events: watcher.Events,
		errors: watcher.Errors,
		closer: watcher,
		ex:     ex,
		wake:   make(chan struct{}, 1),
	}, nil
}

// Wake receives a value after an image was created. Bursts collapse into one.
func (w *Watcher) Wake() <-chan struct{} {
	return w.wake
}

// Run forwards events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.errors:
			if !ok {
				return
			}
			log.Error("watch error: ", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	if !images.IsImage(event.Name) || w.ex.IsExcluded(event.Name) {
		return
	}

	log.Debugf("New image: %s", event.Name)
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.closer.Close()
}
