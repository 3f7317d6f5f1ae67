package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is emitted by Watch when another process archived a newer snapshot.
type Event struct {
	Writer   string
	LoadedAt time.Time
}

// Watch streams change events until ctx is cancelled. Only completed saves by
// other archives are reported; this archive's own saves are ignored. The
// channel is closed once ctx is done or the watcher fails.
func (a *Archive) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				a.log.Warnw("snapshot watcher close failed", "path", a.basePath, "error", err)
			}
		})
	}
	if err := watcher.Add(a.basePath); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", a.basePath, err)
	}

	events := make(chan Event, 8)
	go func() {
		defer close(events)
		defer closeWatcher()
		a.relay(ctx, watcher.Events, watcher.Errors, func(ev Event) {
			select {
			case events <- ev:
			default:
				// The consumer is busy; it will refresh from the next one.
			}
		})
	}()

	return events, nil
}

// relay turns raw file events on the meta record into throttled change
// events. It returns when ctx is done or either source closes.
func (a *Archive) relay(ctx context.Context, fsEvents <-chan fsnotify.Event, fsErrors <-chan error, send func(Event)) {
	metaPath := filepath.Join(a.basePath, keyMeta)

	throttle := newEventThrottle(100 * time.Millisecond)
	defer throttle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-fsErrors:
			if !ok {
				return
			}
			a.log.Warnw("snapshot watch error", "path", a.basePath, "error", err)
		case evt, ok := <-fsEvents:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != metaPath {
				continue
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			m, err := a.Meta()
			if err != nil {
				a.log.Debugw("snapshot meta unreadable", "path", metaPath, "error", err)
				continue
			}
			if m.Writer == a.id {
				continue
			}
			throttle.Enqueue(Event{Writer: m.Writer, LoadedAt: m.LoadedAt}, send)
		}
	}
}

// eventThrottle coalesces a burst of saves into one event carrying the latest.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending Event
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{delay: delay}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = ev
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	ev := t.pending
	t.pending = Event{}
	t.timer = nil
	t.mu.Unlock()
	send(ev)
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
