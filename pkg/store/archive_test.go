package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/state"
)

func testSnapshot() state.Snapshot {
	goalID := 1
	return state.Snapshot{
		Goals: []api.Goal{{ID: 1, Title: "Ship v1", Status: api.GoalActive}},
		Todos: []api.Todo{{ID: 7, Title: "Write docs", GoalID: &goalID}},
		Events: []api.CalendarEvent{{
			ID:        3,
			Title:     "Goal: Ship v1",
			EventDate: api.NewTimestamp(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)),
			GoalID:    &goalID,
		}},
		Stats: &api.Stats{
			Goals:          api.GoalCounts{Total: 1, Active: 1},
			Todos:          api.TodoCounts{Total: 1, Pending: 1},
			CalendarEvents: 1,
		},
		LoadedAt: time.Date(2024, time.April, 2, 9, 30, 0, 0, time.UTC),
	}
}

func TestArchiveLoadBeforeSave(t *testing.T) {
	a, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := a.Load(); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	a, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	want := testSnapshot()
	if err := a.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := a.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Goals) != 1 || got.Goals[0].Title != "Ship v1" {
		t.Fatalf("unexpected goals: %+v", got.Goals)
	}
	if len(got.Todos) != 1 || got.Todos[0].GoalID == nil || *got.Todos[0].GoalID != 1 {
		t.Fatalf("unexpected todos: %+v", got.Todos)
	}
	if len(got.Events) != 1 || got.Events[0].EventDate.Date().String() != "2024-05-01" {
		t.Fatalf("unexpected events: %+v", got.Events)
	}
	if got.Stats == nil || got.Stats.CalendarEvents != 1 {
		t.Fatalf("unexpected stats: %+v", got.Stats)
	}
	if !got.LoadedAt.Equal(want.LoadedAt) {
		t.Fatalf("loaded at = %v, want %v", got.LoadedAt, want.LoadedAt)
	}
}

func TestArchiveSharedDirectory(t *testing.T) {
	base := t.TempDir()
	writer, err := Open(base)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	reader, err := Open(base)
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	if err := writer.Save(testSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	m, err := reader.Meta()
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if m.Writer != writer.id {
		t.Fatalf("writer = %q, want %q", m.Writer, writer.id)
	}
}

func TestWatchReportsOtherWriters(t *testing.T) {
	base := t.TempDir()
	watcher, err := Open(base)
	if err != nil {
		t.Fatalf("open watcher: %v", err)
	}
	other, err := Open(base)
	if err != nil {
		t.Fatalf("open other: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := watcher.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow the watcher goroutine to start before writing.
	time.Sleep(50 * time.Millisecond)

	if err := other.Save(testSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case evt := <-ch:
		if evt.Writer != other.id {
			t.Fatalf("writer = %q, want %q", evt.Writer, other.id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatchIgnoresOwnWrites(t *testing.T) {
	a, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := a.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := a.Save(testSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case evt := <-ch:
		t.Fatalf("unexpected event %+v", evt)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRelayLogsWatcherErrors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a, err := Open(t.TempDir(), WithLogger(zap.New(core).Sugar()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	fsEvents := make(chan fsnotify.Event)
	fsErrors := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.relay(context.Background(), fsEvents, fsErrors, func(Event) {})
	}()

	fsErrors <- errors.New("event queue overflow")
	close(fsErrors)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay should stop when the error source closes")
	}

	entries := logs.FilterMessage("snapshot watch error").All()
	if len(entries) != 1 {
		t.Fatalf("expected one logged watcher error, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["error"]; got != "event queue overflow" {
		t.Fatalf("unexpected error field %v", got)
	}
}
