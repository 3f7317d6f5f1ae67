package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tableflip.dev/taskodos/pkg/api"
)

type fakeSource struct {
	mu      sync.Mutex
	goals   []api.Goal
	todos   []api.Todo
	events  []api.CalendarEvent
	stats   *api.Stats
	failOn  string
	calls   map[string]int
	barrier *sync.WaitGroup
}

func (f *fakeSource) hit(name string) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
	fail := f.failOn == name
	f.mu.Unlock()
	if f.barrier != nil {
		// Every read must be in flight before any returns.
		f.barrier.Done()
		f.barrier.Wait()
	}
	if fail {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeSource) ListGoals(context.Context) ([]api.Goal, error) {
	return f.goals, f.hit("goals")
}

func (f *fakeSource) ListTodos(context.Context) ([]api.Todo, error) {
	return f.todos, f.hit("todos")
}

func (f *fakeSource) ListEvents(context.Context) ([]api.CalendarEvent, error) {
	return f.events, f.hit("events")
}

func (f *fakeSource) Stats(context.Context) (*api.Stats, error) {
	return f.stats, f.hit("stats")
}

type recordingArchive struct {
	saved []Snapshot
	err   error
}

func (r *recordingArchive) Save(s Snapshot) error {
	r.saved = append(r.saved, s)
	return r.err
}

func TestNewStoreIsEmpty(t *testing.T) {
	s := New(&fakeSource{})
	snap := s.Snapshot()
	if snap.Loaded() {
		t.Fatalf("new store should not be loaded")
	}
	if snap.Goals == nil || snap.Todos == nil || snap.Events == nil {
		t.Fatalf("collections should start empty, not nil")
	}
	if snap.Stats != nil {
		t.Fatalf("stats should be absent until loaded")
	}
}

func TestRefreshFetchesInParallel(t *testing.T) {
	wg := &sync.WaitGroup{}
	wg.Add(4)
	src := &fakeSource{
		goals:   []api.Goal{{ID: 1, Title: "g"}},
		todos:   []api.Todo{{ID: 2, Title: "t"}},
		events:  []api.CalendarEvent{{ID: 3, Title: "e"}},
		stats:   &api.Stats{CalendarEvents: 1},
		barrier: wg,
	}
	loadedAt := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	archive := &recordingArchive{}
	s := New(src, WithArchive(archive), WithClock(func() time.Time { return loadedAt }))

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("refresh: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reads did not run concurrently")
	}

	snap := s.Snapshot()
	if len(snap.Goals) != 1 || len(snap.Todos) != 1 || len(snap.Events) != 1 || snap.Stats == nil {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !snap.LoadedAt.Equal(loadedAt) {
		t.Fatalf("loaded at = %v", snap.LoadedAt)
	}
	if len(archive.saved) != 1 {
		t.Fatalf("expected one archived snapshot, got %d", len(archive.saved))
	}
}

func TestRefreshFailureKeepsPriorSnapshot(t *testing.T) {
	src := &fakeSource{
		goals: []api.Goal{{ID: 1, Title: "first"}},
		stats: &api.Stats{},
	}
	s := New(src)
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	src.goals = []api.Goal{{ID: 1, Title: "second"}}
	src.failOn = "stats"
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh to fail")
	}

	snap := s.Snapshot()
	if len(snap.Goals) != 1 || snap.Goals[0].Title != "first" {
		t.Fatalf("failed refresh replaced the snapshot: %+v", snap.Goals)
	}
}

func TestRefreshNormalizesNil(t *testing.T) {
	s := New(&fakeSource{stats: &api.Stats{}})
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	snap := s.Snapshot()
	if snap.Goals == nil || snap.Todos == nil || snap.Events == nil {
		t.Fatalf("nil collections should become empty")
	}
	if !snap.Loaded() {
		t.Fatalf("expected loaded snapshot")
	}
}

func TestArchiveFailureDoesNotFailRefresh(t *testing.T) {
	s := New(&fakeSource{stats: &api.Stats{}}, WithArchive(&recordingArchive{err: errors.New("disk full")}))
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(&fakeSource{goals: []api.Goal{{ID: 1, Title: "g"}}, stats: &api.Stats{}})
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	snap := s.Snapshot()
	snap.Goals[0].Title = "mutated"
	snap.Stats.CalendarEvents = 42
	again := s.Snapshot()
	if again.Goals[0].Title != "g" || again.Stats.CalendarEvents != 0 {
		t.Fatalf("snapshot shares memory with the store")
	}
}

func TestSubscribeReceivesLatest(t *testing.T) {
	src := &fakeSource{stats: &api.Stats{}}
	s := New(src)
	ch := s.Subscribe()

	src.goals = []api.Goal{{ID: 1}}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	src.goals = []api.Goal{{ID: 1}, {ID: 2}}
	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	select {
	case snap := <-ch:
		if len(snap.Goals) != 2 {
			t.Fatalf("expected the latest snapshot, got %d goals", len(snap.Goals))
		}
	default:
		t.Fatal("expected a snapshot on the channel")
	}
}
