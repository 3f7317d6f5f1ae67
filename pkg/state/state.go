// Package state is the aggregation root: it owns the one copy of goals, todos,
// events and stats the UI renders, and Refresh is the only way to change it.
package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/taskodos/pkg/api"
)

// Source is the read side of the backend.
type Source interface {
	ListGoals(ctx context.Context) ([]api.Goal, error)
	ListTodos(ctx context.Context) ([]api.Todo, error)
	ListEvents(ctx context.Context) ([]api.CalendarEvent, error)
	Stats(ctx context.Context) (*api.Stats, error)
}

// Archive receives every successfully loaded snapshot.
type Archive interface {
	Save(snap Snapshot) error
}

// Snapshot is one consistent view of the backend. Stats is nil until the
// first successful refresh.
type Snapshot struct {
	Goals    []api.Goal
	Todos    []api.Todo
	Events   []api.CalendarEvent
	Stats    *api.Stats
	LoadedAt time.Time
}

// Loaded reports whether a refresh has ever succeeded.
func (s Snapshot) Loaded() bool {
	return !s.LoadedAt.IsZero()
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Goals:    append([]api.Goal{}, s.Goals...),
		Todos:    append([]api.Todo{}, s.Todos...),
		Events:   append([]api.CalendarEvent{}, s.Events...),
		LoadedAt: s.LoadedAt,
	}
	if s.Stats != nil {
		stats := *s.Stats
		out.Stats = &stats
	}
	return out
}

// Store holds the current snapshot.
type Store struct {
	src     Source
	log     *zap.SugaredLogger
	archive Archive
	now     func() time.Time

	mu   sync.RWMutex
	snap Snapshot

	subMu sync.Mutex
	subs  []chan Snapshot
}

// Option customises a Store.
type Option func(*Store)

// WithLogger routes refresh diagnostics to log.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithArchive hands each new snapshot to a.
func WithArchive(a Archive) Option {
	return func(s *Store) {
		s.archive = a
	}
}

// WithClock overrides time.Now for LoadedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty Store reading from src.
func New(src Source, opts ...Option) *Store {
	s := &Store{
		src: src,
		log: zap.NewNop().Sugar(),
		now: time.Now,
		snap: Snapshot{
			Goals:  []api.Goal{},
			Todos:  []api.Todo{},
			Events: []api.CalendarEvent{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Refresh reads all four resources concurrently. If any read fails the whole
// refresh fails, one error is logged and the previous snapshot stays.
func (s *Store) Refresh(ctx context.Context) error {
	if s.src == nil {
		return errors.New("state: no source configured")
	}
	op := uuid.NewString()

	var next Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		goals, err := s.src.ListGoals(gctx)
		next.Goals = goals
		return err
	})
	g.Go(func() error {
		todos, err := s.src.ListTodos(gctx)
		next.Todos = todos
		return err
	})
	g.Go(func() error {
		events, err := s.src.ListEvents(gctx)
		next.Events = events
		return err
	})
	g.Go(func() error {
		stats, err := s.src.Stats(gctx)
		next.Stats = stats
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Errorw("error fetching data", "op", op, "error", err)
		return err
	}

	if next.Goals == nil {
		next.Goals = []api.Goal{}
	}
	if next.Todos == nil {
		next.Todos = []api.Todo{}
	}
	if next.Events == nil {
		next.Events = []api.CalendarEvent{}
	}
	next.LoadedAt = s.now()

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	s.log.Debugw("refreshed", "op", op,
		"goals", len(next.Goals), "todos", len(next.Todos), "events", len(next.Events))

	if s.archive != nil {
		if err := s.archive.Save(next.clone()); err != nil {
			s.log.Warnw("archive snapshot", "op", op, "error", err)
		}
	}
	s.publish(next)
	return nil
}

// Subscribe returns a channel receiving each new snapshot. Slow consumers
// miss intermediate snapshots; the latest one always wins on the next send.
func (s *Store) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Store) publish(snap Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap.clone():
		default:
		}
	}
}
