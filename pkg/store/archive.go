// Package store keeps the last successfully loaded snapshot on disk so the
// CLI can show it with --cached, and lets a running UI notice when another
// taskodos process loaded newer data.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/state"
)

const (
	keyGoals    = "goals"
	keyTodos    = "todos"
	keyCalendar = "calendar"
	keyStats    = "stats"
	// keyMeta is written last so a reader that sees it sees a complete set.
	keyMeta = "meta"

	tempDir = ".tmp"
)

// ErrNoSnapshot is returned by Load before anything was archived.
var ErrNoSnapshot = errors.New("store: no archived snapshot")

// Meta describes who archived the current snapshot and when it was loaded.
type Meta struct {
	Writer   string    `json:"writer"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Archive is a diskv-backed snapshot archive.
type Archive struct {
	d        *diskv.Diskv
	basePath string
	id       string
	log      *zap.SugaredLogger
}

// Option configures an Archive.
type Option func(*Archive)

// WithLogger sets where watch failures are reported.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(a *Archive) {
		if log != nil {
			a.log = log
		}
	}
}

// Open prepares an archive rooted at basePath.
func Open(basePath string, opts ...Option) (*Archive, error) {
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	a := &Archive{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			TempDir:      filepath.Join(basePath, tempDir),
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		basePath: basePath,
		id:       uuid.NewString(),
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// BasePath returns where the archive lives.
func (a *Archive) BasePath() string {
	return a.basePath
}

// Save writes every collection of snap, then the meta record.
func (a *Archive) Save(snap state.Snapshot) error {
	writes := []struct {
		key string
		val any
	}{
		{keyGoals, snap.Goals},
		{keyTodos, snap.Todos},
		{keyCalendar, snap.Events},
		{keyStats, snap.Stats},
		{keyMeta, Meta{Writer: a.id, LoadedAt: snap.LoadedAt}},
	}
	for _, w := range writes {
		data, err := sonic.ConfigDefault.Marshal(w.val)
		if err != nil {
			return fmt.Errorf("store: encode %s: %w", w.key, err)
		}
		if err := a.d.Write(w.key, data); err != nil {
			return fmt.Errorf("store: write %s: %w", w.key, err)
		}
	}
	return nil
}

// Load reads the archived snapshot.
func (a *Archive) Load() (state.Snapshot, error) {
	meta, err := a.Meta()
	if err != nil {
		return state.Snapshot{}, err
	}
	snap := state.Snapshot{
		Goals:    []api.Goal{},
		Todos:    []api.Todo{},
		Events:   []api.CalendarEvent{},
		LoadedAt: meta.LoadedAt,
	}
	if err := a.read(keyGoals, &snap.Goals); err != nil {
		return state.Snapshot{}, err
	}
	if err := a.read(keyTodos, &snap.Todos); err != nil {
		return state.Snapshot{}, err
	}
	if err := a.read(keyCalendar, &snap.Events); err != nil {
		return state.Snapshot{}, err
	}
	if err := a.read(keyStats, &snap.Stats); err != nil {
		return state.Snapshot{}, err
	}
	return snap, nil
}

// Meta reads the meta record.
func (a *Archive) Meta() (Meta, error) {
	var m Meta
	if !a.d.Has(keyMeta) {
		return m, ErrNoSnapshot
	}
	err := a.read(keyMeta, &m)
	return m, err
}

func (a *Archive) read(key string, out any) error {
	val, err := a.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoSnapshot
		}
		return fmt.Errorf("store: read %s: %w", key, err)
	}
	if err := sonic.ConfigDefault.Unmarshal(val, out); err != nil {
		return fmt.Errorf("store: decode %s: %w", key, err)
	}
	return nil
}
