package commands

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/taskodos/pkg/api"
	"tableflip.dev/taskodos/pkg/app"
	"tableflip.dev/taskodos/pkg/config"
	"tableflip.dev/taskodos/pkg/logging"
	"tableflip.dev/taskodos/pkg/state"
	"tableflip.dev/taskodos/pkg/store"
)

// session is everything a command needs to talk to the backend.
type session struct {
	cfg     *config.Config
	loc     *time.Location
	log     *zap.SugaredLogger
	client  *api.Client
	archive *store.Archive
	state   *state.Store
	svc     *app.Service
}

func newSession(confirm app.Confirmer) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("open log %q: %w", cfg.LogFile, err)
	}
	client, err := api.New(cfg.APIURL, api.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, err
	}

	api.SetLocation(loc)
	s := &session{cfg: cfg, loc: loc, log: log, client: client}

	opts := []state.Option{state.WithLogger(log)}
	if cfg.DataPath != "" {
		archive, err := store.Open(cfg.DataPath, store.WithLogger(log))
		if err != nil {
			log.Warnw("snapshot archive unavailable", "path", cfg.DataPath, "error", err)
		} else {
			s.archive = archive
			opts = append(opts, state.WithArchive(archive))
		}
	}

	s.state = state.New(client, opts...)
	s.svc = &app.Service{
		Backend: client,
		State:   s.state,
		Confirm: confirm,
		Log:     log,
	}
	return s, nil
}

func (s *session) Close() {
	_ = s.log.Sync()
}
