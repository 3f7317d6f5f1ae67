package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/taskodos/pkg/config"
	"tableflip.dev/taskodos/pkg/store"
	"tableflip.dev/taskodos/pkg/timeutil"
)

// Meta reads the archive's meta record.
type Meta interface {
	Meta() (store.Meta, error)
}

type Info struct {
	Config  *config.Config
	Archive Meta
	Out     io.Writer
	Now     func() time.Time
}

func (n *Info) Do(ctx context.Context) error {
	w := n.Out
	if w == nil {
		w = color.Output
	}

	if override := os.Getenv(config.EnvConfigPath); override != "" {
		_, _ = fmt.Fprintln(w, config.EnvConfigPath, "found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(w, config.EnvConfigPath, "env var not set")
	}

	if n.Config == nil {
		var err error
		if n.Config, err = config.Load(); err != nil {
			return err
		}
	}
	cfg := n.Config

	file := cfg.File
	if file == "" {
		file = "(none)"
	}
	timeout := "none"
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout.String()
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = "local"
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Config file"), file)
	tbl.AddRow(bold.Sprint("API URL"), cfg.APIURL)
	tbl.AddRow(bold.Sprint("Timeout"), timeout)
	tbl.AddRow(bold.Sprint("Timezone"), tz)
	tbl.AddRow(bold.Sprint("Data path"), cfg.DataPath)
	tbl.AddRow(bold.Sprint("Log file"), cfg.LogFile)
	tbl.AddRow(bold.Sprint("Log level"), cfg.LogLevel)

	archived := "never"
	if n.Archive != nil {
		m, err := n.Archive.Meta()
		switch {
		case err == nil:
			now := time.Now
			if n.Now != nil {
				now = n.Now
			}
			archived = fmt.Sprintf("%s (%s)", m.LoadedAt.Local().Format(time.RFC1123), timeutil.FormatAge(now().Sub(m.LoadedAt)))
		case errors.Is(err, store.ErrNoSnapshot):
		default:
			return err
		}
	}
	tbl.AddRow(bold.Sprint("Last snapshot"), archived)

	_, _ = fmt.Fprintln(w, tbl)
	return nil
}
