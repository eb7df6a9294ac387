package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kompox/hotwings/adapters/staging"
	"github.com/kompox/hotwings/adapters/store/cfgfile"
	"github.com/kompox/hotwings/adapters/store/inmem"
	"github.com/kompox/hotwings/adapters/store/rdb"
	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/logging"
)

// buildSubmissionRepository opens the history store named by dbURL.
func buildSubmissionRepository(dbURL string) (domain.SubmissionRepository, error) {
	switch {
	case strings.HasPrefix(dbURL, "memory:"):
		return inmem.NewSubmissionRepository(), nil
	case strings.HasPrefix(dbURL, "sqlite:") || strings.HasPrefix(dbURL, "sqlite3:"):
		db, err := rdb.OpenFromURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("%w: opening history db: %w", model.ErrIO, err)
		}
		if err := rdb.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("%w: migrating history db: %w", model.ErrIO, err)
		}
		return rdb.NewSubmissionRepository(db), nil
	default:
		return nil, fmt.Errorf("%w: unsupported history db scheme: %s", model.ErrConfig, dbURL)
	}
}

// historyMode tells buildRepositories what to do when the history store
// cannot be opened.
type historyMode int

const (
	// historyRequired fails the command.
	historyRequired historyMode = iota
	// historyOptional logs a warning and continues without history.
	historyOptional
)

// buildRepositories wires the staging registry, the config file remotes and
// the history store selected by flags, environment and config.yml.
func buildRepositories(cmd *cobra.Command, mode historyMode) (*domain.Repositories, error) {
	s, err := sessionFrom(cmd)
	if err != nil {
		return nil, err
	}
	dbURL := s.env.HistoryDBURL(flagString(cmd, "history-db"))
	subs, err := buildSubmissionRepository(dbURL)
	if err != nil {
		if mode != historyOptional {
			return nil, err
		}
		ctx := cmd.Context()
		logging.FromContext(ctx).Warn(ctx, "history unavailable, submission state is not shown", "db", dbURL, "err", err)
		subs = nil
	}
	return &domain.Repositories{
		Job:        staging.NewRepository(s.env.StagingRoot(flagString(cmd, "staging"))),
		Remote:     cfgfile.NewRemoteRepository(s.env),
		Submission: subs,
	}, nil
}
