package hotwingsenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/kompox/hotwings/domain/model"
)

// Environment variable names
const (
	HomeEnvKey      = "HOTWINGS_HOME"
	StagingEnvKey   = "HOTWINGS_STAGING"
	HistoryDBEnvKey = "HOTWINGS_HISTORY_DB"
)

// Directory and file names
const (
	HomeDirName    = ".hotwings"
	ConfigFileName = "config.yml"
	LogsDirName    = "logs"
)

// Defaults
const (
	DefaultArchiver     = "exec"
	DefaultStagingTTL   = 7 * 24 * time.Hour
	DefaultLogRetention = 7 * 24 * time.Hour
	defaultHistoryDB    = "sqlite:$HOTWINGS_HOME/history.db"
)

// Env holds the resolved hotwings home directory and the loaded config.yml.
type Env struct {
	Home       string // Resolved HOTWINGS_HOME
	ConfigPath string // $HOTWINGS_HOME/config.yml
	Config     Config // Loaded (or default) configuration
}

// Config is the on-disk structure of config.yml.
type Config struct {
	Version  int      `yaml:"version"`
	Staging  Staging  `yaml:"staging,omitempty"`
	Archiver string   `yaml:"archiver,omitempty"`
	History  History  `yaml:"history,omitempty"`
	Logging  Logging  `yaml:"logging,omitempty"`
	Remotes  []Remote `yaml:"remotes,omitempty"`
}

// Staging configures the shared staging root.
type Staging struct {
	Root string `yaml:"root,omitempty"` // default: os.TempDir()
	TTL  string `yaml:"ttl,omitempty"`  // retention for clean, e.g. 168h
}

// History configures the submission history store.
type History struct {
	DBURL string `yaml:"dbURL,omitempty"` // sqlite:<path> | memory:
}

// Logging represents the logging configuration.
type Logging struct {
	Format    string `yaml:"format,omitempty"`    // human (default), text, json
	Level     string `yaml:"level,omitempty"`     // DEBUG, INFO (default), WARN, ERROR
	Output    string `yaml:"output,omitempty"`    // - (stderr, default), none, auto, or a path under $HOTWINGS_HOME/logs
	Retention string `yaml:"retention,omitempty"` // pruning age for auto log files
}

// Remote is a named upload destination as stored in config.yml.
type Remote struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Default bool   `yaml:"default,omitempty"`
}

// Resolve determines HOTWINGS_HOME and loads config.yml from it.
//
// Resolution order for HOTWINGS_HOME:
//  1. home parameter (from --home flag)
//  2. HOTWINGS_HOME environment variable
//  3. ~/.hotwings
//
// A missing config.yml yields the default configuration.
func Resolve(home string) (*Env, error) {
	if home == "" {
		home = os.Getenv(HomeEnvKey)
	}
	if home == "" {
		dir, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("%w: locating user home directory: %w", model.ErrConfig, err)
		}
		home = filepath.Join(dir, HomeDirName)
	}
	home, err := homedir.Expand(home)
	if err != nil {
		return nil, fmt.Errorf("%w: expanding %q: %w", model.ErrConfig, home, err)
	}
	home, err = filepath.Abs(home)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving HOTWINGS_HOME to absolute path: %w", model.ErrConfig, err)
	}
	e := &Env{
		Home:       filepath.Clean(home),
		ConfigPath: filepath.Join(home, ConfigFileName),
		Config:     Config{Version: 1},
	}
	if err := e.Load(); err != nil {
		return nil, err
	}
	return e, nil
}

// Load reads ConfigPath into Config. A missing file is not an error.
func (e *Env) Load() error {
	data, err := os.ReadFile(e.ConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		e.Config = Config{Version: 1}
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: reading config file %q: %w", model.ErrConfig, e.ConfigPath, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("%w: parsing config file %q: %w", model.ErrConfig, e.ConfigPath, err)
	}
	if err := cfg.validateSettings(); err != nil {
		return fmt.Errorf("%s: %w", e.ConfigPath, err)
	}
	e.Config = cfg
	return nil
}

// Save writes Config to ConfigPath with 2-space indentation.
func (e *Env) Save() error {
	if err := e.Config.Validate(); err != nil {
		return err
	}
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&e.Config); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("closing yaml encoder: %w", err)
	}
	if err := os.MkdirAll(e.Home, 0o700); err != nil {
		return fmt.Errorf("%w: creating %s: %w", model.ErrIO, e.Home, err)
	}
	if err := os.WriteFile(e.ConfigPath, []byte(buf.String()), 0o600); err != nil {
		return fmt.Errorf("%w: writing %s: %w", model.ErrIO, e.ConfigPath, err)
	}
	return nil
}

// ExpandVars replaces $HOTWINGS_HOME in the given string.
func (e *Env) ExpandVars(s string) string {
	return strings.ReplaceAll(s, "$HOTWINGS_HOME", e.Home)
}

// StagingRoot returns the staging root: override (flag), then
// HOTWINGS_STAGING, then config, then the system temp directory.
func (e *Env) StagingRoot(override string) string {
	for _, v := range []string{override, os.Getenv(StagingEnvKey), e.Config.Staging.Root} {
		if v != "" {
			if x, err := homedir.Expand(e.ExpandVars(v)); err == nil {
				return x
			}
			return v
		}
	}
	return os.TempDir()
}

// StagingTTL returns the configured retention for clean.
func (e *Env) StagingTTL() (time.Duration, error) {
	if e.Config.Staging.TTL == "" {
		return DefaultStagingTTL, nil
	}
	d, err := time.ParseDuration(e.Config.Staging.TTL)
	if err != nil {
		return 0, fmt.Errorf("%w: staging.ttl: %w", model.ErrConfig, err)
	}
	return d, nil
}

// HistoryDBURL returns the history DB URL: override (flag), then
// HOTWINGS_HISTORY_DB, then config, then sqlite under HOTWINGS_HOME.
func (e *Env) HistoryDBURL(override string) string {
	for _, v := range []string{override, os.Getenv(HistoryDBEnvKey), e.Config.History.DBURL, defaultHistoryDB} {
		if v != "" {
			return e.ExpandVars(v)
		}
	}
	return ""
}

// ArchiverName returns the configured archiver, defaulting to exec.
func (e *Env) ArchiverName() string {
	if e.Config.Archiver == "" {
		return DefaultArchiver
	}
	return e.Config.Archiver
}

// LogsDir returns $HOTWINGS_HOME/logs.
func (e *Env) LogsDir() string {
	return filepath.Join(e.Home, LogsDirName)
}

// LogRetention returns the age after which generated log files are pruned.
func (e *Env) LogRetention() time.Duration {
	if d, err := time.ParseDuration(e.Config.Logging.Retention); err == nil {
		return d
	}
	return DefaultLogRetention
}
