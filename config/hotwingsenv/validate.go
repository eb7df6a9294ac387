package hotwingsenv

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kompox/hotwings/domain/model"
	"github.com/kompox/hotwings/internal/logging"
	"github.com/kompox/hotwings/internal/naming"
)

// Validate checks the whole configuration. Duplicate remote names are
// reported as model.ErrRemoteAmbiguous, never resolved by picking one.
func (c *Config) Validate() error {
	if err := c.validateSettings(); err != nil {
		return err
	}
	return ValidateRemotes(c.Remotes)
}

// validateSettings checks everything except the remotes, which are checked
// lazily so that a broken remote list can still be repaired from the CLI.
func (c *Config) validateSettings() error {
	if c.Version != 1 {
		return fmt.Errorf("%w: unsupported version %d", model.ErrConfig, c.Version)
	}
	switch c.Archiver {
	case "", "exec", "builtin":
	default:
		return fmt.Errorf("%w: unknown archiver %q", model.ErrConfig, c.Archiver)
	}
	if c.Staging.TTL != "" {
		if _, err := time.ParseDuration(c.Staging.TTL); err != nil {
			return fmt.Errorf("%w: staging.ttl: %w", model.ErrConfig, err)
		}
	}
	switch c.Logging.Format {
	case "", "human", "text", "json":
	default:
		return fmt.Errorf("%w: unknown logging.format %q", model.ErrConfig, c.Logging.Format)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", model.ErrConfig, err)
	}
	if c.Logging.Retention != "" {
		if _, err := time.ParseDuration(c.Logging.Retention); err != nil {
			return fmt.Errorf("%w: logging.retention: %w", model.ErrConfig, err)
		}
	}
	return nil
}

// ValidateRemotes checks every remote, name uniqueness and the single
// default invariant.
func ValidateRemotes(remotes []Remote) error {
	seen := make(map[string]bool, len(remotes))
	defaults := 0
	for _, r := range remotes {
		if err := ValidateRemote(r.Name, r.URL); err != nil {
			return err
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: %q is defined more than once", model.ErrRemoteAmbiguous, r.Name)
		}
		seen[r.Name] = true
		if r.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%w: %d remotes are marked default", model.ErrConfig, defaults)
	}
	return nil
}

// ValidateRemote checks a remote name and URL.
func ValidateRemote(name, rawURL string) error {
	if err := naming.ValidateRemoteName(name); err != nil {
		return fmt.Errorf("%w: %w", model.ErrRemoteInvalid, err)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: remote %q: %w", model.ErrRemoteInvalid, name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: remote %q: url must be http(s)://host/...", model.ErrRemoteInvalid, name)
	}
	return nil
}
