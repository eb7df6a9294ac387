package hotwingsenv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kompox/hotwings/domain/model"
)

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("creating home: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, ConfigFileName), []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

func TestResolveMissingConfig(t *testing.T) {
	home := filepath.Join(t.TempDir(), "hw")
	t.Setenv(HistoryDBEnvKey, "")
	env, err := Resolve(home)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if env.Home != home {
		t.Errorf("Home = %q, want %q", env.Home, home)
	}
	if env.Config.Version != 1 || len(env.Config.Remotes) != 0 {
		t.Errorf("unexpected default config: %+v", env.Config)
	}
	if env.ArchiverName() != "exec" {
		t.Errorf("ArchiverName() = %q", env.ArchiverName())
	}
	if got, want := env.HistoryDBURL(""), "sqlite:"+filepath.Join(home, "history.db"); got != want {
		t.Errorf("HistoryDBURL() = %q, want %q", got, want)
	}
	if ttl, err := env.StagingTTL(); err != nil || ttl != DefaultStagingTTL {
		t.Errorf("StagingTTL() = %v, %v", ttl, err)
	}
}

func TestResolveFromEnv(t *testing.T) {
	home := filepath.Join(t.TempDir(), "fromenv")
	t.Setenv(HomeEnvKey, home)
	env, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if env.Home != home {
		t.Errorf("Home = %q, want %q", env.Home, home)
	}
}

func TestResolveLoadsConfig(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `version: 1
staging:
  root: $HOTWINGS_HOME/staging
  ttl: 2h
archiver: builtin
history:
  dbURL: memory:
remotes:
  - name: prod
    url: https://jobs.example.com/submit
    default: true
  - name: lab
    url: http://lab:8080/
`)
	t.Setenv(StagingEnvKey, "")
	t.Setenv(HistoryDBEnvKey, "")
	env, err := Resolve(home)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got := env.StagingRoot(""); got != filepath.Join(home, "staging") {
		t.Errorf("StagingRoot() = %q", got)
	}
	if got := env.StagingRoot("/override"); got != "/override" {
		t.Errorf("StagingRoot(override) = %q", got)
	}
	if ttl, _ := env.StagingTTL(); ttl != 2*time.Hour {
		t.Errorf("StagingTTL() = %v", ttl)
	}
	if env.ArchiverName() != "builtin" || env.HistoryDBURL("") != "memory:" {
		t.Errorf("archiver/history = %q/%q", env.ArchiverName(), env.HistoryDBURL(""))
	}
	if len(env.Config.Remotes) != 2 || !env.Config.Remotes[0].Default {
		t.Errorf("remotes = %+v", env.Config.Remotes)
	}
}

func TestStagingRootEnvOverridesConfig(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "version: 1\nstaging:\n  root: /from/config\n")
	t.Setenv(StagingEnvKey, "/from/env")
	env, err := Resolve(home)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got := env.StagingRoot(""); got != "/from/env" {
		t.Errorf("StagingRoot() = %q, want /from/env", got)
	}
}

func TestResolveInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "duplicate remote",
			content: "version: 1\nremotes:\n  - {name: a, url: 'http://x'}\n  - {name: a, url: 'http://y'}\n",
			wantErr: model.ErrRemoteAmbiguous,
		},
		{
			name:    "two defaults",
			content: "version: 1\nremotes:\n  - {name: a, url: 'http://x', default: true}\n  - {name: b, url: 'http://y', default: true}\n",
			wantErr: model.ErrConfig,
		},
		{
			name:    "bad url",
			content: "version: 1\nremotes:\n  - {name: a, url: 'ftp://x'}\n",
			wantErr: model.ErrRemoteInvalid,
		},
		{
			name:    "bad name",
			content: "version: 1\nremotes:\n  - {name: A_B, url: 'http://x'}\n",
			wantErr: model.ErrRemoteInvalid,
		},
		{
			name:    "bad version",
			content: "version: 2\n",
			wantErr: model.ErrConfig,
		},
		{
			name:    "bad yaml",
			content: "version: [\n",
			wantErr: model.ErrConfig,
		},
		{
			name:    "bad log format",
			content: "version: 1\nlogging:\n  format: xml\n",
			wantErr: model.ErrConfig,
		},
		{
			name:    "bad log level",
			content: "version: 1\nlogging:\n  level: loud\n",
			wantErr: model.ErrConfig,
		},
		{
			name:    "bad archiver",
			content: "version: 1\narchiver: zip\n",
			wantErr: model.ErrConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, tt.content)
			env, err := Resolve(home)
			if err == nil {
				err = env.Config.Validate()
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve()/Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuplicateRemoteIsNotNotFound(t *testing.T) {
	cfg := Config{Version: 1, Remotes: []Remote{{Name: "a", URL: "http://x"}, {Name: "a", URL: "http://y"}}}
	err := cfg.Validate()
	if errors.Is(err, model.ErrRemoteNotFound) {
		t.Fatalf("ambiguity reported as not found: %v", err)
	}
	if !errors.Is(err, model.ErrRemoteAmbiguous) {
		t.Fatalf("Validate() error = %v, want ErrRemoteAmbiguous", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	home := filepath.Join(t.TempDir(), "new")
	env, err := Resolve(home)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	env.Config.Remotes = append(env.Config.Remotes, Remote{Name: "prod", URL: "https://p/submit", Default: true})
	if err := env.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	fi, err := os.Stat(env.ConfigPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("config mode = %v, want 0600", fi.Mode().Perm())
	}
	again, err := Resolve(home)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(again.Config.Remotes) != 1 || again.Config.Remotes[0].URL != "https://p/submit" {
		t.Errorf("remotes after reload = %+v", again.Config.Remotes)
	}
}
