package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kompox/hotwings/adapters/submit"
	"github.com/kompox/hotwings/domain/model"
)

// cliEnv is an isolated home, staging directory and history DB.
type cliEnv struct {
	home    string
	staging string
	db      string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	for _, k := range []string{"HOTWINGS_HOME", "HOTWINGS_STAGING", "HOTWINGS_HISTORY_DB", "HOTWINGS_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	tmp := t.TempDir()
	e := &cliEnv{
		home:    filepath.Join(tmp, "home"),
		staging: filepath.Join(tmp, "staging"),
		db:      "sqlite:" + filepath.Join(tmp, "history.db"),
	}
	for _, d := range []string{e.home, e.staging} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	config := "version: 1\narchiver: builtin\nlogging:\n  output: none\n"
	if err := os.WriteFile(filepath.Join(e.home, "config.yml"), []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}
	return e
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--home", e.home, "--staging", e.staging, "--history-db", e.db}, args...))
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if executed != nil {
		closeSession(executed.Context())
	}
	return out.String(), err
}

func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("hotwings %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getting working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("changing to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

// newProject creates a reference directory with a playbook and a sub
// directory, and changes into it.
func newProject(t *testing.T, e *cliEnv) string {
	t.Helper()
	proj, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(proj, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(proj, "run.sh"), []byte("#!/bin/sh\necho hi\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	chdir(t, proj)
	e.mustRun(t, "init")
	return proj
}

var jobNameRe = regexp.MustCompile(`hotwings-[0-9a-z]{6}`)

func TestInitCommand(t *testing.T) {
	tests := []struct {
		name       string
		existing   bool
		args       []string
		wantErrMsg string
	}{
		{name: "new_file"},
		{name: "custom_name", args: []string{"jobs/train.yml"}},
		{name: "existing_no_force", existing: true, wantErrMsg: "already exists"},
		{name: "existing_with_force", existing: true, args: []string{"--force"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newCLIEnv(t)
			dir := t.TempDir()
			chdir(t, dir)
			if tt.existing {
				if err := os.WriteFile(defaultPlaybookName, []byte("keep: me\n"), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			out, err := e.run(t, append([]string{"init"}, tt.args...)...)
			if tt.wantErrMsg != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErrMsg) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErrMsg, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			path := defaultPlaybookName
			if len(tt.args) > 0 && !strings.HasPrefix(tt.args[0], "-") {
				path = tt.args[0]
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading playbook: %v", err)
			}
			if !strings.Contains(string(data), "image:") || !strings.Contains(out, "Created") {
				t.Errorf("unexpected playbook %q / output %q", data, out)
			}
		})
	}
}

func TestListEmpty(t *testing.T) {
	e := newCLIEnv(t)
	out := e.mustRun(t, "list")
	if !strings.Contains(out, "No job is found") {
		t.Errorf("list output = %q", out)
	}
	if _, err := e.run(t, "list", "zero"); err == nil {
		t.Errorf("list zero succeeded")
	}
}

func TestPrepareListStatus(t *testing.T) {
	e := newCLIEnv(t)
	proj := newProject(t, e)

	out := e.mustRun(t, "submit", "--prepare")
	name := jobNameRe.FindString(out)
	if name == "" {
		t.Fatalf("no job name in %q", out)
	}

	ws := filepath.Join(e.staging, name)
	if target, err := os.Readlink(filepath.Join(ws, model.RefLinkName)); err != nil || target != proj {
		t.Errorf(".ref -> %q, %v", target, err)
	}
	if target, err := os.Readlink(filepath.Join(ws, model.PlaybookLinkName)); err != nil || target != ".ref/playbook.yml" {
		t.Errorf(".playbook -> %q, %v", target, err)
	}
	if fi, err := os.Stat(filepath.Join(ws, model.ArchiveFileName)); err != nil || fi.Size() == 0 {
		t.Errorf("archive missing: %v", err)
	}

	out = e.mustRun(t, "status")
	if !strings.Contains(out, "1 job is found") || !strings.Contains(out, "playbook.yml") || !strings.Contains(out, name) {
		t.Errorf("status output = %q", out)
	}

	out = e.mustRun(t, "list")
	if !strings.Contains(out, name) || !strings.Contains(out, string(model.JobStateArchived)) {
		t.Errorf("list output = %q", out)
	}

	chdir(t, filepath.Join(proj, "sub"))
	out = e.mustRun(t, "status")
	if !strings.Contains(out, "No job is found") {
		t.Errorf("status from sub directory = %q", out)
	}
}

func TestSubmitPlaybookOutsideDirectory(t *testing.T) {
	e := newCLIEnv(t)
	newProject(t, e)
	outside := filepath.Join(t.TempDir(), "x.yml")
	if err := os.WriteFile(outside, []byte("name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := e.run(t, "submit", "--prepare", outside)
	if !errors.Is(err, model.ErrPath) {
		t.Fatalf("submit error = %v, want ErrPath", err)
	}
}

func TestSubmitMissingPlaybookOutsideDirectory(t *testing.T) {
	e := newCLIEnv(t)
	proj := newProject(t, e)
	chdir(t, filepath.Join(proj, "sub"))
	_, err := e.run(t, "submit", "--prepare", "../../nonexistent/p.yml")
	if !errors.Is(err, model.ErrPath) || !errors.Is(err, model.ErrTrackedFileOutside) {
		t.Fatalf("submit error = %v, want ErrTrackedFileOutside", err)
	}
	entries, err := os.ReadDir(e.staging)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("staging has %d entries, want none", len(entries))
	}
}

func TestListWithUnavailableHistory(t *testing.T) {
	e := newCLIEnv(t)
	newProject(t, e)
	out := e.mustRun(t, "submit", "--prepare")
	name := jobNameRe.FindString(out)
	if name == "" {
		t.Fatalf("no job name in %q", out)
	}

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	e.db = "sqlite:" + filepath.Join(blocker, "sub", "history.db")

	for _, args := range [][]string{{"list"}, {"status"}} {
		out, err := e.run(t, args...)
		if err != nil {
			t.Fatalf("hotwings %s: %v", args[0], err)
		}
		if !strings.Contains(out, name) {
			t.Errorf("hotwings %s output = %q, want %s", args[0], out, name)
		}
	}
	if _, err := e.run(t, "logs"); !errors.Is(err, model.ErrIO) {
		t.Errorf("logs error = %v, want ErrIO", err)
	}
}

func TestSubmitToRemote(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.FormValue(submit.FieldPlaybook) != "playbook.yml" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, "queued")
	}))
	defer srv.Close()

	e := newCLIEnv(t)
	newProject(t, e)

	_, err := e.run(t, "submit")
	if !errors.Is(err, model.ErrNoDefaultRemote) {
		t.Fatalf("submit without remote error = %v", err)
	}

	e.mustRun(t, "remote", "add", "prod", srv.URL+"/submit", "--default")
	out := e.mustRun(t, "sub")
	name := jobNameRe.FindString(out)
	if name == "" || !strings.Contains(out, "submitted to prod (200)") {
		t.Fatalf("submit output = %q", out)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d", hits.Load())
	}

	out = e.mustRun(t, "submit", "--job", name, "--remote", "prod")
	if !strings.Contains(out, "submitted to prod") {
		t.Errorf("resubmit output = %q", out)
	}

	out = e.mustRun(t, "logs", name)
	if strings.Count(out, name) != 2 || !strings.Contains(out, "prod") {
		t.Errorf("logs output = %q", out)
	}
	out = e.mustRun(t, "list")
	if !strings.Contains(out, string(model.JobStateSubmitted)) {
		t.Errorf("list output = %q", out)
	}
}

func TestRemoteCommands(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun(t, "remote", "add", "lab", "http://lab.example/submit")
	e.mustRun(t, "remote", "set", "prod", "https://prod.example/submit", "--default")

	out := e.mustRun(t, "remote", "list")
	if !strings.Contains(out, "lab") || !strings.Contains(out, "prod") || !strings.Contains(out, "*") {
		t.Errorf("remote list = %q", out)
	}
	out = e.mustRun(t, "remote", "default", "lab")
	if !strings.HasPrefix(out, "lab") {
		t.Errorf("remote default lab = %q", out)
	}
	e.mustRun(t, "remote", "rm", "prod")
	if _, err := e.run(t, "remote", "rm", "prod"); !errors.Is(err, model.ErrRemoteNotFound) {
		t.Errorf("second rm error = %v", err)
	}
	if _, err := e.run(t, "remote", "add", "Bad_Name", "http://x"); !errors.Is(err, model.ErrConfig) {
		t.Errorf("invalid remote error = %v", err)
	}
}

func TestClean(t *testing.T) {
	e := newCLIEnv(t)
	newProject(t, e)
	out := e.mustRun(t, "submit", "--prepare")
	name := jobNameRe.FindString(out)

	out = e.mustRun(t, "clean")
	if !strings.Contains(out, "No job older than") {
		t.Errorf("clean with default ttl = %q", out)
	}
	out = e.mustRun(t, "clean", "--older-than", "0s", "--dry-run")
	if !strings.Contains(out, "Would remove "+name) {
		t.Errorf("clean dry run = %q", out)
	}
	if _, err := os.Stat(filepath.Join(e.staging, name)); err != nil {
		t.Fatalf("dry run removed the job: %v", err)
	}
	out = e.mustRun(t, "clean", "--older-than", "0s")
	if !strings.Contains(out, "Removed "+name) {
		t.Errorf("clean = %q", out)
	}
	if _, err := os.Stat(filepath.Join(e.staging, name)); !os.IsNotExist(err) {
		t.Errorf("job still present: %v", err)
	}
}

func TestVersion(t *testing.T) {
	e := newCLIEnv(t)
	out := e.mustRun(t, "version")
	if !strings.HasPrefix(out, "hotwings version ") {
		t.Errorf("version output = %q", out)
	}
}

func TestConfigCommand(t *testing.T) {
	e := newCLIEnv(t)
	out := e.mustRun(t, "config")
	for _, want := range []string{"staging=" + e.staging, "archiver=builtin", "history=" + e.db, "ttl=168h0m0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q: %q", want, out)
		}
	}

	bad := "version: 1\nremotes:\n  - {name: a, url: \"http://a\"}\n  - {name: a, url: \"http://b\"}\n"
	if err := os.WriteFile(filepath.Join(e.home, "config.yml"), []byte(bad), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := e.run(t, "config"); !errors.Is(err, model.ErrRemoteAmbiguous) {
		t.Errorf("config with duplicate remotes error = %v", err)
	}
}
