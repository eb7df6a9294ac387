package cfgfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kompox/hotwings/config/hotwingsenv"
	"github.com/kompox/hotwings/domain/model"
)

func newTestEnv(t *testing.T, content string) *hotwingsenv.Env {
	t.Helper()
	home := t.TempDir()
	if content != "" {
		if err := os.WriteFile(filepath.Join(home, hotwingsenv.ConfigFileName), []byte(content), 0o600); err != nil {
			t.Fatalf("writing config: %v", err)
		}
	}
	env, err := hotwingsenv.Resolve(home)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	return env
}

func TestSetResolvePersist(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "")
	repo := NewRemoteRepository(env)

	if err := repo.Set(ctx, &model.Remote{Name: "prod", URL: "https://p/submit", Default: true}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := repo.Set(ctx, &model.Remote{Name: "lab", URL: "http://lab/submit"}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := repo.Resolve(ctx, "lab")
	if err != nil || got.URL != "http://lab/submit" {
		t.Fatalf("Resolve() = %+v, %v", got, err)
	}
	d, err := repo.Default(ctx)
	if err != nil || d.Name != "prod" {
		t.Fatalf("Default() = %+v, %v", d, err)
	}

	// Switching the default clears the previous one.
	if err := repo.Set(ctx, &model.Remote{Name: "lab", URL: "http://lab/v2", Default: true}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	reloaded, err := hotwingsenv.Resolve(env.Home)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	repo2 := NewRemoteRepository(reloaded)
	d, err = repo2.Default(ctx)
	if err != nil || d.Name != "lab" || d.URL != "http://lab/v2" {
		t.Fatalf("Default() after reload = %+v, %v", d, err)
	}
	list, _ := repo2.List(ctx)
	if len(list) != 2 {
		t.Fatalf("List() = %+v", list)
	}
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, `version: 1
remotes:
  - {name: dup, url: "http://a"}
  - {name: dup, url: "http://b"}
`)
	repo := NewRemoteRepository(env)

	_, err := repo.Resolve(ctx, "dup")
	if !errors.Is(err, model.ErrRemoteAmbiguous) || errors.Is(err, model.ErrRemoteNotFound) {
		t.Fatalf("Resolve(dup) error = %v, want ErrRemoteAmbiguous", err)
	}
	_, err = repo.Resolve(ctx, "none")
	if !errors.Is(err, model.ErrRemoteNotFound) || errors.Is(err, model.ErrRemoteAmbiguous) {
		t.Fatalf("Resolve(none) error = %v, want ErrRemoteNotFound", err)
	}
	if _, err := repo.Default(ctx); !errors.Is(err, model.ErrNoDefaultRemote) {
		t.Fatalf("Default() error = %v, want ErrNoDefaultRemote", err)
	}
	if err := repo.Set(ctx, &model.Remote{Name: "dup", URL: "http://c"}); !errors.Is(err, model.ErrRemoteAmbiguous) {
		t.Fatalf("Set(dup) error = %v, want ErrRemoteAmbiguous", err)
	}
	// Deleting the ambiguous name repairs the config.
	if err := repo.Delete(ctx, "dup"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := repo.Resolve(ctx, "dup"); !errors.Is(err, model.ErrRemoteNotFound) {
		t.Fatalf("Resolve() after delete error = %v", err)
	}
}

func TestSetInvalid(t *testing.T) {
	ctx := context.Background()
	repo := NewRemoteRepository(newTestEnv(t, ""))
	for _, rm := range []*model.Remote{
		{Name: "Bad_Name", URL: "http://x"},
		{Name: "ok", URL: "not a url"},
		{Name: "ok", URL: "file:///etc/passwd"},
	} {
		if err := repo.Set(ctx, rm); !errors.Is(err, model.ErrConfig) {
			t.Errorf("Set(%+v) error = %v, want ErrConfig", rm, err)
		}
	}
}
