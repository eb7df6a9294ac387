package job

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kompox/hotwings/adapters/staging"
	"github.com/kompox/hotwings/domain/model"
)

// allocateInSequence allocates n jobs in repo with increasing ctimes, oldest
// first.
func allocateInSequence(t *testing.T, repo *staging.Repository, n int) []*model.Job {
	t.Helper()
	ctx := context.Background()
	var jobs []*model.Job
	for i := 0; i < n; i++ {
		if i > 0 {
			time.Sleep(20 * time.Millisecond)
		}
		j, err := repo.Allocate(ctx)
		if err != nil {
			t.Fatalf("Allocate() error: %v", err)
		}
		if i > 0 && !j.CreatedAt.After(jobs[i-1].CreatedAt) {
			t.Skipf("ctime resolution of %s is too coarse", repo.Root)
		}
		jobs = append(jobs, j)
	}
	return jobs
}

func TestListOrderOnStagingDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "staging")
	if err := os.Mkdir(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	repo := staging.NewRepository(root)
	created := allocateInSequence(t, repo, 3)
	uc := &UseCase{Repos: &Repos{Job: repo}}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "all", limit: -1, want: []string{created[2].Name, created[1].Name, created[0].Name}},
		{name: "top two", limit: 2, want: []string{created[2].Name, created[1].Name}},
		{name: "default", limit: 0, want: []string{created[2].Name, created[1].Name, created[0].Name}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.List(context.Background(), &ListInput{Limit: tt.limit})
			if err != nil {
				t.Fatalf("List() error: %v", err)
			}
			if out.Total != 3 {
				t.Errorf("Total = %d, want 3", out.Total)
			}
			var got []string
			for _, j := range out.Jobs {
				got = append(got, j.Name)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("List() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
