package rdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/kompox/hotwings/domain"
	"github.com/kompox/hotwings/domain/model"
	"gorm.io/gorm"
)

// SubmissionRepository is a GORM-backed implementation of domain.SubmissionRepository.
type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func toRecord(s *model.Submission) *SubmissionRecord {
	return &SubmissionRecord{
		ID:         s.ID,
		JobName:    s.JobName,
		RemoteName: s.RemoteName,
		URL:        s.URL,
		Playbook:   s.Playbook,
		User:       s.User,
		StatusCode: s.StatusCode,
		Response:   s.Response,
		Error:      s.Error,
		CreatedAt:  s.CreatedAt,
	}
}

func toModel(r *SubmissionRecord) *model.Submission {
	return &model.Submission{
		ID:         r.ID,
		JobName:    r.JobName,
		RemoteName: r.RemoteName,
		URL:        r.URL,
		Playbook:   r.Playbook,
		User:       r.User,
		StatusCode: r.StatusCode,
		Response:   r.Response,
		Error:      r.Error,
		CreatedAt:  r.CreatedAt,
	}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	rec := toRecord(s)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		s.ID = rec.ID
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *SubmissionRepository) List(ctx context.Context) ([]*model.Submission, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *SubmissionRepository) ListByJob(ctx context.Context, jobName string) ([]*model.Submission, error) {
	return r.find(r.db.WithContext(ctx).Where("job_name = ?", jobName))
}

func (r *SubmissionRepository) find(q *gorm.DB) ([]*model.Submission, error) {
	var recs []SubmissionRecord
	if err := q.Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Submission, 0, len(recs))
	for i := range recs {
		out = append(out, toModel(&recs[i]))
	}
	return out, nil
}

// Ensure interface satisfaction.
var _ domain.SubmissionRepository = (*SubmissionRepository)(nil)
