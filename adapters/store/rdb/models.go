package rdb

import "time"

// SubmissionRecord is the RDB persistence model for domain Submission.
// Table name: submissions
type SubmissionRecord struct {
	ID         string    `gorm:"primaryKey;type:text;not null"`
	JobName    string    `gorm:"type:text;not null;index"`
	RemoteName string    `gorm:"type:text"`
	URL        string    `gorm:"type:text;not null"`
	Playbook   string    `gorm:"type:text"`
	User       string    `gorm:"type:text"`
	StatusCode int       `gorm:"not null"`
	Response   string    `gorm:"type:text"`
	Error      string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

func (SubmissionRecord) TableName() string { return "submissions" }
