package model

import "time"

// Tour groups a series of jobs under one production.
type Tour struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:256;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Jobs []Job `gorm:"foreignKey:TourID"`
}

// Job represents a single production job (a show day, a build, etc.).
type Job struct {
	ID         string  `gorm:"primaryKey;size:36"`
	Title      string  `gorm:"size:256;not null"`
	Department string  `gorm:"size:128;index"` // empty for cross-department jobs
	TourID     *string `gorm:"size:36;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// JobAssignment links a user to a job they work on.
type JobAssignment struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	JobID     string `gorm:"size:36;not null;uniqueIndex:idx_job_assignment"`
	UserID    string `gorm:"size:36;not null;uniqueIndex:idx_job_assignment"`
	CreatedAt time.Time
}
