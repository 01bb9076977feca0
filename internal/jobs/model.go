package jobs

import (
	"time"

	"gorm.io/datatypes"
)

const TypeScoreRecord = "SCORE_RECORD"

const (
	StatusPending = "PENDING"
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusFailed  = "FAILED"
)

type Job struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"index;not null"`

	Type    string         `gorm:"type:text;not null"` // SCORE_RECORD
	Payload datatypes.JSON `gorm:"not null"`

	RunAt  time.Time `gorm:"index;not null"`
	Status string    `gorm:"index;not null"` // PENDING/RUNNING/DONE/FAILED

	Attempts    int `gorm:"not null"`
	MaxAttempts int `gorm:"not null"`

	LockedBy *string `gorm:"type:text"`
	LockedAt *time.Time

	LastError *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
