package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"

	TriggerCLI    = "cli"
	TriggerWorker = "worker"
	TriggerAPI    = "api"
)

// IngestionRun records one attempt to pull a feed window into storage.
type IngestionRun struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Trigger          string         `gorm:"type:varchar(20);not null" json:"trigger"`
	StartDate        time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate          time.Time      `gorm:"type:date;not null" json:"end_date"`
	Status           string         `gorm:"type:varchar(20);not null;index" json:"status"`
	AsteroidsCreated int            `gorm:"not null" json:"asteroids_created"`
	FlybysCreated    int            `gorm:"not null" json:"flybys_created"`
	Processed        int            `gorm:"not null" json:"processed"`
	Skipped          int            `gorm:"not null" json:"skipped"`
	SkippedIDs       datatypes.JSON `gorm:"type:jsonb;not null" json:"skipped_ids"`
	Error            string         `gorm:"type:text" json:"error,omitempty"`
	StartedAt        time.Time      `gorm:"not null" json:"started_at"`
	FinishedAt       time.Time      `gorm:"not null;index" json:"finished_at"`
}

func (r *IngestionRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if len(r.SkippedIDs) == 0 {
		r.SkippedIDs = datatypes.JSON("[]")
	}
	return nil
}
