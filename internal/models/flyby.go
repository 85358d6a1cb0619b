package models

import (
	"fmt"
	"time"
)

type Flyby struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AsteroidID     uint      `gorm:"not null;uniqueIndex:idx_flyby_asteroid_date,priority:1" json:"asteroid_id"`
	Date           time.Time `gorm:"type:timestamptz;not null;uniqueIndex:idx_flyby_asteroid_date,priority:2;index" json:"date"`
	VelocityKmh    float64   `gorm:"not null" json:"velocity_kmh"`
	MissDistanceKm float64   `gorm:"not null" json:"miss_distance_km"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	Asteroid *Asteroid `gorm:"foreignKey:AsteroidID;constraint:OnDelete:CASCADE" json:"asteroid,omitempty"`
}

func (f Flyby) String() string {
	name := fmt.Sprintf("asteroid #%d", f.AsteroidID)
	if f.Asteroid != nil {
		name = f.Asteroid.Name
	}
	return fmt.Sprintf("%s - %s", name, f.Date.Format("2006-01-02 15:04"))
}

// HazardSummary aggregates the distinct asteroids seen in a window.
type HazardSummary struct {
	Total     int64 `json:"total"`
	Hazardous int64 `json:"hazardous"`
	Safe      int64 `json:"safe"`
}
