package models

import (
	"fmt"
	"time"
)

type Asteroid struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	NasaID                 string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"nasa_id"`
	Name                   string    `gorm:"type:varchar(200);not null" json:"name"`
	AbsoluteMagnitude      *float64  `json:"absolute_magnitude"`
	IsPotentiallyHazardous bool      `gorm:"not null;default:false" json:"is_potentially_hazardous"`
	NasaJPLURL             string    `gorm:"column:nasa_jpl_url;type:varchar(500);not null;default:''" json:"nasa_jpl_url"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a Asteroid) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.NasaID)
}

// Changes lists the columns whose values in incoming differ from a, keyed by
// column name. Only these columns are written back on reconciliation.
func (a *Asteroid) Changes(incoming *Asteroid) map[string]interface{} {
	changes := make(map[string]interface{})

	if a.Name != incoming.Name {
		changes["name"] = incoming.Name
	}
	if !sameMagnitude(a.AbsoluteMagnitude, incoming.AbsoluteMagnitude) {
		changes["absolute_magnitude"] = incoming.AbsoluteMagnitude
	}
	if a.IsPotentiallyHazardous != incoming.IsPotentiallyHazardous {
		changes["is_potentially_hazardous"] = incoming.IsPotentiallyHazardous
	}
	if a.NasaJPLURL != incoming.NasaJPLURL {
		changes["nasa_jpl_url"] = incoming.NasaJPLURL
	}

	return changes
}

// Apply copies the reconciled columns of incoming onto a.
func (a *Asteroid) Apply(incoming *Asteroid) {
	a.Name = incoming.Name
	a.AbsoluteMagnitude = incoming.AbsoluteMagnitude
	a.IsPotentiallyHazardous = incoming.IsPotentiallyHazardous
	a.NasaJPLURL = incoming.NasaJPLURL
}

func sameMagnitude(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
