package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(150);not null;uniqueIndex" json:"username"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type WatchlistItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_asteroid,priority:1" json:"user_id"`
	AsteroidID uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_asteroid,priority:2;index" json:"asteroid_id"`
	UserNotes  string    `gorm:"type:text;not null;default:''" json:"user_notes"`
	AddedAt    time.Time `gorm:"autoCreateTime;index" json:"added_at"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Asteroid *Asteroid `gorm:"foreignKey:AsteroidID;constraint:OnDelete:CASCADE" json:"asteroid,omitempty"`
}
