package checkin

import "time"

// CheckIn is a self-reported mood snapshot.
type CheckIn struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"index;not null;type:uuid" json:"userId"`
	Mood        string    `gorm:"not null" json:"mood"`
	StressLevel int       `gorm:"not null" json:"stressLevel"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
