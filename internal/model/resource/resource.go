package resource

import "time"

// Resource is a curated self-help link shown to all users.
type Resource struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"-"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"desc,omitempty"`
	URL         string    `gorm:"not null" json:"url"`
	CreatedAt   time.Time `json:"-"`
}
