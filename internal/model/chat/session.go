package chat

import "time"

// Session is an owned, titled conversation. It may be linked to the mood
// check-in that prompted it; the mood/stress snapshot is copied at creation
// and never updated afterwards.
type Session struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string    `gorm:"index;not null;type:uuid" json:"userId"`
	Title         string    `gorm:"not null" json:"title"`
	CheckinID     *string   `gorm:"type:uuid" json:"checkinId,omitempty"`
	MoodAtStart   string    `json:"moodAtStart,omitempty"`
	StressAtStart *int      `json:"stressAtStart,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
