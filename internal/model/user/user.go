package user

import "time"

// Plan is the subscription tier. Every user has one; there is no "unset".
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// User is a registered account.
type User struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Plan         Plan      `gorm:"not null;default:free" json:"plan"`
	CreatedAt    time.Time `json:"createdAt"`
}
