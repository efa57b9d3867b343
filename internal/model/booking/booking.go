package booking

import "time"

// Status tracks the lifecycle of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Counselor is a bookable therapist profile.
type Counselor struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	FullName    string    `gorm:"not null" json:"fullName"`
	Bio         string    `json:"bio,omitempty"`
	Specialties string    `json:"specialties,omitempty"`
	PriceCents  int       `gorm:"not null;default:0" json:"priceCents"`
	Currency    string    `gorm:"not null;default:BND" json:"currency"`
	IsActive    bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AvailabilitySlot is a time window a counselor offers. Times are UTC.
type AvailabilitySlot struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	CounselorID string    `gorm:"index;not null;type:uuid" json:"counselorId"`
	StartTime   time.Time `gorm:"not null" json:"startTime"`
	EndTime     time.Time `gorm:"not null" json:"endTime"`
	IsBooked    bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt   time.Time `json:"-"`
}

// Booking ties a user to a counselor slot. A slot books at most once.
type Booking struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"index;not null;type:uuid" json:"userId"`
	CounselorID string    `gorm:"not null;type:uuid" json:"counselorId"`
	SlotID      string    `gorm:"uniqueIndex;not null;type:uuid" json:"slotId"`
	Status      Status    `gorm:"not null;default:pending" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Detail is a booking joined with its counselor and slot for responses.
type Detail struct {
	Booking   Booking
	Counselor Counselor
	Slot      AvailabilitySlot
}
