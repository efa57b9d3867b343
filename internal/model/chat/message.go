package chat

import "time"

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the two recognised roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one immutable turn within a session. Conversation order is
// creation order; Seq breaks ties between turns written in the same instant.
type Message struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Seq       int64     `gorm:"autoIncrement;uniqueIndex" json:"-"`
	UserID    string    `gorm:"index;not null;type:uuid" json:"userId"`
	SessionID string    `gorm:"index;not null;type:uuid" json:"sessionId"`
	Role      Role      `gorm:"not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
