package domain

import "time"

type ParticipationStatus string

const (
	ParticipationPending   ParticipationStatus = "pending"
	ParticipationAccepted  ParticipationStatus = "accepted"
	ParticipationRejected  ParticipationStatus = "rejected"
	ParticipationCancelled ParticipationStatus = "cancelled"
)

// UserSnapshot is the copy of the holder captured when the participation
// is created. Later profile edits do not change it.
type UserSnapshot struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// EventSnapshot is the copy of the event captured when the participation
// is created. It is what ends up on the ticket, not a live reference.
type EventSnapshot struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OwnerID     uint            `json:"owner_id"`
	Visibility  EventVisibility `json:"visibility"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
}

type Participation struct {
	ID        uint                `json:"id"`
	UserID    uint                `json:"user_id"`
	EventID   uint                `json:"event_id"`
	User      UserSnapshot        `json:"user"`
	Event     EventSnapshot       `json:"event"`
	Status    ParticipationStatus `json:"status"`
	Message   string              `json:"message,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
