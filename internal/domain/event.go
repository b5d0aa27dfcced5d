package domain

import "time"

type EventVisibility string

const (
	EventPublic     EventVisibility = "public"
	EventInviteOnly EventVisibility = "invite-only"
)

type Event struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OwnerID     uint            `json:"owner_id"`
	Visibility  EventVisibility `json:"visibility"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
