package domain

import "time"

// TicketClaims is the payload of a ticket credential. It is never
// persisted; it lives only inside the signed token between issuance
// and redemption.
type TicketClaims struct {
	EventID          uint      `json:"event_id"`
	EventName        string    `json:"event_name"`
	EventDescription string    `json:"event_description"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Username         string    `json:"username"`
}
