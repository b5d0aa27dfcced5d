package response

import "github.com/evently/evently-api/internal/domain"

// ParticipationResponse carries the participation plus, when the
// participation is accepted, a short-lived ticket token redeemable for
// the wallet pass.
type ParticipationResponse struct {
	domain.Participation
	PasskitToken string `json:"passkit_token,omitempty"`
}
