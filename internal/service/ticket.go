package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/evently/evently-api/internal/domain"
)

// Tickets are meant to be redeemed promptly, not stored by the client,
// so the credential stays valid for one hour only.
const ticketValidity = time.Hour

var (
	ErrTicketNotEligible = errors.New("participation is not accepted")
	ErrTicketInvalid     = errors.New("ticket token is invalid")
	ErrTicketExpired     = errors.New("ticket token is expired")
)

// PassRenderer turns validated ticket claims into the binary wallet-pass
// artifact. The artifact is cheap to regenerate and is never persisted.
type PassRenderer interface {
	Render(claims domain.TicketClaims) ([]byte, error)
}

type ticketTokenClaims struct {
	jwt.RegisteredClaims

	EventID          uint      `json:"event_id"`
	EventName        string    `json:"event_name"`
	EventDescription string    `json:"event_description"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Username         string    `json:"username"`
}

type TicketService struct {
	signingKey []byte
	renderer   PassRenderer
	now        func() time.Time
}

func NewTicketService(signingKey []byte, renderer PassRenderer) *TicketService {
	return &TicketService{
		signingKey: signingKey,
		renderer:   renderer,
		now:        time.Now,
	}
}

// Mint signs a ticket credential from the participation's snapshot. The
// state machine already guards who may read the participation; refusing
// non-accepted statuses here keeps a forged call from minting anyway.
func (s *TicketService) Mint(participation domain.Participation) (string, error) {
	if participation.Status != domain.ParticipationAccepted {
		return "", ErrTicketNotEligible
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ticketTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ticketValidity)),
		},
		EventID:          participation.Event.ID,
		EventName:        participation.Event.Name,
		EventDescription: participation.Event.Description,
		StartDate:        participation.Event.StartDate,
		EndDate:          participation.Event.EndDate,
		Username:         participation.User.Username,
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, nil
}

// Redeem verifies a ticket credential and returns its claims.
func (s *TicketService) Redeem(token string) (domain.TicketClaims, error) {
	var claims ticketTokenClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.TicketClaims{}, ErrTicketExpired
		}

		return domain.TicketClaims{}, ErrTicketInvalid
	}

	if !parsed.Valid {
		return domain.TicketClaims{}, ErrTicketInvalid
	}

	return domain.TicketClaims{
		EventID:          claims.EventID,
		EventName:        claims.EventName,
		EventDescription: claims.EventDescription,
		StartDate:        claims.StartDate,
		EndDate:          claims.EndDate,
		Username:         claims.Username,
	}, nil
}

// GetApplePass redeems a ticket credential and renders the wallet pass.
func (s *TicketService) GetApplePass(token string) ([]byte, error) {
	claims, err := s.Redeem(token)
	if err != nil {
		return nil, err
	}

	pass, err := s.renderer.Render(claims)
	if err != nil {
		return nil, fmt.Errorf("s.renderer.Render -> %w", err)
	}

	return pass, nil
}
