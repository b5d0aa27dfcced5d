package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/evently-api/internal/domain"
)

type mockPassRenderer struct {
	renderFn func(claims domain.TicketClaims) ([]byte, error)
}

func (m *mockPassRenderer) Render(claims domain.TicketClaims) ([]byte, error) {
	return m.renderFn(claims)
}

func acceptedParticipation() domain.Participation {
	return domain.Participation{
		ID:      100,
		UserID:  2,
		EventID: 10,
		User:    domain.UserSnapshot{ID: 2, Username: "alice", Email: "alice@example.com"},
		Event: domain.EventSnapshot{
			ID:          10,
			Name:        "Gophers Meetup",
			Description: "Monthly meetup",
			OwnerID:     1,
			Visibility:  domain.EventPublic,
			StartDate:   time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC),
		},
		Status: domain.ParticipationAccepted,
	}
}

func TestTicket_MintRedeemRoundTrip(t *testing.T) {
	svc := NewTicketService([]byte("test-signing-key"), nil)
	participation := acceptedParticipation()

	token, err := svc.Mint(participation)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Redeem(token)
	require.NoError(t, err)

	assert.Equal(t, participation.Event.ID, claims.EventID)
	assert.Equal(t, participation.Event.Name, claims.EventName)
	assert.Equal(t, participation.Event.Description, claims.EventDescription)
	assert.Equal(t, participation.User.Username, claims.Username)
	assert.True(t, claims.StartDate.Equal(participation.Event.StartDate))
	assert.True(t, claims.EndDate.Equal(participation.Event.EndDate))
}

func TestTicket_MintRefusesNonAccepted(t *testing.T) {
	svc := NewTicketService([]byte("test-signing-key"), nil)

	for _, status := range []domain.ParticipationStatus{
		domain.ParticipationPending,
		domain.ParticipationRejected,
		domain.ParticipationCancelled,
	} {
		participation := acceptedParticipation()
		participation.Status = status

		_, err := svc.Mint(participation)

		assert.ErrorIs(t, err, ErrTicketNotEligible, "status %v", status)
	}
}

func TestTicket_RedeemExpired(t *testing.T) {
	svc := NewTicketService([]byte("test-signing-key"), nil)

	token, err := svc.Mint(acceptedParticipation())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.Redeem(token)

	assert.ErrorIs(t, err, ErrTicketExpired)
}

func TestTicket_RedeemWithinValidity(t *testing.T) {
	svc := NewTicketService([]byte("test-signing-key"), nil)

	token, err := svc.Mint(acceptedParticipation())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(59 * time.Minute) }

	_, err = svc.Redeem(token)

	assert.NoError(t, err)
}

func TestTicket_RedeemTampered(t *testing.T) {
	svc := NewTicketService([]byte("test-signing-key"), nil)

	token, err := svc.Mint(acceptedParticipation())
	require.NoError(t, err)

	tampered := []byte(token)
	if tampered[len(tampered)-1] == 'x' {
		tampered[len(tampered)-1] = 'y'
	} else {
		tampered[len(tampered)-1] = 'x'
	}

	_, err = svc.Redeem(string(tampered))

	assert.ErrorIs(t, err, ErrTicketInvalid)
}

func TestTicket_RedeemWrongKey(t *testing.T) {
	minter := NewTicketService([]byte("key-one"), nil)
	redeemer := NewTicketService([]byte("key-two"), nil)

	token, err := minter.Mint(acceptedParticipation())
	require.NoError(t, err)

	_, err = redeemer.Redeem(token)

	assert.ErrorIs(t, err, ErrTicketInvalid)
}

func TestTicket_RedeemGarbage(t *testing.T) {
	svc := NewTicketService([]byte("test-signing-key"), nil)

	_, err := svc.Redeem("not-a-token")

	assert.ErrorIs(t, err, ErrTicketInvalid)
}

func TestTicket_GetApplePass(t *testing.T) {
	renderer := &mockPassRenderer{
		renderFn: func(claims domain.TicketClaims) ([]byte, error) {
			assert.Equal(t, "Gophers Meetup", claims.EventName)
			return []byte("pass-bytes"), nil
		},
	}
	svc := NewTicketService([]byte("test-signing-key"), renderer)

	token, err := svc.Mint(acceptedParticipation())
	require.NoError(t, err)

	pass, err := svc.GetApplePass(token)

	require.NoError(t, err)
	assert.Equal(t, []byte("pass-bytes"), pass)
}

func TestTicket_GetApplePassInvalidToken(t *testing.T) {
	svc := NewTicketService([]byte("test-signing-key"), &mockPassRenderer{})

	_, err := svc.GetApplePass("not-a-token")

	assert.ErrorIs(t, err, ErrTicketInvalid)
}
