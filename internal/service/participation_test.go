package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/evently-api/internal/domain"
	"github.com/evently/evently-api/internal/repository"
)

// --- Mocks ---

type mockParticipationRepo struct {
	createFn                   func(ctx context.Context, p domain.Participation) (domain.Participation, error)
	findByIDFn                 func(ctx context.Context, id uint) (domain.Participation, error)
	findActiveByUserAndEventFn func(ctx context.Context, userID, eventID uint) (domain.Participation, error)
	findActiveByEventIDFn      func(ctx context.Context, eventID uint) ([]domain.Participation, error)
	findActiveByUserIDFn       func(ctx context.Context, userID uint) ([]domain.Participation, error)
	updateFn                   func(ctx context.Context, p domain.Participation) (domain.Participation, error)
}

func (m *mockParticipationRepo) Create(ctx context.Context, p domain.Participation) (domain.Participation, error) {
	return m.createFn(ctx, p)
}

func (m *mockParticipationRepo) FindByID(ctx context.Context, id uint) (domain.Participation, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockParticipationRepo) FindActiveByUserAndEvent(ctx context.Context, userID, eventID uint) (domain.Participation, error) {
	return m.findActiveByUserAndEventFn(ctx, userID, eventID)
}

func (m *mockParticipationRepo) FindActiveByEventID(ctx context.Context, eventID uint) ([]domain.Participation, error) {
	return m.findActiveByEventIDFn(ctx, eventID)
}

func (m *mockParticipationRepo) FindActiveByUserID(ctx context.Context, userID uint) ([]domain.Participation, error) {
	return m.findActiveByUserIDFn(ctx, userID)
}

func (m *mockParticipationRepo) Update(ctx context.Context, p domain.Participation) (domain.Participation, error) {
	return m.updateFn(ctx, p)
}

type mockEventFinder struct {
	findByIDFn func(ctx context.Context, id uint) (domain.Event, error)
}

func (m *mockEventFinder) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	return m.findByIDFn(ctx, id)
}

type mockUserFinder struct {
	findByIDFn func(ctx context.Context, id uint) (domain.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id uint) (domain.User, error) {
	return m.findByIDFn(ctx, id)
}

// --- Fixtures ---

func publicEvent() domain.Event {
	return domain.Event{
		ID:          10,
		Name:        "Gophers Meetup",
		Description: "Monthly meetup",
		OwnerID:     1,
		Visibility:  domain.EventPublic,
		StartDate:   time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC),
	}
}

func inviteOnlyEvent() domain.Event {
	event := publicEvent()
	event.Visibility = domain.EventInviteOnly
	return event
}

func sampleUser() domain.User {
	return domain.User{
		ID:       2,
		Username: "alice",
		Email:    "alice@example.com",
	}
}

func eventFinderReturning(event domain.Event) *mockEventFinder {
	return &mockEventFinder{
		findByIDFn: func(ctx context.Context, id uint) (domain.Event, error) {
			return event, nil
		},
	}
}

func userFinderReturning(user domain.User) *mockUserFinder {
	return &mockUserFinder{
		findByIDFn: func(ctx context.Context, id uint) (domain.User, error) {
			return user, nil
		},
	}
}

func noActiveParticipation(ctx context.Context, userID, eventID uint) (domain.Participation, error) {
	return domain.Participation{}, repository.ErrParticipationNotFound
}

func echoCreate(ctx context.Context, p domain.Participation) (domain.Participation, error) {
	p.ID = 100
	return p, nil
}

func echoUpdate(ctx context.Context, p domain.Participation) (domain.Participation, error) {
	return p, nil
}

// --- Join / Request ---

func TestJoin_PublicEvent(t *testing.T) {
	repo := &mockParticipationRepo{
		findActiveByUserAndEventFn: noActiveParticipation,
		createFn:                   echoCreate,
	}
	svc := NewParticipationService(repo, eventFinderReturning(publicEvent()), userFinderReturning(sampleUser()))

	participation, err := svc.Join(context.Background(), 2, 10)

	require.NoError(t, err)
	assert.Equal(t, domain.ParticipationAccepted, participation.Status)
	assert.Equal(t, uint(2), participation.UserID)
	assert.Equal(t, uint(10), participation.EventID)
	assert.Equal(t, "alice", participation.User.Username)
	assert.Equal(t, "Gophers Meetup", participation.Event.Name)
	assert.Equal(t, uint(1), participation.Event.OwnerID)
}

func TestJoin_InviteOnlyEvent(t *testing.T) {
	svc := NewParticipationService(&mockParticipationRepo{}, eventFinderReturning(inviteOnlyEvent()), userFinderReturning(sampleUser()))

	_, err := svc.Join(context.Background(), 2, 10)

	assert.ErrorIs(t, err, ErrEventInviteOnly)
}

func TestJoin_EventNotFound(t *testing.T) {
	eventRepo := &mockEventFinder{
		findByIDFn: func(ctx context.Context, id uint) (domain.Event, error) {
			return domain.Event{}, repository.ErrEventNotFound
		},
	}
	svc := NewParticipationService(&mockParticipationRepo{}, eventRepo, userFinderReturning(sampleUser()))

	_, err := svc.Join(context.Background(), 2, 999)

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestJoin_AlreadyParticipating(t *testing.T) {
	repo := &mockParticipationRepo{
		findActiveByUserAndEventFn: func(ctx context.Context, userID, eventID uint) (domain.Participation, error) {
			return domain.Participation{ID: 100, Status: domain.ParticipationAccepted}, nil
		},
	}
	svc := NewParticipationService(repo, eventFinderReturning(publicEvent()), userFinderReturning(sampleUser()))

	_, err := svc.Join(context.Background(), 2, 10)

	assert.ErrorIs(t, err, ErrAlreadyParticipating)
}

func TestJoin_DuplicateRace(t *testing.T) {
	// The pre-check sees nothing, but the insert loses the race and
	// hits the unique index.
	repo := &mockParticipationRepo{
		findActiveByUserAndEventFn: noActiveParticipation,
		createFn: func(ctx context.Context, p domain.Participation) (domain.Participation, error) {
			return domain.Participation{}, repository.ErrParticipationExists
		},
	}
	svc := NewParticipationService(repo, eventFinderReturning(publicEvent()), userFinderReturning(sampleUser()))

	_, err := svc.Join(context.Background(), 2, 10)

	assert.ErrorIs(t, err, ErrAlreadyParticipating)
}

func TestRequest_InviteOnlyEvent(t *testing.T) {
	repo := &mockParticipationRepo{
		findActiveByUserAndEventFn: noActiveParticipation,
		createFn:                   echoCreate,
	}
	svc := NewParticipationService(repo, eventFinderReturning(inviteOnlyEvent()), userFinderReturning(sampleUser()))

	participation, err := svc.Request(context.Background(), 2, 10, "please let me in")

	require.NoError(t, err)
	assert.Equal(t, domain.ParticipationPending, participation.Status)
	assert.Equal(t, "please let me in", participation.Message)
}

func TestRequest_PublicEvent(t *testing.T) {
	svc := NewParticipationService(&mockParticipationRepo{}, eventFinderReturning(publicEvent()), userFinderReturning(sampleUser()))

	_, err := svc.Request(context.Background(), 2, 10, "")

	assert.ErrorIs(t, err, ErrEventNotInviteOnly)
}

func TestJoin_RepoFailureLeavesNothingBehind(t *testing.T) {
	repo := &mockParticipationRepo{
		findActiveByUserAndEventFn: noActiveParticipation,
		createFn: func(ctx context.Context, p domain.Participation) (domain.Participation, error) {
			return domain.Participation{}, errors.New("connection reset")
		},
	}
	svc := NewParticipationService(repo, eventFinderReturning(publicEvent()), userFinderReturning(sampleUser()))

	participation, err := svc.Join(context.Background(), 2, 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Zero(t, participation)
}

// --- Accept / Reject / Cancel ---

func participationWithStatus(status domain.ParticipationStatus) domain.Participation {
	return domain.Participation{
		ID:      100,
		UserID:  2,
		EventID: 10,
		User:    domain.UserSnapshot{ID: 2, Username: "alice", Email: "alice@example.com"},
		Event: domain.EventSnapshot{
			ID:         10,
			Name:       "Gophers Meetup",
			OwnerID:    1,
			Visibility: domain.EventInviteOnly,
		},
		Status: status,
	}
}

func transitionService(stored domain.Participation, updated *domain.Participation) *ParticipationService {
	repo := &mockParticipationRepo{
		findByIDFn: func(ctx context.Context, id uint) (domain.Participation, error) {
			return stored, nil
		},
		updateFn: func(ctx context.Context, p domain.Participation) (domain.Participation, error) {
			if updated != nil {
				*updated = p
			}
			return p, nil
		},
	}

	return NewParticipationService(repo, eventFinderReturning(inviteOnlyEvent()), userFinderReturning(sampleUser()))
}

func TestAccept_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ParticipationStatus
		wantErr error
	}{
		{name: "from pending", from: domain.ParticipationPending},
		{name: "from rejected reverses the rejection", from: domain.ParticipationRejected},
		{name: "from accepted", from: domain.ParticipationAccepted, wantErr: ErrIllegalTransition},
		{name: "from cancelled", from: domain.ParticipationCancelled, wantErr: ErrIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := transitionService(participationWithStatus(tt.from), nil)

			participation, err := svc.Accept(context.Background(), 1, 100)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ParticipationAccepted, participation.Status)
		})
	}
}

func TestReject_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ParticipationStatus
		wantErr error
	}{
		{name: "from pending", from: domain.ParticipationPending},
		{name: "from accepted", from: domain.ParticipationAccepted, wantErr: ErrIllegalTransition},
		{name: "from rejected", from: domain.ParticipationRejected, wantErr: ErrIllegalTransition},
		{name: "from cancelled", from: domain.ParticipationCancelled, wantErr: ErrIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := transitionService(participationWithStatus(tt.from), nil)

			participation, err := svc.Reject(context.Background(), 1, 100)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ParticipationRejected, participation.Status)
		})
	}
}

func TestCancel_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ParticipationStatus
		wantErr error
	}{
		{name: "from pending", from: domain.ParticipationPending},
		{name: "from accepted", from: domain.ParticipationAccepted},
		{name: "from rejected", from: domain.ParticipationRejected, wantErr: ErrIllegalTransition},
		{name: "from cancelled", from: domain.ParticipationCancelled, wantErr: ErrIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := transitionService(participationWithStatus(tt.from), nil)

			participation, err := svc.Cancel(context.Background(), 2, 100)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ParticipationCancelled, participation.Status)
		})
	}
}

func TestAccept_NotEventOwner(t *testing.T) {
	svc := transitionService(participationWithStatus(domain.ParticipationPending), nil)

	_, err := svc.Accept(context.Background(), 42, 100)

	assert.ErrorIs(t, err, ErrNotEventOwner)
}

func TestReject_NotEventOwner(t *testing.T) {
	svc := transitionService(participationWithStatus(domain.ParticipationPending), nil)

	_, err := svc.Reject(context.Background(), 42, 100)

	assert.ErrorIs(t, err, ErrNotEventOwner)
}

func TestCancel_NotHolder(t *testing.T) {
	svc := transitionService(participationWithStatus(domain.ParticipationAccepted), nil)

	_, err := svc.Cancel(context.Background(), 42, 100)

	assert.ErrorIs(t, err, ErrNotParticipationHolder)
}

func TestAccept_ChecksCurrentOwnerNotSnapshot(t *testing.T) {
	// The event changed hands after the participation was created: the
	// snapshot still names owner 1, but the live record names owner 7.
	stored := participationWithStatus(domain.ParticipationPending)
	event := inviteOnlyEvent()
	event.OwnerID = 7

	repo := &mockParticipationRepo{
		findByIDFn: func(ctx context.Context, id uint) (domain.Participation, error) {
			return stored, nil
		},
		updateFn: echoUpdate,
	}
	svc := NewParticipationService(repo, eventFinderReturning(event), userFinderReturning(sampleUser()))

	_, err := svc.Accept(context.Background(), 1, 100)
	assert.ErrorIs(t, err, ErrNotEventOwner)

	participation, err := svc.Accept(context.Background(), 7, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipationAccepted, participation.Status)
}

func TestAccept_ParticipationNotFound(t *testing.T) {
	repo := &mockParticipationRepo{
		findByIDFn: func(ctx context.Context, id uint) (domain.Participation, error) {
			return domain.Participation{}, repository.ErrParticipationNotFound
		},
	}
	svc := NewParticipationService(repo, eventFinderReturning(inviteOnlyEvent()), userFinderReturning(sampleUser()))

	_, err := svc.Accept(context.Background(), 1, 999)

	assert.ErrorIs(t, err, ErrParticipationNotFound)
}

// --- Queries ---

func TestGetEventParticipations_Owner(t *testing.T) {
	repo := &mockParticipationRepo{
		findActiveByEventIDFn: func(ctx context.Context, eventID uint) ([]domain.Participation, error) {
			return []domain.Participation{
				participationWithStatus(domain.ParticipationPending),
				participationWithStatus(domain.ParticipationAccepted),
			}, nil
		},
	}
	svc := NewParticipationService(repo, eventFinderReturning(inviteOnlyEvent()), userFinderReturning(sampleUser()))

	participations, err := svc.GetEventParticipations(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Len(t, participations, 2)
}

func TestGetEventParticipations_NotOwner(t *testing.T) {
	svc := NewParticipationService(&mockParticipationRepo{}, eventFinderReturning(inviteOnlyEvent()), userFinderReturning(sampleUser()))

	_, err := svc.GetEventParticipations(context.Background(), 42, 10)

	assert.ErrorIs(t, err, ErrNotEventOwner)
}

func TestGetUserParticipations(t *testing.T) {
	repo := &mockParticipationRepo{
		findActiveByUserIDFn: func(ctx context.Context, userID uint) ([]domain.Participation, error) {
			return []domain.Participation{participationWithStatus(domain.ParticipationAccepted)}, nil
		},
	}
	svc := NewParticipationService(repo, eventFinderReturning(publicEvent()), userFinderReturning(sampleUser()))

	participations, err := svc.GetUserParticipations(context.Background(), 2)

	require.NoError(t, err)
	assert.Len(t, participations, 1)
}

func TestGetParticipation_Absent(t *testing.T) {
	repo := &mockParticipationRepo{
		findActiveByUserAndEventFn: noActiveParticipation,
	}
	svc := NewParticipationService(repo, eventFinderReturning(publicEvent()), userFinderReturning(sampleUser()))

	_, err := svc.GetParticipation(context.Background(), 2, 10)

	assert.ErrorIs(t, err, ErrParticipationNotFound)
}

func TestGetParticipation_Found(t *testing.T) {
	stored := participationWithStatus(domain.ParticipationAccepted)
	repo := &mockParticipationRepo{
		findActiveByUserAndEventFn: func(ctx context.Context, userID, eventID uint) (domain.Participation, error) {
			return stored, nil
		},
	}
	svc := NewParticipationService(repo, eventFinderReturning(publicEvent()), userFinderReturning(sampleUser()))

	participation, err := svc.GetParticipation(context.Background(), 2, 10)

	require.NoError(t, err)
	assert.Equal(t, stored, participation)
}
