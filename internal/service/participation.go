package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/evently/evently-api/internal/domain"
	"github.com/evently/evently-api/internal/repository"
)

var (
	ErrParticipationNotFound  = repository.ErrParticipationNotFound
	ErrAlreadyParticipating   = errors.New("you already have a participation in this event")
	ErrEventInviteOnly        = errors.New("event is invite only")
	ErrEventNotInviteOnly     = errors.New("event is not invite only")
	ErrNotEventOwner          = errors.New("you are not the owner of the event")
	ErrNotParticipationHolder = errors.New("you are not the owner of the participation")
	ErrIllegalTransition      = errors.New("participation status does not allow this action")
)

type ParticipationRepository interface {
	Create(ctx context.Context, participation domain.Participation) (domain.Participation, error)
	FindByID(ctx context.Context, id uint) (domain.Participation, error)
	FindActiveByUserAndEvent(ctx context.Context, userID, eventID uint) (domain.Participation, error)
	FindActiveByEventID(ctx context.Context, eventID uint) ([]domain.Participation, error)
	FindActiveByUserID(ctx context.Context, userID uint) ([]domain.Participation, error)
	Update(ctx context.Context, participation domain.Participation) (domain.Participation, error)
}

type ParticipationEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type ParticipationUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type ParticipationService struct {
	repo      ParticipationRepository
	eventRepo ParticipationEventRepository
	userRepo  ParticipationUserRepository
}

func NewParticipationService(repo ParticipationRepository, eventRepo ParticipationEventRepository, userRepo ParticipationUserRepository) *ParticipationService {
	return &ParticipationService{
		repo:      repo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
	}
}

// Join creates an accepted participation for a public event. Public
// events need no approval, so the record is born accepted.
func (s *ParticipationService) Join(ctx context.Context, userID, eventID uint) (domain.Participation, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return domain.Participation{}, err
	}

	if event.Visibility != domain.EventPublic {
		return domain.Participation{}, ErrEventInviteOnly
	}

	return s.createParticipation(ctx, userID, event, domain.ParticipationAccepted, "")
}

// Request creates a pending participation for an invite-only event.
func (s *ParticipationService) Request(ctx context.Context, userID, eventID uint, message string) (domain.Participation, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return domain.Participation{}, err
	}

	if event.Visibility != domain.EventInviteOnly {
		return domain.Participation{}, ErrEventNotInviteOnly
	}

	return s.createParticipation(ctx, userID, event, domain.ParticipationPending, message)
}

func (s *ParticipationService) createParticipation(ctx context.Context, userID uint, event domain.Event, status domain.ParticipationStatus, message string) (domain.Participation, error) {
	_, err := s.repo.FindActiveByUserAndEvent(ctx, userID, event.ID)
	if err == nil {
		return domain.Participation{}, ErrAlreadyParticipating
	}
	if !errors.Is(err, repository.ErrParticipationNotFound) {
		return domain.Participation{}, fmt.Errorf("s.repo.FindActiveByUserAndEvent -> %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Participation{
		UserID:  userID,
		EventID: event.ID,
		User: domain.UserSnapshot{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
		Event: domain.EventSnapshot{
			ID:          event.ID,
			Name:        event.Name,
			Description: event.Description,
			OwnerID:     event.OwnerID,
			Visibility:  event.Visibility,
			StartDate:   event.StartDate,
			EndDate:     event.EndDate,
		},
		Status:  status,
		Message: message,
	})
	if err != nil {
		// The partial unique index catches the duplicate that slipped
		// past the pre-check when two creations race.
		if errors.Is(err, repository.ErrParticipationExists) {
			return domain.Participation{}, ErrAlreadyParticipating
		}

		return domain.Participation{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Accept moves a pending or rejected participation to accepted. Allowing
// the rejected origin lets an organizer reverse a rejection.
func (s *ParticipationService) Accept(ctx context.Context, actingUserID, participationID uint) (domain.Participation, error) {
	participation, err := s.findParticipation(ctx, participationID)
	if err != nil {
		return domain.Participation{}, err
	}

	if err = s.checkEventOwner(ctx, actingUserID, participation.EventID); err != nil {
		return domain.Participation{}, err
	}

	if participation.Status != domain.ParticipationPending && participation.Status != domain.ParticipationRejected {
		return domain.Participation{}, ErrIllegalTransition
	}

	participation.Status = domain.ParticipationAccepted

	return s.save(ctx, participation)
}

// Reject moves a pending participation to rejected.
func (s *ParticipationService) Reject(ctx context.Context, actingUserID, participationID uint) (domain.Participation, error) {
	participation, err := s.findParticipation(ctx, participationID)
	if err != nil {
		return domain.Participation{}, err
	}

	if err = s.checkEventOwner(ctx, actingUserID, participation.EventID); err != nil {
		return domain.Participation{}, err
	}

	if participation.Status != domain.ParticipationPending {
		return domain.Participation{}, ErrIllegalTransition
	}

	participation.Status = domain.ParticipationRejected

	return s.save(ctx, participation)
}

// Cancel is the holder's exit. Cancelled and rejected participations have
// nothing left to cancel.
func (s *ParticipationService) Cancel(ctx context.Context, actingUserID, participationID uint) (domain.Participation, error) {
	participation, err := s.findParticipation(ctx, participationID)
	if err != nil {
		return domain.Participation{}, err
	}

	if participation.UserID != actingUserID {
		return domain.Participation{}, ErrNotParticipationHolder
	}

	if participation.Status == domain.ParticipationCancelled || participation.Status == domain.ParticipationRejected {
		return domain.Participation{}, ErrIllegalTransition
	}

	participation.Status = domain.ParticipationCancelled

	return s.save(ctx, participation)
}

func (s *ParticipationService) GetEventParticipations(ctx context.Context, actingUserID, eventID uint) ([]domain.Participation, error) {
	if err := s.checkEventOwner(ctx, actingUserID, eventID); err != nil {
		return nil, err
	}

	participations, err := s.repo.FindActiveByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActiveByEventID -> %w", err)
	}

	return participations, nil
}

func (s *ParticipationService) GetUserParticipations(ctx context.Context, userID uint) ([]domain.Participation, error) {
	participations, err := s.repo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActiveByUserID -> %w", err)
	}

	return participations, nil
}

// GetParticipation returns the caller's active participation for an
// event. Absence surfaces as ErrParticipationNotFound, which callers
// treat as an empty result rather than a failure.
func (s *ParticipationService) GetParticipation(ctx context.Context, userID, eventID uint) (domain.Participation, error) {
	participation, err := s.repo.FindActiveByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipationNotFound) {
			return domain.Participation{}, ErrParticipationNotFound
		}

		return domain.Participation{}, fmt.Errorf("s.repo.FindActiveByUserAndEvent -> %w", err)
	}

	return participation, nil
}

func (s *ParticipationService) findEvent(ctx context.Context, eventID uint) (domain.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *ParticipationService) findParticipation(ctx context.Context, id uint) (domain.Participation, error) {
	participation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrParticipationNotFound) {
			return domain.Participation{}, ErrParticipationNotFound
		}

		return domain.Participation{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return participation, nil
}

// checkEventOwner authorizes against the event's current owner, not the
// owner captured in the participation snapshot. A transferred event must
// not leave approval rights with the previous owner.
func (s *ParticipationService) checkEventOwner(ctx context.Context, actingUserID, eventID uint) error {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if event.OwnerID != actingUserID {
		return ErrNotEventOwner
	}

	return nil
}

func (s *ParticipationService) save(ctx context.Context, participation domain.Participation) (domain.Participation, error) {
	updated, err := s.repo.Update(ctx, participation)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}
