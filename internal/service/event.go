package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/evently/evently-api/internal/domain"
	"github.com/evently/evently-api/internal/repository"
)

var ErrEventNotFound = repository.ErrEventNotFound

const searchResultLimit = 5

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	FindByOwnerID(ctx context.Context, ownerID uint) ([]domain.Event, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
}

type EventParticipationRepository interface {
	DeleteByEventID(ctx context.Context, eventID uint) error
}

type EventService struct {
	repo              EventRepository
	participationRepo EventParticipationRepository
}

func NewEventService(repo EventRepository, participationRepo EventParticipationRepository) *EventService {
	return &EventService{
		repo:              repo,
		participationRepo: participationRepo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event, ownerID uint) (domain.Event, error) {
	event.OwnerID = ownerID

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) GetEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) GetUserEvents(ctx context.Context, ownerID uint) ([]domain.Event, error) {
	events, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByOwnerID -> %w", err)
	}

	return events, nil
}

func (s *EventService) SearchEvents(ctx context.Context, query string) ([]domain.Event, error) {
	events, err := s.repo.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Search -> %w", err)
	}

	return events, nil
}

func (s *EventService) EditEvent(ctx context.Context, actingUserID uint, event domain.Event) (domain.Event, error) {
	existing, err := s.getOwnedEvent(ctx, actingUserID, event.ID)
	if err != nil {
		return domain.Event{}, err
	}

	existing.Name = event.Name
	existing.Description = event.Description
	existing.Visibility = event.Visibility
	existing.StartDate = event.StartDate
	existing.EndDate = event.EndDate
	existing.Tags = event.Tags

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteEvent removes the event and every participation that references
// it. Participations go first so a failure never leaves them orphaned.
func (s *EventService) DeleteEvent(ctx context.Context, actingUserID, eventID uint) error {
	event, err := s.getOwnedEvent(ctx, actingUserID, eventID)
	if err != nil {
		return err
	}

	if err = s.participationRepo.DeleteByEventID(ctx, event.ID); err != nil {
		return fmt.Errorf("s.participationRepo.DeleteByEventID -> %w", err)
	}

	if err = s.repo.Delete(ctx, event.ID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *EventService) getOwnedEvent(ctx context.Context, actingUserID, eventID uint) (domain.Event, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}

	if event.OwnerID != actingUserID {
		return domain.Event{}, ErrNotEventOwner
	}

	return event, nil
}
