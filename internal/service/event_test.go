package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently/evently-api/internal/domain"
	"github.com/evently/evently-api/internal/repository"
)

type mockEventRepo struct {
	createFn        func(ctx context.Context, event domain.Event) (domain.Event, error)
	findByIDFn      func(ctx context.Context, id uint) (domain.Event, error)
	findAllFn       func(ctx context.Context) ([]domain.Event, error)
	findByOwnerIDFn func(ctx context.Context, ownerID uint) ([]domain.Event, error)
	searchFn        func(ctx context.Context, query string, limit int) ([]domain.Event, error)
	updateFn        func(ctx context.Context, event domain.Event) (domain.Event, error)
	deleteFn        func(ctx context.Context, id uint) error
}

func (m *mockEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.createFn(ctx, event)
}

func (m *mockEventRepo) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockEventRepo) FindAll(ctx context.Context) ([]domain.Event, error) {
	return m.findAllFn(ctx)
}

func (m *mockEventRepo) FindByOwnerID(ctx context.Context, ownerID uint) ([]domain.Event, error) {
	return m.findByOwnerIDFn(ctx, ownerID)
}

func (m *mockEventRepo) Search(ctx context.Context, query string, limit int) ([]domain.Event, error) {
	return m.searchFn(ctx, query, limit)
}

func (m *mockEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.updateFn(ctx, event)
}

func (m *mockEventRepo) Delete(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

type mockEventParticipationRepo struct {
	deleteByEventIDFn func(ctx context.Context, eventID uint) error
}

func (m *mockEventParticipationRepo) DeleteByEventID(ctx context.Context, eventID uint) error {
	return m.deleteByEventIDFn(ctx, eventID)
}

func TestCreateEvent_SetsOwner(t *testing.T) {
	repo := &mockEventRepo{
		createFn: func(ctx context.Context, event domain.Event) (domain.Event, error) {
			event.ID = 10
			return event, nil
		},
	}
	svc := NewEventService(repo, &mockEventParticipationRepo{})

	created, err := svc.CreateEvent(context.Background(), domain.Event{Name: "Gophers Meetup", OwnerID: 99}, 1)

	require.NoError(t, err)
	assert.Equal(t, uint(10), created.ID)
	assert.Equal(t, uint(1), created.OwnerID)
}

func TestGetEvent_NotFound(t *testing.T) {
	repo := &mockEventRepo{
		findByIDFn: func(ctx context.Context, id uint) (domain.Event, error) {
			return domain.Event{}, repository.ErrEventNotFound
		},
	}
	svc := NewEventService(repo, &mockEventParticipationRepo{})

	_, err := svc.GetEvent(context.Background(), 999)

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestSearchEvents_AppliesLimit(t *testing.T) {
	repo := &mockEventRepo{
		searchFn: func(ctx context.Context, query string, limit int) ([]domain.Event, error) {
			assert.Equal(t, "meetup", query)
			assert.Equal(t, searchResultLimit, limit)
			return []domain.Event{{ID: 10}}, nil
		},
	}
	svc := NewEventService(repo, &mockEventParticipationRepo{})

	events, err := svc.SearchEvents(context.Background(), "meetup")

	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEditEvent_NotOwner(t *testing.T) {
	repo := &mockEventRepo{
		findByIDFn: func(ctx context.Context, id uint) (domain.Event, error) {
			return publicEvent(), nil
		},
	}
	svc := NewEventService(repo, &mockEventParticipationRepo{})

	_, err := svc.EditEvent(context.Background(), 42, domain.Event{ID: 10, Name: "Renamed"})

	assert.ErrorIs(t, err, ErrNotEventOwner)
}

func TestEditEvent_PreservesOwner(t *testing.T) {
	repo := &mockEventRepo{
		findByIDFn: func(ctx context.Context, id uint) (domain.Event, error) {
			return publicEvent(), nil
		},
		updateFn: func(ctx context.Context, event domain.Event) (domain.Event, error) {
			return event, nil
		},
	}
	svc := NewEventService(repo, &mockEventParticipationRepo{})

	updated, err := svc.EditEvent(context.Background(), 1, domain.Event{
		ID:         10,
		Name:       "Renamed",
		Visibility: domain.EventInviteOnly,
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, domain.EventInviteOnly, updated.Visibility)
	assert.Equal(t, uint(1), updated.OwnerID)
}

func TestDeleteEvent_CascadesParticipationsFirst(t *testing.T) {
	var order []string

	repo := &mockEventRepo{
		findByIDFn: func(ctx context.Context, id uint) (domain.Event, error) {
			return publicEvent(), nil
		},
		deleteFn: func(ctx context.Context, id uint) error {
			order = append(order, "event")
			return nil
		},
	}
	participationRepo := &mockEventParticipationRepo{
		deleteByEventIDFn: func(ctx context.Context, eventID uint) error {
			order = append(order, "participations")
			return nil
		},
	}
	svc := NewEventService(repo, participationRepo)

	err := svc.DeleteEvent(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, []string{"participations", "event"}, order)
}

func TestDeleteEvent_NotOwner(t *testing.T) {
	repo := &mockEventRepo{
		findByIDFn: func(ctx context.Context, id uint) (domain.Event, error) {
			return publicEvent(), nil
		},
	}
	svc := NewEventService(repo, &mockEventParticipationRepo{})

	err := svc.DeleteEvent(context.Background(), 42, 10)

	assert.ErrorIs(t, err, ErrNotEventOwner)
}
