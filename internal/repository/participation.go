package repository

import (
	"context"
	"fmt"

	"github.com/evently/evently-api/internal/domain"
	"github.com/evently/evently-api/internal/repository/dao"
)

var (
	ErrParticipationNotFound = dao.ErrParticipationNotFound
	ErrParticipationExists   = dao.ErrParticipationExists
)

type ParticipationDAO interface {
	Insert(ctx context.Context, participation dao.Participation) (dao.Participation, error)
	FindByID(ctx context.Context, id uint) (dao.Participation, error)
	FindActiveByUserAndEvent(ctx context.Context, userID, eventID uint) (dao.Participation, error)
	FindActiveByEventID(ctx context.Context, eventID uint) ([]dao.Participation, error)
	FindActiveByUserID(ctx context.Context, userID uint) ([]dao.Participation, error)
	Update(ctx context.Context, participation dao.Participation) (dao.Participation, error)
	DeleteByEventID(ctx context.Context, eventID uint) error
}

type ParticipationRepository struct {
	dao ParticipationDAO
}

func NewParticipationRepository(dao ParticipationDAO) *ParticipationRepository {
	return &ParticipationRepository{
		dao: dao,
	}
}

func (r *ParticipationRepository) Create(ctx context.Context, participation domain.Participation) (domain.Participation, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(participation))
	if err != nil {
		return domain.Participation{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ParticipationRepository) FindByID(ctx context.Context, id uint) (domain.Participation, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ParticipationRepository) FindActiveByUserAndEvent(ctx context.Context, userID, eventID uint) (domain.Participation, error) {
	found, err := r.dao.FindActiveByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return domain.Participation{}, fmt.Errorf("r.dao.FindActiveByUserAndEvent -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ParticipationRepository) FindActiveByEventID(ctx context.Context, eventID uint) ([]domain.Participation, error) {
	found, err := r.dao.FindActiveByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActiveByEventID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ParticipationRepository) FindActiveByUserID(ctx context.Context, userID uint) ([]domain.Participation, error) {
	found, err := r.dao.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActiveByUserID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ParticipationRepository) Update(ctx context.Context, participation domain.Participation) (domain.Participation, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(participation))
	if err != nil {
		return domain.Participation{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ParticipationRepository) DeleteByEventID(ctx context.Context, eventID uint) error {
	if err := r.dao.DeleteByEventID(ctx, eventID); err != nil {
		return fmt.Errorf("r.dao.DeleteByEventID -> %w", err)
	}

	return nil
}

func (r *ParticipationRepository) daoToDomain(p dao.Participation) domain.Participation {
	return domain.Participation{
		ID:      p.ID,
		UserID:  p.UserID,
		EventID: p.EventID,
		User: domain.UserSnapshot{
			ID:       p.UserID,
			Username: p.User.Username,
			Email:    p.User.Email,
		},
		Event: domain.EventSnapshot{
			ID:          p.EventID,
			Name:        p.Event.Name,
			Description: p.Event.Description,
			OwnerID:     p.Event.OwnerID,
			Visibility:  domain.EventVisibility(p.Event.Visibility),
			StartDate:   p.Event.StartDate,
			EndDate:     p.Event.EndDate,
		},
		Status:    domain.ParticipationStatus(p.Status),
		Message:   p.Message,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *ParticipationRepository) domainToDao(p domain.Participation) dao.Participation {
	return dao.Participation{
		ID:      p.ID,
		UserID:  p.UserID,
		EventID: p.EventID,
		User: dao.UserSnapshot{
			Username: p.User.Username,
			Email:    p.User.Email,
		},
		Event: dao.EventSnapshot{
			Name:        p.Event.Name,
			Description: p.Event.Description,
			OwnerID:     p.Event.OwnerID,
			Visibility:  string(p.Event.Visibility),
			StartDate:   p.Event.StartDate,
			EndDate:     p.Event.EndDate,
		},
		Status:    string(p.Status),
		Message:   p.Message,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *ParticipationRepository) daosToDomain(participations []dao.Participation) []domain.Participation {
	result := make([]domain.Participation, len(participations))
	for i, p := range participations {
		result[i] = r.daoToDomain(p)
	}

	return result
}
