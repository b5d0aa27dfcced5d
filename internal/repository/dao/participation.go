package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrParticipationNotFound = errors.New("participation not found")
	ErrParticipationExists   = errors.New("participation already exists")
)

// UserSnapshot and EventSnapshot are denormalized copies stored on the
// participation row itself. They are written once at insert time.
type UserSnapshot struct {
	Username string `gorm:"not null"`
	Email    string `gorm:"not null"`
}

type EventSnapshot struct {
	Name        string `gorm:"not null"`
	Description string
	OwnerID     uint   `gorm:"not null"`
	Visibility  string `gorm:"not null"`
	StartDate   time.Time
	EndDate     time.Time
}

type Participation struct {
	ID uint `gorm:"primaryKey"`

	UserID  uint `gorm:"not null;index"`
	EventID uint `gorm:"not null;index"`

	User  UserSnapshot  `gorm:"embedded;embeddedPrefix:user_"`
	Event EventSnapshot `gorm:"embedded;embeddedPrefix:event_"`

	Status  string `gorm:"not null;default:'pending'"`
	Message string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ParticipationDAO struct {
	db *gorm.DB
}

func NewParticipationDAO(db *gorm.DB) *ParticipationDAO {
	return &ParticipationDAO{
		db: db,
	}
}

// Insert relies on the partial unique index created in InitTables to
// guarantee at most one non-cancelled participation per (user, event),
// even under concurrent inserts.
func (d *ParticipationDAO) Insert(ctx context.Context, participation Participation) (Participation, error) {
	result := d.db.WithContext(ctx).Create(&participation)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.ConstraintName, "idx_participations_one_active") {
			return Participation{}, ErrParticipationExists
		}

		return Participation{}, result.Error
	}

	return participation, nil
}

func (d *ParticipationDAO) FindByID(ctx context.Context, id uint) (Participation, error) {
	var participation Participation

	result := d.db.WithContext(ctx).First(&participation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participation{}, ErrParticipationNotFound
		}

		return Participation{}, result.Error
	}

	return participation, nil
}

func (d *ParticipationDAO) FindActiveByUserAndEvent(ctx context.Context, userID, eventID uint) (Participation, error) {
	var participation Participation

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ? AND status <> ?", userID, eventID, "cancelled").
		First(&participation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participation{}, ErrParticipationNotFound
		}

		return Participation{}, result.Error
	}

	return participation, nil
}

func (d *ParticipationDAO) FindActiveByEventID(ctx context.Context, eventID uint) ([]Participation, error) {
	var participations []Participation

	result := d.db.WithContext(ctx).
		Where("event_id = ? AND status <> ?", eventID, "cancelled").
		Order("created_at asc").
		Find(&participations)
	if result.Error != nil {
		return nil, result.Error
	}

	return participations, nil
}

func (d *ParticipationDAO) FindActiveByUserID(ctx context.Context, userID uint) ([]Participation, error) {
	var participations []Participation

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, "cancelled").
		Order("created_at asc").
		Find(&participations)
	if result.Error != nil {
		return nil, result.Error
	}

	return participations, nil
}

func (d *ParticipationDAO) Update(ctx context.Context, participation Participation) (Participation, error) {
	result := d.db.WithContext(ctx).Save(&participation)
	if result.Error != nil {
		return Participation{}, result.Error
	}

	return participation, nil
}

// DeleteByEventID removes every participation of an event. Used as the
// cascade when the event itself is deleted.
func (d *ParticipationDAO) DeleteByEventID(ctx context.Context, eventID uint) error {
	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&Participation{})

	return result.Error
}
