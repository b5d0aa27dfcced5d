package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Event{},
		&Participation{},
	)
	if err != nil {
		return err
	}

	// At most one non-cancelled participation per (user, event).
	// A plain read-then-insert check has a race window; the partial
	// unique index closes it at the storage layer.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_participations_one_active
		ON participations (user_id, event_id)
		WHERE status <> 'cancelled'`).Error
}
