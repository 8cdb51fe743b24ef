package database

import (
	"fmt"

	"gorm.io/gorm"

	auditModel "session-booking/models/audit"
	bookingModel "session-booking/models/booking"
	logModel "session-booking/models/log"
	sessionModel "session-booking/models/session"
	settingsModel "session-booking/models/settings"
)

// Migrate runs auto migration for all models in dependency order, then adds
// the constraints and indexes AutoMigrate does not cover.
func Migrate(db *gorm.DB) error {
	// Stage 1: models with no foreign keys
	stage1Models := []interface{}{
		&sessionModel.Session{},
		&settingsModel.BookingSettings{},
		&logModel.Log{},
	}
	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: models referencing stage 1
	stage2Models := []interface{}{
		&bookingModel.Booking{},
		&auditModel.AuditLog{},
	}
	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	if err := createForeignKeyConstraints(db); err != nil {
		return err
	}
	return createIndexes(db)
}

// createForeignKeyConstraints adds the booking->session constraint. Sessions
// are never deleted while bookings reference them; RESTRICT enforces that at
// the database level as well.
func createForeignKeyConstraints(db *gorm.DB) error {
	// Skipped on sqlite (tests); it does not support adding constraints to
	// existing tables.
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	stmt := `DO $$ BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM information_schema.table_constraints
			WHERE constraint_name = 'fk_bookings_session'
		) THEN
			ALTER TABLE bookings
				ADD CONSTRAINT fk_bookings_session
				FOREIGN KEY (session_id) REFERENCES sessions (id)
				ON UPDATE CASCADE ON DELETE RESTRICT;
		END IF;
	END $$;`
	return db.Exec(stmt).Error
}

// createIndexes adds the composite indexes the hot queries rely on.
func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		stmt string
	}{
		{
			// Capacity ledger aggregate: reserved seats per session.
			name: "idx_bookings_session_counted",
			stmt: "CREATE INDEX IF NOT EXISTS idx_bookings_session_counted ON bookings (session_id, status, is_deleted)",
		},
		{
			// Audit queries are reference-scoped, newest first.
			name: "idx_audit_reference_performed",
			stmt: "CREATE INDEX IF NOT EXISTS idx_audit_reference_performed ON booking_audit_logs (booking_reference, performed_at DESC)",
		},
		{
			// Expiry sweep scans pending, non-deleted bookings.
			name: "idx_bookings_status_deleted",
			stmt: "CREATE INDEX IF NOT EXISTS idx_bookings_status_deleted ON bookings (status, is_deleted)",
		},
	}
	for _, idx := range indexes {
		if err := db.Exec(idx.stmt).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}
