package audit

import (
	"time"

	"gorm.io/gorm"

	auditModel "session-booking/models/audit"
)

// Append writes one audit entry inside the caller's transaction. Mutations
// call this before committing their own changes so a state change can never
// land un-audited: if the entry cannot be written, the whole transaction
// rolls back.
func Append(tx *gorm.DB, entry *auditModel.AuditLog) error {
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = time.Now().UTC()
	}
	return tx.Create(entry).Error
}

// QueryFilter narrows an audit trail query. Zero values mean "no filter".
type QueryFilter struct {
	BookingReference string
	Actor            string
	From             *time.Time
	To               *time.Time
	Limit            int
}

// Query returns matching audit entries, newest first.
func Query(db *gorm.DB, f QueryFilter) ([]auditModel.AuditLog, error) {
	q := db.Model(&auditModel.AuditLog{})
	if f.BookingReference != "" {
		q = q.Where("booking_reference = ?", f.BookingReference)
	}
	if f.Actor != "" {
		q = q.Where("actor = ?", f.Actor)
	}
	if f.From != nil {
		q = q.Where("performed_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("performed_at <= ?", *f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var entries []auditModel.AuditLog
	if err := q.Order("performed_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
