package transaction

import "context"

// AuditRepository defines the contract for the append-only audit log.
type AuditRepository interface {
	// Append stores a new audit record. Records are immutable once written.
	Append(ctx context.Context, record *AuditRecord) error

	// ListByUsername retrieves a user's audit records, newest first.
	ListByUsername(ctx context.Context, username string, limit, offset int) ([]*AuditRecord, error)
}
