package ports

import (
	"context"

	"github.com/memberdesk/identity-system/internal/core/domain"
)

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditRecorder processes a single audit entry end-to-end.
type AuditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}

// AuditSink accepts entries for asynchronous recording. Enqueueing must never
// block the originating operation beyond channel capacity.
type AuditSink interface {
	Enqueue(entry domain.AuditEntry)
}
