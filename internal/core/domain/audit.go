package domain

import "time"

// AuditAction identifies the operation recorded by an audit entry.
type AuditAction string

const (
	AuditRegister      AuditAction = "register"
	AuditLogin         AuditAction = "login"
	AuditLogout        AuditAction = "logout"
	AuditSetRole       AuditAction = "set_role"
	AuditDeleteAccount AuditAction = "delete_account"
)

// AuditEntry records the outcome of an auth or admin operation. Entries are
// written asynchronously and must never fail the originating operation.
type AuditEntry struct {
	Actor     string      `json:"actor"` // username, or "-" for anonymous
	Action    AuditAction `json:"action"`
	TargetID  int64       `json:"target_id,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	Succeeded bool        `json:"succeeded"`
	Timestamp time.Time   `json:"timestamp"`
}
