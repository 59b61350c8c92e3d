// Package event publishes security audit events to the message broker and
// hosts the consumer that turns them into an append-only audit log.
package event

import "time"

// Audit queue name on the broker.
const AuditQueue = "security.audit"

// Event kinds.
const (
	KindLogin       = "auth.login"
	KindRefresh     = "auth.refresh"
	KindUserCreated = "user.created"
	KindUserBanned  = "user.banned"
	KindUserRemoved = "user.removed"
	KindUserErased  = "user.erased"
)

// AuditEvent records a security-relevant action. ActorID is zero when the
// subject acted on themselves (login, refresh).
type AuditEvent struct {
	Kind       string `json:"kind"`
	UserID     uint64 `json:"user_id"`
	ActorID    uint64 `json:"actor_id,omitempty"`
	IP         string `json:"ip,omitempty"`
	Useragent  string `json:"useragent,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewAuditEvent stamps an event with the current UTC instant.
func NewAuditEvent(kind string, userID, actorID uint64) AuditEvent {
	return AuditEvent{
		Kind:       kind,
		UserID:     userID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
