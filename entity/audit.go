package entity

import "time"

// Audit actions recorded to the event sink.
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
	AuditRedeem = "redeem"
)

// AuditEntry captures who changed what. Entries are write-only
// operational history; nothing in the application reads them back.
type AuditEntry struct {
	Actor     string    `bson:"actor"`
	Action    string    `bson:"action"`
	Entity    string    `bson:"entity"`
	EntityID  int64     `bson:"entity_id"`
	Details   string    `bson:"details,omitempty"`
	Timestamp time.Time `bson:"timestamp"`
}

// WebhookEvent mirrors an inbound community callback for later inspection.
type WebhookEvent struct {
	GroupID   int64     `bson:"group_id"`
	Type      string    `bson:"type"`
	FromID    int64     `bson:"from_id,omitempty"`
	Accepted  bool      `bson:"accepted"`
	Timestamp time.Time `bson:"timestamp"`
}
