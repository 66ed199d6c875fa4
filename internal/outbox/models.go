// Package outbox implements the transactional outbox: domain writes and
// their events commit together, and a relay publishes the events to Kafka
// afterwards. Kafka delivery is at-least-once; consumers dedupe on entry ID.
package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one pending event row.
type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}
