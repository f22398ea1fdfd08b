package models

import "time"

// Topic names an event stream delivered to observers
type Topic string

const (
	TopicBedUpserted          Topic = "bed-upserted"
	TopicBedRemoved           Topic = "bed-removed"
	TopicQueueSnapshotChanged Topic = "queue-snapshot-changed"
)

// Event is a committed state change.
// Payload is a Bed for bed-upserted, the bed id for bed-removed and
// the ordered []QueueEntry for queue-snapshot-changed.
type Event struct {
	Topic       Topic     `json:"topic"`
	Payload     any       `json:"payload"`
	PublishedAt time.Time `json:"publishedAt"`
}
