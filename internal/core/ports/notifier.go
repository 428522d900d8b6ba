package ports

import (
	"context"
	"time"
)

// ParcelCreatedEvent is published after a parcel was successfully persisted.
type ParcelCreatedEvent struct {
	ParcelID   string    `json:"parcelId"`
	TrackingID string    `json:"trackingId"`
	SenderID   string    `json:"senderId"`
	Receiver   string    `json:"receiver"`
	OccurredAt time.Time `json:"occurredAt"`
}

// StatusChangedEvent is published after a status transition was committed.
type StatusChangedEvent struct {
	ParcelID   string    `json:"parcelId"`
	TrackingID string    `json:"trackingId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    string    `json:"actorId"`
	ActorRole  string    `json:"actorRole"`
	Location   string    `json:"location,omitempty"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Notifier publishes parcel lifecycle events to interested consumers.
//
// Notification is fire-and-forget: implementations must never let a publish
// failure surface into the calling workflow. The state change is committed
// before the event is emitted; a lost event never rolls it back.
type Notifier interface {
	// NotifyParcelCreated announces a newly created parcel.
	NotifyParcelCreated(ctx context.Context, event ParcelCreatedEvent)

	// NotifyStatusChanged announces a committed status transition.
	NotifyStatusChanged(ctx context.Context, event StatusChangedEvent)
}
