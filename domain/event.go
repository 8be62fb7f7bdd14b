package domain

import (
	"time"

	"github.com/localmart/goapi/base/ctx"
)

type EventType string

const (
	EventListingCreated   EventType = "listing.created"
	EventListingUpdated   EventType = "listing.updated"
	EventListingPublished EventType = "listing.published"
	EventListingRenewed   EventType = "listing.renewed"
	EventListingSold      EventType = "listing.sold"
	EventListingRelisted  EventType = "listing.relisted"
	EventListingDeleted   EventType = "listing.deleted"
	EventOfferProposed    EventType = "offer.proposed"
	EventOfferAccepted    EventType = "offer.accepted"
	EventOfferDeclined    EventType = "offer.declined"
	EventOfferCountered   EventType = "offer.countered"
	EventBoostActivated   EventType = "boost.activated"
	EventMeetupIssued     EventType = "meetup.issued"
	EventMeetupConfirmed  EventType = "meetup.confirmed"
	EventMeetupCompleted  EventType = "meetup.completed"
)

// Event is emitted on every state change. Publish failures are logged and
// never fail the originating request.
type Event struct {
	Type       EventType              `json:"type"`
	ListingId  string                 `json:"listingId"`
	ActorId    UserId                 `json:"actorId"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}

type EventPublisher interface {
	Publish(c ctx.Ctx, evt *Event) error
}
