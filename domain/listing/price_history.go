package listing

import (
	"time"

	"github.com/localmart/goapi/base/ctx"
)

// PriceHistory is an audit entry appended whenever the price of a non-sold
// listing changes. Consumers (price-drop surfaces) read it as a projection.
type PriceHistory struct {
	ListingId string    `json:"listingId" bson:"listingId"`
	OldCents  int64     `json:"oldCents" bson:"oldCents"`
	NewCents  int64     `json:"newCents" bson:"newCents"`
	ChangedAt time.Time `json:"changedAt" bson:"changedAt"`
}

type PriceHistoryRepo interface {
	Create(c ctx.Ctx, value *PriceHistory) error
	FindAll(c ctx.Ctx, listingId string) ([]*PriceHistory, error)
	RemoveByListing(c ctx.Ctx, listingId string) error
}
