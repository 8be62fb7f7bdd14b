package boost

import (
	"github.com/shopspring/decimal"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/listing"
)

// Duration is one row of the fixed boost price table exposed to clients.
type Duration struct {
	Hours      int32           `json:"hours"`
	PriceUsd   decimal.Decimal `json:"priceUsd"`
	PriceCents int64           `json:"-"`
	Label      string          `json:"label"`
}

// MaxHours bounds the featured-query prefilter window.
const MaxHours = 168

var durations = []Duration{
	{Hours: 24, PriceUsd: decimal.NewFromInt(3), PriceCents: 300, Label: "24 Hours"},
	{Hours: 72, PriceUsd: decimal.NewFromInt(7), PriceCents: 700, Label: "3 Days"},
	{Hours: 168, PriceUsd: decimal.NewFromInt(12), PriceCents: 1200, Label: "7 Days"},
}

// Durations returns the configured price table, cheapest first.
func Durations() []Duration {
	res := make([]Duration, len(durations))
	copy(res, durations)
	return res
}

// DurationFor resolves a client-supplied hours value against the table.
func DurationFor(hours int32) (Duration, bool) {
	for _, d := range durations {
		if d.Hours == hours {
			return d, true
		}
	}
	return Duration{}, false
}

type Usecase interface {
	Durations(c ctx.Ctx) []Duration
	Activate(c ctx.Ctx, actor domain.UserId, listingId string, hours int32) (*listing.Boost, error)
	// Featured returns up to limit currently-boosted listings.
	Featured(c ctx.Ctx, limit int32) ([]*listing.Listing, error)
}
