package usecase

import (
	"time"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/boost"
	"github.com/localmart/goapi/domain/listing"
	"github.com/localmart/goapi/service/cache"
	"github.com/localmart/goapi/service/query"
)

const featuredCacheKey = "all"

type boostImpl struct {
	listing   listing.Repo
	featured  cache.Service
	publisher domain.EventPublisher
}

func NewBoost(listingRepo listing.Repo, featured cache.Service, publisher domain.EventPublisher) boost.Usecase {
	return &boostImpl{
		listing:   listingRepo,
		featured:  featured,
		publisher: publisher,
	}
}

func (im *boostImpl) Durations(c ctx.Ctx) []boost.Duration {
	return boost.Durations()
}

func (im *boostImpl) Activate(c ctx.Ctx, actor domain.UserId, listingId string, hours int32) (*listing.Boost, error) {
	d, ok := boost.DurationFor(hours)
	if !ok {
		return nil, domain.ErrInvalidArgument
	}

	l, err := im.listing.FindOne(c, listingId)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("listing.FindOne failed")
		return nil, err
	}

	if !l.Owner.Equals(actor) {
		return nil, domain.ErrForbidden
	}
	if l.Status != listing.StatusActive {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	if l.IsBoosted(now) {
		return nil, domain.ErrInvalidState
	}

	b := listing.Boost{
		ActivatedAt:   now,
		DurationHours: d.Hours,
		PaidCents:     d.PriceCents,
	}

	var prevActivatedAt *time.Time
	if l.Boost != nil {
		prevActivatedAt = &l.Boost.ActivatedAt
	}

	// keyed on the previous activation so racing activations cannot stack
	if err := im.listing.SetBoost(c, listingId, b, prevActivatedAt); err == query.ErrNotFound {
		return nil, domain.ErrInvalidState
	} else if err != nil {
		c.WithField("err", err).Error("listing.SetBoost failed")
		return nil, err
	}

	if err := im.featured.Del(c, featuredCacheKey); err != nil && err != cache.ErrNotFound {
		c.WithField("err", err).Warn("featured cache invalidation failed")
	}

	evt := &domain.Event{
		Type:      domain.EventBoostActivated,
		ListingId: listingId,
		ActorId:   actor,
		Payload: map[string]interface{}{
			"durationHours": d.Hours,
			"paidCents":     d.PriceCents,
		},
		OccurredAt: now,
	}
	if err := im.publisher.Publish(c, evt); err != nil {
		c.WithField("err", err).Warn("publish event failed")
	}

	return &b, nil
}

func (im *boostImpl) Featured(c ctx.Ctx, limit int32) ([]*listing.Listing, error) {
	container := []*listing.Listing{}
	err := im.featured.GetByFunc(c, featuredCacheKey, &container, func() (interface{}, error) {
		items, err := im.fetchFeatured(c)
		return &items, err
	})
	if err != nil {
		c.WithField("err", err).Error("featured cache GetByFunc failed")
		return nil, err
	}

	// the prefilter window admits expired boosts of shorter durations, so the
	// exact check runs here
	now := time.Now()
	res := make([]*listing.Listing, 0, len(container))
	for _, l := range container {
		if l.IsBoosted(now) {
			res = append(res, l)
			if limit > 0 && int32(len(res)) >= limit {
				break
			}
		}
	}
	return res, nil
}

func (im *boostImpl) fetchFeatured(c ctx.Ctx) ([]*listing.Listing, error) {
	cutoff := time.Now().Add(-boost.MaxHours * time.Hour)
	items, err := im.listing.FindAll(c,
		listing.WithStatus(listing.StatusActive),
		listing.WithBoostedAfter(cutoff),
		listing.WithSort("-boost.activatedAt"),
	)
	if err != nil {
		c.WithField("err", err).Error("listing.FindAll failed")
		return nil, err
	}
	return items, nil
}
