package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/ptr"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/listing"
	"github.com/localmart/goapi/domain/meetup"
	"github.com/localmart/goapi/domain/notification"
	"github.com/localmart/goapi/domain/offer"
	"github.com/localmart/goapi/service/query"
)

const feedDefaultLimit = 50

type listingImpl struct {
	q            query.Mongo
	listing      listing.Repo
	priceHistory listing.PriceHistoryRepo
	offer        offer.Repo
	meetup       meetup.Repo
	notification notification.Usecase
	publisher    domain.EventPublisher
}

func NewListing(
	q query.Mongo,
	listingRepo listing.Repo,
	priceHistoryRepo listing.PriceHistoryRepo,
	offerRepo offer.Repo,
	meetupRepo meetup.Repo,
	notification notification.Usecase,
	publisher domain.EventPublisher,
) listing.Usecase {
	return &listingImpl{
		q:            q,
		listing:      listingRepo,
		priceHistory: priceHistoryRepo,
		offer:        offerRepo,
		meetup:       meetupRepo,
		notification: notification,
		publisher:    publisher,
	}
}

// emit publishes an event. Publish failures never fail the request.
func (im *listingImpl) emit(c ctx.Ctx, typ domain.EventType, listingId string, actor domain.UserId, payload map[string]interface{}) {
	evt := &domain.Event{
		Type:       typ,
		ListingId:  listingId,
		ActorId:    actor,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
	if err := im.publisher.Publish(c, evt); err != nil {
		c.WithField("err", err).WithField("type", typ).Warn("publish event failed")
	}
}

func (im *listingImpl) Create(c ctx.Ctx, owner domain.UserId, payload *listing.CreatePayload) (*listing.Listing, error) {
	if payload.PriceCents <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	id, err := uuid.NewRandom()
	if err != nil {
		c.WithField("err", err).Error("failed to uuid.NewRandom")
		return nil, err
	}

	status := listing.StatusActive
	if payload.Draft {
		status = listing.StatusDraft
	}

	now := time.Now()
	l := &listing.Listing{
		Id:               id.String(),
		Owner:            owner,
		Title:            payload.Title,
		Description:      payload.Description,
		PriceCents:       payload.PriceCents,
		Category:         payload.Category,
		Condition:        payload.Condition,
		City:             payload.City,
		Zip:              payload.Zip,
		PickupOrShipping: payload.PickupOrShipping,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := im.listing.Create(c, l); err != nil {
		c.WithField("err", err).Error("listing.Create failed")
		return nil, err
	}

	im.emit(c, domain.EventListingCreated, l.Id, owner, map[string]interface{}{"status": l.Status})
	return l, nil
}

func (im *listingImpl) Get(c ctx.Ctx, id string) (*listing.Listing, error) {
	l, err := im.listing.FindOne(c, id)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("listing.FindOne failed")
		return nil, err
	}
	return l, nil
}

// getOwned loads the listing and enforces that actor is the owner.
func (im *listingImpl) getOwned(c ctx.Ctx, id string, actor domain.UserId) (*listing.Listing, error) {
	l, err := im.Get(c, id)
	if err != nil {
		return nil, err
	}
	if !l.Owner.Equals(actor) {
		return nil, domain.ErrForbidden
	}
	return l, nil
}

func (im *listingImpl) Update(c ctx.Ctx, id string, actor domain.UserId, payload *listing.UpdatePayload) (*listing.Listing, error) {
	l, err := im.getOwned(c, id, actor)
	if err != nil {
		return nil, err
	}
	if l.Status == listing.StatusSold {
		// sold listings are frozen until marked available again
		return nil, domain.ErrInvalidState
	}
	if payload.PriceCents != nil && *payload.PriceCents <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	patch := listing.Patchable{
		Title:            payload.Title,
		Description:      payload.Description,
		PriceCents:       payload.PriceCents,
		Category:         payload.Category,
		Condition:        payload.Condition,
		City:             payload.City,
		Zip:              payload.Zip,
		PickupOrShipping: payload.PickupOrShipping,
		UpdatedAt:        ptr.Time(time.Now()),
	}

	// the patch and its audit row commit as a unit
	err = im.q.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.listing.PatchUnsold(c, id, patch); err != nil {
			return err
		}
		if payload.PriceCents != nil && *payload.PriceCents != l.PriceCents {
			return im.priceHistory.Create(c, &listing.PriceHistory{
				ListingId: id,
				OldCents:  l.PriceCents,
				NewCents:  *payload.PriceCents,
				ChangedAt: time.Now(),
			})
		}
		return nil
	})
	if err == query.ErrNotFound {
		// a sale landed between the read and the write; the listing is frozen
		return nil, domain.ErrInvalidState
	} else if err != nil {
		c.WithField("err", err).Error("update listing transaction failed")
		return nil, err
	}

	im.emit(c, domain.EventListingUpdated, id, actor, nil)
	return im.Get(c, id)
}

func (im *listingImpl) Delete(c ctx.Ctx, id string, actor domain.UserId) error {
	if _, err := im.getOwned(c, id, actor); err != nil {
		return err
	}

	// listing and its dependents go away as a unit
	err := im.q.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.offer.RemoveByListing(c, id); err != nil {
			return err
		}
		if err := im.meetup.RemoveByListing(c, id); err != nil {
			return err
		}
		if err := im.priceHistory.RemoveByListing(c, id); err != nil {
			return err
		}
		return im.listing.Remove(c, id)
	})
	if err != nil {
		c.WithField("err", err).Error("delete listing transaction failed")
		return err
	}

	im.emit(c, domain.EventListingDeleted, id, actor, nil)
	return nil
}

func (im *listingImpl) Renew(c ctx.Ctx, id string, actor domain.UserId) (*listing.Listing, error) {
	// ownership is the only precondition; an expired, draft or sold listing
	// renews all the same and only the expiry window moves
	if _, err := im.getOwned(c, id, actor); err != nil {
		return nil, err
	}

	patch := listing.Patchable{
		RenewedAt: ptr.Time(time.Now()),
		UpdatedAt: ptr.Time(time.Now()),
	}
	if err := im.listing.Patch(c, id, patch); err != nil {
		c.WithField("err", err).Error("listing.Patch failed")
		return nil, err
	}

	im.emit(c, domain.EventListingRenewed, id, actor, nil)
	return im.Get(c, id)
}

func (im *listingImpl) Publish(c ctx.Ctx, id string, actor domain.UserId) (*listing.Listing, error) {
	if _, err := im.getOwned(c, id, actor); err != nil {
		return nil, err
	}

	if err := im.listing.Publish(c, id); err == query.ErrNotFound {
		// listing exists but is not in draft
		return nil, domain.ErrInvalidState
	} else if err != nil {
		c.WithField("err", err).Error("listing.Publish failed")
		return nil, err
	}

	im.emit(c, domain.EventListingPublished, id, actor, nil)
	return im.Get(c, id)
}

func (im *listingImpl) MarkSold(c ctx.Ctx, id string, actor domain.UserId, buyer *domain.UserId) (*listing.Listing, error) {
	if _, err := im.getOwned(c, id, actor); err != nil {
		return nil, err
	}
	if buyer != nil && buyer.Equals(actor) {
		return nil, domain.ErrInvalidArgument
	}

	if err := im.listing.MarkSold(c, id, buyer); err == query.ErrNotFound {
		return nil, domain.ErrInvalidState
	} else if err != nil {
		c.WithField("err", err).Error("listing.MarkSold failed")
		return nil, err
	}

	payload := map[string]interface{}{}
	if buyer != nil {
		payload["buyerId"] = *buyer
		if err := im.notification.Notify(c, *buyer, id, "The seller marked the listing as sold to you"); err != nil {
			c.WithField("err", err).Warn("notification.Notify failed")
		}
	}
	im.emit(c, domain.EventListingSold, id, actor, payload)
	return im.Get(c, id)
}

func (im *listingImpl) MarkAvailable(c ctx.Ctx, id string, actor domain.UserId) (*listing.Listing, error) {
	if _, err := im.getOwned(c, id, actor); err != nil {
		return nil, err
	}

	if err := im.listing.MarkAvailable(c, id); err == query.ErrNotFound {
		return nil, domain.ErrInvalidState
	} else if err != nil {
		c.WithField("err", err).Error("listing.MarkAvailable failed")
		return nil, err
	}

	im.emit(c, domain.EventListingRelisted, id, actor, nil)
	return im.Get(c, id)
}

func (im *listingImpl) GetFeed(c ctx.Ctx, offset, limit int32) ([]*listing.Listing, error) {
	if limit <= 0 {
		limit = feedDefaultLimit
	}

	cutoff := time.Now().Add(-listing.ExpiryDays * 24 * time.Hour)
	items, err := im.listing.FindAll(c,
		listing.WithStatus(listing.StatusActive),
		listing.WithActiveAfter(cutoff),
		listing.WithPagination(offset, limit),
		listing.WithSort("-createdAt"),
	)
	if err != nil {
		c.WithField("err", err).Error("listing.FindAll failed")
		return nil, err
	}
	return items, nil
}

func (im *listingImpl) GetMine(c ctx.Ctx, owner domain.UserId) ([]*listing.Listing, error) {
	items, err := im.listing.FindAll(c,
		listing.WithOwner(owner),
		listing.WithSort("-createdAt"),
	)
	if err != nil {
		c.WithField("err", err).Error("listing.FindAll failed")
		return nil, err
	}
	return items, nil
}

func (im *listingImpl) GetPurchases(c ctx.Ctx, buyer domain.UserId) ([]*listing.Listing, error) {
	items, err := im.listing.FindAll(c,
		listing.WithBuyer(buyer),
		listing.WithStatus(listing.StatusSold),
		listing.WithSort("-updatedAt"),
	)
	if err != nil {
		c.WithField("err", err).Error("listing.FindAll failed")
		return nil, err
	}
	return items, nil
}

func (im *listingImpl) GetPriceHistory(c ctx.Ctx, id string) ([]*listing.PriceHistory, error) {
	if _, err := im.Get(c, id); err != nil {
		return nil, err
	}

	items, err := im.priceHistory.FindAll(c, id)
	if err != nil {
		c.WithField("err", err).Error("priceHistory.FindAll failed")
		return nil, err
	}
	return items, nil
}
