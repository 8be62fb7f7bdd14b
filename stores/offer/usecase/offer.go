package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/listing"
	"github.com/localmart/goapi/domain/notification"
	"github.com/localmart/goapi/domain/offer"
	"github.com/localmart/goapi/service/query"
)

type offerImpl struct {
	q            query.Mongo
	offer        offer.Repo
	listing      listing.Repo
	notification notification.Usecase
	publisher    domain.EventPublisher
}

func NewOffer(
	q query.Mongo,
	offerRepo offer.Repo,
	listingRepo listing.Repo,
	notification notification.Usecase,
	publisher domain.EventPublisher,
) offer.Usecase {
	return &offerImpl{
		q:            q,
		offer:        offerRepo,
		listing:      listingRepo,
		notification: notification,
		publisher:    publisher,
	}
}

func (im *offerImpl) emit(c ctx.Ctx, typ domain.EventType, listingId string, actor domain.UserId, payload map[string]interface{}) {
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

func (im *offerImpl) notify(c ctx.Ctx, userId domain.UserId, listingId, message string) {
	if err := im.notification.Notify(c, userId, listingId, message); err != nil {
		c.WithField("err", err).Warn("notification.Notify failed")
	}
}

func (im *offerImpl) Propose(c ctx.Ctx, buyer domain.UserId, listingId string, amountCents int64) (*offer.Offer, error) {
	if amountCents <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	l, err := im.listing.FindOne(c, listingId)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("listing.FindOne failed")
		return nil, err
	}

	if l.Owner.Equals(buyer) {
		return nil, domain.ErrInvalidArgument
	}
	if l.Status != listing.StatusActive {
		return nil, domain.ErrInvalidState
	}

	id, err := uuid.NewRandom()
	if err != nil {
		c.WithField("err", err).Error("failed to uuid.NewRandom")
		return nil, err
	}

	now := time.Now()
	o := &offer.Offer{
		Id:          id.String(),
		ListingId:   listingId,
		Buyer:       buyer,
		Seller:      l.Owner,
		AmountCents: amountCents,
		Status:      offer.StatusPending,
		IsOpen:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := im.offer.Create(c, o); err == query.ErrDuplicateKey {
		// the buyer already holds an open offer on this listing
		return nil, domain.ErrConflict
	} else if err != nil {
		c.WithField("err", err).Error("offer.Create failed")
		return nil, err
	}

	im.notify(c, l.Owner, listingId, "You received a new offer")
	im.emit(c, domain.EventOfferProposed, listingId, buyer, map[string]interface{}{
		"offerId":     o.Id,
		"amountCents": amountCents,
	})
	return o, nil
}

func (im *offerImpl) Respond(c ctx.Ctx, actor domain.UserId, offerId string, action offer.Action, counterCents *int64) (*offer.Offer, error) {
	o, err := im.offer.FindOne(c, offerId)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("offer.FindOne failed")
		return nil, err
	}

	if o.Status.IsTerminal() {
		return nil, domain.ErrInvalidState
	}

	isSeller := o.Seller.Equals(actor)
	isBuyer := o.Buyer.Equals(actor)
	if !isSeller && !isBuyer {
		return nil, domain.ErrForbidden
	}

	// the buyer only acts on a counter, and cannot counter back
	if isBuyer && (o.Status != offer.StatusCountered || action == offer.ActionCounter) {
		return nil, domain.ErrForbidden
	}

	switch action {
	case offer.ActionAccept:
		if err := im.accept(c, o, actor); err != nil {
			return nil, err
		}
	case offer.ActionDecline:
		if err := im.decline(c, o, actor); err != nil {
			return nil, err
		}
	case offer.ActionCounter:
		if err := im.counter(c, o, counterCents); err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrInvalidArgument
	}

	return im.offer.FindOne(c, offerId)
}

// accept closes the deal: the listing flips to sold, the offer to accepted
// and every open sibling is declined, all inside one transaction. A
// concurrent accept loses on the status-keyed listing update.
func (im *offerImpl) accept(c ctx.Ctx, o *offer.Offer, actor domain.UserId) error {
	err := im.q.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.listing.MarkSold(c, o.ListingId, &o.Buyer); err != nil {
			return err
		}
		if err := im.offer.UpdateStatus(c, o.Id, []offer.Status{offer.StatusPending, offer.StatusCountered}, offer.StatusAccepted, nil); err != nil {
			return err
		}
		return im.offer.DeclineSiblings(c, o.ListingId, o.Id)
	})
	if err == query.ErrNotFound {
		// the listing is no longer active or the offer moved under us
		return domain.ErrInvalidState
	} else if err != nil {
		c.WithField("err", err).Error("accept offer transaction failed")
		return err
	}

	counterpart := o.Buyer
	message := "Your offer was accepted"
	if o.Buyer.Equals(actor) {
		counterpart = o.Seller
		message = "The buyer accepted your counter offer"
	}
	im.notify(c, counterpart, o.ListingId, message)
	im.emit(c, domain.EventOfferAccepted, o.ListingId, actor, map[string]interface{}{
		"offerId":       o.Id,
		"acceptedCents": o.AcceptedCents(actor),
	})
	return nil
}

func (im *offerImpl) decline(c ctx.Ctx, o *offer.Offer, actor domain.UserId) error {
	err := im.offer.UpdateStatus(c, o.Id, []offer.Status{offer.StatusPending, offer.StatusCountered}, offer.StatusDeclined, nil)
	if err == query.ErrNotFound {
		return domain.ErrInvalidState
	} else if err != nil {
		c.WithField("err", err).Error("offer.UpdateStatus failed")
		return err
	}

	counterpart := o.Buyer
	if o.Buyer.Equals(actor) {
		counterpart = o.Seller
	}
	im.notify(c, counterpart, o.ListingId, "The offer was declined")
	im.emit(c, domain.EventOfferDeclined, o.ListingId, actor, map[string]interface{}{"offerId": o.Id})
	return nil
}

func (im *offerImpl) counter(c ctx.Ctx, o *offer.Offer, counterCents *int64) error {
	if counterCents == nil || *counterCents <= 0 {
		return domain.ErrInvalidArgument
	}

	// a counter is only available once, on a pending offer
	err := im.offer.UpdateStatus(c, o.Id, []offer.Status{offer.StatusPending}, offer.StatusCountered, counterCents)
	if err == query.ErrNotFound {
		return domain.ErrInvalidState
	} else if err != nil {
		c.WithField("err", err).Error("offer.UpdateStatus failed")
		return err
	}

	im.notify(c, o.Buyer, o.ListingId, "The seller countered your offer")
	im.emit(c, domain.EventOfferCountered, o.ListingId, o.Seller, map[string]interface{}{
		"offerId":      o.Id,
		"counterCents": *counterCents,
	})
	return nil
}

func (im *offerImpl) ListByListing(c ctx.Ctx, actor domain.UserId, listingId string) ([]*offer.Offer, error) {
	l, err := im.listing.FindOne(c, listingId)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("listing.FindOne failed")
		return nil, err
	}

	opts := []offer.SelectOptions{offer.WithListing(listingId)}
	if !l.Owner.Equals(actor) {
		// non-owners only see their own offers
		opts = append(opts, offer.WithBuyer(actor))
	}

	items, err := im.offer.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("offer.FindAll failed")
		return nil, err
	}
	return items, nil
}
