package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/listing"
	"github.com/localmart/goapi/domain/meetup"
	"github.com/localmart/goapi/domain/notification"
	"github.com/localmart/goapi/service/query"
)

const tokenBytes = 16

type meetupImpl struct {
	meetup       meetup.Repo
	listing      listing.Repo
	notification notification.Usecase
	publisher    domain.EventPublisher
}

func NewMeetup(
	meetupRepo meetup.Repo,
	listingRepo listing.Repo,
	notification notification.Usecase,
	publisher domain.EventPublisher,
) meetup.Usecase {
	return &meetupImpl{
		meetup:       meetupRepo,
		listing:      listingRepo,
		notification: notification,
		publisher:    publisher,
	}
}

func (im *meetupImpl) emit(c ctx.Ctx, typ domain.EventType, listingId string, actor domain.UserId, payload map[string]interface{}) {
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

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (im *meetupImpl) Issue(c ctx.Ctx, actor domain.UserId, listingId string) (*meetup.Handshake, error) {
	l, err := im.listing.FindOne(c, listingId)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("listing.FindOne failed")
		return nil, err
	}

	if l.Status != listing.StatusSold || l.BuyerId == nil {
		// a handshake needs a sale with a known counterparty
		return nil, domain.ErrInvalidState
	}
	if !l.Owner.Equals(actor) && !l.BuyerId.Equals(actor) {
		return nil, domain.ErrForbidden
	}

	existing, err := im.meetup.FindByListing(c, listingId)
	if err == nil {
		return existing, nil
	} else if err != query.ErrNotFound {
		c.WithField("err", err).Error("meetup.FindByListing failed")
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		c.WithField("err", err).Error("token generation failed")
		return nil, err
	}

	h := &meetup.Handshake{
		Token:     token,
		ListingId: listingId,
		Seller:    l.Owner,
		Buyer:     *l.BuyerId,
		CreatedAt: time.Now(),
	}

	if err := im.meetup.Create(c, h); err == query.ErrDuplicateKey {
		// lost the issuance race, the winner's handshake is the one
		return im.meetup.FindByListing(c, listingId)
	} else if err != nil {
		c.WithField("err", err).Error("meetup.Create failed")
		return nil, err
	}

	im.emit(c, domain.EventMeetupIssued, listingId, actor, nil)
	return h, nil
}

func (im *meetupImpl) Confirm(c ctx.Ctx, actor domain.UserId, token string) (*meetup.ConfirmResult, error) {
	h, err := im.meetup.FindByToken(c, token)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("meetup.FindByToken failed")
		return nil, err
	}

	role, ok := h.RoleOf(actor)
	if !ok {
		return nil, domain.ErrForbidden
	}

	already := (role == meetup.RoleSeller && h.SellerConfirmed) ||
		(role == meetup.RoleBuyer && h.BuyerConfirmed)

	if !already {
		if err := im.meetup.Confirm(c, token, role); err != nil {
			c.WithField("err", err).Error("meetup.Confirm failed")
			return nil, err
		}

		// the other side may have confirmed concurrently; completion is
		// judged on the stored record, not the pre-write snapshot
		if h, err = im.meetup.FindByToken(c, token); err != nil {
			c.WithField("err", err).Error("meetup.FindByToken failed")
			return nil, err
		}

		im.emit(c, domain.EventMeetupConfirmed, h.ListingId, actor, map[string]interface{}{"role": role})

		if h.Completed() {
			im.notifyCompleted(c, h)
			im.emit(c, domain.EventMeetupCompleted, h.ListingId, actor, nil)
		}
	}

	return &meetup.ConfirmResult{
		SellerConfirmed: h.SellerConfirmed,
		BuyerConfirmed:  h.BuyerConfirmed,
		Completed:       h.Completed(),
	}, nil
}

func (im *meetupImpl) notifyCompleted(c ctx.Ctx, h *meetup.Handshake) {
	for _, userId := range []domain.UserId{h.Seller, h.Buyer} {
		if err := im.notification.Notify(c, userId, h.ListingId, "Meetup confirmed by both parties"); err != nil {
			c.WithField("err", err).Warn("notification.Notify failed")
		}
	}
}
