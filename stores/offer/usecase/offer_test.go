package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/ptr"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/listing"
	mListing "github.com/localmart/goapi/domain/listing/mocks"
	mDomain "github.com/localmart/goapi/domain/mocks"
	mNotification "github.com/localmart/goapi/domain/notification/mocks"
	"github.com/localmart/goapi/domain/offer"
	mOffer "github.com/localmart/goapi/domain/offer/mocks"
	"github.com/localmart/goapi/service/query"
	mQuery "github.com/localmart/goapi/service/query/mocks"
	"github.com/localmart/goapi/stores/offer/usecase"
)

type fixtures struct {
	q            *mQuery.Mongo
	offerRepo    *mOffer.Repo
	listingRepo  *mListing.Repo
	notification *mNotification.Usecase
	publisher    *mDomain.EventPublisher
	uc           offer.Usecase
}

func newFixtures() *fixtures {
	f := &fixtures{
		q:            &mQuery.Mongo{},
		offerRepo:    &mOffer.Repo{},
		listingRepo:  &mListing.Repo{},
		notification: &mNotification.Usecase{},
		publisher:    &mDomain.EventPublisher{},
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.notification.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.uc = usecase.NewOffer(f.q, f.offerRepo, f.listingRepo, f.notification, f.publisher)
	return f
}

func activeListing(id string, owner domain.UserId) *listing.Listing {
	return &listing.Listing{
		Id:         id,
		Owner:      owner,
		Title:      "city bike",
		PriceCents: 12000,
		Status:     listing.StatusActive,
		CreatedAt:  time.Now().Add(-time.Hour),
		UpdatedAt:  time.Now().Add(-time.Hour),
	}
}

func pendingOffer(id, listingId string, buyer, seller domain.UserId) *offer.Offer {
	return &offer.Offer{
		Id:          id,
		ListingId:   listingId,
		Buyer:       buyer,
		Seller:      seller,
		AmountCents: 9000,
		Status:      offer.StatusPending,
		IsOpen:      true,
		CreatedAt:   time.Now().Add(-time.Minute),
		UpdatedAt:   time.Now().Add(-time.Minute),
	}
}

func expectTransaction(f *fixtures) {
	f.q.On("RunWithTransaction", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		run := args.Get(1).(func(ctx.Ctx) error)
		_ = run(args.Get(0).(ctx.Ctx))
	})
}

func TestPropose(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	f.offerRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *offer.Offer) bool {
		return o.ListingId == "l1" && o.Buyer == "buyer-1" && o.Seller == "seller-1" &&
			o.Status == offer.StatusPending && o.IsOpen
	})).Return(nil)

	o, err := f.uc.Propose(c, "buyer-1", "l1", 9000)
	assert.NoError(t, err)
	assert.NotEmpty(t, o.Id)
	assert.Equal(t, int64(9000), o.AmountCents)
	f.notification.AssertCalled(t, "Notify", mock.Anything, domain.UserId("seller-1"), "l1", mock.Anything)
}

func TestProposeValidation(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)

	_, err := f.uc.Propose(c, "buyer-1", "l1", 0)
	assert.Equal(t, domain.ErrInvalidArgument, err)

	_, err = f.uc.Propose(c, "seller-1", "l1", 9000)
	assert.Equal(t, domain.ErrInvalidArgument, err)
}

func TestProposeInactiveListing(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	l := activeListing("l1", "seller-1")
	l.Status = listing.StatusSold
	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(l, nil)

	_, err := f.uc.Propose(c, "buyer-1", "l1", 9000)
	assert.Equal(t, domain.ErrInvalidState, err)
}

func TestProposeSecondOpenOfferConflicts(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	f.offerRepo.On("Create", mock.Anything, mock.Anything).Return(query.ErrDuplicateKey)

	_, err := f.uc.Propose(c, "buyer-1", "l1", 9000)
	assert.Equal(t, domain.ErrConflict, err)
}

func TestAcceptClosesDeal(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	o := pendingOffer("o1", "l1", "buyer-1", "seller-1")
	accepted := *o
	accepted.Status = offer.StatusAccepted
	accepted.IsOpen = false

	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(o, nil).Once()
	expectTransaction(f)
	f.listingRepo.On("MarkSold", mock.Anything, "l1", &o.Buyer).Return(nil)
	f.offerRepo.On("UpdateStatus", mock.Anything, "o1",
		[]offer.Status{offer.StatusPending, offer.StatusCountered}, offer.StatusAccepted, (*int64)(nil)).Return(nil)
	f.offerRepo.On("DeclineSiblings", mock.Anything, "l1", "o1").Return(nil)
	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(&accepted, nil)

	got, err := f.uc.Respond(c, "seller-1", "o1", offer.ActionAccept, nil)
	assert.NoError(t, err)
	assert.Equal(t, offer.StatusAccepted, got.Status)
	f.notification.AssertCalled(t, "Notify", mock.Anything, domain.UserId("buyer-1"), "l1", mock.Anything)
}

func TestConcurrentAcceptLoses(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	o := pendingOffer("o1", "l1", "buyer-1", "seller-1")
	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(o, nil)
	f.q.On("RunWithTransaction", mock.Anything, mock.Anything).Return(query.ErrNotFound)

	_, err := f.uc.Respond(c, "seller-1", "o1", offer.ActionAccept, nil)
	assert.Equal(t, domain.ErrInvalidState, err)
}

func TestCounterThenBuyerAccepts(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	o := pendingOffer("o1", "l1", "buyer-1", "seller-1")
	countered := *o
	countered.Status = offer.StatusCountered
	countered.CounterCents = ptr.Int64(10500)

	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(o, nil).Once()
	f.offerRepo.On("UpdateStatus", mock.Anything, "o1",
		[]offer.Status{offer.StatusPending}, offer.StatusCountered, ptr.Int64(10500)).Return(nil)
	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(&countered, nil)

	got, err := f.uc.Respond(c, "seller-1", "o1", offer.ActionCounter, ptr.Int64(10500))
	assert.NoError(t, err)
	assert.Equal(t, offer.StatusCountered, got.Status)
	assert.Equal(t, int64(10500), got.AcceptedCents("buyer-1"))
	assert.Equal(t, int64(9000), got.AcceptedCents("seller-1"))

	// the buyer takes the counter; the deal closes at the counter price
	accepted := countered
	accepted.Status = offer.StatusAccepted
	f2 := newFixtures()
	f2.offerRepo.On("FindOne", mock.Anything, "o1").Return(&countered, nil).Once()
	expectTransaction(f2)
	f2.listingRepo.On("MarkSold", mock.Anything, "l1", &countered.Buyer).Return(nil)
	f2.offerRepo.On("UpdateStatus", mock.Anything, "o1",
		[]offer.Status{offer.StatusPending, offer.StatusCountered}, offer.StatusAccepted, (*int64)(nil)).Return(nil)
	f2.offerRepo.On("DeclineSiblings", mock.Anything, "l1", "o1").Return(nil)
	f2.offerRepo.On("FindOne", mock.Anything, "o1").Return(&accepted, nil)

	got, err = f2.uc.Respond(c, "buyer-1", "o1", offer.ActionAccept, nil)
	assert.NoError(t, err)
	assert.Equal(t, offer.StatusAccepted, got.Status)
	f2.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(evt *domain.Event) bool {
		return evt.Type == domain.EventOfferAccepted && evt.Payload["acceptedCents"] == int64(10500)
	}))
}

func TestSellerAcceptOfCounterResolvesAtOriginalAmount(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	o := pendingOffer("o1", "l1", "buyer-1", "seller-1")
	countered := *o
	countered.Status = offer.StatusCountered
	countered.CounterCents = ptr.Int64(10500)
	accepted := countered
	accepted.Status = offer.StatusAccepted

	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(&countered, nil).Once()
	expectTransaction(f)
	f.listingRepo.On("MarkSold", mock.Anything, "l1", &countered.Buyer).Return(nil)
	f.offerRepo.On("UpdateStatus", mock.Anything, "o1",
		[]offer.Status{offer.StatusPending, offer.StatusCountered}, offer.StatusAccepted, (*int64)(nil)).Return(nil)
	f.offerRepo.On("DeclineSiblings", mock.Anything, "l1", "o1").Return(nil)
	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(&accepted, nil)

	// the seller walks back their counter and takes the buyer's offer as-is
	got, err := f.uc.Respond(c, "seller-1", "o1", offer.ActionAccept, nil)
	assert.NoError(t, err)
	assert.Equal(t, offer.StatusAccepted, got.Status)
	f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(evt *domain.Event) bool {
		return evt.Type == domain.EventOfferAccepted && evt.Payload["acceptedCents"] == int64(9000)
	}))
}

func TestCounterRequiresAmount(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	o := pendingOffer("o1", "l1", "buyer-1", "seller-1")
	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(o, nil)

	_, err := f.uc.Respond(c, "seller-1", "o1", offer.ActionCounter, nil)
	assert.Equal(t, domain.ErrInvalidArgument, err)

	_, err = f.uc.Respond(c, "seller-1", "o1", offer.ActionCounter, ptr.Int64(0))
	assert.Equal(t, domain.ErrInvalidArgument, err)
}

func TestBuyerCannotCounterBack(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	o := pendingOffer("o1", "l1", "buyer-1", "seller-1")
	o.Status = offer.StatusCountered
	o.CounterCents = ptr.Int64(10500)
	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(o, nil)

	_, err := f.uc.Respond(c, "buyer-1", "o1", offer.ActionCounter, ptr.Int64(9500))
	assert.Equal(t, domain.ErrForbidden, err)
}

func TestBuyerCannotActOnPending(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	o := pendingOffer("o1", "l1", "buyer-1", "seller-1")
	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(o, nil)

	_, err := f.uc.Respond(c, "buyer-1", "o1", offer.ActionAccept, nil)
	assert.Equal(t, domain.ErrForbidden, err)
}

func TestRespondTerminalOffer(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	o := pendingOffer("o1", "l1", "buyer-1", "seller-1")
	o.Status = offer.StatusDeclined
	o.IsOpen = false
	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(o, nil)

	_, err := f.uc.Respond(c, "seller-1", "o1", offer.ActionAccept, nil)
	assert.Equal(t, domain.ErrInvalidState, err)
}

func TestRespondNonParticipant(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	o := pendingOffer("o1", "l1", "buyer-1", "seller-1")
	f.offerRepo.On("FindOne", mock.Anything, "o1").Return(o, nil)

	_, err := f.uc.Respond(c, "stranger", "o1", offer.ActionDecline, nil)
	assert.Equal(t, domain.ErrForbidden, err)
}

func TestListByListingVisibility(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	f.offerRepo.On("FindAll", mock.Anything, mock.Anything).Return([]*offer.Offer{
		pendingOffer("o1", "l1", "buyer-1", "seller-1"),
	}, nil).Once()

	items, err := f.uc.ListByListing(c, "seller-1", "l1")
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	// a buyer's view carries the extra self filter
	f.offerRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).Return([]*offer.Offer{}, nil).Once()
	items, err = f.uc.ListByListing(c, "buyer-2", "l1")
	assert.NoError(t, err)
	assert.Len(t, items, 0)
}
