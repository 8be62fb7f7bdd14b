package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/ptr"
	"github.com/localmart/goapi/domain"
	mDomain "github.com/localmart/goapi/domain/mocks"
	"github.com/localmart/goapi/domain/listing"
	mListing "github.com/localmart/goapi/domain/listing/mocks"
	mMeetup "github.com/localmart/goapi/domain/meetup/mocks"
	mNotification "github.com/localmart/goapi/domain/notification/mocks"
	mOffer "github.com/localmart/goapi/domain/offer/mocks"
	"github.com/localmart/goapi/service/query"
	mQuery "github.com/localmart/goapi/service/query/mocks"
	"github.com/localmart/goapi/stores/listing/usecase"
)

type fixtures struct {
	q            *mQuery.Mongo
	listingRepo  *mListing.Repo
	historyRepo  *mListing.PriceHistoryRepo
	offerRepo    *mOffer.Repo
	meetupRepo   *mMeetup.Repo
	notification *mNotification.Usecase
	publisher    *mDomain.EventPublisher
	uc           listing.Usecase
}

func newFixtures() *fixtures {
	f := &fixtures{
		q:            &mQuery.Mongo{},
		listingRepo:  &mListing.Repo{},
		historyRepo:  &mListing.PriceHistoryRepo{},
		offerRepo:    &mOffer.Repo{},
		meetupRepo:   &mMeetup.Repo{},
		notification: &mNotification.Usecase{},
		publisher:    &mDomain.EventPublisher{},
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.uc = usecase.NewListing(f.q, f.listingRepo, f.historyRepo, f.offerRepo, f.meetupRepo, f.notification, f.publisher)
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

func expectTransaction(f *fixtures) {
	f.q.On("RunWithTransaction", mock.Anything, mock.Anything).Return(func(c ctx.Ctx, run func(ctx.Ctx) error) error {
		return run(c)
	})
}

func TestCreate(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	l, err := f.uc.Create(c, "seller-1", &listing.CreatePayload{Title: "city bike", PriceCents: 12000})
	assert.NoError(t, err)
	assert.NotEmpty(t, l.Id)
	assert.Equal(t, listing.StatusActive, l.Status)

	draft, err := f.uc.Create(c, "seller-1", &listing.CreatePayload{Title: "lamp", PriceCents: 900, Draft: true})
	assert.NoError(t, err)
	assert.Equal(t, listing.StatusDraft, draft.Status)

	_, err = f.uc.Create(c, "seller-1", &listing.CreatePayload{Title: "free", PriceCents: 0})
	assert.Equal(t, domain.ErrInvalidArgument, err)
}

func TestUpdateOwnership(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)

	_, err := f.uc.Update(c, "l1", "someone-else", &listing.UpdatePayload{Title: ptr.String("new title")})
	assert.Equal(t, domain.ErrForbidden, err)
}

func TestUpdateSoldIsFrozen(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	sold := activeListing("l1", "seller-1")
	sold.Status = listing.StatusSold
	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(sold, nil)

	_, err := f.uc.Update(c, "l1", "seller-1", &listing.UpdatePayload{Title: ptr.String("new title")})
	assert.Equal(t, domain.ErrInvalidState, err)
}

func TestUpdatePriceAppendsHistory(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	expectTransaction(f)
	f.listingRepo.On("PatchUnsold", mock.Anything, "l1", mock.Anything).Return(nil)
	f.historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(ph *listing.PriceHistory) bool {
		return ph.ListingId == "l1" && ph.OldCents == 12000 && ph.NewCents == 9900
	})).Return(nil)

	_, err := f.uc.Update(c, "l1", "seller-1", &listing.UpdatePayload{PriceCents: ptr.Int64(9900)})
	assert.NoError(t, err)
	f.historyRepo.AssertExpectations(t)
}

func TestUpdatePriceAndHistoryCommitAsUnit(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	expectTransaction(f)
	f.listingRepo.On("PatchUnsold", mock.Anything, "l1", mock.Anything).Return(nil)
	f.historyRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	// a failed audit row aborts the whole update
	_, err := f.uc.Update(c, "l1", "seller-1", &listing.UpdatePayload{PriceCents: ptr.Int64(9900)})
	assert.Error(t, err)
	f.q.AssertCalled(t, "RunWithTransaction", mock.Anything, mock.Anything)
}

func TestUpdateConcurrentSaleFreezes(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	expectTransaction(f)
	f.listingRepo.On("PatchUnsold", mock.Anything, "l1", mock.Anything).Return(query.ErrNotFound)

	// the listing sold between the read and the write
	_, err := f.uc.Update(c, "l1", "seller-1", &listing.UpdatePayload{Title: ptr.String("new title")})
	assert.Equal(t, domain.ErrInvalidState, err)
	f.historyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateSamePriceSkipsHistory(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	expectTransaction(f)
	f.listingRepo.On("PatchUnsold", mock.Anything, "l1", mock.Anything).Return(nil)

	_, err := f.uc.Update(c, "l1", "seller-1", &listing.UpdatePayload{PriceCents: ptr.Int64(12000)})
	assert.NoError(t, err)
	f.historyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRenew(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	f.listingRepo.On("Patch", mock.Anything, "l1", mock.MatchedBy(func(p listing.Patchable) bool {
		return p.RenewedAt != nil
	})).Return(nil)

	_, err := f.uc.Renew(c, "l1", "seller-1")
	assert.NoError(t, err)
	f.listingRepo.AssertExpectations(t)
}

func TestRenewOwnershipIsTheOnlyPrecondition(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	// 40 days old and still a draft; the owner can renew it regardless
	draft := activeListing("l1", "seller-1")
	draft.Status = listing.StatusDraft
	draft.CreatedAt = time.Now().Add(-40 * 24 * time.Hour)
	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(draft, nil)
	f.listingRepo.On("Patch", mock.Anything, "l1", mock.MatchedBy(func(p listing.Patchable) bool {
		return p.RenewedAt != nil
	})).Return(nil)

	_, err := f.uc.Renew(c, "l1", "seller-1")
	assert.NoError(t, err)

	f2 := newFixtures()
	f2.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)

	_, err = f2.uc.Renew(c, "l1", "someone-else")
	assert.Equal(t, domain.ErrForbidden, err)
}

func TestPublishWrongStateMapsToInvalidState(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	f.listingRepo.On("Publish", mock.Anything, "l1").Return(query.ErrNotFound)

	_, err := f.uc.Publish(c, "l1", "seller-1")
	assert.Equal(t, domain.ErrInvalidState, err)
}

func TestMarkSoldNotifiesBuyer(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()
	buyer := domain.UserId("buyer-1")

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	f.listingRepo.On("MarkSold", mock.Anything, "l1", &buyer).Return(nil)
	f.notification.On("Notify", mock.Anything, buyer, "l1", mock.Anything).Return(nil)

	_, err := f.uc.MarkSold(c, "l1", "seller-1", &buyer)
	assert.NoError(t, err)
	f.notification.AssertExpectations(t)
}

func TestMarkSoldToSelfRejected(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()
	self := domain.UserId("seller-1")

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)

	_, err := f.uc.MarkSold(c, "l1", "seller-1", &self)
	assert.Equal(t, domain.ErrInvalidArgument, err)
}

func TestMarkAvailableRequiresSold(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	f.listingRepo.On("MarkAvailable", mock.Anything, "l1").Return(query.ErrNotFound)

	_, err := f.uc.MarkAvailable(c, "l1", "seller-1")
	assert.Equal(t, domain.ErrInvalidState, err)
}

func TestDeleteCascades(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	f.q.On("RunWithTransaction", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		run := args.Get(1).(func(ctx.Ctx) error)
		run(args.Get(0).(ctx.Ctx))
	})
	f.offerRepo.On("RemoveByListing", mock.Anything, "l1").Return(nil)
	f.meetupRepo.On("RemoveByListing", mock.Anything, "l1").Return(nil)
	f.historyRepo.On("RemoveByListing", mock.Anything, "l1").Return(nil)
	f.listingRepo.On("Remove", mock.Anything, "l1").Return(nil)

	assert.NoError(t, f.uc.Delete(c, "l1", "seller-1"))
	f.offerRepo.AssertExpectations(t)
	f.meetupRepo.AssertExpectations(t)
	f.historyRepo.AssertExpectations(t)
	f.listingRepo.AssertExpectations(t)
}

func TestGetFeed(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*listing.Listing{activeListing("l1", "seller-1")}, nil)

	items, err := f.uc.GetFeed(c, 0, 20)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestGetPriceHistoryUnknownListing(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "missing").Return(nil, query.ErrNotFound)

	_, err := f.uc.GetPriceHistory(c, "missing")
	assert.Equal(t, domain.ErrNotFound, err)
}
