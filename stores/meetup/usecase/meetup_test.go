package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/listing"
	mListing "github.com/localmart/goapi/domain/listing/mocks"
	"github.com/localmart/goapi/domain/meetup"
	mMeetup "github.com/localmart/goapi/domain/meetup/mocks"
	mDomain "github.com/localmart/goapi/domain/mocks"
	mNotification "github.com/localmart/goapi/domain/notification/mocks"
	"github.com/localmart/goapi/service/query"
	"github.com/localmart/goapi/stores/meetup/usecase"
)

type fixtures struct {
	meetupRepo   *mMeetup.Repo
	listingRepo  *mListing.Repo
	notification *mNotification.Usecase
	publisher    *mDomain.EventPublisher
	uc           meetup.Usecase
}

func newFixtures() *fixtures {
	f := &fixtures{
		meetupRepo:   &mMeetup.Repo{},
		listingRepo:  &mListing.Repo{},
		notification: &mNotification.Usecase{},
		publisher:    &mDomain.EventPublisher{},
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.notification.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.uc = usecase.NewMeetup(f.meetupRepo, f.listingRepo, f.notification, f.publisher)
	return f
}

func soldListing(id string, owner, buyer domain.UserId) *listing.Listing {
	b := buyer
	return &listing.Listing{
		Id:         id,
		Owner:      owner,
		Title:      "city bike",
		PriceCents: 12000,
		Status:     listing.StatusSold,
		BuyerId:    &b,
		CreatedAt:  time.Now().Add(-time.Hour),
		UpdatedAt:  time.Now().Add(-time.Minute),
	}
}

func handshake(token, listingId string, seller, buyer domain.UserId) *meetup.Handshake {
	return &meetup.Handshake{
		Token:     token,
		ListingId: listingId,
		Seller:    seller,
		Buyer:     buyer,
		CreatedAt: time.Now().Add(-time.Minute),
	}
}

func TestIssueCreates(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(soldListing("l1", "seller-1", "buyer-1"), nil)
	f.meetupRepo.On("FindByListing", mock.Anything, "l1").Return(nil, query.ErrNotFound)
	f.meetupRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *meetup.Handshake) bool {
		return h.ListingId == "l1" && h.Seller == "seller-1" && h.Buyer == "buyer-1" &&
			len(h.Token) == 32 && !h.SellerConfirmed && !h.BuyerConfirmed
	})).Return(nil)

	h, err := f.uc.Issue(c, "buyer-1", "l1")
	assert.NoError(t, err)
	assert.NotEmpty(t, h.Token)
}

func TestIssueIsIdempotent(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	existing := handshake("tok", "l1", "seller-1", "buyer-1")
	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(soldListing("l1", "seller-1", "buyer-1"), nil)
	f.meetupRepo.On("FindByListing", mock.Anything, "l1").Return(existing, nil)

	h, err := f.uc.Issue(c, "seller-1", "l1")
	assert.NoError(t, err)
	assert.Equal(t, "tok", h.Token)
	f.meetupRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIssueRaceReturnsWinner(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	winner := handshake("tok", "l1", "seller-1", "buyer-1")
	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(soldListing("l1", "seller-1", "buyer-1"), nil)
	f.meetupRepo.On("FindByListing", mock.Anything, "l1").Return(nil, query.ErrNotFound).Once()
	f.meetupRepo.On("Create", mock.Anything, mock.Anything).Return(query.ErrDuplicateKey)
	f.meetupRepo.On("FindByListing", mock.Anything, "l1").Return(winner, nil)

	h, err := f.uc.Issue(c, "seller-1", "l1")
	assert.NoError(t, err)
	assert.Equal(t, "tok", h.Token)
}

func TestIssueRequiresSale(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	l := soldListing("l1", "seller-1", "buyer-1")
	l.Status = listing.StatusActive
	l.BuyerId = nil
	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(l, nil)

	_, err := f.uc.Issue(c, "seller-1", "l1")
	assert.Equal(t, domain.ErrInvalidState, err)
}

func TestIssuePrivateSaleHasNoHandshake(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	l := soldListing("l1", "seller-1", "buyer-1")
	l.BuyerId = nil
	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(l, nil)

	_, err := f.uc.Issue(c, "seller-1", "l1")
	assert.Equal(t, domain.ErrInvalidState, err)
}

func TestIssueNonParticipant(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(soldListing("l1", "seller-1", "buyer-1"), nil)

	_, err := f.uc.Issue(c, "stranger", "l1")
	assert.Equal(t, domain.ErrForbidden, err)
}

func TestConfirmOneSide(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	confirmed := handshake("tok", "l1", "seller-1", "buyer-1")
	confirmed.SellerConfirmed = true
	f.meetupRepo.On("FindByToken", mock.Anything, "tok").Return(handshake("tok", "l1", "seller-1", "buyer-1"), nil).Once()
	f.meetupRepo.On("Confirm", mock.Anything, "tok", meetup.RoleSeller).Return(nil)
	f.meetupRepo.On("FindByToken", mock.Anything, "tok").Return(confirmed, nil)

	res, err := f.uc.Confirm(c, "seller-1", "tok")
	assert.NoError(t, err)
	assert.True(t, res.SellerConfirmed)
	assert.False(t, res.BuyerConfirmed)
	assert.False(t, res.Completed)
}

func TestConfirmCompletes(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	h := handshake("tok", "l1", "seller-1", "buyer-1")
	h.SellerConfirmed = true
	done := handshake("tok", "l1", "seller-1", "buyer-1")
	done.SellerConfirmed = true
	done.BuyerConfirmed = true
	f.meetupRepo.On("FindByToken", mock.Anything, "tok").Return(h, nil).Once()
	f.meetupRepo.On("Confirm", mock.Anything, "tok", meetup.RoleBuyer).Return(nil)
	f.meetupRepo.On("FindByToken", mock.Anything, "tok").Return(done, nil)

	res, err := f.uc.Confirm(c, "buyer-1", "tok")
	assert.NoError(t, err)
	assert.True(t, res.Completed)
	f.notification.AssertCalled(t, "Notify", mock.Anything, domain.UserId("seller-1"), "l1", mock.Anything)
	f.notification.AssertCalled(t, "Notify", mock.Anything, domain.UserId("buyer-1"), "l1", mock.Anything)
}

func TestConfirmSeesConcurrentCounterpart(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	// the buyer confirmed between our read and our write; the re-read
	// after the write is what decides completion
	fresh := handshake("tok", "l1", "seller-1", "buyer-1")
	done := handshake("tok", "l1", "seller-1", "buyer-1")
	done.SellerConfirmed = true
	done.BuyerConfirmed = true
	f.meetupRepo.On("FindByToken", mock.Anything, "tok").Return(fresh, nil).Once()
	f.meetupRepo.On("Confirm", mock.Anything, "tok", meetup.RoleSeller).Return(nil)
	f.meetupRepo.On("FindByToken", mock.Anything, "tok").Return(done, nil)

	res, err := f.uc.Confirm(c, "seller-1", "tok")
	assert.NoError(t, err)
	assert.True(t, res.Completed)
	f.notification.AssertCalled(t, "Notify", mock.Anything, domain.UserId("seller-1"), "l1", mock.Anything)
	f.notification.AssertCalled(t, "Notify", mock.Anything, domain.UserId("buyer-1"), "l1", mock.Anything)
}

func TestConfirmIsIdempotent(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	h := handshake("tok", "l1", "seller-1", "buyer-1")
	h.SellerConfirmed = true
	f.meetupRepo.On("FindByToken", mock.Anything, "tok").Return(h, nil)

	res, err := f.uc.Confirm(c, "seller-1", "tok")
	assert.NoError(t, err)
	assert.True(t, res.SellerConfirmed)
	assert.False(t, res.Completed)
	f.meetupRepo.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmNonParticipant(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.meetupRepo.On("FindByToken", mock.Anything, "tok").Return(handshake("tok", "l1", "seller-1", "buyer-1"), nil)

	_, err := f.uc.Confirm(c, "stranger", "tok")
	assert.Equal(t, domain.ErrForbidden, err)
}

func TestConfirmUnknownToken(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.meetupRepo.On("FindByToken", mock.Anything, "nope").Return(nil, query.ErrNotFound)

	_, err := f.uc.Confirm(c, "seller-1", "nope")
	assert.Equal(t, domain.ErrNotFound, err)
}
