package usecase_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/boost"
	"github.com/localmart/goapi/domain/listing"
	mListing "github.com/localmart/goapi/domain/listing/mocks"
	mDomain "github.com/localmart/goapi/domain/mocks"
	"github.com/localmart/goapi/service/cache"
	mCache "github.com/localmart/goapi/service/cache/mocks"
	"github.com/localmart/goapi/service/query"
	"github.com/localmart/goapi/stores/boost/usecase"
)

type fixtures struct {
	listingRepo *mListing.Repo
	featured    *mCache.Service
	publisher   *mDomain.EventPublisher
	uc          boost.Usecase
}

func newFixtures() *fixtures {
	f := &fixtures{
		listingRepo: &mListing.Repo{},
		featured:    &mCache.Service{},
		publisher:   &mDomain.EventPublisher{},
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.featured.On("Del", mock.Anything, mock.Anything).Return(nil)
	f.uc = usecase.NewBoost(f.listingRepo, f.featured, f.publisher)
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

func TestDurations(t *testing.T) {
	f := newFixtures()

	ds := f.uc.Durations(ctx.Background())
	assert.Len(t, ds, 3)
	assert.Equal(t, int32(24), ds[0].Hours)
	assert.Equal(t, int64(300), ds[0].PriceCents)
	assert.Equal(t, int32(168), ds[2].Hours)
}

func TestActivate(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	f.listingRepo.On("SetBoost", mock.Anything, "l1", mock.MatchedBy(func(b listing.Boost) bool {
		return b.DurationHours == 72 && b.PaidCents == 700
	}), (*time.Time)(nil)).Return(nil)

	b, err := f.uc.Activate(c, "seller-1", "l1", 72)
	assert.NoError(t, err)
	assert.Equal(t, int64(700), b.PaidCents)
	f.featured.AssertCalled(t, "Del", mock.Anything, mock.Anything)
}

func TestActivateUnknownDuration(t *testing.T) {
	f := newFixtures()

	_, err := f.uc.Activate(ctx.Background(), "seller-1", "l1", 48)
	assert.Equal(t, domain.ErrInvalidArgument, err)
}

func TestActivateNotOwner(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)

	_, err := f.uc.Activate(c, "someone-else", "l1", 24)
	assert.Equal(t, domain.ErrForbidden, err)
}

func TestActivateRequiresActive(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	l := activeListing("l1", "seller-1")
	l.Status = listing.StatusDraft
	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(l, nil)

	_, err := f.uc.Activate(c, "seller-1", "l1", 24)
	assert.Equal(t, domain.ErrInvalidState, err)
}

func TestActivateWhileBoosted(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	l := activeListing("l1", "seller-1")
	l.Boost = &listing.Boost{ActivatedAt: time.Now().Add(-time.Hour), DurationHours: 24, PaidCents: 300}
	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(l, nil)

	_, err := f.uc.Activate(c, "seller-1", "l1", 24)
	assert.Equal(t, domain.ErrInvalidState, err)
}

func TestActivateAfterExpiredBoost(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	prev := time.Now().Add(-48 * time.Hour)
	l := activeListing("l1", "seller-1")
	l.Boost = &listing.Boost{ActivatedAt: prev, DurationHours: 24, PaidCents: 300}
	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(l, nil)
	f.listingRepo.On("SetBoost", mock.Anything, "l1", mock.Anything, &prev).Return(nil)

	_, err := f.uc.Activate(c, "seller-1", "l1", 24)
	assert.NoError(t, err)
}

func TestActivateRaceLoses(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.listingRepo.On("FindOne", mock.Anything, "l1").Return(activeListing("l1", "seller-1"), nil)
	f.listingRepo.On("SetBoost", mock.Anything, "l1", mock.Anything, (*time.Time)(nil)).Return(query.ErrNotFound)

	_, err := f.uc.Activate(c, "seller-1", "l1", 24)
	assert.Equal(t, domain.ErrInvalidState, err)
}

func TestFeaturedFiltersExpired(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	live := activeListing("l1", "seller-1")
	live.Boost = &listing.Boost{ActivatedAt: time.Now().Add(-time.Hour), DurationHours: 72, PaidCents: 700}
	stale := activeListing("l2", "seller-2")
	stale.Boost = &listing.Boost{ActivatedAt: time.Now().Add(-30 * time.Hour), DurationHours: 24, PaidCents: 300}

	f.featured.On("GetByFunc", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			getter := args.Get(3).(cache.OneTimeGetter)
			res, err := getter()
			assert.NoError(t, err)
			reflect.ValueOf(args.Get(2)).Elem().Set(reflect.ValueOf(res).Elem())
		})
	f.listingRepo.On("FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*listing.Listing{live, stale}, nil)

	items, err := f.uc.Featured(c, 10)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "l1", items[0].Id)
}
