package usecase_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/notification"
	mNotification "github.com/localmart/goapi/domain/notification/mocks"
	"github.com/localmart/goapi/service/cache"
	mCache "github.com/localmart/goapi/service/cache/mocks"
	"github.com/localmart/goapi/stores/notification/usecase"
)

type fixtures struct {
	repo        *mNotification.Repo
	unreadCount *mCache.Service
	uc          notification.Usecase
}

func newFixtures() *fixtures {
	f := &fixtures{
		repo:        &mNotification.Repo{},
		unreadCount: &mCache.Service{},
	}
	f.unreadCount.On("Del", mock.Anything, mock.Anything).Return(nil)
	f.uc = usecase.NewNotification(f.repo, f.unreadCount)
	return f
}

func TestNotify(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.UserId == "user-1" && n.ListingId == "l1" && n.Message == "hello" && !n.IsRead
	})).Return(nil)

	err := f.uc.Notify(c, "user-1", "l1", "hello")
	assert.NoError(t, err)
	f.unreadCount.AssertCalled(t, "Del", mock.Anything, "user-1")
}

func TestUnreadCount(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.unreadCount.On("GetByFunc", mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			getter := args.Get(3).(cache.OneTimeGetter)
			res, err := getter()
			assert.NoError(t, err)
			reflect.ValueOf(args.Get(2)).Elem().Set(reflect.ValueOf(res).Elem())
		})
	f.repo.On("Count", mock.Anything, mock.Anything, mock.Anything).Return(3, nil)

	cnt, err := f.uc.UnreadCount(c, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, 3, cnt)
}

func TestMarkRead(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.repo.On("MarkAllRead", mock.Anything, domain.UserId("user-1")).Return(nil)

	err := f.uc.MarkRead(c, "user-1")
	assert.NoError(t, err)
	f.unreadCount.AssertCalled(t, "Del", mock.Anything, "user-1")
}

func TestListCapsLimit(t *testing.T) {
	f := newFixtures()
	c := ctx.Background()

	f.repo.On("FindAll", mock.Anything, mock.Anything, mock.Anything).Return([]*notification.Notification{}, nil)

	items, err := f.uc.List(c, "user-1", 0, 10000)
	assert.NoError(t, err)
	assert.Len(t, items, 0)
}
