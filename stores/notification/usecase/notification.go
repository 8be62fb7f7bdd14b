package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/notification"
	"github.com/localmart/goapi/service/cache"
)

const listMaxLimit = 100

type notificationImpl struct {
	notification notification.Repo
	unreadCount  cache.Service
}

func NewNotification(notificationRepo notification.Repo, unreadCount cache.Service) notification.Usecase {
	return &notificationImpl{
		notification: notificationRepo,
		unreadCount:  unreadCount,
	}
}

func (im *notificationImpl) Notify(c ctx.Ctx, userId domain.UserId, listingId, message string) error {
	id, err := uuid.NewRandom()
	if err != nil {
		c.WithField("err", err).Error("failed to uuid.NewRandom")
		return err
	}

	n := &notification.Notification{
		Id:        id.String(),
		UserId:    userId,
		ListingId: listingId,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := im.notification.Create(c, n); err != nil {
		c.WithField("err", err).Error("notification.Create failed")
		return err
	}

	im.invalidateCount(c, userId)
	return nil
}

func (im *notificationImpl) List(c ctx.Ctx, userId domain.UserId, offset, limit int32) ([]*notification.Notification, error) {
	if limit <= 0 || limit > listMaxLimit {
		limit = listMaxLimit
	}

	items, err := im.notification.FindAll(c,
		notification.WithUser(userId),
		notification.WithPagination(offset, limit),
	)
	if err != nil {
		c.WithField("err", err).Error("notification.FindAll failed")
		return nil, err
	}
	return items, nil
}

func (im *notificationImpl) UnreadCount(c ctx.Ctx, userId domain.UserId) (int, error) {
	cnt := 0
	err := im.unreadCount.GetByFunc(c, string(userId), &cnt, func() (interface{}, error) {
		n, err := im.notification.Count(c, notification.WithUser(userId), notification.WithRead(false))
		return &n, err
	})
	if err != nil {
		c.WithField("err", err).Error("unread count GetByFunc failed")
		return 0, err
	}
	return cnt, nil
}

func (im *notificationImpl) MarkRead(c ctx.Ctx, userId domain.UserId) error {
	if err := im.notification.MarkAllRead(c, userId); err != nil {
		c.WithField("err", err).Error("notification.MarkAllRead failed")
		return err
	}

	im.invalidateCount(c, userId)
	return nil
}

func (im *notificationImpl) invalidateCount(c ctx.Ctx, userId domain.UserId) {
	if err := im.unreadCount.Del(c, string(userId)); err != nil && err != cache.ErrNotFound {
		c.WithField("err", err).Warn("unread count cache invalidation failed")
	}
}
