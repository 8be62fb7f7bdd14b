package notification

import (
	"time"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
)

type Notification struct {
	Id        string        `json:"id" bson:"id"`
	UserId    domain.UserId `json:"userId" bson:"userId"`
	ListingId string        `json:"listingId" bson:"listingId,omitempty"`
	Message   string        `json:"message" bson:"message"`
	IsRead    bool          `json:"isRead" bson:"isRead"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

type selectOptions struct {
	Offset *int32         `bson:"-"`
	Limit  *int32         `bson:"-"`
	UserId *domain.UserId `bson:"userId"`
	IsRead *bool          `bson:"isRead,omitempty"`
}

type SelectOptions func(*selectOptions) error

func GetSelectOptions(opts ...SelectOptions) (selectOptions, error) {
	res := selectOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithPagination(offset int32, limit int32) SelectOptions {
	return func(options *selectOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithUser(userId domain.UserId) SelectOptions {
	return func(options *selectOptions) error {
		options.UserId = &userId
		return nil
	}
}

func WithRead(isRead bool) SelectOptions {
	return func(options *selectOptions) error {
		options.IsRead = &isRead
		return nil
	}
}

type Repo interface {
	FindAll(c ctx.Ctx, opts ...SelectOptions) ([]*Notification, error)
	Count(c ctx.Ctx, opts ...SelectOptions) (int, error)
	Create(c ctx.Ctx, value *Notification) error
	MarkAllRead(c ctx.Ctx, userId domain.UserId) error
}

type Usecase interface {
	// Notify records a notification for the user. Failures must not abort
	// the state change that produced them.
	Notify(c ctx.Ctx, userId domain.UserId, listingId, message string) error
	List(c ctx.Ctx, userId domain.UserId, offset, limit int32) ([]*Notification, error)
	UnreadCount(c ctx.Ctx, userId domain.UserId) (int, error)
	MarkRead(c ctx.Ctx, userId domain.UserId) error
}
