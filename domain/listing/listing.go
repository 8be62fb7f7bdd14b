package listing

import (
	"time"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusSold   Status = "sold"
)

// ExpiryDays is the read-time expiry window. Expiry is never stored, it is
// recomputed from createdAt/renewedAt on every query.
const ExpiryDays = 30

// Boost is a value object embedded in its listing. Whether it is active is
// derived from the stored timestamps, never persisted.
type Boost struct {
	ActivatedAt   time.Time `json:"activatedAt" bson:"activatedAt"`
	DurationHours int32     `json:"durationHours" bson:"durationHours"`
	PaidCents     int64     `json:"paidCents" bson:"paidCents"`
}

func (b *Boost) ExpiresAt() time.Time {
	return b.ActivatedAt.Add(time.Duration(b.DurationHours) * time.Hour)
}

func (b *Boost) IsActive(now time.Time) bool {
	return now.Before(b.ExpiresAt())
}

type Listing struct {
	Id               string         `json:"id" bson:"id"`
	Owner            domain.UserId  `json:"owner" bson:"owner"`
	Title            string         `json:"title" bson:"title"`
	Description      string         `json:"description" bson:"description"`
	PriceCents       int64          `json:"priceCents" bson:"priceCents"`
	Category         string         `json:"category" bson:"category"`
	Condition        string         `json:"condition" bson:"condition"`
	City             string         `json:"city" bson:"city"`
	Zip              string         `json:"zip" bson:"zip"`
	PickupOrShipping string         `json:"pickupOrShipping" bson:"pickupOrShipping"`
	Status           Status         `json:"status" bson:"status"`
	BuyerId          *domain.UserId `json:"buyerId" bson:"buyerId,omitempty"`
	Boost            *Boost         `json:"boost" bson:"boost,omitempty"`
	CreatedAt        time.Time      `json:"createdAt" bson:"createdAt"`
	RenewedAt        *time.Time     `json:"renewedAt" bson:"renewedAt,omitempty"`
	UpdatedAt        time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// ExpiryAnchor is renewedAt when the listing has been renewed, else createdAt.
func (l *Listing) ExpiryAnchor() time.Time {
	if l.RenewedAt != nil {
		return *l.RenewedAt
	}
	return l.CreatedAt
}

func (l *Listing) IsExpired(now time.Time) bool {
	return now.Sub(l.ExpiryAnchor()) > ExpiryDays*24*time.Hour
}

func (l *Listing) IsBoosted(now time.Time) bool {
	return l.Boost != nil && l.Boost.IsActive(now)
}

// Patchable carries owner-editable fields. Nil fields are left untouched.
type Patchable struct {
	Title            *string    `bson:"title,omitempty"`
	Description      *string    `bson:"description,omitempty"`
	PriceCents       *int64     `bson:"priceCents,omitempty"`
	Category         *string    `bson:"category,omitempty"`
	Condition        *string    `bson:"condition,omitempty"`
	City             *string    `bson:"city,omitempty"`
	Zip              *string    `bson:"zip,omitempty"`
	PickupOrShipping *string    `bson:"pickupOrShipping,omitempty"`
	RenewedAt        *time.Time `bson:"renewedAt,omitempty"`
	UpdatedAt        *time.Time `bson:"updatedAt,omitempty"`
}

type selectOptions struct {
	Offset       *int32         `bson:"-"`
	Limit        *int32         `bson:"-"`
	SortBy       *string        `bson:"-"`
	Id           *string        `bson:"id"`
	Ids          []string       `bson:"-"`
	Owner        *domain.UserId `bson:"owner"`
	Buyer        *domain.UserId `bson:"buyerId"`
	Status       *Status        `bson:"status"`
	ActiveAfter  *time.Time     `bson:"-"`
	BoostedAfter *time.Time     `bson:"-"`
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

func WithSort(sortBy string) SelectOptions {
	return func(options *selectOptions) error {
		options.SortBy = &sortBy
		return nil
	}
}

func WithId(id string) SelectOptions {
	return func(options *selectOptions) error {
		options.Id = &id
		return nil
	}
}

func WithIds(ids []string) SelectOptions {
	return func(options *selectOptions) error {
		options.Ids = ids
		return nil
	}
}

func WithOwner(owner domain.UserId) SelectOptions {
	return func(options *selectOptions) error {
		options.Owner = &owner
		return nil
	}
}

func WithBuyer(buyer domain.UserId) SelectOptions {
	return func(options *selectOptions) error {
		options.Buyer = &buyer
		return nil
	}
}

func WithStatus(status Status) SelectOptions {
	return func(options *selectOptions) error {
		options.Status = &status
		return nil
	}
}

// WithActiveAfter restricts to listings whose expiry anchor is after t, i.e.
// the public, non-expired window when t = now-30d.
func WithActiveAfter(t time.Time) SelectOptions {
	return func(options *selectOptions) error {
		options.ActiveAfter = &t
		return nil
	}
}

// WithBoostedAfter restricts to listings whose boost was activated after t.
// Callers still need to re-check Boost.IsActive for exact duration handling.
func WithBoostedAfter(t time.Time) SelectOptions {
	return func(options *selectOptions) error {
		options.BoostedAfter = &t
		return nil
	}
}

type Repo interface {
	FindAll(c ctx.Ctx, opts ...SelectOptions) ([]*Listing, error)
	FindOne(c ctx.Ctx, id string) (*Listing, error)
	Count(c ctx.Ctx, opts ...SelectOptions) (int, error)
	Create(c ctx.Ctx, value *Listing) error
	Patch(c ctx.Ctx, id string, patch Patchable) error
	// PatchUnsold patches the listing unless it is sold, so a concurrent
	// sale cannot mutate a frozen listing. Returns query.ErrNotFound when
	// the listing is sold or missing.
	PatchUnsold(c ctx.Ctx, id string, patch Patchable) error
	// Publish flips draft to active. Returns query.ErrNotFound when the
	// listing is not in draft.
	Publish(c ctx.Ctx, id string) error
	// MarkSold flips active to sold, conditioned on the listing still being
	// active so concurrent sales lose with query.ErrNotFound. A nil buyer
	// records a private, out-of-band sale.
	MarkSold(c ctx.Ctx, id string, buyer *domain.UserId) error
	// MarkAvailable flips sold back to active and clears the buyer.
	MarkAvailable(c ctx.Ctx, id string) error
	// SetBoost attaches a boost, conditioned on the previous boost activation
	// time so overlapping activations lose with query.ErrNotFound. A nil
	// prevActivatedAt requires that no boost has ever been attached.
	SetBoost(c ctx.Ctx, id string, boost Boost, prevActivatedAt *time.Time) error
	Remove(c ctx.Ctx, id string) error
}

type CreatePayload struct {
	Title            string `json:"title" validate:"required"`
	Description      string `json:"description"`
	PriceCents       int64  `json:"priceCents" validate:"required"`
	Category         string `json:"category"`
	Condition        string `json:"condition"`
	City             string `json:"city"`
	Zip              string `json:"zip"`
	PickupOrShipping string `json:"pickupOrShipping"`
	Draft            bool   `json:"draft"`
}

type UpdatePayload struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	PriceCents       *int64  `json:"priceCents"`
	Category         *string `json:"category"`
	Condition        *string `json:"condition"`
	City             *string `json:"city"`
	Zip              *string `json:"zip"`
	PickupOrShipping *string `json:"pickupOrShipping"`
}

type Usecase interface {
	Create(c ctx.Ctx, owner domain.UserId, payload *CreatePayload) (*Listing, error)
	Get(c ctx.Ctx, id string) (*Listing, error)
	Update(c ctx.Ctx, id string, actor domain.UserId, payload *UpdatePayload) (*Listing, error)
	Delete(c ctx.Ctx, id string, actor domain.UserId) error
	Renew(c ctx.Ctx, id string, actor domain.UserId) (*Listing, error)
	Publish(c ctx.Ctx, id string, actor domain.UserId) (*Listing, error)
	MarkSold(c ctx.Ctx, id string, actor domain.UserId, buyer *domain.UserId) (*Listing, error)
	MarkAvailable(c ctx.Ctx, id string, actor domain.UserId) (*Listing, error)
	GetFeed(c ctx.Ctx, offset, limit int32) ([]*Listing, error)
	GetMine(c ctx.Ctx, owner domain.UserId) ([]*Listing, error)
	GetPurchases(c ctx.Ctx, buyer domain.UserId) ([]*Listing, error)
	GetPriceHistory(c ctx.Ctx, id string) ([]*PriceHistory, error)
}
