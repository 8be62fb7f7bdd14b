package offer

import (
	"time"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCountered Status = "countered"
)

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// IsOpen reports whether the offer still awaits a decision.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusCountered
}

type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
	ActionCounter Action = "counter"
)

func ToAction(name string) (Action, bool) {
	switch Action(name) {
	case ActionAccept:
		return ActionAccept, true
	case ActionDecline:
		return ActionDecline, true
	case ActionCounter:
		return ActionCounter, true
	}
	return "", false
}

type Offer struct {
	Id           string        `json:"id" bson:"id"`
	ListingId    string        `json:"listingId" bson:"listingId"`
	Buyer        domain.UserId `json:"buyer" bson:"buyer"`
	Seller       domain.UserId `json:"seller" bson:"seller"`
	AmountCents  int64         `json:"amountCents" bson:"amountCents"`
	CounterCents *int64        `json:"counterCents" bson:"counterCents,omitempty"`
	Status       Status        `json:"status" bson:"status"`

	// IsOpen mirrors Status.IsOpen. It is stored so the partial unique index
	// on (listingId, buyer) can enforce one open offer per buyer at the data
	// layer. Status stays the source of truth for the state machine.
	IsOpen bool `json:"-" bson:"isOpen"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// AcceptedCents is the price the deal closes at. The counter price binds
// only when the buyer is the one taking it; a seller accepting a countered
// offer resolves at the buyer's original amount. The listing's own price is
// never mutated by an offer.
func (o *Offer) AcceptedCents(actor domain.UserId) int64 {
	if o.Buyer.Equals(actor) && o.Status == StatusCountered && o.CounterCents != nil {
		return *o.CounterCents
	}
	return o.AmountCents
}

type selectOptions struct {
	Offset    *int32         `bson:"-"`
	Limit     *int32         `bson:"-"`
	Id        *string        `bson:"id"`
	ListingId *string        `bson:"listingId"`
	Buyer     *domain.UserId `bson:"buyer"`
	Seller    *domain.UserId `bson:"seller"`
	Status    *Status        `bson:"status"`
	IsOpen    *bool          `bson:"isOpen,omitempty"`
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

func WithListing(listingId string) SelectOptions {
	return func(options *selectOptions) error {
		options.ListingId = &listingId
		return nil
	}
}

func WithBuyer(buyer domain.UserId) SelectOptions {
	return func(options *selectOptions) error {
		options.Buyer = &buyer
		return nil
	}
}

func WithSeller(seller domain.UserId) SelectOptions {
	return func(options *selectOptions) error {
		options.Seller = &seller
		return nil
	}
}

func WithStatus(status Status) SelectOptions {
	return func(options *selectOptions) error {
		options.Status = &status
		return nil
	}
}

func WithOpen(open bool) SelectOptions {
	return func(options *selectOptions) error {
		options.IsOpen = &open
		return nil
	}
}

type Repo interface {
	FindAll(c ctx.Ctx, opts ...SelectOptions) ([]*Offer, error)
	FindOne(c ctx.Ctx, id string) (*Offer, error)
	Count(c ctx.Ctx, opts ...SelectOptions) (int, error)
	// Create inserts the offer. Returns query.ErrDuplicateKey when the buyer
	// already holds an open offer on the listing.
	Create(c ctx.Ctx, value *Offer) error
	// UpdateStatus moves the offer from one of the given states, so a
	// concurrent transition loses with query.ErrNotFound.
	UpdateStatus(c ctx.Ctx, id string, from []Status, to Status, counterCents *int64) error
	// DeclineSiblings declines every open offer on the listing except the
	// accepted one.
	DeclineSiblings(c ctx.Ctx, listingId, exceptId string) error
	RemoveByListing(c ctx.Ctx, listingId string) error
}

type Usecase interface {
	Propose(c ctx.Ctx, buyer domain.UserId, listingId string, amountCents int64) (*Offer, error)
	// Respond applies a seller action on an open offer, or a buyer
	// accept/decline of a counter. counterCents is required for counter.
	Respond(c ctx.Ctx, actor domain.UserId, offerId string, action Action, counterCents *int64) (*Offer, error)
	// ListByListing returns all offers for the owner, own offers for a buyer.
	ListByListing(c ctx.Ctx, actor domain.UserId, listingId string) ([]*Offer, error)
}
