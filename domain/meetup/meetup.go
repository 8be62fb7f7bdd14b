package meetup

import (
	"time"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
)

type Role string

const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// Handshake is the two-party confirmation that closes out a sold listing.
// Confirmations are monotonic booleans, completion is derived.
type Handshake struct {
	Token           string        `json:"token" bson:"token"`
	ListingId       string        `json:"listingId" bson:"listingId"`
	Seller          domain.UserId `json:"seller" bson:"seller"`
	Buyer           domain.UserId `json:"buyer" bson:"buyer"`
	SellerConfirmed bool          `json:"sellerConfirmed" bson:"sellerConfirmed"`
	BuyerConfirmed  bool          `json:"buyerConfirmed" bson:"buyerConfirmed"`
	CreatedAt       time.Time     `json:"createdAt" bson:"createdAt"`
}

func (h *Handshake) Completed() bool {
	return h.SellerConfirmed && h.BuyerConfirmed
}

// RoleOf resolves which side of the handshake the actor is on.
func (h *Handshake) RoleOf(actor domain.UserId) (Role, bool) {
	switch {
	case h.Seller.Equals(actor):
		return RoleSeller, true
	case h.Buyer.Equals(actor):
		return RoleBuyer, true
	}
	return "", false
}

type Repo interface {
	FindByToken(c ctx.Ctx, token string) (*Handshake, error)
	FindByListing(c ctx.Ctx, listingId string) (*Handshake, error)
	// Create inserts the handshake. Returns query.ErrDuplicateKey when one
	// already exists for the listing.
	Create(c ctx.Ctx, value *Handshake) error
	// Confirm sets the given side's flag to true. Setting an already-true
	// flag is a no-op by construction.
	Confirm(c ctx.Ctx, token string, role Role) error
	RemoveByListing(c ctx.Ctx, listingId string) error
}

type ConfirmResult struct {
	SellerConfirmed bool `json:"sellerConfirmed"`
	BuyerConfirmed  bool `json:"buyerConfirmed"`
	Completed       bool `json:"completed"`
}

type Usecase interface {
	// Issue returns the handshake for a sold listing, creating it on first
	// request. Repeated calls return the same token.
	Issue(c ctx.Ctx, actor domain.UserId, listingId string) (*Handshake, error)
	Confirm(c ctx.Ctx, actor domain.UserId, token string) (*ConfirmResult, error)
}
