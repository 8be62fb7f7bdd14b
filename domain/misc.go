package domain

import "strings"

type SortDir int8

const (
	SortDirAsc  = 1
	SortDirDesc = -1
)

// UserId identifies an account. Identity resolution itself lives in an
// external service, this subsystem only compares ids.
type UserId string

func (u UserId) IsEmpty() bool {
	return len(u) == 0
}

func (u UserId) Equals(o UserId) bool {
	return strings.EqualFold(string(u), string(o))
}

// Table is the mongo collection name
type Table string

const (
	TableListings       Table = "listings"
	TableOffers         Table = "offers"
	TablePriceHistories Table = "price_histories"
	TableMeetups        Table = "meetup_handshakes"
	TableNotifications  Table = "notifications"
)
