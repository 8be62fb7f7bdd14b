package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/listing"
	"github.com/localmart/goapi/service/query"
)

type priceHistoryImpl struct {
	q query.Mongo
}

func NewPriceHistory(q query.Mongo) listing.PriceHistoryRepo {
	return &priceHistoryImpl{q}
}

func (im *priceHistoryImpl) Create(c ctx.Ctx, value *listing.PriceHistory) error {
	if err := im.q.Insert(c, domain.TablePriceHistories, value); err != nil {
		return err
	}
	return nil
}

func (im *priceHistoryImpl) FindAll(c ctx.Ctx, listingId string) ([]*listing.PriceHistory, error) {
	res := []*listing.PriceHistory{}
	qry := bson.M{"listingId": listingId}
	if err := im.q.Search(c, domain.TablePriceHistories, 0, 0, "changedAt", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *priceHistoryImpl) RemoveByListing(c ctx.Ctx, listingId string) error {
	if _, err := im.q.RemoveAll(c, domain.TablePriceHistories, bson.M{"listingId": listingId}); err != nil {
		return err
	}
	return nil
}
