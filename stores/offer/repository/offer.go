package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/database/mongoclient"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/offer"
	"github.com/localmart/goapi/service/query"
)

type offerImpl struct {
	q query.Mongo
}

func NewOffer(q query.Mongo) offer.Repo {
	return &offerImpl{q}
}

// EnsureIndexes creates the offer indexes. The partial unique index on
// (listingId, buyer) where isOpen is the data-layer guard against a buyer
// holding two open offers on the same listing.
func EnsureIndexes(c ctx.Ctx, client *mongoclient.Client) error {
	coll := client.Database(client.DbName).Collection(string(domain.TableOffers))
	_, err := coll.Indexes().CreateMany(c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "listingId", Value: 1}, {Key: "buyer", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isOpen": true}),
		},
		{
			Keys: bson.D{{Key: "listingId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "buyer", Value: 1}},
		},
	})
	return err
}

func (im *offerImpl) FindAll(c ctx.Ctx, optFns ...offer.SelectOptions) ([]*offer.Offer, error) {
	opts, err := offer.GetSelectOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("offer.GetSelectOptions failed")
		return nil, err
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}

	res := []*offer.Offer{}
	if err := im.q.Search(c, domain.TableOffers, offset, limit, "-createdAt", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *offerImpl) FindOne(c ctx.Ctx, id string) (*offer.Offer, error) {
	res := &offer.Offer{}
	if err := im.q.FindOne(c, domain.TableOffers, bson.M{"id": id}, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *offerImpl) Count(c ctx.Ctx, optFns ...offer.SelectOptions) (int, error) {
	opts, err := offer.GetSelectOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("offer.GetSelectOptions failed")
		return 0, err
	}

	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return 0, err
	}

	cnt, err := im.q.Count(c, domain.TableOffers, qry)
	if err != nil {
		c.WithField("err", err).Error("q.Count failed")
		return 0, err
	}
	return cnt, nil
}

func (im *offerImpl) Create(c ctx.Ctx, value *offer.Offer) error {
	if err := im.q.Insert(c, domain.TableOffers, value); err != nil {
		return err
	}
	return nil
}

func (im *offerImpl) UpdateStatus(c ctx.Ctx, id string, from []offer.Status, to offer.Status, counterCents *int64) error {
	selector := bson.M{"id": id, "status": bson.M{"$in": from}}
	set := bson.M{
		"status":    to,
		"isOpen":    to.IsOpen(),
		"updatedAt": time.Now(),
	}
	if counterCents != nil {
		set["counterCents"] = *counterCents
	}
	return im.q.CustomPatch(c, domain.TableOffers, selector, bson.M{"$set": set}, false)
}

func (im *offerImpl) DeclineSiblings(c ctx.Ctx, listingId, exceptId string) error {
	selector := bson.M{
		"listingId": listingId,
		"isOpen":    true,
		"id":        bson.M{"$ne": exceptId},
	}
	update := bson.M{
		"status":    offer.StatusDeclined,
		"isOpen":    false,
		"updatedAt": time.Now(),
	}
	err := im.q.Patch(c, domain.TableOffers, selector, update, query.WithPatchMany(true))
	if err == query.ErrNotFound {
		// no open siblings to decline
		return nil
	}
	return err
}

func (im *offerImpl) RemoveByListing(c ctx.Ctx, listingId string) error {
	if _, err := im.q.RemoveAll(c, domain.TableOffers, bson.M{"listingId": listingId}); err != nil {
		return err
	}
	return nil
}
