package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/database/mongoclient"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/listing"
	"github.com/localmart/goapi/service/query"
)

type listingImpl struct {
	q query.Mongo
}

func NewListing(q query.Mongo) listing.Repo {
	return &listingImpl{q}
}

// EnsureIndexes creates the indexes the listing queries rely on.
func EnsureIndexes(c ctx.Ctx, client *mongoclient.Client) error {
	coll := client.Database(client.DbName).Collection(string(domain.TableListings))
	_, err := coll.Indexes().CreateMany(c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "owner", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "buyerId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "boost.activatedAt", Value: -1}},
		},
	})
	return err
}

func (im *listingImpl) makeQuery(c ctx.Ctx, optFns ...listing.SelectOptions) (bson.M, listingQueryMeta, error) {
	meta := listingQueryMeta{offset: 0, limit: 0, sort: "-createdAt"}

	opts, err := listing.GetSelectOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("listing.GetSelectOptions failed")
		return nil, meta, err
	}

	if opts.Offset != nil {
		meta.offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		meta.limit = int(*opts.Limit)
	}
	if opts.SortBy != nil {
		meta.sort = *opts.SortBy
	}

	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return nil, meta, err
	}

	if len(opts.Ids) > 0 {
		qry["id"] = bson.M{"$in": opts.Ids}
	}
	if opts.ActiveAfter != nil {
		// expiry anchor is renewedAt when present, else createdAt
		qry["$or"] = []bson.M{
			{"renewedAt": bson.M{"$gt": opts.ActiveAfter}},
			{"renewedAt": bson.M{"$exists": false}, "createdAt": bson.M{"$gt": opts.ActiveAfter}},
		}
	}
	if opts.BoostedAfter != nil {
		qry["boost.activatedAt"] = bson.M{"$gt": opts.BoostedAfter}
	}

	return qry, meta, nil
}

type listingQueryMeta struct {
	offset int
	limit  int
	sort   string
}

func (im *listingImpl) FindAll(c ctx.Ctx, optFns ...listing.SelectOptions) ([]*listing.Listing, error) {
	qry, meta, err := im.makeQuery(c, optFns...)
	if err != nil {
		return nil, err
	}

	res := []*listing.Listing{}
	if err := im.q.Search(c, domain.TableListings, meta.offset, meta.limit, meta.sort, qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *listingImpl) FindOne(c ctx.Ctx, id string) (*listing.Listing, error) {
	res := &listing.Listing{}
	if err := im.q.FindOne(c, domain.TableListings, bson.M{"id": id}, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *listingImpl) Count(c ctx.Ctx, optFns ...listing.SelectOptions) (int, error) {
	qry, _, err := im.makeQuery(c, optFns...)
	if err != nil {
		return 0, err
	}

	cnt, err := im.q.Count(c, domain.TableListings, qry)
	if err != nil {
		c.WithField("err", err).Error("q.Count failed")
		return 0, err
	}
	return cnt, nil
}

func (im *listingImpl) Create(c ctx.Ctx, value *listing.Listing) error {
	if err := im.q.Insert(c, domain.TableListings, value); err != nil {
		return err
	}
	return nil
}

func (im *listingImpl) Patch(c ctx.Ctx, id string, patch listing.Patchable) error {
	if err := im.q.Patch(c, domain.TableListings, bson.M{"id": id}, patch); err != nil {
		return err
	}
	return nil
}

func (im *listingImpl) PatchUnsold(c ctx.Ctx, id string, patch listing.Patchable) error {
	// keyed on status so a sale that lands between the read and this write
	// leaves the frozen listing untouched
	selector := bson.M{"id": id, "status": bson.M{"$ne": listing.StatusSold}}
	if err := im.q.Patch(c, domain.TableListings, selector, patch); err != nil {
		return err
	}
	return nil
}

func (im *listingImpl) Publish(c ctx.Ctx, id string) error {
	selector := bson.M{"id": id, "status": listing.StatusDraft}
	update := bson.M{"$set": bson.M{
		"status":    listing.StatusActive,
		"updatedAt": time.Now(),
	}}
	return im.q.CustomPatch(c, domain.TableListings, selector, update, false)
}

func (im *listingImpl) MarkSold(c ctx.Ctx, id string, buyer *domain.UserId) error {
	// keyed on status so the losing concurrent sale gets ErrNotFound
	selector := bson.M{"id": id, "status": listing.StatusActive}
	set := bson.M{
		"status":    listing.StatusSold,
		"updatedAt": time.Now(),
	}
	update := bson.M{"$set": set}
	if buyer != nil {
		set["buyerId"] = *buyer
	} else {
		update["$unset"] = bson.M{"buyerId": ""}
	}
	return im.q.CustomPatch(c, domain.TableListings, selector, update, false)
}

func (im *listingImpl) MarkAvailable(c ctx.Ctx, id string) error {
	selector := bson.M{"id": id, "status": listing.StatusSold}
	update := bson.M{
		"$set": bson.M{
			"status":    listing.StatusActive,
			"updatedAt": time.Now(),
		},
		"$unset": bson.M{"buyerId": ""},
	}
	return im.q.CustomPatch(c, domain.TableListings, selector, update, false)
}

func (im *listingImpl) SetBoost(c ctx.Ctx, id string, boost listing.Boost, prevActivatedAt *time.Time) error {
	selector := bson.M{"id": id, "status": listing.StatusActive}
	if prevActivatedAt != nil {
		// lose against a concurrent activation of the same slot
		selector["boost.activatedAt"] = *prevActivatedAt
	} else {
		selector["boost"] = bson.M{"$exists": false}
	}
	update := bson.M{"$set": bson.M{
		"boost":     boost,
		"updatedAt": time.Now(),
	}}
	return im.q.CustomPatch(c, domain.TableListings, selector, update, false)
}

func (im *listingImpl) Remove(c ctx.Ctx, id string) error {
	if err := im.q.Remove(c, domain.TableListings, bson.M{"id": id}); err != nil {
		return err
	}
	return nil
}
