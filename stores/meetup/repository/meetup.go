package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/database/mongoclient"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/meetup"
	"github.com/localmart/goapi/service/query"
)

type meetupImpl struct {
	q query.Mongo
}

func NewMeetup(q query.Mongo) meetup.Repo {
	return &meetupImpl{q}
}

// EnsureIndexes creates the handshake indexes. The unique listingId index
// keeps the handshake one-per-listing even under concurrent issuance.
func EnsureIndexes(c ctx.Ctx, client *mongoclient.Client) error {
	coll := client.Database(client.DbName).Collection(string(domain.TableMeetups))
	_, err := coll.Indexes().CreateMany(c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "listingId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func (im *meetupImpl) FindByToken(c ctx.Ctx, token string) (*meetup.Handshake, error) {
	res := &meetup.Handshake{}
	if err := im.q.FindOne(c, domain.TableMeetups, bson.M{"token": token}, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *meetupImpl) FindByListing(c ctx.Ctx, listingId string) (*meetup.Handshake, error) {
	res := &meetup.Handshake{}
	if err := im.q.FindOne(c, domain.TableMeetups, bson.M{"listingId": listingId}, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (im *meetupImpl) Create(c ctx.Ctx, value *meetup.Handshake) error {
	if err := im.q.Insert(c, domain.TableMeetups, value); err != nil {
		return err
	}
	return nil
}

func (im *meetupImpl) Confirm(c ctx.Ctx, token string, role meetup.Role) error {
	field := "sellerConfirmed"
	if role == meetup.RoleBuyer {
		field = "buyerConfirmed"
	}
	return im.q.CustomPatch(c, domain.TableMeetups, bson.M{"token": token}, bson.M{"$set": bson.M{field: true}}, false)
}

func (im *meetupImpl) RemoveByListing(c ctx.Ctx, listingId string) error {
	if _, err := im.q.RemoveAll(c, domain.TableMeetups, bson.M{"listingId": listingId}); err != nil {
		return err
	}
	return nil
}
