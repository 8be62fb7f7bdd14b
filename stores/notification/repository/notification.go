package repository

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/database/mongoclient"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/notification"
	"github.com/localmart/goapi/service/query"
)

type notificationImpl struct {
	q query.Mongo
}

func NewNotification(q query.Mongo) notification.Repo {
	return &notificationImpl{q}
}

func EnsureIndexes(c ctx.Ctx, client *mongoclient.Client) error {
	coll := client.Database(client.DbName).Collection(string(domain.TableNotifications))
	_, err := coll.Indexes().CreateMany(c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isRead", Value: 1}},
		},
	})
	return err
}

func (im *notificationImpl) FindAll(c ctx.Ctx, optFns ...notification.SelectOptions) ([]*notification.Notification, error) {
	opts, err := notification.GetSelectOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("notification.GetSelectOptions failed")
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

	res := []*notification.Notification{}
	if err := im.q.Search(c, domain.TableNotifications, offset, limit, "-createdAt", qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *notificationImpl) Count(c ctx.Ctx, optFns ...notification.SelectOptions) (int, error) {
	opts, err := notification.GetSelectOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("notification.GetSelectOptions failed")
		return 0, err
	}

	qry, err := mongoclient.MakeBsonM(opts)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return 0, err
	}

	cnt, err := im.q.Count(c, domain.TableNotifications, qry)
	if err != nil {
		c.WithField("err", err).Error("q.Count failed")
		return 0, err
	}
	return cnt, nil
}

func (im *notificationImpl) Create(c ctx.Ctx, value *notification.Notification) error {
	if err := im.q.Insert(c, domain.TableNotifications, value); err != nil {
		return err
	}
	return nil
}

func (im *notificationImpl) MarkAllRead(c ctx.Ctx, userId domain.UserId) error {
	selector := bson.M{"userId": userId, "isRead": false}
	err := im.q.Patch(c, domain.TableNotifications, selector, bson.M{"isRead": true}, query.WithPatchMany(true))
	if err == query.ErrNotFound {
		// nothing unread
		return nil
	}
	return err
}
