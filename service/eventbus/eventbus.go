// Package eventbus publishes domain events to a rabbitmq topic exchange.
// Routing key is the event type, so consumers can bind with patterns like
// "listing.*" or "offer.accepted".
package eventbus

import (
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/log"
	"github.com/localmart/goapi/base/metrics"
	"github.com/localmart/goapi/domain"
)

const (
	exchangeName = "marketplace.events"
	publishTTL   = 5 * time.Second
)

// Service is an EventPublisher with an explicit Close for shutdown
type Service interface {
	domain.EventPublisher
	Close()
}

type impl struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	met     metrics.Service
}

// New dials rabbitmq and declares the events exchange
func New(uri string) (Service, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &impl{
		conn:    conn,
		channel: ch,
		met:     metrics.New("eventbus"),
	}, nil
}

// MustNew panics when the broker is unreachable
func MustNew(uri string) Service {
	pub, err := New(uri)
	if err != nil {
		log.Log().WithFields(log.Fields{"uri": uri, "err": err}).Panic("fail to dial rabbitmq")
	}
	return pub
}

func (im *impl) Publish(c ctx.Ctx, evt *domain.Event) error {
	defer im.met.BumpTime("publish.time", "type", string(evt.Type)).End()

	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}

	body, err := json.Marshal(evt)
	if err != nil {
		c.WithField("err", err).Error("marshal event failed")
		return err
	}

	pubCtx, cancel := ctx.WithTimeout(c, publishTTL)
	defer cancel()

	err = im.channel.PublishWithContext(
		pubCtx,
		exchangeName,
		string(evt.Type),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    evt.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		im.met.BumpSum("publish.err", 1, "type", string(evt.Type))
		c.WithFields(log.Fields{"err": err, "type": evt.Type}).Error("publish event failed")
		return err
	}
	return nil
}

func (im *impl) Close() {
	if im.channel != nil {
		im.channel.Close()
	}
	if im.conn != nil {
		im.conn.Close()
	}
}
