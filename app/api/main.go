package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/database/mongoclient"
	"github.com/localmart/goapi/base/database/redisclient"
	"github.com/localmart/goapi/base/log"
	"github.com/localmart/goapi/base/metrics"
	bValidator "github.com/localmart/goapi/base/validator"
	"github.com/localmart/goapi/domain/keys"
	mmiddleware "github.com/localmart/goapi/middleware"
	"github.com/localmart/goapi/service/cache"
	"github.com/localmart/goapi/service/cache/provider"
	compoundprovider "github.com/localmart/goapi/service/cache/provider/compound"
	primitiveprovider "github.com/localmart/goapi/service/cache/provider/primitive"
	redisprovider "github.com/localmart/goapi/service/cache/provider/redis"
	"github.com/localmart/goapi/service/eventbus"
	"github.com/localmart/goapi/service/query"
	"github.com/localmart/goapi/service/redis"
	auth_middleware "github.com/localmart/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/localmart/goapi/stores/auth/usecase"
	boost_delivery "github.com/localmart/goapi/stores/boost/delivery/http"
	boost_usecase "github.com/localmart/goapi/stores/boost/usecase"
	hc_delivery "github.com/localmart/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/localmart/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/localmart/goapi/stores/healthcheck/usecase"
	listing_delivery "github.com/localmart/goapi/stores/listing/delivery/http"
	listing_repository "github.com/localmart/goapi/stores/listing/repository"
	listing_usecase "github.com/localmart/goapi/stores/listing/usecase"
	meetup_delivery "github.com/localmart/goapi/stores/meetup/delivery/http"
	meetup_repository "github.com/localmart/goapi/stores/meetup/repository"
	meetup_usecase "github.com/localmart/goapi/stores/meetup/usecase"
	notification_delivery "github.com/localmart/goapi/stores/notification/delivery/http"
	notification_repository "github.com/localmart/goapi/stores/notification/repository"
	notification_usecase "github.com/localmart/goapi/stores/notification/usecase"
	offer_delivery "github.com/localmart/goapi/stores/offer/delivery/http"
	offer_repository "github.com/localmart/goapi/stores/offer/repository"
	offer_usecase "github.com/localmart/goapi/stores/offer/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	if viper.GetBool("mongo.ensureIndexes") {
		context.Info("ensure indexes")
		for name, ensure := range map[string]func(ctx.Ctx, *mongoclient.Client) error{
			"listing":      listing_repository.EnsureIndexes,
			"offer":        offer_repository.EnsureIndexes,
			"meetup":       meetup_repository.EnsureIndexes,
			"notification": notification_repository.EnsureIndexes,
		} {
			if err := ensure(context, mongoClient); err != nil {
				context.WithField("err", err).WithField("collection", name).Panic("ensure indexes failed")
			}
		}
	}

	// init redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	// init event bus
	context.Info("init event bus")
	bus := eventbus.MustNew(viper.GetString("rabbitmq.uri"))
	defer bus.Close()

	featuredCache := cache.New(cache.ServiceConfig{
		Ttl: 30 * time.Second,
		Pfx: keys.PfxFeatured,
		Cache: compoundprovider.NewCompound([]provider.Provider{
			primitiveprovider.NewPrimitive("featured", 2),
			redisprovider.NewRedis(redisCache),
		}),
	})
	unreadCountCache := cache.New(cache.ServiceConfig{
		Ttl:   time.Minute,
		Pfx:   keys.PfxUnreadCount,
		Cache: redisprovider.NewRedis(redisCache),
	})

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	listingRepo := listing_repository.NewListing(q)
	priceHistoryRepo := listing_repository.NewPriceHistory(q)
	offerRepo := offer_repository.NewOffer(q)
	meetupRepo := meetup_repository.NewMeetup(q)
	notificationRepo := notification_repository.NewNotification(q)

	hc := hc_usecase.New(hcRepo)
	notification := notification_usecase.NewNotification(notificationRepo, unreadCountCache)
	listing := listing_usecase.NewListing(q, listingRepo, priceHistoryRepo, offerRepo, meetupRepo, notification, bus)
	offer := offer_usecase.NewOffer(q, offerRepo, listingRepo, notification, bus)
	boost := boost_usecase.NewBoost(listingRepo, featuredCache, bus)
	meetup := meetup_usecase.NewMeetup(meetupRepo, listingRepo, notification, bus)
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"))

	authMiddleware := auth_middleware.New(auth)

	hc_delivery.New(e, hc)
	listing_delivery.New(e, authMiddleware, listing)
	offer_delivery.New(e, authMiddleware, offer)
	boost_delivery.New(e, authMiddleware, boost)
	meetup_delivery.New(e, authMiddleware, meetup)
	notification_delivery.New(e, authMiddleware, notification)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
