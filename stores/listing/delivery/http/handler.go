package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/delivery"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/listing"
	"github.com/localmart/goapi/middleware"
	authMiddleware "github.com/localmart/goapi/stores/auth/delivery/http/middleware"
)

const feedMaxLimit = 100

type handler struct {
	listing listing.Usecase
}

func New(
	e *echo.Echo,
	authMiddleware *authMiddleware.AuthMiddleware,
	listing listing.Usecase) {
	h := &handler{listing}

	gs := e.Group("/listings")

	gs.GET("", h.getFeed)

	gs.GET("/mine", h.getMine, authMiddleware.Auth())

	gs.GET("/purchases", h.getPurchases, authMiddleware.Auth())

	gs.POST("", h.create, authMiddleware.Auth())

	g := e.Group("/listings/:id", middleware.IsValidId("id"))

	g.GET("", h.get)

	g.PUT("", h.update, authMiddleware.Auth())

	g.DELETE("", h.delete, authMiddleware.Auth())

	g.POST("/publish", h.publish, authMiddleware.Auth())

	g.POST("/renew", h.renew, authMiddleware.Auth())

	g.POST("/mark-sold", h.markSold, authMiddleware.Auth())

	g.POST("/mark-available", h.markAvailable, authMiddleware.Auth())

	g.GET("/price-history", h.getPriceHistory)
}

func (h *handler) getFeed(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Offset int32 `query:"offset"`
		Limit  int32 `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if p.Limit <= 0 || p.Limit > feedMaxLimit {
		p.Limit = feedMaxLimit
	}

	res, err := h.listing.GetFeed(ctx, p.Offset, p.Limit)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getMine(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	res, err := h.listing.GetMine(ctx, userId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getPurchases(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	res, err := h.listing.GetPurchases(ctx, userId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	p := &listing.CreatePayload{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.Create(ctx, userId, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.listing.Get(ctx, c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	p := &listing.UpdatePayload{}

	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.Update(ctx, c.Param("id"), userId, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	if err := h.listing.Delete(ctx, c.Param("id"), userId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) publish(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	res, err := h.listing.Publish(ctx, c.Param("id"), userId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) renew(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	res, err := h.listing.Renew(ctx, c.Param("id"), userId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) markSold(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	p := struct {
		BuyerId *domain.UserId `json:"buyerId"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listing.MarkSold(ctx, c.Param("id"), userId, p.BuyerId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) markAvailable(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	res, err := h.listing.MarkAvailable(ctx, c.Param("id"), userId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getPriceHistory(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.listing.GetPriceHistory(ctx, c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
