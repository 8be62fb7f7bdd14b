package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/delivery"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/offer"
	"github.com/localmart/goapi/middleware"
	authMiddleware "github.com/localmart/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	offer offer.Usecase
}

func New(
	e *echo.Echo,
	authMiddleware *authMiddleware.AuthMiddleware,
	offer offer.Usecase) {
	h := &handler{offer}

	gs := e.Group("/offers", authMiddleware.Auth())

	gs.POST("", h.propose)

	gs.GET("/listing/:listingId", h.listByListing, middleware.IsValidId("listingId"))

	gs.POST("/:id/respond", h.respond, middleware.IsValidId("id"))
}

func (h *handler) propose(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	p := struct {
		ListingId   string `json:"listingId" validate:"required"`
		AmountCents int64  `json:"amountCents" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.offer.Propose(ctx, userId, p.ListingId, p.AmountCents)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) listByListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	res, err := h.offer.ListByListing(ctx, userId, c.Param("listingId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) respond(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	p := struct {
		Action       string `json:"action" validate:"required"`
		CounterCents *int64 `json:"counterCents"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	action, ok := offer.ToAction(p.Action)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid action")
	}

	res, err := h.offer.Respond(ctx, userId, c.Param("id"), action, p.CounterCents)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
