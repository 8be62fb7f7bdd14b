package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/delivery"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/boost"
	authMiddleware "github.com/localmart/goapi/stores/auth/delivery/http/middleware"
)

const featuredMaxLimit = 50

type handler struct {
	boost boost.Usecase
}

func New(
	e *echo.Echo,
	authMiddleware *authMiddleware.AuthMiddleware,
	boost boost.Usecase) {
	h := &handler{boost}

	gs := e.Group("/boosts")

	gs.GET("/durations", h.getDurations)

	gs.GET("/featured", h.getFeatured)

	gs.POST("/activate", h.activate, authMiddleware.Auth())
}

func (h *handler) getDurations(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	return delivery.MakeJsonResp(c, http.StatusOK, h.boost.Durations(ctx))
}

func (h *handler) getFeatured(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Limit int32 `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	if p.Limit <= 0 || p.Limit > featuredMaxLimit {
		p.Limit = featuredMaxLimit
	}

	res, err := h.boost.Featured(ctx, p.Limit)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) activate(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	p := struct {
		ListingId string `json:"listingId" validate:"required"`
		Hours     int32  `json:"hours" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.boost.Activate(ctx, userId, p.ListingId, p.Hours)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
