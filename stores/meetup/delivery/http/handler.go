package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/delivery"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/meetup"
	"github.com/localmart/goapi/middleware"
	authMiddleware "github.com/localmart/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	meetup meetup.Usecase
}

func New(
	e *echo.Echo,
	authMiddleware *authMiddleware.AuthMiddleware,
	meetup meetup.Usecase) {
	h := &handler{meetup}

	gs := e.Group("/meetups", authMiddleware.Auth())

	gs.POST("/listing/:listingId", h.issue, middleware.IsValidId("listingId"))

	gs.POST("/confirm/:token", h.confirm)
}

func (h *handler) issue(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	res, err := h.meetup.Issue(ctx, userId, c.Param("listingId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) confirm(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	res, err := h.meetup.Confirm(ctx, userId, c.Param("token"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
