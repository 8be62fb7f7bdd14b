package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/localmart/goapi/base/ctx"
	"github.com/localmart/goapi/base/delivery"
	"github.com/localmart/goapi/domain"
	"github.com/localmart/goapi/domain/notification"
	authMiddleware "github.com/localmart/goapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	notification notification.Usecase
}

func New(
	e *echo.Echo,
	authMiddleware *authMiddleware.AuthMiddleware,
	notification notification.Usecase) {
	h := &handler{notification}

	gs := e.Group("/notifications", authMiddleware.Auth())

	gs.GET("", h.list)

	gs.GET("/unread-count", h.unreadCount)

	gs.POST("/mark-read", h.markRead)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	p := struct {
		Offset int32 `query:"offset"`
		Limit  int32 `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	res, err := h.notification.List(ctx, userId, p.Offset, p.Limit)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) unreadCount(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	cnt, err := h.notification.UnreadCount(ctx, userId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]int{"count": cnt})
}

func (h *handler) markRead(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	userId := c.Get("userId").(domain.UserId)

	if err := h.notification.MarkRead(ctx, userId); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
