/*
Package order exposes the caller's own orders.

Binding failures reply 400 through response.HandleError; everything the
application service returns goes through response.HandleAppError.
*/
package order

import (
	stderrors "errors"
	"io"
	"net/http"

	"campusfood/api/ctxutil"
	"campusfood/api/response"
	orderapp "campusfood/application/order"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	orderService *orderapp.ApplicationService
}

func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{orderService: orderService}
}

// RegisterRoutes mounts /orders behind requireIdentity.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup, requireIdentity gin.HandlerFunc) {
	group := router.Group("/orders", requireIdentity)
	{
		group.POST("", c.PlaceOrder)
		group.GET("", c.ListOrders)
		group.GET("/meta/stats", c.Stats)
		group.GET("/:id", c.GetOrder)
		group.DELETE("/:id", c.CancelOrder)
	}
}

// PlaceOrder POST /api/orders
func (c *Controller) PlaceOrder(ctx *gin.Context) {
	var req orderapp.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	placed, err := c.orderService.PlaceOrder(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, placed, "order placed successfully")
}

// ListOrders GET /api/orders?status=&limit=
func (c *Controller) ListOrders(ctx *gin.Context) {
	var q orderapp.ListOrdersQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.HandleError(ctx, err, "invalid query parameters", http.StatusBadRequest)
		return
	}

	orders, err := c.orderService.ListOrders(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), q)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "orders retrieved successfully")
}

// GetOrder GET /api/orders/:id; another user's order is reported as not found.
func (c *Controller) GetOrder(ctx *gin.Context) {
	id, err := ctxutil.ParamID(ctx, "id")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	o, err := c.orderService.GetOrder(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), id)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, o, "order retrieved successfully")
}

// CancelOrder DELETE /api/orders/:id
func (c *Controller) CancelOrder(ctx *gin.Context) {
	id, err := ctxutil.ParamID(ctx, "id")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	if err := c.orderService.CancelOrder(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), id); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleMessage(ctx, "order cancelled successfully")
}

// Stats GET /api/orders/meta/stats
func (c *Controller) Stats(ctx *gin.Context) {
	stats, err := c.orderService.Stats(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, stats, "order statistics retrieved successfully")
}
