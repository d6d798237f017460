// Package admin exposes staff endpoints. Every route requires an admin identity.
package admin

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"campusfood/api/ctxutil"
	"campusfood/api/response"
	adminapp "campusfood/application/admin"
	"campusfood/pkg/errors"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	adminService *adminapp.ApplicationService
}

func NewController(adminService *adminapp.ApplicationService) *Controller {
	return &Controller{adminService: adminService}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup, guards ...gin.HandlerFunc) {
	group := router.Group("/admin", guards...)
	{
		group.GET("/orders", c.ListOrders)
		group.GET("/orders/:id", c.GetOrder)
		group.PUT("/orders/:id/status", c.UpdateOrderStatus)
		group.DELETE("/orders/:id", c.DeleteOrder)

		group.GET("/menu", c.ListMenu)
		group.POST("/menu", c.CreateMenuItem)
		group.PUT("/menu/:id", c.UpdateMenuItem)
		group.DELETE("/menu/:id", c.DeleteMenuItem)

		group.GET("/stats", c.Dashboard)
		group.GET("/stats/revenue", c.Revenue)
		group.GET("/stats/top-items", c.TopItems)
	}
}

func (c *Controller) ListOrders(ctx *gin.Context) {
	var q adminapp.OrdersQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.HandleError(ctx, err, "invalid query parameters", http.StatusBadRequest)
		return
	}

	orders, err := c.adminService.ListOrders(ctxutil.WithRequestID(ctx), q)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "orders retrieved successfully")
}

func (c *Controller) GetOrder(ctx *gin.Context) {
	id, err := ctxutil.ParamID(ctx, "id")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	o, err := c.adminService.GetOrder(ctxutil.WithRequestID(ctx), id)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, o, "order retrieved successfully")
}

// UpdateOrderStatus PUT /api/admin/orders/:id/status
func (c *Controller) UpdateOrderStatus(ctx *gin.Context) {
	id, err := ctxutil.ParamID(ctx, "id")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	var req adminapp.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	o, err := c.adminService.UpdateOrderStatus(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), id, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, o, "order status updated successfully")
}

func (c *Controller) DeleteOrder(ctx *gin.Context) {
	id, err := ctxutil.ParamID(ctx, "id")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	if err := c.adminService.DeleteOrder(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), id); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleMessage(ctx, "order deleted successfully")
}

func (c *Controller) ListMenu(ctx *gin.Context) {
	items, err := c.adminService.ListMenu(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, items, "menu items retrieved successfully")
}

func (c *Controller) CreateMenuItem(ctx *gin.Context) {
	var req adminapp.CreateMenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := c.adminService.CreateMenuItem(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, item, "menu item created successfully")
}

func (c *Controller) UpdateMenuItem(ctx *gin.Context) {
	id, err := ctxutil.ParamID(ctx, "id")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	var req adminapp.UpdateMenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := c.adminService.UpdateMenuItem(ctxutil.WithRequestID(ctx), id, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, item, "menu item updated successfully")
}

func (c *Controller) DeleteMenuItem(ctx *gin.Context) {
	id, err := ctxutil.ParamID(ctx, "id")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	if err := c.adminService.DeleteMenuItem(ctxutil.WithRequestID(ctx), id); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleMessage(ctx, "menu item deleted successfully")
}

func (c *Controller) Dashboard(ctx *gin.Context) {
	stats, err := c.adminService.Dashboard(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, stats, "statistics retrieved successfully")
}

// Revenue GET /api/admin/stats/revenue?start_date=&end_date=
func (c *Controller) Revenue(ctx *gin.Context) {
	var q adminapp.RevenueQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.HandleError(ctx, err, "invalid query parameters", http.StatusBadRequest)
		return
	}

	days, err := c.adminService.Revenue(ctxutil.WithRequestID(ctx), q)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, days, "revenue retrieved successfully")
}

// TopItems GET /api/admin/stats/top-items?limit=
func (c *Controller) TopItems(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.HandleAppError(ctx, errors.BadRequest("limit must be an integer"))
			return
		}
		limit = n
	}

	items, err := c.adminService.TopItems(ctxutil.WithRequestID(ctx), limit)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, items, "top items retrieved successfully")
}
