// Package menu exposes the public catalog.
package menu

import (
	"net/http"

	"campusfood/api/ctxutil"
	"campusfood/api/response"
	menuapp "campusfood/application/menu"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	menuService *menuapp.ApplicationService
}

func NewController(menuService *menuapp.ApplicationService) *Controller {
	return &Controller{menuService: menuService}
}

// RegisterRoutes mounts /menu. The popular listing identifies the caller when
// a token is present but does not require one.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup, optionalIdentity gin.HandlerFunc) {
	group := router.Group("/menu")
	{
		group.GET("", c.List)
		group.GET("/meta/categories", c.Categories)
		group.GET("/meta/popular", optionalIdentity, c.Popular)
		group.GET("/category/:category", c.ByCategory)
		group.GET("/:id", c.Get)
	}
}

// List GET /api/menu?category=&available=&search=
func (c *Controller) List(ctx *gin.Context) {
	var q menuapp.ListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.HandleError(ctx, err, "invalid query parameters", http.StatusBadRequest)
		return
	}

	items, err := c.menuService.List(ctxutil.WithRequestID(ctx), q)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, items, "menu items retrieved successfully")
}

func (c *Controller) Get(ctx *gin.Context) {
	id, err := ctxutil.ParamID(ctx, "id")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	item, err := c.menuService.Get(ctxutil.WithRequestID(ctx), id)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, item, "menu item retrieved successfully")
}

func (c *Controller) ByCategory(ctx *gin.Context) {
	items, err := c.menuService.ByCategory(ctxutil.WithRequestID(ctx), ctx.Param("category"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, items, "menu items retrieved successfully")
}

func (c *Controller) Categories(ctx *gin.Context) {
	categories, err := c.menuService.Categories(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, categories, "categories retrieved successfully")
}

func (c *Controller) Popular(ctx *gin.Context) {
	items, err := c.menuService.Popular(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, items, "popular items retrieved successfully")
}
