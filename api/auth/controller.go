// Package auth exposes registration, login and the caller's profile.
package auth

import (
	"net/http"

	"campusfood/api/ctxutil"
	"campusfood/api/response"
	authapp "campusfood/application/auth"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	authService *authapp.ApplicationService
}

func NewController(authService *authapp.ApplicationService) *Controller {
	return &Controller{authService: authService}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup, requireIdentity gin.HandlerFunc) {
	group := router.Group("/auth")
	{
		group.POST("/register", c.Register)
		group.POST("/login", c.Login)
		group.GET("/profile", requireIdentity, c.Profile)
		group.PUT("/profile", requireIdentity, c.UpdateProfile)
		group.PUT("/change-password", requireIdentity, c.ChangePassword)
	}
}

// Register POST /api/auth/register
func (c *Controller) Register(ctx *gin.Context) {
	var req authapp.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := c.authService.Register(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, resp, "user registered successfully")
}

// Login POST /api/auth/login
func (c *Controller) Login(ctx *gin.Context) {
	var req authapp.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := c.authService.Login(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, resp, "login successful")
}

func (c *Controller) Profile(ctx *gin.Context) {
	profile, err := c.authService.Profile(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, profile, "profile retrieved successfully")
}

func (c *Controller) UpdateProfile(ctx *gin.Context) {
	var req authapp.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := c.authService.UpdateProfile(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, profile, "profile updated successfully")
}

func (c *Controller) ChangePassword(ctx *gin.Context) {
	var req authapp.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.authService.ChangePassword(ctxutil.WithRequestID(ctx), ctxutil.UserID(ctx), req); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleMessage(ctx, "password changed successfully")
}
