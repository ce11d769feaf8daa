// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"multimusic/internal/delivery/http/middleware"
	"multimusic/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	PlatformHandler *handler.PlatformHandler
	UserHandler     *handler.UserHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RequestContext  *middleware.RequestContextMiddleware
	ErrorMiddleware *middleware.ErrorMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	platformHandler *handler.PlatformHandler
	userHandler     *handler.UserHandler
	authMiddleware  *middleware.AuthMiddleware
	requestContext  *middleware.RequestContextMiddleware
	errorMiddleware *middleware.ErrorMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		platformHandler: params.PlatformHandler,
		userHandler:     params.UserHandler,
		authMiddleware:  params.AuthMiddleware,
		requestContext:  params.RequestContext,
		errorMiddleware: params.ErrorMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestContext.Handle)
	e.Use(r.errorMiddleware.Handle)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// SSO sign-in routes; callbacks are browser redirects and unauthenticated.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/:provider/login", r.authHandler.Login)
		authGroup.GET("/:provider/callback", r.authHandler.Callback)
	}

	// Platform connection routes. The callback carries the account inside the
	// signed state, the rest require a session.
	platformGroup := e.Group("/platforms")
	{
		platformGroup.GET("/:platform/callback", r.platformHandler.Callback)
		platformGroup.POST("/:platform/connect", r.platformHandler.Connect, r.authMiddleware.Authenticate)
		platformGroup.POST("/:platform/refresh", r.platformHandler.Refresh, r.authMiddleware.Authenticate)
	}

	// Account routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.userHandler.GetProfile)
		userGroup.GET("/auth-providers", r.userHandler.ListAuthProviders)
		userGroup.GET("/platforms", r.userHandler.ListPlatforms)
		userGroup.DELETE("/platforms/:platform", r.userHandler.DisconnectPlatform)
		userGroup.POST("/providers/:provider/link", r.userHandler.LinkProvider)
		userGroup.DELETE("/providers/:provider", r.userHandler.UnlinkProvider)
	}
}
