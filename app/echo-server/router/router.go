package router

import (
	"github.com/labstack/echo/v4"

	"swipeNews/internal/middleware"
	"swipeNews/internal/rest"
)

// SetupFeedRoutes mounts the public and the per-user feed routes. With a
// non-empty jwtSecret init, swipe and feed require a bearer token whose user
// matches the userId in the request.
func SetupFeedRoutes(api *echo.Group, handler *rest.FeedHandler, jwtSecret string) {
	api.GET("/health", handler.Health)
	api.GET("/categories", handler.Categories)

	var mw []echo.MiddlewareFunc
	if jwtSecret != "" {
		mw = append(mw, middleware.AuthMiddleware(jwtSecret))
	}
	api.POST("/init", handler.Init, mw...)
	api.POST("/swipe", handler.Swipe, mw...)
	api.GET("/feed", handler.CategoryFeed, mw...)
}

// SetupUserRoutes mounts the per-user routes. With a non-empty jwtSecret the
// caller must present a bearer token for the same user id.
func SetupUserRoutes(api *echo.Group, handler *rest.FeedHandler, jwtSecret string) {
	var mw []echo.MiddlewareFunc
	if jwtSecret != "" {
		mw = append(mw, middleware.AuthMiddleware(jwtSecret), middleware.SelfOnly())
	}
	users := api.Group("/user/:id", mw...)

	users.GET("/preferences", handler.Preferences)
	users.PATCH("/filters", handler.UpdateFilters)
}
