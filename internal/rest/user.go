package rest

import (
	"context"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"

	"swipeNews/domain"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type UpdateFiltersRequest struct {
	Filters StringList `json:"filters"`
}

type PreferencesResponseBody struct {
	UserID     string                                    `json:"userId"`
	Filters    []domain.Category                         `json:"filters"`
	Stats      map[domain.Category]domain.CategoryBelief `json:"stats"`
	SeenCount  int                                       `json:"seenCount"`
	SwipeCount int64                                     `json:"swipeCount"`
}

type FiltersResponseBody struct {
	UserID  string            `json:"userId"`
	Filters []domain.Category `json:"filters"`
}

// GET /api/user/:id/preferences
func (h *FeedHandler) Preferences(c echo.Context) error {
	userID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	prefs, err := h.feedService.Preferences(ctx, userID)
	if err != nil {
		return writeError(c, "preferences failed", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(PreferencesResponseBody{
		UserID:     prefs.UserID,
		Filters:    prefs.Filters,
		Stats:      prefs.Stats,
		SeenCount:  prefs.SeenCount,
		SwipeCount: prefs.SwipeCount,
	}))
}

// PATCH /api/user/:id/filters
func (h *FeedHandler) UpdateFilters(c echo.Context) error {
	userID := c.Param("id")

	var req UpdateFiltersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	filters, err := h.feedService.UpdateFilters(ctx, userID, req.Filters)
	if err != nil {
		return writeError(c, "update filters failed", err)
	}
	if filters == nil {
		filters = []domain.Category{}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(FiltersResponseBody{
		UserID:  userID,
		Filters: filters,
	}))
}
