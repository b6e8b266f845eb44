package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Recalculate wipes a season's rating history, resets its participants to
// the base rating and replays every match of the season in entry order.
func (h *Handler) Recalculate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid season id")
	}

	if err := h.recalc.Recalculate(c.Request().Context(), id); err != nil {
		return ratingError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"seasonID": id, "status": "recalculated"})
}
