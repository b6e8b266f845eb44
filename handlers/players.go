package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ligavoley/voleyapi/models"
)

// Players returns every player with their current rating, best first.
func (h *Handler) Players(c echo.Context) error {
	var players []models.Player
	err := h.db.NewSelect().Model(&players).
		Order("rating DESC", "name").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, players)
}

// playerHistoryRow is a flat scan target for the history join query.
type playerHistoryRow struct {
	SetID    int64   `bun:"set_id" json:"setID"`
	MatchID  int64   `bun:"match_id" json:"matchID"`
	SetOrder int     `bun:"set_order" json:"setOrder"`
	Delta    float64 `bun:"delta" json:"delta"`
}

const playerHistorySQL = `
SELECT rh.set_id, s.match_id, s.set_order, rh.delta
FROM rating_history rh
INNER JOIN sets s ON s.id = rh.set_id
WHERE rh.player_id = ?
ORDER BY s.match_id, s.set_order, rh.set_id
`

// PlayerHistory returns every rating delta a player received, in the order
// the sets were played.
func (h *Handler) PlayerHistory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid player id")
	}

	rows := []playerHistoryRow{}
	if err := h.db.NewRaw(playerHistorySQL, id).Scan(c.Request().Context(), &rows); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}
