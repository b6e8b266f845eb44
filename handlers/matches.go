package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/ligavoley/voleyapi/models"
)

// FullMatches returns the complete nested read model: every match with its
// teams, rosters, sets and per-set rating history.
func (h *Handler) FullMatches(c echo.Context) error {
	var matches []models.Match
	err := h.db.NewSelect().Model(&matches).
		Relation("Teams", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("t.team_number")
		}).
		Relation("Teams.Roster", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("tp.slot")
		}).
		Relation("Teams.Roster.Player").
		Relation("Sets", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("s.set_order")
		}).
		Relation("Sets.History").
		Order("m.id").
		Scan(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, matches)
}

type addMatchSet struct {
	Team1Score      *int `json:"team1Score"`
	Team2Score      *int `json:"team2Score"`
	Winner          int  `json:"winner"`
	IgnoreForRating bool `json:"ignoreForRating"`
	Order           int  `json:"setOrder"`
}

type addMatchRequest struct {
	Date         string        `json:"date"`
	SeasonID     int64         `json:"seasonID"`
	Team1Players []int64       `json:"team1Players"`
	Team2Players []int64       `json:"team2Players"`
	Sets         []addMatchSet `json:"sets"`
}

func (h *Handler) validateAddMatch(req *addMatchRequest) error {
	if req.Date == "" {
		return fmt.Errorf("date is required")
	}
	if req.SeasonID <= 0 {
		return fmt.Errorf("seasonID is required")
	}
	if len(req.Team1Players) != h.rosterSize || len(req.Team2Players) != h.rosterSize {
		return fmt.Errorf("both rosters must have exactly %d players", h.rosterSize)
	}
	seen := map[int64]bool{}
	for _, id := range append(append([]int64{}, req.Team1Players...), req.Team2Players...) {
		if seen[id] {
			return fmt.Errorf("player %d appears twice", id)
		}
		seen[id] = true
	}
	if len(req.Sets) == 0 {
		return fmt.Errorf("at least one set is required")
	}
	orders := map[int]bool{}
	for _, s := range req.Sets {
		if s.Winner != 1 && s.Winner != 2 {
			return fmt.Errorf("set winner must be 1 or 2, got %d", s.Winner)
		}
		if orders[s.Order] {
			return fmt.Errorf("duplicate set order %d", s.Order)
		}
		orders[s.Order] = true
	}
	return nil
}

// AddMatch records a match with its teams, rosters and sets, then runs the
// rating engine for it.
func (h *Handler) AddMatch(c echo.Context) error {
	var req addMatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validateAddMatch(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.Request().Context()
	matchID, err := h.insertMatch(ctx, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.engine.ProcessMatch(ctx, matchID); err != nil {
		return ratingError(err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{"matchID": matchID})
}

// insertMatch writes the match, its two teams, the roster slots (with court
// positions derived from slot index) and the sets in one transaction.
func (h *Handler) insertMatch(ctx context.Context, req *addMatchRequest) (int64, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	match := &models.Match{Date: req.Date, SeasonID: req.SeasonID}
	if _, err := tx.NewInsert().Model(match).Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}

	teams := []*models.Team{
		{MatchID: match.ID, Number: 1},
		{MatchID: match.ID, Number: 2},
	}
	if _, err := tx.NewInsert().Model(&teams).Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert teams: %w", err)
	}

	roster := make([]models.TeamPlayer, 0, 2*h.rosterSize)
	for slot, playerID := range req.Team1Players {
		roster = append(roster, models.TeamPlayer{
			TeamID:   teams[0].ID,
			PlayerID: playerID,
			Slot:     slot,
			Position: models.PositionForSlot(slot),
		})
	}
	for slot, playerID := range req.Team2Players {
		roster = append(roster, models.TeamPlayer{
			TeamID:   teams[1].ID,
			PlayerID: playerID,
			Slot:     slot,
			Position: models.PositionForSlot(slot),
		})
	}
	if _, err := tx.NewInsert().Model(&roster).Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert roster: %w", err)
	}

	sets := make([]models.Set, 0, len(req.Sets))
	for _, s := range req.Sets {
		sets = append(sets, models.Set{
			MatchID:         match.ID,
			Team1Score:      s.Team1Score,
			Team2Score:      s.Team2Score,
			Winner:          s.Winner,
			IgnoreForRating: s.IgnoreForRating,
			Order:           s.Order,
		})
	}
	if _, err := tx.NewInsert().Model(&sets).Exec(ctx); err != nil {
		return 0, fmt.Errorf("insert sets: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return match.ID, nil
}
