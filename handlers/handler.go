package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/ligavoley/voleyapi/rating"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db         *bun.DB
	engine     *rating.Engine
	recalc     *rating.Recalculator
	rosterSize int
	JWTKey     []byte
}

// New creates a Handler with the given database connection, rating
// components and JWT signing key.
func New(db *bun.DB, engine *rating.Engine, recalc *rating.Recalculator, rosterSize int, jwtKey []byte) *Handler {
	return &Handler{
		db:         db,
		engine:     engine,
		recalc:     recalc,
		rosterSize: rosterSize,
		JWTKey:     jwtKey,
	}
}

// ratingError maps rating error kinds onto HTTP status codes.
func ratingError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, rating.ErrNoData):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, rating.ErrValidation):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
