package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/ligavoley/voleyapi/config"
	"github.com/ligavoley/voleyapi/db"
	"github.com/ligavoley/voleyapi/handlers"
	applog "github.com/ligavoley/voleyapi/logger"
	mw "github.com/ligavoley/voleyapi/middleware"
	"github.com/ligavoley/voleyapi/models"
	"github.com/ligavoley/voleyapi/rating"
	"github.com/ligavoley/voleyapi/store"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	formula, err := cfg.Formula()
	if err != nil {
		logger.Fatal("rating formula config", zap.Error(err))
	}
	logger.Info("rating formula",
		zap.String("strategy", string(formula.Strategy)),
		zap.Float64("divisor", formula.Divisor))

	st := store.New(bdb)
	engine := rating.NewEngine(formula, cfg.RosterSize, st, st, st, st, logger)
	recalc := rating.NewRecalculator(engine, st, models.BaseRating, logger)

	h := handlers.New(bdb, engine, recalc, cfg.RosterSize, cfg.JWTKey())

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Backend is running!")
	})
	e.POST("/lv/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	lv := e.Group("/lv", mw.JWT(cfg.JWTKey()))
	lv.GET("/players", h.Players)
	lv.GET("/players/:id/history", h.PlayerHistory)
	lv.GET("/matches", h.FullMatches)
	lv.POST("/matches", h.AddMatch)
	lv.POST("/seasons/:id/recalculate", h.Recalculate)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
