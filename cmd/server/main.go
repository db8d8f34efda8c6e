package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/hotelio/hotel-reservation/internal/auth"
	"github.com/hotelio/hotel-reservation/internal/config"
	"github.com/hotelio/hotel-reservation/internal/database"
	"github.com/hotelio/hotel-reservation/internal/handler"
	"github.com/hotelio/hotel-reservation/internal/logger"
	"github.com/hotelio/hotel-reservation/internal/metrics"
	"github.com/hotelio/hotel-reservation/internal/middleware"
	"github.com/hotelio/hotel-reservation/internal/pricing"
	"github.com/hotelio/hotel-reservation/internal/queue"
	"github.com/hotelio/hotel-reservation/internal/repository"
	"github.com/hotelio/hotel-reservation/internal/router"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Env)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Seed(seedCtx, users, cfg.BcryptCost); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("seed database")
	}
	cancel()

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.AccessTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("build token codec")
	}
	refresh := auth.NewRefreshService(tokens, cfg.RefreshTTL)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache and rate limiting disabled")
	}

	authenticator := middleware.NewAuthenticator(codec, users, refresh)
	enforcer := middleware.NewEnforcer(reservations)
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = errorHandler

	e.Use(echomw.Recover())
	e.Use(metrics.EchoMiddleware())
	e.Use(middleware.NewRateLimit(config.LoadRateLimitConfig(), rdb))
	e.Use(authenticator.Middleware())

	reservationHandler := handler.NewReservationHandler(reservations, rooms, users)
	if cfg.PricingStrategy != "" {
		reservationHandler.Pricing = pricing.ByName(cfg.PricingStrategy)
		log.Info().Str("strategy", reservationHandler.Pricing.Name()).Msg("pricing strategy forced")
	}

	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(users, codec, refresh, cfg.BcryptCost),
		Users:        handler.NewUserHandler(users, cfg.BcryptCost),
		Rooms:        handler.NewRoomHandler(rooms),
		Reservations: reservationHandler,
	}, enforcer, cache)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	go queue.StartConsumer(consumerCtx)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("start server")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
	log.Info().Msg("server stopped")
}

// errorHandler renders every unhandled error as {"error": message} without
// leaking internals. echo.HTTPError messages pass through; anything else
// becomes a generic 500.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	message := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if s, ok := he.Message.(string); ok {
			message = s
		} else {
			message = http.StatusText(status)
		}
	} else {
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
	}
	if err := c.JSON(status, echo.Map{"error": message}); err != nil {
		log.Error().Err(err).Msg("write error response")
	}
}
