/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package api exposes the book and user controllers over HTTP with echo.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/bookstore/controller"
	"github.com/tomoncle/bookstore/database"
	"github.com/tomoncle/bookstore/models"
	"github.com/tomoncle/bookstore/utils"
	"golang.org/x/time/rate"
)

type (
	BookController = controller.Controller[models.Book, models.BookCreate, models.BookUpdate]
	UserController = controller.Controller[models.User, models.UserCreate, models.UserUpdate]
)

// HealthFunc reports database health for GET /health.
type HealthFunc func(ctx context.Context) *database.HealthStatus

// RateLimit allows RPS requests per second per client IP with bursts of
// Burst. RPS 0 turns limiting off.
type RateLimit struct {
	RPS       float64
	Burst     int
	ExpiresIn time.Duration
}

type Options struct {
	Books     BookController
	Users     UserController
	Health    HealthFunc
	RateLimit RateLimit
	Logger    logrus.FieldLogger
}

// NewRouter builds the echo instance serving every route.
func NewRouter(opts Options) *echo.Echo {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewLogger("HTTP")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = newErrorHandler(logger)

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	if opts.RateLimit.RPS > 0 {
		e.Use(rateLimiter(opts.RateLimit))
	}

	e.GET("/health", healthHandler(opts.Health))

	books := &resource[models.Book, models.BookCreate, models.BookUpdate, models.Book]{
		ctrl:          opts.Books,
		view:          func(b *models.Book) *models.Book { return b },
		deletedDetail: models.BookDeleted,
	}
	books.mount(e.Group("/books"), http.MethodPut)

	users := &resource[models.User, models.UserCreate, models.UserUpdate, models.UserPublic]{
		ctrl:          opts.Users,
		view:          (*models.User).ToPublic,
		deletedDetail: models.UserDeleted,
	}
	users.mount(e.Group("/users"), http.MethodPatch)

	return e
}

func healthHandler(health HealthFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if health == nil {
			return c.JSON(http.StatusServiceUnavailable, &database.HealthStatus{LastError: "database not initialized"})
		}
		status := health(c.Request().Context())
		if !status.Healthy {
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		return c.JSON(http.StatusOK, status)
	}
}

func requestLogger(logger logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"req_method":   v.Method,
				"req_uri":      v.URI,
				"status_code":  v.Status,
				"latency_time": v.Latency.String(),
				"client_ip":    v.RemoteIP,
			})
			if v.Status >= http.StatusInternalServerError {
				entry.Error("request")
			} else {
				entry.Info("request")
			}
			return nil
		},
	})
}

func rateLimiter(cfg RateLimit) echo.MiddlewareFunc {
	burst := cfg.Burst
	if burst < 1 {
		burst = int(cfg.RPS) + 1
	}
	deny := func(c echo.Context, _ string, _ error) error {
		return c.JSON(http.StatusTooManyRequests, ErrorResponse{Detail: rateLimitedDetail})
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool { return c.Path() == "/health" },
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RPS),
			Burst:     burst,
			ExpiresIn: cfg.ExpiresIn,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, ErrorResponse{Detail: "unable to identify client"})
		},
		DenyHandler: deny,
	})
}
