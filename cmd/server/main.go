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

// Command server runs the bookstore HTTP API.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/bookstore/api"
	"github.com/tomoncle/bookstore/cache"
	"github.com/tomoncle/bookstore/config"
	"github.com/tomoncle/bookstore/controller"
	"github.com/tomoncle/bookstore/database"
	"github.com/tomoncle/bookstore/events"
	"github.com/tomoncle/bookstore/models"
	"github.com/tomoncle/bookstore/repository"
	"github.com/tomoncle/bookstore/security"
	"github.com/tomoncle/bookstore/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file, empty for defaults")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.NewLogger("MAIN").WithError(err).Fatal("failed to load config")
	}
	utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	utils.ConfigureLogLevel(cfg.Log.Level)
	logger := utils.NewLogger("MAIN")

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("server exited")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.WithError(err).Warn("failed to close database")
		}
	}()

	var entityCache cache.Cache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedis(ctx, nil, &cfg.Redis.RedisOptions)
		if err != nil {
			return err
		}
		defer rc.Close()
		entityCache = rc
		logger.WithField("addr", cfg.Redis.Addr).Info("entity cache enabled")
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.Kafka.Enabled {
		kp := events.NewKafka(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		defer func() {
			if err := kp.Close(); err != nil {
				logger.WithError(err).Warn("failed to close event publisher")
			}
		}()
		publisher = kp
		logger.WithField("topic", cfg.Kafka.Topic).Info("change events enabled")
	}

	sessionTimeout := cfg.Database.ConnectionConfig.PoolTimeout
	if sessionTimeout <= 0 {
		sessionTimeout = repository.DefaultSessionTimeout
	}
	repoLogger := utils.NewLogger("REPOSITORY")

	bookOpts := []repository.Option[models.Book]{
		repository.WithPublisher[models.Book](publisher),
		repository.WithSessionTimeout[models.Book](sessionTimeout),
		repository.WithLogger[models.Book](repoLogger),
	}
	userOpts := []repository.Option[models.User]{
		repository.WithHook[models.User](models.NewUserHook(security.NewBcryptHasher(cfg.Security.BcryptCost))),
		repository.WithPublisher[models.User](publisher),
		repository.WithSessionTimeout[models.User](sessionTimeout),
		repository.WithLogger[models.User](repoLogger),
	}
	if entityCache != nil {
		bookOpts = append(bookOpts, repository.WithCache[models.Book](entityCache, cfg.Redis.KeyPrefix, cfg.Redis.TTL))
		userOpts = append(userOpts, repository.WithCache[models.User](entityCache, cfg.Redis.KeyPrefix, cfg.Redis.TTL))
	}

	books := repository.NewRepository[models.Book, models.BookCreate, models.BookUpdate](db, bookOpts...)
	users := repository.NewRepository[models.User, models.UserCreate, models.UserUpdate](db, userOpts...)

	router := api.NewRouter(api.Options{
		Books:  controller.NewController(books),
		Users:  controller.NewController(users),
		Health: database.GetHealthStatus,
		RateLimit: api.RateLimit{
			RPS:       cfg.RateLimit.RPS,
			Burst:     cfg.RateLimit.Burst,
			ExpiresIn: cfg.RateLimit.ExpiresIn,
		},
		Logger: utils.NewLogger("HTTP"),
	})

	server := &api.Server{
		Addr:            cfg.App.Addr,
		ShutdownTimeout: cfg.App.ShutdownTimeout,
		Handler:         router,
		Logger:          logger,
	}
	return server.Run(ctx)
}
