package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/angr3yo/Food-Delivery-DBMS/configs"
	"github.com/angr3yo/Food-Delivery-DBMS/middlewares"
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/broker"
	"github.com/angr3yo/Food-Delivery-DBMS/pkg/cache"
	"github.com/angr3yo/Food-Delivery-DBMS/repository"
	"github.com/angr3yo/Food-Delivery-DBMS/routes"
	"github.com/angr3yo/Food-Delivery-DBMS/services"
	"github.com/angr3yo/Food-Delivery-DBMS/ws"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := configs.LoadConfig()
	configs.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("connect database")
	}
	if err := configs.SetupDatabase(db); err != nil {
		logrus.WithError(err).Fatal("migrate database")
	}
	if err := configs.SeedAdmin(db, cfg); err != nil {
		logrus.WithError(err).Fatal("seed admin")
	}
	if cfg.SeedDemo {
		if err := configs.SeedDemo(db); err != nil {
			logrus.WithError(err).Fatal("seed demo data")
		}
	}

	// Catalog cache: redis when reachable, otherwise straight to the database
	catalogCache := cache.Nop()
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr, "food")
		if err := cache.Ping(ctx, rc); err != nil {
			logrus.WithError(err).Warn("redis unavailable, catalog cache disabled")
		} else {
			catalogCache = rc
		}
	}

	// Order events
	hub := ws.NewOrderHub(repository.NewOrderRepository(db))
	go hub.Run(ctx)
	events := services.FanOut{hub}
	if cfg.AMQPURL != "" {
		mq, err := broker.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logrus.WithError(err).Warn("rabbitmq unavailable, order events stay local")
		} else {
			defer mq.Close()
			events = append(events, mq)
		}
	}

	// HTTP
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins...))
	r.Use(middlewares.Sessions(cfg.SessionName, cfg.SessionSecret))

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Cache:  catalogCache,
		Events: events,
		Hub:    hub,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}
	go func() {
		logrus.WithField("addr", srv.Addr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
