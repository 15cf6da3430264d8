package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bidnest/internal/audit"
	"bidnest/internal/auth"
	"bidnest/internal/handlers"
	"bidnest/internal/routes"
	"bidnest/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	settings := config.LoadSettings()
	config.SetupLogger(&logrus.JSONFormatter{})
	if logrus.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	config.InitDB()

	// Share logouts between replicas when Redis is configured
	config.InitRedis()
	if config.Redis != nil {
		auth.Revocations = auth.NewRedisRevoker(config.Redis)
		defer config.Redis.Close()
	}

	// Initialize RabbitMQ (optional, audit entries are written directly without it)
	if config.RabbitMQEnabled() {
		if err := config.InitRabbitMQ(); err != nil {
			logrus.Errorf("RabbitMQ unavailable, continuing without a queue: %v", err)
		} else {
			defer config.CloseRabbitMQ()

			publisher, err := config.NewPublisher()
			if err != nil {
				logrus.Errorf("Failed to open RabbitMQ publisher: %v", err)
			} else {
				defer publisher.Close()
				audit.SetPublisher(publisher)
				handlers.SetEventPublisher(publisher)
				logrus.Info("RabbitMQ initialized successfully")
			}
		}
	} else {
		logrus.Info("RabbitMQ not configured, skipping initialization")
	}

	// Set up router
	r := routes.SetupRouter()

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down API")
	audit.SetPublisher(nil)
	handlers.SetEventPublisher(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Graceful shutdown failed: %v", err)
	}
}
