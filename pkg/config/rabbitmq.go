package config

import (
	"fmt"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Queue names shared by the api and the worker.
const (
	AuditLogQueue        = "bidnest.audit_logs"
	AuctionRecordedQueue = "bidnest.auction_recorded"
)

var RabbitMQ *amqp.Connection

// RabbitMQEnabled reports whether a broker is configured.
func RabbitMQEnabled() bool {
	return os.Getenv("RABBITMQ_HOST") != ""
}

// InitRabbitMQ connects to RabbitMQ with retry logic
func InitRabbitMQ() error {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		os.Getenv("RABBITMQ_USER"),
		os.Getenv("RABBITMQ_PASSWORD"),
		os.Getenv("RABBITMQ_HOST"),
		getEnv("RABBITMQ_PORT", "5672"),
	)

	maxRetries := 10
	retryDelay := 3 * time.Second

	var err error
	for i := 0; i < maxRetries; i++ {
		var conn *amqp.Connection
		conn, err = amqp.Dial(url)
		if err == nil {
			RabbitMQ = conn
			logrus.Infof("Connected to RabbitMQ at %s", os.Getenv("RABBITMQ_HOST"))
			return nil
		}

		if i < maxRetries-1 {
			logrus.Warnf("Failed to connect to RabbitMQ (attempt %d/%d): %v. Retrying in %v...", i+1, maxRetries, err, retryDelay)
			time.Sleep(retryDelay)
		}
	}

	return fmt.Errorf("connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

// CloseRabbitMQ closes the shared connection if one is open.
func CloseRabbitMQ() {
	if RabbitMQ != nil {
		RabbitMQ.Close()
		RabbitMQ = nil
	}
}
