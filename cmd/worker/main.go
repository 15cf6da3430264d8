package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"sync"
	"syscall"

	"bidnest/internal/audit"
	"bidnest/internal/handlers"
	"bidnest/pkg/config"

	logrus "github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	config.LoadSettings()
	config.SetupLogger(&logrus.JSONFormatter{})

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ
	if err := config.InitRabbitMQ(); err != nil {
		logrus.Fatal("Failed to connect to RabbitMQ: ", err)
	}
	defer config.CloseRabbitMQ()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	consume := func(queue string, handler func([]byte) error) {
		msgConsumer, err := config.NewConsumer(queue)
		if err != nil {
			logrus.Fatalf("Failed to create consumer for %s: %v", queue, err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer msgConsumer.Close()
			if err := msgConsumer.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
				logrus.Errorf("Consumer on %s stopped: %v", queue, err)
				stop()
			}
		}()
	}

	consume(config.AuditLogQueue, handleAuditEntry)
	consume(config.AuctionRecordedQueue, handleAuctionRecorded)

	logrus.Info("Worker started, waiting for messages...")
	wg.Wait()
	logrus.Info("Worker stopped")
}

// handleAuditEntry stores an audit entry published by the api.
func handleAuditEntry(msg []byte) error {
	var entry audit.Entry
	if err := json.Unmarshal(msg, &entry); err != nil {
		// a malformed entry would be redelivered forever
		logrus.Errorf("Dropping malformed audit entry: %v", err)
		return nil
	}
	return audit.Save(config.DB, entry)
}

// handleAuctionRecorded logs recorded auctions for downstream notification.
func handleAuctionRecorded(msg []byte) error {
	var event handlers.AuctionRecordedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		logrus.Errorf("Dropping malformed auction event: %v", err)
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"auction_id":            event.AuctionID,
		"chit_group_id":         event.ChitGroupID,
		"month_number":          event.MonthNumber,
		"winner_chit_member_id": event.WinnerChitMemberID,
		"roundoff_dividend":     event.RoundoffDividend.String(),
		"carry_next":            event.CarryNext.String(),
		"amount_to_collect":     event.AmountToCollect.String(),
	}).Info("Auction recorded")
	return nil
}
