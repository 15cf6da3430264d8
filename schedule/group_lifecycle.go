package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"bidnest/internal/audit"
	"bidnest/internal/handlers/business"
	"bidnest/internal/metrics"
	"bidnest/internal/models"
	dbconfig "bidnest/pkg/config"

	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"
)

// AdvanceGroups moves chit groups along PENDING -> ACTIVE -> COMPLETED and
// audits every change.
func AdvanceGroups(now time.Time) error {
	logger.Info("> Advancing chit group lifecycles")

	transitions, err := business.AdvanceGroupLifecycles(dbconfig.DB, now)
	for _, t := range transitions {
		metrics.GroupTransitions.WithLabelValues(t.To).Inc()
		audit.Record(context.Background(), audit.Entry{
			ActionType:   models.ActionUpdate,
			ActionDetail: fmt.Sprintf("Scheduler moved chit group from %s to %s", t.From, t.To),
			TableName:    "chit_groups",
			RecordID:     strconv.FormatUint(uint64(t.ChitGroupID), 10),
			OldData:      audit.JSON(map[string]string{"status": t.From}),
			NewData:      audit.JSON(map[string]string{"status": t.To}),
		})
		logger.WithFields(logger.Fields{
			"chit_group_id": t.ChitGroupID,
			"from":          t.From,
			"to":            t.To,
		}).Info("> Chit group status changed")
	}
	if err != nil {
		return err
	}

	logger.Infof("> %d chit groups changed status", len(transitions))
	return nil
}

func main() {
	dbconfig.LoadSettings()

	// Configure log format
	dbconfig.SetupLogger(&logger.TextFormatter{
		FullTimestamp: true,
	})
	if path := os.Getenv("SCHEDULE_LOG_FILE"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logger.SetOutput(file)
		} else {
			logger.Warnf("> Cannot open %s, logging to stdout: %v", path, err)
		}
	}
	logger.Info("> Starting group lifecycle scheduler")

	dbconfig.InitDB()

	if err := AdvanceGroups(time.Now()); err != nil {
		logger.Errorf("> Initial lifecycle run failed: %v", err)
	}

	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(dbconfig.App.ScheduleSpec, func() {
		if err := AdvanceGroups(time.Now()); err != nil {
			logger.Errorf("> Lifecycle run failed: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("> Invalid SCHEDULE_SPEC %q: %v", dbconfig.App.ScheduleSpec, err)
	}

	logger.Infof("> Scheduler started with spec %s", dbconfig.App.ScheduleSpec)
	c.Start()

	// Keep the process running
	select {}
}
