// Package audit records who changed what. Recording never fails the caller:
// errors are logged and counted.
package audit

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"bidnest/internal/metrics"
	"bidnest/internal/models"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry is one audit event. It is also the message body on the audit queue.
type Entry struct {
	UserID       *uint           `json:"user_id"`
	ActionType   string          `json:"action_type"`
	ActionDetail string          `json:"action_detail"`
	TableName    string          `json:"table_name"`
	RecordID     string          `json:"record_id"`
	OldData      json.RawMessage `json:"old_data,omitempty"`
	NewData      json.RawMessage `json:"new_data,omitempty"`
	IPAddress    string          `json:"ip_address,omitempty"`
	UserAgent    string          `json:"user_agent,omitempty"`
}

// Publisher delivers entries to a queue.
type Publisher interface {
	Publish(ctx context.Context, queueName string, message interface{}) error
}

var (
	mu        sync.RWMutex
	publisher Publisher
)

// SetPublisher routes entries through a queue instead of writing them
// directly. Passing nil restores direct writes.
func SetPublisher(p Publisher) {
	mu.Lock()
	defer mu.Unlock()
	publisher = p
}

// JSON marshals v for OldData/NewData, returning nil when v is nil or
// cannot be encoded.
func JSON(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		logrus.Warnf("audit: cannot encode data: %v", err)
		return nil
	}
	return b
}

// FromRequest starts an entry carrying the caller's address and user agent.
func FromRequest(c *gin.Context, userID *uint) Entry {
	return Entry{
		UserID:    userID,
		IPAddress: ClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}

// Record publishes the entry, or stores it when no queue is configured or
// publishing fails.
func Record(ctx context.Context, e Entry) {
	mu.RLock()
	p := publisher
	mu.RUnlock()

	if p != nil {
		err := p.Publish(ctx, dbconfig.AuditLogQueue, e)
		if err == nil {
			return
		}
		logrus.Warnf("audit: publish failed, writing directly: %v", err)
	}

	if err := Save(dbconfig.DB, e); err != nil {
		metrics.AuditWriteFailures.Inc()
		logrus.WithFields(logrus.Fields{
			"action_type": e.ActionType,
			"table_name":  e.TableName,
			"record_id":   e.RecordID,
		}).Errorf("audit: failed to write entry: %v", err)
	}
}

// Save writes the entry to the audit_logs table.
func Save(db *gorm.DB, e Entry) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}
	log := e.Model()
	return db.Create(&log).Error
}

// Model converts the entry into an audit_logs row.
func (e Entry) Model() models.AuditLog {
	log := models.AuditLog{
		UserID:       e.UserID,
		ActionType:   e.ActionType,
		ActionDetail: e.ActionDetail,
		TargetTable:  e.TableName,
		RecordID:     e.RecordID,
		IPAddress:    optional(e.IPAddress),
		UserAgent:    optional(e.UserAgent),
	}
	if len(e.OldData) > 0 {
		log.OldData = datatypes.JSON(e.OldData)
	}
	if len(e.NewData) > 0 {
		log.NewData = datatypes.JSON(e.NewData)
	}
	return log
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
