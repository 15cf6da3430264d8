package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"bidnest/internal/audit"
	"bidnest/internal/models"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

// AuditLogRequest represents the request body for writing an audit entry by hand
type AuditLogRequest struct {
	UserID       *uint           `json:"user_id"`
	ActionType   string          `json:"action_type" binding:"required,oneof=CREATE UPDATE DELETE LOGIN LOGOUT"`
	ActionDetail string          `json:"action_detail" binding:"required"`
	TableName    string          `json:"table_name" binding:"required"`
	RecordID     string          `json:"record_id" binding:"required"`
	OldData      json.RawMessage `json:"old_data"`
	NewData      json.RawMessage `json:"new_data"`
}

// CreateAuditLog stores an audit entry sent by a client
func CreateAuditLog(c *gin.Context) {
	var request AuditLogRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.UserID != nil {
		var user models.User
		if err := dbconfig.DB.First(&user, *request.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
	}

	entry := audit.FromRequest(c, request.UserID)
	entry.ActionType = request.ActionType
	entry.ActionDetail = request.ActionDetail
	entry.TableName = request.TableName
	entry.RecordID = request.RecordID
	entry.OldData = request.OldData
	entry.NewData = request.NewData

	log := entry.Model()
	if err := dbconfig.DB.Create(&log).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

// auditLimit reads ?limit, capped at maxAuditLimit.
func auditLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return defaultAuditLimit
	}
	if limit > maxAuditLimit {
		return maxAuditLimit
	}
	return limit
}

// ListAuditLogs returns audit entries, newest first
func ListAuditLogs(c *gin.Context) {
	filters, ok := queryFilters(c, "user_id")
	if !ok {
		return
	}

	query := dbconfig.DB.Model(&models.AuditLog{})
	if id, ok := filters["user_id"]; ok {
		query = query.Where("user_id = ?", id)
	}
	if action := strings.ToUpper(c.Query("action_type")); action != "" {
		query = query.Where("action_type = ?", action)
	}
	if table := c.Query("table_name"); table != "" {
		query = query.Where("table_name = ?", table)
	}
	if record := c.Query("record_id"); record != "" {
		query = query.Where("record_id = ?", record)
	}

	var logs []models.AuditLog
	if err := query.Order("created_at DESC, id DESC").Limit(auditLimit(c)).Find(&logs).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetAuditLog returns a specific audit entry by ID
func GetAuditLog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var entry models.AuditLog
	if err := dbconfig.DB.Preload("User").First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit log not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}
