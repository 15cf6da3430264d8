package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bidnest/internal/audit"
	"bidnest/internal/auth"
	"bidnest/internal/handlers/business"
	"bidnest/internal/middleware"
	"bidnest/internal/models"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	overviewRecentLogs = 20
	adminAuditLogLimit = 500
)

// AdminLoginRequest represents the request body for the back-office login
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin opens a back-office session when the password matches ADMIN_PASSWORD
func AdminLogin(c *gin.Context) {
	var request AdminLoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expected := dbconfig.App.AdminPassword
	if expected == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Admin access is not configured"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(request.Password), []byte(expected)) != 1 {
		log.WithField("ip", c.ClientIP()).Warn("Rejected admin login")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	admins := middleware.Admins()
	token, err := admins.GenerateAdmin()
	if err != nil {
		respondError(c, err)
		return
	}
	setCookie(c, auth.AdminCookie, token, int(admins.Duration().Seconds()))
	c.JSON(http.StatusOK, gin.H{"message": "Admin session started"})
}

// AdminLogout ends the back-office session
func AdminLogout(c *gin.Context) {
	setCookie(c, auth.AdminCookie, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Admin session ended"})
}

// AdminData returns one section of the back-office dashboard
func AdminData(c *gin.Context) {
	db := dbconfig.DB
	section := c.DefaultQuery("section", "overview")

	var (
		data interface{}
		err  error
	)
	switch section {
	case "overview":
		data, err = adminOverview(db)
	case "users":
		var users []models.User
		err = db.Order("created_at DESC, id DESC").Find(&users).Error
		data = users
	case "groups":
		var groups []models.ChitGroup
		err = db.Preload("User").Order("created_at DESC, id DESC").Find(&groups).Error
		data = groups
	case "members":
		var members []models.Member
		err = db.Preload("User").Order("created_at DESC, id DESC").Find(&members).Error
		data = members
	case "chit-members":
		var tickets []models.ChitMember
		err = db.Preload("Member").Preload("ChitGroup").Order("chit_group_id ASC, ticket_number ASC").Find(&tickets).Error
		data = tickets
	case "auctions":
		var auctions []models.Auction
		err = db.Preload("ChitGroup").Preload("WinnerChitMember.Member").
			Order("chit_group_id ASC, month_number ASC").Find(&auctions).Error
		data = auctions
	case "payments":
		var payments []models.Payment
		err = db.Preload("ChitGroup").Preload("ChitMember.Member").Order("created_at DESC, id DESC").Find(&payments).Error
		data = payments
	case "audit-logs":
		var logs []models.AuditLog
		err = db.Preload("User").Order("created_at DESC, id DESC").Limit(adminAuditLogLimit).Find(&logs).Error
		data = logs
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown section: " + section})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": section, "data": data})
}

func adminOverview(db *gorm.DB) (gin.H, error) {
	counts := gin.H{}
	tables := []struct {
		name  string
		model interface{}
	}{
		{"users", &models.User{}},
		{"chit_groups", &models.ChitGroup{}},
		{"members", &models.Member{}},
		{"chit_members", &models.ChitMember{}},
		{"auctions", &models.Auction{}},
		{"payments", &models.Payment{}},
		{"audit_logs", &models.AuditLog{}},
	}
	for _, t := range tables {
		var n int64
		if err := db.Model(t.model).Count(&n).Error; err != nil {
			return nil, err
		}
		counts[t.name] = n
	}

	var recent []models.AuditLog
	if err := db.Order("created_at DESC, id DESC").Limit(overviewRecentLogs).Find(&recent).Error; err != nil {
		return nil, err
	}
	return gin.H{"counts": counts, "recent_logs": recent}, nil
}

// adminTable describes what the back office may change in one table.
type adminTable struct {
	name     string
	newModel func() interface{}
	fields   map[string]fieldKind
	enums    map[string][]string
	nullable map[string]bool
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindTracked
	kindDecimal
	kindInt
	kindBool
	kindTime
)

var adminTables = map[string]adminTable{
	"users": {
		name:     "users",
		newModel: func() interface{} { return &models.User{} },
		fields: map[string]fieldKind{
			"name": kindTracked, "username": kindString, "email": kindString,
			"phone": kindString, "is_active": kindBool,
		},
	},
	"groups": {
		name:     "chit_groups",
		newModel: func() interface{} { return &models.ChitGroup{} },
		fields: map[string]fieldKind{
			"name": kindString, "total_amount": kindDecimal, "total_members": kindInt,
			"monthly_amount": kindDecimal, "duration_months": kindInt, "commission_type": kindString,
			"commission_value": kindDecimal, "round_off_value": kindInt, "status": kindString,
			"auction_start_date": kindTime,
		},
		enums: map[string][]string{
			"status":          {models.GroupStatusPending, models.GroupStatusActive, models.GroupStatusCancelled, models.GroupStatusCompleted},
			"commission_type": {"PERCENT", "FIXED"},
			"round_off_value": {"10", "50", "100"},
		},
		nullable: map[string]bool{"auction_start_date": true},
	},
	"members": {
		name:     "members",
		newModel: func() interface{} { return &models.Member{} },
		fields: map[string]fieldKind{
			"name": kindTracked, "nickname": kindTracked, "mobile": kindTracked, "is_active": kindBool,
		},
	},
	"chit-members": {
		name:     "chit_members",
		newModel: func() interface{} { return &models.ChitMember{} },
		fields: map[string]fieldKind{
			"ticket_number": kindInt, "is_active": kindBool, "member_id": kindInt,
		},
	},
	"auctions": {
		name:     "auctions",
		newModel: func() interface{} { return &models.Auction{} },
		fields: map[string]fieldKind{
			"month_number": kindInt, "winner_chit_member_id": kindInt,
		},
	},
	"payments": {
		name:     "payments",
		newModel: func() interface{} { return &models.Payment{} },
		fields: map[string]fieldKind{
			"amount_paid": kindDecimal, "payment_method": kindString, "upi_id": kindString,
			"payment_date": kindTime, "status": kindString, "notes": kindString,
		},
		enums: map[string][]string{
			"payment_method": {models.PaymentMethodCash, models.PaymentMethodUPI, models.PaymentMethodBankTransfer},
			"status":         {"PENDING", "PAID", "OVERDUE", models.PaymentStatusPartial, models.PaymentStatusCompleted},
		},
		nullable: map[string]bool{"upi_id": true, "notes": true},
	},
}

// convert turns a decoded JSON value into what the column expects.
func convert(kind fieldKind, v interface{}) (interface{}, error) {
	switch kind {
	case kindTracked:
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, errors.New("must be a non-empty string")
		}
		return models.Tracked(strings.TrimSpace(s)), nil
	case kindDecimal:
		switch n := v.(type) {
		case json.Number:
			return decimal.NewFromString(n.String())
		case string:
			return decimal.NewFromString(n)
		}
		return nil, errors.New("must be a number")
	case kindInt:
		n, ok := v.(json.Number)
		if !ok {
			return nil, errors.New("must be an integer")
		}
		return n.Int64()
	case kindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, errors.New("must be a boolean")
		}
		return b, nil
	case kindTime:
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("must be an RFC 3339 timestamp")
		}
		return time.Parse(time.RFC3339, s)
	default:
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("must be a string")
		}
		return s, nil
	}
}

func (t adminTable) updates(raw map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(raw))
	for key, v := range raw {
		kind, ok := t.fields[key]
		if !ok {
			continue
		}
		if v == nil {
			if !t.nullable[key] {
				return nil, fmt.Errorf("%s cannot be null", key)
			}
			out[key] = nil
			continue
		}
		value, err := convert(kind, v)
		if err != nil {
			return nil, fmt.Errorf("%s %v", key, err)
		}
		if allowed, ok := t.enums[key]; ok && !oneOf(fmt.Sprint(value), allowed) {
			return nil, fmt.Errorf("%s must be one of %s", key, strings.Join(allowed, ", "))
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil, errors.New("no updatable fields supplied")
	}
	return out, nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// AdminUpdate returns the PUT handler for one back-office table
func AdminUpdate(resource string) gin.HandlerFunc {
	table := adminTables[resource]
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var raw map[string]interface{}
		decoder := json.NewDecoder(c.Request.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
		changes, err := table.updates(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		record := table.newModel()
		if err := dbconfig.DB.First(record, id).Error; err != nil {
			respondError(c, err)
			return
		}
		old := audit.JSON(record)

		if err := dbconfig.DB.Model(record).Updates(changes).Error; err != nil {
			respondError(c, err)
			return
		}
		if err := dbconfig.DB.First(record, id).Error; err != nil {
			respondError(c, err)
			return
		}

		recordAudit(c, models.ActionUpdate, table.name, id, fmt.Sprintf("Admin updated %s #%d", table.name, id), old, record)
		c.JSON(http.StatusOK, record)
	}
}

// AdminDelete returns the DELETE handler for one back-office table. remove
// deletes the record and everything that depends on it.
func AdminDelete(table string, remove func(db *gorm.DB, id uint) (interface{}, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		removed, err := remove(dbconfig.DB, id)
		if err != nil {
			respondError(c, err)
			return
		}

		recordAudit(c, models.ActionDelete, table, id, fmt.Sprintf("Admin deleted %s #%d", table, id), removed, nil)
		c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
	}
}

// Cascading removals used by the back-office DELETE routes.
var (
	AdminDeleteUser = AdminDelete("users", func(db *gorm.DB, id uint) (interface{}, error) {
		return business.DeleteUserCascade(db, id)
	})
	AdminDeleteGroup = AdminDelete("chit_groups", func(db *gorm.DB, id uint) (interface{}, error) {
		return business.DeleteGroupCascade(db, id)
	})
	AdminDeleteMember = AdminDelete("members", func(db *gorm.DB, id uint) (interface{}, error) {
		return business.DeleteMemberCascade(db, id)
	})
	AdminDeleteChitMember = AdminDelete("chit_members", func(db *gorm.DB, id uint) (interface{}, error) {
		return business.DeleteTicketCascade(db, id)
	})
	AdminDeleteAuction = AdminDelete("auctions", func(db *gorm.DB, id uint) (interface{}, error) {
		return business.DeleteAuctionCascade(db, id)
	})
	AdminDeletePayment = AdminDelete("payments", func(db *gorm.DB, id uint) (interface{}, error) {
		return deleteOne(db, &models.Payment{}, id)
	})
	AdminDeleteAuditLog = AdminDelete("audit_logs", func(db *gorm.DB, id uint) (interface{}, error) {
		return deleteOne(db, &models.AuditLog{}, id)
	})
)

func deleteOne(db *gorm.DB, record interface{}, id uint) (interface{}, error) {
	if err := db.First(record, id).Error; err != nil {
		return nil, err
	}
	if err := db.Delete(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}
