package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bidnest/internal/audit"
	"bidnest/internal/handlers/business"
	"bidnest/internal/metrics"
	"bidnest/internal/middleware"
	"bidnest/pkg/settlement"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// moneyPlaces is the scale of the money columns.
const moneyPlaces = 2

// hasMoneyScale reports whether d fits a money column without rounding.
func hasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(moneyPlaces))
}

func scaleError(field string) string {
	return fmt.Sprintf("%s must have at most %d decimal places", field, moneyPlaces)
}

// parseID reads the :id path parameter, answering 400 when it is not a
// positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric filter such as ?user_id=3.
func queryID(c *gin.Context, key string) (uint, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false, fmt.Errorf("invalid %s", key)
	}
	return uint(id), true, nil
}

// queryFilters collects the numeric filters named in keys, answering 400 on
// the first malformed one.
func queryFilters(c *gin.Context, keys ...string) (map[string]uint, bool) {
	filters := make(map[string]uint, len(keys))
	for _, key := range keys {
		id, ok, err := queryID(c, key)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		if ok {
			filters[key] = id
		}
	}
	return filters, true
}

// recordAudit writes an audit entry for the current caller after the
// change has been committed.
func recordAudit(c *gin.Context, action, table string, recordID uint, detail string, oldData, newData interface{}) {
	entry := audit.FromRequest(c, middleware.GetUserID(c))
	entry.ActionType = action
	entry.TableName = table
	entry.RecordID = strconv.FormatUint(uint64(recordID), 10)
	entry.ActionDetail = detail
	entry.OldData = audit.JSON(oldData)
	entry.NewData = audit.JSON(newData)
	audit.Record(c.Request.Context(), entry)
}

// respondError maps domain and storage errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *settlement.ValidationError
	var over *business.OverpaymentError

	switch {
	case errors.As(err, &verr):
		metrics.SettlementRejected.WithLabelValues(verr.Field).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Err.Error(), "field": verr.Field})
	case errors.As(err, &over):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        over.Error(),
			"monthly_due":  over.MonthlyDue,
			"already_paid": over.AlreadyPaid,
			"remaining":    over.Remaining,
		})
	case errors.Is(err, business.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Chit group not found"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, business.ErrTicketAlreadyWon),
		errors.Is(err, business.ErrMonthAlreadyAuctioned):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": "Record already exists"})
	case errors.Is(err, business.ErrGroupClosed),
		errors.Is(err, business.ErrMonthOutOfRange),
		errors.Is(err, business.ErrWinnerNotInGroup),
		errors.Is(err, business.ErrTicketNotInGroup),
		errors.Is(err, business.ErrTicketInactive),
		errors.Is(err, business.ErrNoAuctionForMonth),
		errors.Is(err, business.ErrWinnerDoesNotPay):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Errorf("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
