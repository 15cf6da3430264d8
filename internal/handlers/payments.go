package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bidnest/internal/handlers/business"
	"bidnest/internal/metrics"
	"bidnest/internal/models"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentRequest represents the request body for recording a payment
type PaymentRequest struct {
	ChitGroupID   uint            `json:"chit_group_id" binding:"required"`
	ChitMemberID  uint            `json:"chit_member_id" binding:"required"`
	MonthNumber   int             `json:"month_number" binding:"required,min=1"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=CASH UPI BANK_TRANSFER"`
	UpiID         *string         `json:"upi_id"`
	PaymentDate   *time.Time      `json:"payment_date"`
	Notes         *string         `json:"notes"`
}

// PaymentResponse is a stored payment with the month's running totals
type PaymentResponse struct {
	models.Payment
	TicketNumber int             `json:"ticket_number"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	MonthlyDue   decimal.Decimal `json:"monthly_due"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// CreatePayment records a contribution towards a month
func CreatePayment(c *gin.Context) {
	var request PaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !request.AmountPaid.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_paid must be positive"})
		return
	}
	if !hasMoneyScale(request.AmountPaid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": scaleError("amount_paid")})
		return
	}
	if request.PaymentMethod == models.PaymentMethodUPI {
		if request.UpiID == nil || strings.TrimSpace(*request.UpiID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "upi_id is required for UPI payments"})
			return
		}
	} else {
		request.UpiID = nil
	}

	paymentDate := time.Now()
	if request.PaymentDate != nil {
		paymentDate = *request.PaymentDate
	}

	receipt, err := business.RecordPayment(dbconfig.DB, business.PaymentRequest{
		ChitGroupID:   request.ChitGroupID,
		ChitMemberID:  request.ChitMemberID,
		MonthNumber:   request.MonthNumber,
		AmountPaid:    request.AmountPaid,
		PaymentMethod: request.PaymentMethod,
		UpiID:         request.UpiID,
		PaymentDate:   paymentDate,
		Notes:         request.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.PaymentsRecorded.WithLabelValues(receipt.Payment.Status).Inc()

	recordAudit(c, models.ActionCreate, "payments", receipt.Payment.ID,
		fmt.Sprintf("Payment of %s for ticket #%d month %d", receipt.Payment.AmountPaid.StringFixed(2), receipt.TicketNumber, receipt.Payment.MonthNumber),
		nil, receipt.Payment)

	c.JSON(http.StatusCreated, PaymentResponse{
		Payment:      receipt.Payment,
		TicketNumber: receipt.TicketNumber,
		TotalPaid:    receipt.TotalPaid,
		MonthlyDue:   receipt.MonthlyDue,
		Remaining:    receipt.Remaining,
	})
}

// ListPayments returns payments, newest first
func ListPayments(c *gin.Context) {
	filters, ok := queryFilters(c, "chit_group_id", "chit_member_id", "user_id")
	if !ok {
		return
	}

	query := dbconfig.DB.Model(&models.Payment{}).Preload("ChitMember.Member")
	if id, ok := filters["chit_group_id"]; ok {
		query = query.Where("chit_group_id = ?", id)
	}
	if id, ok := filters["chit_member_id"]; ok {
		query = query.Where("chit_member_id = ?", id)
	}
	if id, ok := filters["user_id"]; ok {
		query = query.Where("chit_group_id IN (?)",
			dbconfig.DB.Model(&models.ChitGroup{}).Select("id").Where("user_id = ?", id))
	}
	if raw := c.Query("month_number"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month_number"})
			return
		}
		query = query.Where("month_number = ?", month)
	}

	var payments []models.Payment
	if err := query.Order("created_at DESC, id DESC").Find(&payments).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetPaymentTracking returns the collection sheet of one group and month
func GetPaymentTracking(c *gin.Context) {
	groupID, ok, err := queryID(c, "chit_group_id")
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chit_group_id is required"})
		return
	}
	month, err := strconv.Atoi(c.Query("month_number"))
	if err != nil || month < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month_number is required"})
		return
	}

	sheet, err := business.TrackMonth(dbconfig.DB, groupID, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sheet)
}
