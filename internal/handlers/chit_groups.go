package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bidnest/internal/models"
	dbconfig "bidnest/pkg/config"
	"bidnest/pkg/settlement"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// monthlyTolerance is how far monthly_amount may drift from total/members.
var monthlyTolerance = decimal.RequireFromString("0.01")

var groupStatuses = map[string]bool{
	models.GroupStatusPending:   true,
	models.GroupStatusActive:    true,
	models.GroupStatusCancelled: true,
	models.GroupStatusCompleted: true,
}

// ChitGroupRequest represents the request body for creating a chit group
type ChitGroupRequest struct {
	UserID           uint            `json:"user_id" binding:"required"`
	Name             string          `json:"name" binding:"required"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalMembers     int             `json:"total_members" binding:"required,min=1"`
	MonthlyAmount    decimal.Decimal `json:"monthly_amount"`
	DurationMonths   int             `json:"duration_months" binding:"required,min=1"`
	CommissionType   string          `json:"commission_type" binding:"required"`
	CommissionValue  decimal.Decimal `json:"commission_value"`
	RoundOffValue    int64           `json:"round_off_value" binding:"required"`
	AuctionStartDate *time.Time      `json:"auction_start_date"`
}

// ChitGroupUpdateRequest changes only the fields that are present
type ChitGroupUpdateRequest struct {
	Status           *string          `json:"status"`
	CommissionType   *string          `json:"commission_type"`
	CommissionValue  *decimal.Decimal `json:"commission_value"`
	RoundOffValue    *int64           `json:"round_off_value"`
	AuctionStartDate *time.Time       `json:"auction_start_date"`
}

func validRoundOff(v int64) bool {
	for _, allowed := range models.AllowedRoundOffValues {
		if v == allowed {
			return true
		}
	}
	return false
}

// validateCommission checks a commission rule the same way settlement does.
func validateCommission(commissionType string, value decimal.Decimal) (settlement.CommissionType, error) {
	ct, err := settlement.ParseCommissionType(commissionType)
	if err != nil {
		return "", err
	}
	if value.IsNegative() {
		return "", &settlement.ValidationError{Field: "commission_value", Err: settlement.ErrNegativeCommission}
	}
	if !hasMoneyScale(value) {
		return "", errors.New(scaleError("commission_value"))
	}
	if ct == settlement.Percent && value.GreaterThan(decimal.NewFromInt(100)) {
		return "", &settlement.ValidationError{Field: "commission_value", Err: settlement.ErrCommissionPercentRange}
	}
	return ct, nil
}

func (r ChitGroupRequest) validate() (settlement.CommissionType, string) {
	if strings.TrimSpace(r.Name) == "" {
		return "", "name is required"
	}
	if !r.TotalAmount.IsPositive() {
		return "", "total_amount must be positive"
	}
	if !r.MonthlyAmount.IsPositive() {
		return "", "monthly_amount must be positive"
	}
	if !validRoundOff(r.RoundOffValue) {
		return "", "round_off_value must be one of 10, 50, 100"
	}
	ct, err := validateCommission(r.CommissionType, r.CommissionValue)
	if err != nil {
		return "", err.Error()
	}
	expected := r.TotalAmount.Div(decimal.NewFromInt(int64(r.TotalMembers)))
	if expected.Sub(r.MonthlyAmount).Abs().GreaterThan(monthlyTolerance) {
		return "", fmt.Sprintf("monthly_amount should be %s", expected.StringFixed(2))
	}
	return ct, ""
}

// CreateChitGroup creates a new chit group in PENDING status
func CreateChitGroup(c *gin.Context) {
	var request ChitGroupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	commissionType, problem := request.validate()
	if problem != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": problem})
		return
	}

	var user models.User
	if err := dbconfig.DB.First(&user, request.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	group := models.ChitGroup{
		UserID:           user.ID,
		Name:             strings.TrimSpace(request.Name),
		TotalAmount:      request.TotalAmount,
		TotalMembers:     request.TotalMembers,
		MonthlyAmount:    request.MonthlyAmount,
		DurationMonths:   request.DurationMonths,
		CommissionType:   string(commissionType),
		CommissionValue:  request.CommissionValue,
		RoundOffValue:    request.RoundOffValue,
		Status:           models.GroupStatusPending,
		AuctionStartDate: request.AuctionStartDate,
	}
	if err := dbconfig.DB.Create(&group).Error; err != nil {
		respondError(c, err)
		return
	}

	recordAudit(c, models.ActionCreate, "chit_groups", group.ID, "Chit group created: "+group.Name, nil, group)
	c.JSON(http.StatusCreated, group)
}

// ListChitGroups returns groups, newest first, filtered by user_id and status
func ListChitGroups(c *gin.Context) {
	filters, ok := queryFilters(c, "user_id")
	if !ok {
		return
	}

	query := dbconfig.DB.Model(&models.ChitGroup{})
	if id, ok := filters["user_id"]; ok {
		query = query.Where("user_id = ?", id)
	}
	if status := strings.ToUpper(c.Query("status")); status != "" {
		if !groupStatuses[status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var groups []models.ChitGroup
	if err := query.Order("created_at DESC, id DESC").Find(&groups).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetChitGroup returns a group with its tickets and their members
func GetChitGroup(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var group models.ChitGroup
	err := dbconfig.DB.
		Preload("ChitMembers", func(db *gorm.DB) *gorm.DB { return db.Order("ticket_number ASC") }).
		Preload("ChitMembers.Member").
		First(&group, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chit group not found"})
		return
	}
	c.JSON(http.StatusOK, group)
}

// UpdateChitGroup changes the status, commission rule, round off or start date
func UpdateChitGroup(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var request ChitGroupUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var group models.ChitGroup
	if err := dbconfig.DB.First(&group, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chit group not found"})
		return
	}
	old := group

	if request.Status != nil {
		status := strings.ToUpper(*request.Status)
		if !groupStatuses[status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		group.Status = status
	}
	if request.CommissionType != nil {
		group.CommissionType = *request.CommissionType
	}
	if request.CommissionValue != nil {
		group.CommissionValue = *request.CommissionValue
	}
	ct, err := validateCommission(group.CommissionType, group.CommissionValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group.CommissionType = string(ct)
	if request.RoundOffValue != nil {
		if !validRoundOff(*request.RoundOffValue) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "round_off_value must be one of 10, 50, 100"})
			return
		}
		group.RoundOffValue = *request.RoundOffValue
	}
	if request.AuctionStartDate != nil {
		group.AuctionStartDate = request.AuctionStartDate
	}

	if err := dbconfig.DB.Model(&group).
		Select("status", "commission_type", "commission_value", "round_off_value", "auction_start_date").
		Updates(&group).Error; err != nil {
		respondError(c, err)
		return
	}

	recordAudit(c, models.ActionUpdate, "chit_groups", group.ID, "Chit group updated: "+group.Name,
		gin.H{"status": old.Status}, gin.H{"status": group.Status})
	c.JSON(http.StatusOK, group)
}

// DeleteChitGroup cancels a group; its history is kept
func DeleteChitGroup(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var group models.ChitGroup
	if err := dbconfig.DB.First(&group, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chit group not found"})
		return
	}

	oldStatus := group.Status
	if err := dbconfig.DB.Model(&group).Update("status", models.GroupStatusCancelled).Error; err != nil {
		respondError(c, err)
		return
	}

	recordAudit(c, models.ActionDelete, "chit_groups", group.ID, "Chit group cancelled: "+group.Name,
		gin.H{"status": oldStatus}, gin.H{"status": models.GroupStatusCancelled})
	c.JSON(http.StatusOK, gin.H{"message": "Chit group cancelled successfully"})
}
