package handlers

import (
	"net/http"
	"strings"

	"bidnest/internal/models"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// MemberRequest represents the request body for adding a member to a roster
type MemberRequest struct {
	UserID   uint     `json:"user_id" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	Nickname string   `json:"nickname"`
	Mobile   string   `json:"mobile"`
	UpiIDs   []string `json:"upi_ids"`
}

// MemberUpdateRequest changes only the fields that are present
type MemberUpdateRequest struct {
	Name     *string   `json:"name"`
	Nickname *string   `json:"nickname"`
	Mobile   *string   `json:"mobile"`
	UpiIDs   *[]string `json:"upi_ids"`
	IsActive *bool     `json:"is_active"`
}

// CreateMember adds a member to a user's roster
func CreateMember(c *gin.Context) {
	var request MemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(request.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	var user models.User
	if err := dbconfig.DB.First(&user, request.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	member := models.Member{
		UserID:   user.ID,
		Name:     models.Tracked(strings.TrimSpace(request.Name)),
		Nickname: models.Tracked(strings.TrimSpace(request.Nickname)),
		Mobile:   models.Tracked(strings.TrimSpace(request.Mobile)),
		UpiIDs:   models.NewUpiIDs(request.UpiIDs),
		IsActive: true,
	}
	if err := dbconfig.DB.Create(&member).Error; err != nil {
		respondError(c, err)
		return
	}

	recordAudit(c, models.ActionCreate, "members", member.ID, "Member created: "+member.Name.Data().Value, nil, member)
	c.JSON(http.StatusCreated, member)
}

// ListMembers returns members, optionally of one user
func ListMembers(c *gin.Context) {
	filters, ok := queryFilters(c, "user_id")
	if !ok {
		return
	}

	query := dbconfig.DB.Model(&models.Member{})
	if id, ok := filters["user_id"]; ok {
		query = query.Where("user_id = ?", id)
	}

	var members []models.Member
	if err := query.Order("created_at DESC, id DESC").Find(&members).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// GetMember returns a specific member by ID
func GetMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var member models.Member
	if err := dbconfig.DB.First(&member, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// retrack replaces a tracked value only when it actually changes, so the
// timestamp keeps meaning "last changed".
func retrack(current datatypes.JSONType[models.TrackedValue], value *string) datatypes.JSONType[models.TrackedValue] {
	if value == nil {
		return current
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == current.Data().Value {
		return current
	}
	return models.Tracked(trimmed)
}

// mergeUpiIDs keeps the added_at of handles that stay, deactivates the ones
// that were dropped and appends new ones.
func mergeUpiIDs(current []models.UpiID, values []string) []models.UpiID {
	wanted := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			wanted[v] = true
		}
	}

	merged := make([]models.UpiID, 0, len(current)+len(wanted))
	seen := make(map[string]bool, len(current))
	for _, upi := range current {
		upi.IsActive = wanted[upi.Value]
		seen[upi.Value] = true
		merged = append(merged, upi)
	}
	var added []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !seen[v] {
			seen[v] = true
			added = append(added, v)
		}
	}
	return append(merged, models.NewUpiIDs(added).Data()...)
}

// UpdateMember applies a partial update to a member
func UpdateMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var request MemberUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Name != nil && strings.TrimSpace(*request.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
		return
	}

	var member models.Member
	if err := dbconfig.DB.First(&member, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	old := member

	member.Name = retrack(member.Name, request.Name)
	member.Nickname = retrack(member.Nickname, request.Nickname)
	member.Mobile = retrack(member.Mobile, request.Mobile)
	if request.UpiIDs != nil {
		member.UpiIDs = datatypes.NewJSONType(mergeUpiIDs(member.UpiIDs.Data(), *request.UpiIDs))
	}
	if request.IsActive != nil {
		member.IsActive = *request.IsActive
	}

	if err := dbconfig.DB.Model(&member).Select("name", "nickname", "mobile", "upi_ids", "is_active").Updates(&member).Error; err != nil {
		respondError(c, err)
		return
	}

	recordAudit(c, models.ActionUpdate, "members", member.ID, "Member updated: "+member.Name.Data().Value, old, member)
	c.JSON(http.StatusOK, member)
}

// DeleteMember deactivates a member; tickets and history are kept
func DeleteMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var member models.Member
	if err := dbconfig.DB.First(&member, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	old := member
	if err := dbconfig.DB.Model(&member).Update("is_active", false).Error; err != nil {
		respondError(c, err)
		return
	}

	recordAudit(c, models.ActionDelete, "members", member.ID, "Member deactivated: "+member.Name.Data().Value, old, member)
	c.JSON(http.StatusOK, gin.H{"message": "Member deactivated successfully"})
}
