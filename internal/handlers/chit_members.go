package handlers

import (
	"fmt"
	"net/http"

	"bidnest/internal/models"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
)

// ChitMemberRequest represents the request body for assigning a ticket
type ChitMemberRequest struct {
	MemberID     uint `json:"member_id" binding:"required"`
	ChitGroupID  uint `json:"chit_group_id" binding:"required"`
	TicketNumber int  `json:"ticket_number" binding:"required,min=1"`
}

// ChitMemberUpdateRequest represents the request body for updating a ticket
type ChitMemberUpdateRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// CreateChitMember assigns a ticket of a group to a member
func CreateChitMember(c *gin.Context) {
	var request ChitMemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var member models.Member
	if err := dbconfig.DB.First(&member, request.MemberID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	var group models.ChitGroup
	if err := dbconfig.DB.First(&group, request.ChitGroupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chit group not found"})
		return
	}
	if request.TicketNumber > group.TotalMembers {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("ticket_number must be between 1 and %d", group.TotalMembers)})
		return
	}

	var taken int64
	if err := dbconfig.DB.Model(&models.ChitMember{}).
		Where("chit_group_id = ? AND ticket_number = ?", group.ID, request.TicketNumber).
		Count(&taken).Error; err != nil {
		respondError(c, err)
		return
	}
	if taken > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Ticket #%d is already taken", request.TicketNumber)})
		return
	}

	var seated int64
	if err := dbconfig.DB.Model(&models.ChitMember{}).
		Where("chit_group_id = ? AND is_active = ?", group.ID, true).
		Count(&seated).Error; err != nil {
		respondError(c, err)
		return
	}
	if seated >= int64(group.TotalMembers) {
		c.JSON(http.StatusConflict, gin.H{"error": "Chit group is full"})
		return
	}

	ticket := models.ChitMember{
		MemberID:     member.ID,
		ChitGroupID:  group.ID,
		TicketNumber: request.TicketNumber,
		IsActive:     true,
	}
	if err := dbconfig.DB.Create(&ticket).Error; err != nil {
		respondError(c, err)
		return
	}
	ticket.Member = &member

	recordAudit(c, models.ActionCreate, "chit_members", ticket.ID,
		fmt.Sprintf("Ticket #%d of %s assigned to %s", ticket.TicketNumber, group.Name, member.Name.Data().Value), nil, ticket)
	c.JSON(http.StatusCreated, ticket)
}

// ListChitMembers returns tickets ordered by ticket number
func ListChitMembers(c *gin.Context) {
	filters, ok := queryFilters(c, "chit_group_id", "member_id")
	if !ok {
		return
	}

	query := dbconfig.DB.Model(&models.ChitMember{}).Preload("Member")
	if id, ok := filters["chit_group_id"]; ok {
		query = query.Where("chit_group_id = ?", id)
	}
	if id, ok := filters["member_id"]; ok {
		query = query.Where("member_id = ?", id)
	}

	var tickets []models.ChitMember
	if err := query.Order("chit_group_id ASC, ticket_number ASC").Find(&tickets).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// GetChitMember returns a ticket with its member and group
func GetChitMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var ticket models.ChitMember
	if err := dbconfig.DB.Preload("Member").Preload("ChitGroup").First(&ticket, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// UpdateChitMember activates or deactivates a ticket
func UpdateChitMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var request ChitMemberUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ticket models.ChitMember
	if err := dbconfig.DB.First(&ticket, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	wasActive := ticket.IsActive
	if err := dbconfig.DB.Model(&ticket).Update("is_active", *request.IsActive).Error; err != nil {
		respondError(c, err)
		return
	}
	ticket.IsActive = *request.IsActive

	recordAudit(c, models.ActionUpdate, "chit_members", ticket.ID, fmt.Sprintf("Ticket #%d updated", ticket.TicketNumber),
		gin.H{"is_active": wasActive}, gin.H{"is_active": ticket.IsActive})
	c.JSON(http.StatusOK, ticket)
}

// DeleteChitMember deactivates a ticket; payments and auctions are kept
func DeleteChitMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var ticket models.ChitMember
	if err := dbconfig.DB.First(&ticket, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	wasActive := ticket.IsActive
	if err := dbconfig.DB.Model(&ticket).Update("is_active", false).Error; err != nil {
		respondError(c, err)
		return
	}

	recordAudit(c, models.ActionDelete, "chit_members", ticket.ID, fmt.Sprintf("Ticket #%d deactivated", ticket.TicketNumber),
		gin.H{"is_active": wasActive}, gin.H{"is_active": false})
	c.JSON(http.StatusOK, gin.H{"message": "Ticket deactivated successfully"})
}
