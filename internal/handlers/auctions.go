package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bidnest/internal/handlers/business"
	"bidnest/internal/metrics"
	"bidnest/internal/middleware"
	"bidnest/internal/models"
	dbconfig "bidnest/pkg/config"
	"bidnest/pkg/feed"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EventAuctionRecorded is the feed and queue event for a stored auction.
const EventAuctionRecorded = "auction.recorded"

// EventPublisher delivers auction events to a message queue.
type EventPublisher interface {
	Publish(ctx context.Context, queueName string, message interface{}) error
}

var (
	eventsMu sync.RWMutex
	events   EventPublisher

	// AuctionFeed streams recorded auctions to /ws/auctions subscribers.
	AuctionFeed = feed.NewHub(originAllowed)
)

// SetEventPublisher routes auction.recorded events to a queue. nil disables it.
func SetEventPublisher(p EventPublisher) {
	eventsMu.Lock()
	defer eventsMu.Unlock()
	events = p
}

// originAllowed accepts non-browser clients and the configured origins. With
// no origins configured every origin is accepted.
func originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(dbconfig.App.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range dbconfig.App.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// AuctionRecordedEvent is the body published for every stored auction.
type AuctionRecordedEvent struct {
	AuctionID          uint            `json:"auction_id"`
	ChitGroupID        uint            `json:"chit_group_id"`
	MonthNumber        int             `json:"month_number"`
	WinnerChitMemberID uint            `json:"winner_chit_member_id"`
	OriginalBid        decimal.Decimal `json:"original_bid"`
	RoundoffDividend   decimal.Decimal `json:"roundoff_dividend"`
	CarryNext          decimal.Decimal `json:"carry_next"`
	DividendPerMember  decimal.Decimal `json:"dividend_per_member"`
	AmountToCollect    decimal.Decimal `json:"amount_to_collect"`
	RecordedAt         time.Time       `json:"recorded_at"`
}

func newAuctionRecordedEvent(a *models.Auction) AuctionRecordedEvent {
	calc := a.CalculationData.Data()
	return AuctionRecordedEvent{
		AuctionID:          a.ID,
		ChitGroupID:        a.ChitGroupID,
		MonthNumber:        a.MonthNumber,
		WinnerChitMemberID: a.WinnerChitMemberID,
		OriginalBid:        a.OriginalBid,
		RoundoffDividend:   a.RoundoffDividend,
		CarryNext:          a.CarryNext,
		DividendPerMember:  calc.DividendPerMember,
		AmountToCollect:    calc.AmountToCollect,
		RecordedAt:         a.CreatedAt,
	}
}

// announceAuction tells the queue and the live feed about a stored auction.
// Neither failure affects the response.
func announceAuction(ctx context.Context, a *models.Auction) {
	event := newAuctionRecordedEvent(a)

	eventsMu.RLock()
	p := events
	eventsMu.RUnlock()
	if p != nil {
		if err := p.Publish(ctx, dbconfig.AuctionRecordedQueue, event); err != nil {
			log.WithFields(log.Fields{
				"auction_id":    a.ID,
				"chit_group_id": a.ChitGroupID,
			}).Warnf("Failed to publish auction event: %v", err)
		}
	}

	AuctionFeed.Broadcast(a.ChitGroupID, EventAuctionRecorded, event)
}

// AuctionRequest represents the request body for recording or previewing an auction
type AuctionRequest struct {
	ChitGroupID        uint            `json:"chit_group_id" binding:"required"`
	MonthNumber        int             `json:"month_number" binding:"required,min=1"`
	WinnerChitMemberID uint            `json:"winner_chit_member_id" binding:"required"`
	OriginalBid        decimal.Decimal `json:"original_bid"`
}

// checkBid rejects bids finer than the money columns so the stored
// settlement matches the one returned.
func (r AuctionRequest) checkBid(c *gin.Context) bool {
	if !hasMoneyScale(r.OriginalBid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": scaleError("original_bid"), "field": "original_bid"})
		return false
	}
	return true
}

func (r AuctionRequest) toBusiness() business.AuctionRequest {
	return business.AuctionRequest{
		ChitGroupID:        r.ChitGroupID,
		MonthNumber:        r.MonthNumber,
		WinnerChitMemberID: r.WinnerChitMemberID,
		OriginalBid:        r.OriginalBid,
	}
}

// CreateAuction settles and records one month's auction
func CreateAuction(c *gin.Context) {
	var request AuctionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !request.checkBid(c) {
		return
	}

	auction, err := business.RecordAuction(dbconfig.DB, request.toBusiness())
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.AuctionsRecorded.Inc()

	recordAudit(c, models.ActionCreate, "auctions", auction.ID,
		fmt.Sprintf("Auction recorded for %s month %d", auction.ChitGroup.Name, auction.MonthNumber), nil, auction.CalculationData.Data())
	announceAuction(c.Request.Context(), auction)

	c.JSON(http.StatusCreated, auction)
}

// PreviewAuction returns the settlement an auction would produce without storing it
func PreviewAuction(c *gin.Context) {
	var request AuctionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !request.checkBid(c) {
		return
	}

	auction, err := business.SettleAuction(dbconfig.DB, request.toBusiness())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, auction)
}

// ListAuctions returns auctions ordered by month, filtered by chit_group_id and user_id
func ListAuctions(c *gin.Context) {
	filters, ok := queryFilters(c, "chit_group_id", "user_id")
	if !ok {
		return
	}

	query := dbconfig.DB.Model(&models.Auction{}).Preload("WinnerChitMember.Member")
	if id, ok := filters["chit_group_id"]; ok {
		query = query.Where("auctions.chit_group_id = ?", id)
	}
	if id, ok := filters["user_id"]; ok {
		query = query.Where("auctions.chit_group_id IN (?)",
			dbconfig.DB.Model(&models.ChitGroup{}).Select("id").Where("user_id = ?", id))
	}

	var auctions []models.Auction
	if err := query.Order("auctions.chit_group_id ASC, auctions.month_number ASC").Find(&auctions).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, auctions)
}

// GetAuction returns an auction with its group and winning ticket
func GetAuction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var auction models.Auction
	err := dbconfig.DB.
		Preload("ChitGroup").
		Preload("WinnerChitMember", func(db *gorm.DB) *gorm.DB { return db.Preload("Member") }).
		First(&auction, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Auction not found"})
		return
	}
	c.JSON(http.StatusOK, auction)
}

// AuctionFeedHandler upgrades the request to the live auction websocket of
// one chit group owned by the caller.
func AuctionFeedHandler(c *gin.Context) {
	groupID, ok, err := queryID(c, "chit_group_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chit_group_id is required"})
		return
	}

	userID := middleware.GetUserID(c)
	var group models.ChitGroup
	err = dbconfig.DB.Select("id").Where("id = ? AND user_id = ?", groupID, *userID).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chit group not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	AuctionFeed.ServeWS(c)
}
