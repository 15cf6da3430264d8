package business

import (
	"errors"
	"fmt"

	"bidnest/internal/models"
	"bidnest/pkg/settlement"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuctionRequest is one month's auction outcome as entered by the organiser.
type AuctionRequest struct {
	ChitGroupID        uint
	MonthNumber        int
	WinnerChitMemberID uint
	OriginalBid        decimal.Decimal
}

// PreviousCarry returns the carry_next of month-1, or zero for the first
// auction or a gap in the sequence.
func PreviousCarry(db *gorm.DB, groupID uint, month int) (decimal.Decimal, error) {
	if month <= 1 {
		return decimal.Zero, nil
	}
	var prev models.Auction
	err := db.Where("chit_group_id = ? AND month_number = ?", groupID, month-1).First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return prev.CarryNext, nil
}

// SettleAuction validates req against the stored group and computes the
// settlement. Nothing is written.
func SettleAuction(db *gorm.DB, req AuctionRequest) (*models.Auction, error) {
	var group models.ChitGroup
	if err := db.First(&group, req.ChitGroupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.Status == models.GroupStatusCancelled || group.Status == models.GroupStatusCompleted {
		return nil, ErrGroupClosed
	}
	if group.DurationMonths > 0 && req.MonthNumber > group.DurationMonths {
		return nil, ErrMonthOutOfRange
	}

	var winner models.ChitMember
	err := db.Where("id = ? AND chit_group_id = ?", req.WinnerChitMemberID, group.ID).First(&winner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWinnerNotInGroup
	}
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Auction{}).
		Where("chit_group_id = ? AND winner_chit_member_id = ?", group.ID, winner.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTicketAlreadyWon
	}

	if err := db.Model(&models.Auction{}).
		Where("chit_group_id = ? AND month_number = ?", group.ID, req.MonthNumber).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrMonthAlreadyAuctioned
	}

	carry, err := PreviousCarry(db, group.ID, req.MonthNumber)
	if err != nil {
		return nil, err
	}

	commissionType, err := settlement.ParseCommissionType(group.CommissionType)
	if err != nil {
		return nil, err
	}
	res, err := settlement.Compute(settlement.Input{
		TotalAmount:     group.TotalAmount,
		OriginalBid:     req.OriginalBid,
		CommissionType:  commissionType,
		CommissionValue: group.CommissionValue,
		RoundOffValue:   group.RoundOffValue,
		CarryPrevious:   carry,
	})
	if err != nil {
		return nil, err
	}
	share, err := settlement.Distribute(res, group.TotalMembers, group.MonthlyAmount)
	if err != nil {
		return nil, err
	}

	return &models.Auction{
		ChitGroupID:        group.ID,
		MonthNumber:        req.MonthNumber,
		WinnerChitMemberID: winner.ID,
		OriginalBid:        res.OriginalBid,
		WinningAmount:      res.WinningAmount,
		Commission:         res.Commission,
		CarryPrevious:      res.CarryPrevious,
		RawDividend:        res.RawDividend,
		RoundoffDividend:   res.RoundoffDividend,
		CarryNext:          res.CarryNext,
		CalculationData: datatypes.NewJSONType(models.CalculationData{
			TotalAmount:         group.TotalAmount,
			TotalMembers:        group.TotalMembers,
			MonthlyContribution: group.MonthlyAmount,
			DividendPerMember:   share.DividendPerMember,
			AmountToCollect:     share.AmountToCollect,
			DividendRoundingGap: share.RoundingGap,
			CommissionType:      string(commissionType),
			CommissionValue:     group.CommissionValue,
			RoundOffValue:       group.RoundOffValue,
			OriginalBid:         res.OriginalBid,
			WinningAmount:       res.WinningAmount,
			Commission:          res.Commission,
			CarryPrevious:       res.CarryPrevious,
			RawDividend:         res.RawDividend,
			RoundoffDividend:    res.RoundoffDividend,
			CarryNext:           res.CarryNext,
		}),
		ChitGroup:        &group,
		WinnerChitMember: &winner,
	}, nil
}

// RecordAuction settles and stores an auction in one transaction. The unique
// (chit_group_id, month_number) index catches a concurrent recording of the
// same month.
func RecordAuction(db *gorm.DB, req AuctionRequest) (*models.Auction, error) {
	var auction *models.Auction
	err := db.Transaction(func(tx *gorm.DB) error {
		a, err := SettleAuction(tx, req)
		if err != nil {
			return err
		}
		if err := tx.Omit("ChitGroup", "WinnerChitMember").Create(a).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrMonthAlreadyAuctioned
			}
			return fmt.Errorf("store auction: %w", err)
		}
		auction = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return auction, nil
}
