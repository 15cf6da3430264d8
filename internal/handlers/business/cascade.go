package business

import (
	"bidnest/internal/models"

	"gorm.io/gorm"
)

// Admin deletes remove dependent rows first so no payment, auction or
// ticket is left pointing at a deleted parent.

// DeleteUserCascade removes a user and everything they own.
func DeleteUserCascade(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		groupIDs := tx.Model(&models.ChitGroup{}).Select("id").Where("user_id = ?", userID)
		memberIDs := tx.Model(&models.Member{}).Select("id").Where("user_id = ?", userID)
		ticketIDs := tx.Model(&models.ChitMember{}).Select("id").
			Where("chit_group_id IN (?) OR member_id IN (?)", groupIDs, memberIDs)

		steps := []func() error{
			func() error {
				return tx.Where("chit_group_id IN (?) OR chit_member_id IN (?)", groupIDs, ticketIDs).Delete(&models.Payment{}).Error
			},
			func() error { return tx.Where("chit_group_id IN (?)", groupIDs).Delete(&models.Auction{}).Error },
			func() error {
				return tx.Where("chit_group_id IN (?) OR member_id IN (?)", groupIDs, memberIDs).Delete(&models.ChitMember{}).Error
			},
			func() error { return tx.Where("user_id = ?", userID).Delete(&models.Member{}).Error },
			func() error { return tx.Where("user_id = ?", userID).Delete(&models.ChitGroup{}).Error },
			func() error { return tx.Where("user_id = ?", userID).Delete(&models.AuditLog{}).Error },
			func() error { return tx.Delete(&models.User{}, userID).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteGroupCascade removes a group with its payments, auctions and tickets.
func DeleteGroupCascade(db *gorm.DB, groupID uint) (*models.ChitGroup, error) {
	var group models.ChitGroup
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&group, groupID).Error; err != nil {
			return err
		}
		if err := tx.Where("chit_group_id = ?", groupID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chit_group_id = ?", groupID).Delete(&models.Auction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("chit_group_id = ?", groupID).Delete(&models.ChitMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChitGroup{}, groupID).Error
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteMemberCascade removes a member, their tickets and the tickets' payments.
// Auctions won by those tickets are removed with their month's payments.
func DeleteMemberCascade(db *gorm.DB, memberID uint) (*models.Member, error) {
	var member models.Member
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, memberID).Error; err != nil {
			return err
		}
		var tickets []models.ChitMember
		if err := tx.Where("member_id = ?", memberID).Find(&tickets).Error; err != nil {
			return err
		}
		for _, t := range tickets {
			if err := deleteTicket(tx, t.ID); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Member{}, memberID).Error
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// DeleteTicketCascade removes a ticket with its payments and any auction it won.
func DeleteTicketCascade(db *gorm.DB, ticketID uint) (*models.ChitMember, error) {
	var ticket models.ChitMember
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ticket, ticketID).Error; err != nil {
			return err
		}
		return deleteTicket(tx, ticketID)
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func deleteTicket(tx *gorm.DB, ticketID uint) error {
	var won []models.Auction
	if err := tx.Where("winner_chit_member_id = ?", ticketID).Find(&won).Error; err != nil {
		return err
	}
	for _, a := range won {
		if err := deleteAuction(tx, &a); err != nil {
			return err
		}
	}
	if err := tx.Where("chit_member_id = ?", ticketID).Delete(&models.Payment{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.ChitMember{}, ticketID).Error
}

// DeleteAuctionCascade removes an auction and the payments made for its month.
func DeleteAuctionCascade(db *gorm.DB, auctionID uint) (*models.Auction, error) {
	var auction models.Auction
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&auction, auctionID).Error; err != nil {
			return err
		}
		return deleteAuction(tx, &auction)
	})
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

func deleteAuction(tx *gorm.DB, a *models.Auction) error {
	if err := tx.Where("chit_group_id = ? AND month_number = ?", a.ChitGroupID, a.MonthNumber).
		Delete(&models.Payment{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Auction{}, a.ID).Error
}
