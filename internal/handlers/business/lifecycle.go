package business

import (
	"time"

	"bidnest/internal/models"

	"gorm.io/gorm"
)

// Transition is one automatic status change of a chit group.
type Transition struct {
	ChitGroupID uint   `json:"chit_group_id"`
	From        string `json:"from"`
	To          string `json:"to"`
}

// AdvanceGroupLifecycles activates pending groups whose auction start date has
// passed and completes active groups that have run all their auctions.
// Each update is conditional on the old status so concurrent runs do not
// double-apply.
func AdvanceGroupLifecycles(db *gorm.DB, now time.Time) ([]Transition, error) {
	var transitions []Transition

	var pending []models.ChitGroup
	if err := db.Where("status = ? AND auction_start_date IS NOT NULL AND auction_start_date <= ?",
		models.GroupStatusPending, now).Find(&pending).Error; err != nil {
		return transitions, err
	}
	for _, g := range pending {
		res := db.Model(&models.ChitGroup{}).
			Where("id = ? AND status = ?", g.ID, models.GroupStatusPending).
			Update("status", models.GroupStatusActive)
		if res.Error != nil {
			return transitions, res.Error
		}
		if res.RowsAffected > 0 {
			transitions = append(transitions, Transition{ChitGroupID: g.ID, From: models.GroupStatusPending, To: models.GroupStatusActive})
		}
	}

	var active []models.ChitGroup
	if err := db.Where("status = ? AND duration_months > 0", models.GroupStatusActive).Find(&active).Error; err != nil {
		return transitions, err
	}
	for _, g := range active {
		var count int64
		if err := db.Model(&models.Auction{}).Where("chit_group_id = ?", g.ID).Count(&count).Error; err != nil {
			return transitions, err
		}
		if count < int64(g.DurationMonths) {
			continue
		}
		res := db.Model(&models.ChitGroup{}).
			Where("id = ? AND status = ?", g.ID, models.GroupStatusActive).
			Update("status", models.GroupStatusCompleted)
		if res.Error != nil {
			return transitions, res.Error
		}
		if res.RowsAffected > 0 {
			transitions = append(transitions, Transition{ChitGroupID: g.ID, From: models.GroupStatusActive, To: models.GroupStatusCompleted})
		}
	}

	return transitions, nil
}
