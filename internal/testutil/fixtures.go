package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bidnest/internal/auth"
	"bidnest/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Password is the plain password of every fixture user.
const Password = "secret123"

var (
	hashOnce     sync.Once
	passwordHash string
	phoneSeq     atomic.Int64
)

func fixtureHash(t *testing.T) string {
	hashOnce.Do(func() {
		h, err := auth.HashPassword(Password)
		require.NoError(t, err)
		passwordHash = h
	})
	return passwordHash
}

// CreateUser stores an active user whose password is Password.
func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Name:         models.Tracked("User " + username),
		Username:     username,
		Email:        username + "@example.com",
		Phone:        fmt.Sprintf("9%09d", phoneSeq.Add(1)),
		PasswordHash: fixtureHash(t),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateMember stores a member of userID.
func CreateMember(t *testing.T, db *gorm.DB, userID uint, name string) models.Member {
	t.Helper()
	member := models.Member{
		UserID:   userID,
		Name:     models.Tracked(name),
		Nickname: models.Tracked(""),
		Mobile:   models.Tracked("9000000000"),
		UpiIDs:   models.NewUpiIDs([]string{name + "@upi"}),
		IsActive: true,
	}
	require.NoError(t, db.Create(&member).Error)
	return member
}

// CreateGroup stores an ACTIVE group of 100000 over 20 members, 5% commission,
// rounding to 100.
func CreateGroup(t *testing.T, db *gorm.DB, userID uint) models.ChitGroup {
	t.Helper()
	start := time.Now().Add(-24 * time.Hour)
	group := models.ChitGroup{
		UserID:           userID,
		Name:             "Test group",
		TotalAmount:      decimal.NewFromInt(100000),
		TotalMembers:     20,
		MonthlyAmount:    decimal.NewFromInt(5000),
		DurationMonths:   20,
		CommissionType:   "PERCENT",
		CommissionValue:  decimal.NewFromInt(5),
		RoundOffValue:    100,
		Status:           models.GroupStatusActive,
		AuctionStartDate: &start,
	}
	require.NoError(t, db.Create(&group).Error)
	return group
}

// CreateTicket seats member in group with the given ticket number.
func CreateTicket(t *testing.T, db *gorm.DB, groupID, memberID uint, ticket int) models.ChitMember {
	t.Helper()
	cm := models.ChitMember{
		ChitGroupID:  groupID,
		MemberID:     memberID,
		TicketNumber: ticket,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&cm).Error)
	return cm
}
