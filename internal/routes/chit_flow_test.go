package routes

import (
	"fmt"
	"net/http"
	"testing"

	"bidnest/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type created struct {
	ID uint `json:"id"`
}

// chitFixture is a three ticket group of 30000, 5% commission, rounding to 100.
type chitFixture struct {
	userID  uint
	groupID uint
	members []uint
	tickets []uint
}

func (a *apiClient) create(path string, body gin.H) uint {
	a.t.Helper()
	w := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out created
	decode(a.t, w, &out)
	return out.ID
}

func (a *apiClient) createGroup(userID uint, members int) uint {
	a.t.Helper()
	return a.create("/api/chit-groups", gin.H{
		"user_id":          userID,
		"name":             "Office chit",
		"total_amount":     10000 * members,
		"total_members":    members,
		"monthly_amount":   10000,
		"duration_months":  members,
		"commission_type":  "PERCENT",
		"commission_value": 5,
		"round_off_value":  100,
	})
}

func newChitFixture(api *apiClient) chitFixture {
	api.t.Helper()
	f := chitFixture{userID: api.register("organiser")}
	f.groupID = api.createGroup(f.userID, 3)
	for i := 1; i <= 3; i++ {
		member := api.create("/api/members", gin.H{
			"user_id": f.userID,
			"name":    fmt.Sprintf("Member %d", i),
			"upi_ids": []string{fmt.Sprintf("member%d@upi", i)},
		})
		ticket := api.create("/api/chit-members", gin.H{
			"member_id":     member,
			"chit_group_id": f.groupID,
			"ticket_number": i,
		})
		f.members = append(f.members, member)
		f.tickets = append(f.tickets, ticket)
	}
	return f
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	want := decimal.RequireFromString(expected)
	require.Truef(t, want.Equal(actual), "expected %s, got %s", want, actual)
}

func TestMemberLifecycle(t *testing.T) {
	api := newAPI(t)
	userID := api.register("roster")

	w := api.do(http.MethodPost, "/api/members", gin.H{"user_id": 999, "name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPost, "/api/members", gin.H{"user_id": userID, "name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := api.create("/api/members", gin.H{
		"user_id": userID,
		"name":    "Lakshmi",
		"mobile":  "9000000001",
		"upi_ids": []string{"lakshmi@upi", "lakshmi@bank"},
	})

	w = api.do(http.MethodPut, fmt.Sprintf("/api/members/%d", id), gin.H{
		"nickname": "Lux",
		"upi_ids":  []string{"lakshmi@upi", "lux@upi"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var member models.Member
	decode(t, w, &member)
	assert.Equal(t, "Lakshmi", member.Name.Data().Value)
	assert.Equal(t, "Lux", member.Nickname.Data().Value)

	upis := member.UpiIDs.Data()
	require.Len(t, upis, 3)
	active := map[string]bool{}
	for _, upi := range upis {
		active[upi.Value] = upi.IsActive
	}
	assert.Equal(t, map[string]bool{"lakshmi@upi": true, "lakshmi@bank": false, "lux@upi": true}, active)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/members?user_id=%d", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Member
	decode(t, w, &list)
	require.Len(t, list, 1)

	w = api.do(http.MethodDelete, fmt.Sprintf("/api/members/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodGet, fmt.Sprintf("/api/members/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &member)
	assert.False(t, member.IsActive)

	w = api.do(http.MethodGet, "/api/members/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ID format", errorOf(t, w))

	w = api.do(http.MethodGet, "/api/members?user_id=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateChitGroupValidation(t *testing.T) {
	api := newAPI(t)
	userID := api.register("validator")

	valid := func() gin.H {
		return gin.H{
			"user_id":          userID,
			"name":             "Family chit",
			"total_amount":     100000,
			"total_members":    20,
			"monthly_amount":   5000,
			"duration_months":  20,
			"commission_type":  "percent",
			"commission_value": 5,
			"round_off_value":  100,
		}
	}

	tests := []struct {
		name   string
		change gin.H
		error  string
	}{
		{"monthly mismatch", gin.H{"monthly_amount": 4000}, "monthly_amount should be 5000.00"},
		{"round off", gin.H{"round_off_value": 25}, "round_off_value must be one of 10, 50, 100"},
		{"commission type", gin.H{"commission_type": "FLAT"}, "commission_type: commission type must be PERCENT or FIXED"},
		{"commission range", gin.H{"commission_value": 101}, "commission_value: commission percent must be between 0 and 100"},
		{"total", gin.H{"total_amount": 0}, "total_amount must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			for k, v := range tt.change {
				body[k] = v
			}
			w := api.do(http.MethodPost, "/api/chit-groups", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.error, errorOf(t, w))
		})
	}

	body := valid()
	body["user_id"] = 999
	w := api.do(http.MethodPost, "/api/chit-groups", body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := api.create("/api/chit-groups", valid())
	w = api.do(http.MethodGet, fmt.Sprintf("/api/chit-groups/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var group models.ChitGroup
	decode(t, w, &group)
	assert.Equal(t, models.GroupStatusPending, group.Status)
	assert.Equal(t, "PERCENT", group.CommissionType)
}

func TestChitGroupUpdateAndCancel(t *testing.T) {
	api := newAPI(t)
	userID := api.register("updater")
	id := api.createGroup(userID, 3)
	path := fmt.Sprintf("/api/chit-groups/%d", id)

	w := api.do(http.MethodPut, path, gin.H{"status": "paused"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPut, path, gin.H{"status": "active", "commission_type": "FIXED", "commission_value": 250, "round_off_value": 50})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var group models.ChitGroup
	decode(t, w, &group)
	assert.Equal(t, models.GroupStatusActive, group.Status)
	assert.Equal(t, "FIXED", group.CommissionType)
	assert.Equal(t, int64(50), group.RoundOffValue)

	w = api.do(http.MethodGet, "/api/chit-groups?status=ACTIVE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var groups []models.ChitGroup
	decode(t, w, &groups)
	assert.Len(t, groups, 1)

	w = api.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, path, nil)
	decode(t, w, &group)
	assert.Equal(t, models.GroupStatusCancelled, group.Status)

	w = api.do(http.MethodGet, "/api/chit-groups/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTicketAssignment(t *testing.T) {
	api := newAPI(t)
	f := newChitFixture(api)

	extra := api.create("/api/members", gin.H{"user_id": f.userID, "name": "Latecomer"})

	w := api.do(http.MethodPost, "/api/chit-members", gin.H{"member_id": extra, "chit_group_id": f.groupID, "ticket_number": 4})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ticket_number must be between 1 and 3", errorOf(t, w))

	w = api.do(http.MethodPost, "/api/chit-members", gin.H{"member_id": extra, "chit_group_id": f.groupID, "ticket_number": 2})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Ticket #2 is already taken", errorOf(t, w))

	w = api.do(http.MethodPost, "/api/chit-members", gin.H{"member_id": 999, "chit_group_id": f.groupID, "ticket_number": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the members also hold tickets in a second group
	other := api.createGroup(f.userID, 4)
	for i, member := range f.members {
		api.create("/api/chit-members", gin.H{"member_id": member, "chit_group_id": other, "ticket_number": i + 1})
	}
	w = api.do(http.MethodPut, fmt.Sprintf("/api/chit-members/%d", f.tickets[0]), gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/chit-members?chit_group_id=%d", f.groupID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tickets []models.ChitMember
	decode(t, w, &tickets)
	require.Len(t, tickets, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{tickets[0].TicketNumber, tickets[1].TicketNumber, tickets[2].TicketNumber})
	assert.False(t, tickets[0].IsActive)
	require.NotNil(t, tickets[0].Member)
	assert.Equal(t, "Member 1", tickets[0].Member.Name.Data().Value)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/chit-members?member_id=%d", f.members[1]), nil)
	decode(t, w, &tickets)
	assert.Len(t, tickets, 2)
}

func TestTicketNumberStaysTaken(t *testing.T) {
	api := newAPI(t)
	userID := api.register("full")
	groupID := api.createGroup(userID, 1)
	first := api.create("/api/members", gin.H{"user_id": userID, "name": "First"})
	second := api.create("/api/members", gin.H{"user_id": userID, "name": "Second"})

	ticket := api.create("/api/chit-members", gin.H{"member_id": first, "chit_group_id": groupID, "ticket_number": 1})

	// deactivating frees the seat but not the ticket number
	w := api.do(http.MethodDelete, fmt.Sprintf("/api/chit-members/%d", ticket), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodPost, "/api/chit-members", gin.H{"member_id": second, "chit_group_id": groupID, "ticket_number": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Ticket #1 is already taken", errorOf(t, w))

	w = api.do(http.MethodPut, fmt.Sprintf("/api/chit-members/%d", ticket), gin.H{"is_active": true})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.ChitMember
	decode(t, w, &updated)
	assert.True(t, updated.IsActive)

	w = api.do(http.MethodPut, fmt.Sprintf("/api/chit-members/%d", ticket), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type auctionBody struct {
	ID               uint                   `json:"id"`
	MonthNumber      int                    `json:"month_number"`
	WinningAmount    decimal.Decimal        `json:"winning_amount"`
	Commission       decimal.Decimal        `json:"commission"`
	CarryPrevious    decimal.Decimal        `json:"carry_previous"`
	RawDividend      decimal.Decimal        `json:"raw_dividend"`
	RoundoffDividend decimal.Decimal        `json:"roundoff_dividend"`
	CarryNext        decimal.Decimal        `json:"carry_next"`
	CalculationData  models.CalculationData `json:"calculation_data"`
}

func TestAuctionFlow(t *testing.T) {
	api := newAPI(t)
	f := newChitFixture(api)

	bid := gin.H{"chit_group_id": f.groupID, "month_number": 1, "winner_chit_member_id": f.tickets[0], "original_bid": 3000}

	w := api.do(http.MethodPost, "/api/auctions/preview", bid)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var preview auctionBody
	decode(t, w, &preview)
	assert.Zero(t, preview.ID)
	requireDecimal(t, "1600", preview.RoundoffDividend)

	w = api.do(http.MethodPost, "/api/auctions", bid)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var month1 auctionBody
	decode(t, w, &month1)
	assert.NotZero(t, month1.ID)
	requireDecimal(t, "27000", month1.WinningAmount)
	requireDecimal(t, "1350", month1.Commission)
	requireDecimal(t, "1650", month1.RawDividend)
	requireDecimal(t, "1600", month1.RoundoffDividend)
	requireDecimal(t, "50", month1.CarryNext)
	requireDecimal(t, "533.33", month1.CalculationData.DividendPerMember)
	requireDecimal(t, "9466.67", month1.CalculationData.AmountToCollect)
	requireDecimal(t, "0.01", month1.CalculationData.DividendRoundingGap)
	assert.Equal(t, 3, month1.CalculationData.TotalMembers)

	w = api.do(http.MethodPost, "/api/auctions", bid)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/api/auctions", gin.H{
		"chit_group_id": f.groupID, "month_number": 2, "winner_chit_member_id": f.tickets[0], "original_bid": 2000,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/api/auctions", gin.H{
		"chit_group_id": f.groupID, "month_number": 2, "winner_chit_member_id": f.tickets[1], "original_bid": 40000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var rejected struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	decode(t, w, &rejected)
	assert.Equal(t, "original_bid", rejected.Field)

	w = api.do(http.MethodPost, "/api/auctions", gin.H{
		"chit_group_id": f.groupID, "month_number": 4, "winner_chit_member_id": f.tickets[1], "original_bid": 2000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/auctions", gin.H{
		"chit_group_id": 999, "month_number": 2, "winner_chit_member_id": f.tickets[1], "original_bid": 2000,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// month 2 picks up the 50 left over from month 1
	w = api.do(http.MethodPost, "/api/auctions", gin.H{
		"chit_group_id": f.groupID, "month_number": 2, "winner_chit_member_id": f.tickets[1], "original_bid": 2000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var month2 auctionBody
	decode(t, w, &month2)
	requireDecimal(t, "50", month2.CarryPrevious)
	requireDecimal(t, "1400", month2.Commission)
	requireDecimal(t, "650", month2.RawDividend)
	requireDecimal(t, "600", month2.RoundoffDividend)
	requireDecimal(t, "50", month2.CarryNext)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/auctions?chit_group_id=%d", f.groupID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Auction
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].MonthNumber)
	assert.Equal(t, 2, list[1].MonthNumber)
	require.NotNil(t, list[0].WinnerChitMember)
	require.NotNil(t, list[0].WinnerChitMember.Member)
	assert.Equal(t, "Member 1", list[0].WinnerChitMember.Member.Name.Data().Value)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/auctions?user_id=%d", f.userID+1), nil)
	decode(t, w, &list)
	assert.Empty(t, list)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/auctions/%d", month1.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var one models.Auction
	decode(t, w, &one)
	require.NotNil(t, one.ChitGroup)
	assert.Equal(t, f.groupID, one.ChitGroup.ID)

	var audited int64
	require.NoError(t, api.db.Model(&models.AuditLog{}).Where("table_name = ?", "auctions").Count(&audited).Error)
	assert.Equal(t, int64(2), audited)
}

func TestMoneyPrecisionIsLimitedToPaise(t *testing.T) {
	api := newAPI(t)
	f := newChitFixture(api)

	tooFine := gin.H{"chit_group_id": f.groupID, "month_number": 1, "winner_chit_member_id": f.tickets[0], "original_bid": 3000.123456}
	for _, path := range []string{"/api/auctions/preview", "/api/auctions"} {
		w := api.do(http.MethodPost, path, tooFine)
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		var rejected struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		decode(t, w, &rejected)
		assert.Equal(t, "original_bid", rejected.Field)
		assert.Equal(t, "original_bid must have at most 2 decimal places", rejected.Error)
	}

	// paise are fine and the stored row matches the response
	w := api.do(http.MethodPost, "/api/auctions", gin.H{
		"chit_group_id": f.groupID, "month_number": 1, "winner_chit_member_id": f.tickets[0], "original_bid": 3000.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var recorded auctionBody
	decode(t, w, &recorded)
	requireDecimal(t, "1349.975", recorded.Commission)
	requireDecimal(t, "1650.525", recorded.RawDividend)
	requireDecimal(t, "50.525", recorded.CarryNext)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/auctions/%d", recorded.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stored auctionBody
	decode(t, w, &stored)
	requireDecimal(t, recorded.RawDividend.String(), stored.RawDividend)
	requireDecimal(t, recorded.CarryNext.String(), stored.CarryNext)

	w = api.do(http.MethodPost, "/api/payments", gin.H{
		"chit_group_id": f.groupID, "chit_member_id": f.tickets[1], "month_number": 1,
		"amount_paid": 100.005, "payment_method": "CASH",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "amount_paid must have at most 2 decimal places", errorOf(t, w))

	w = api.do(http.MethodPut, fmt.Sprintf("/api/chit-groups/%d", f.groupID), gin.H{"commission_value": 2.555})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "commission_value must have at most 2 decimal places", errorOf(t, w))
}

func TestAuctionOnCancelledGroup(t *testing.T) {
	api := newAPI(t)
	f := newChitFixture(api)

	w := api.do(http.MethodDelete, fmt.Sprintf("/api/chit-groups/%d", f.groupID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/api/auctions", gin.H{
		"chit_group_id": f.groupID, "month_number": 1, "winner_chit_member_id": f.tickets[0], "original_bid": 3000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type paymentBody struct {
	ID           uint            `json:"id"`
	Status       string          `json:"status"`
	TicketNumber int             `json:"ticket_number"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	MonthlyDue   decimal.Decimal `json:"monthly_due"`
	Remaining    decimal.Decimal `json:"remaining"`
}

func TestPaymentFlow(t *testing.T) {
	api := newAPI(t)
	f := newChitFixture(api)

	pay := func(ticket uint, amount interface{}, method string) gin.H {
		return gin.H{
			"chit_group_id":  f.groupID,
			"chit_member_id": ticket,
			"month_number":   1,
			"amount_paid":    amount,
			"payment_method": method,
		}
	}

	w := api.do(http.MethodPost, "/api/payments", pay(f.tickets[1], 5000, "CASH"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no auction recorded for this month", errorOf(t, w))

	api.create("/api/auctions", gin.H{
		"chit_group_id": f.groupID, "month_number": 1, "winner_chit_member_id": f.tickets[0], "original_bid": 3000,
	})

	w = api.do(http.MethodPost, "/api/payments", pay(f.tickets[0], 5000, "CASH"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/payments", pay(f.tickets[1], 5000, "UPI"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "upi_id is required for UPI payments", errorOf(t, w))

	w = api.do(http.MethodPost, "/api/payments", pay(f.tickets[1], 0, "CASH"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/payments", pay(f.tickets[1], 100, "CHEQUE"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := pay(f.tickets[1], 5000, "UPI")
	body["upi_id"] = "member2@upi"
	w = api.do(http.MethodPost, "/api/payments", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first paymentBody
	decode(t, w, &first)
	assert.Equal(t, models.PaymentStatusPartial, first.Status)
	assert.Equal(t, 2, first.TicketNumber)
	requireDecimal(t, "9466.67", first.MonthlyDue)
	requireDecimal(t, "4466.67", first.Remaining)

	w = api.do(http.MethodPost, "/api/payments", pay(f.tickets[1], 5000, "CASH"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var over struct {
		Remaining   decimal.Decimal `json:"remaining"`
		AlreadyPaid decimal.Decimal `json:"already_paid"`
	}
	decode(t, w, &over)
	requireDecimal(t, "4466.67", over.Remaining)
	requireDecimal(t, "5000", over.AlreadyPaid)

	w = api.do(http.MethodPost, "/api/payments", pay(f.tickets[1], "4466.67", "BANK_TRANSFER"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var second paymentBody
	decode(t, w, &second)
	assert.Equal(t, models.PaymentStatusCompleted, second.Status)
	requireDecimal(t, "9466.67", second.TotalPaid)
	requireDecimal(t, "0", second.Remaining)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/payments?chit_member_id=%d&month_number=1", f.tickets[1]), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payments []models.Payment
	decode(t, w, &payments)
	require.Len(t, payments, 2)
	assert.Equal(t, second.ID, payments[0].ID)
	require.NotNil(t, payments[1].UpiID)
	assert.Equal(t, "member2@upi", *payments[1].UpiID)

	w = api.do(http.MethodGet, "/api/payments?month_number=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/payments/tracking?chit_group_id=%d&month_number=1", f.groupID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sheet struct {
		ExpectedTotal  decimal.Decimal `json:"expected_total"`
		CollectedTotal decimal.Decimal `json:"collected_total"`
		Tickets        []struct {
			TicketNumber int    `json:"ticket_number"`
			MemberName   string `json:"member_name"`
			Status       string `json:"status"`
		} `json:"tickets"`
	}
	decode(t, w, &sheet)
	requireDecimal(t, "18933.34", sheet.ExpectedTotal)
	requireDecimal(t, "9466.67", sheet.CollectedTotal)
	require.Len(t, sheet.Tickets, 3)
	assert.Equal(t, "WINNER", sheet.Tickets[0].Status)
	assert.Equal(t, models.PaymentStatusCompleted, sheet.Tickets[1].Status)
	assert.Equal(t, "PENDING", sheet.Tickets[2].Status)
	assert.Equal(t, "Member 3", sheet.Tickets[2].MemberName)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/payments/tracking?chit_group_id=%d", f.groupID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodGet, fmt.Sprintf("/api/payments/tracking?chit_group_id=%d&month_number=2", f.groupID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditLogEndpoints(t *testing.T) {
	api := newAPI(t)
	userID := api.register("auditor")
	api.create("/api/members", gin.H{"user_id": userID, "name": "Audited"})

	w := api.do(http.MethodPost, "/api/audit-logs", gin.H{
		"user_id":       userID,
		"action_type":   "UPDATE",
		"action_detail": "Imported from ledger",
		"table_name":    "members",
		"record_id":     "1",
		"new_data":      gin.H{"source": "ledger"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var entry models.AuditLog
	decode(t, w, &entry)

	w = api.do(http.MethodPost, "/api/audit-logs", gin.H{
		"action_type": "EXPORT", "action_detail": "x", "table_name": "members", "record_id": "1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/audit-logs?table_name=members", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logs []models.AuditLog
	decode(t, w, &logs)
	require.Len(t, logs, 2)
	assert.Equal(t, entry.ID, logs[0].ID)

	w = api.do(http.MethodGet, "/api/audit-logs?action_type=create&limit=1", nil)
	decode(t, w, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, "members", logs[0].TargetTable)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/audit-logs/%d", entry.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodGet, "/api/audit-logs/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
