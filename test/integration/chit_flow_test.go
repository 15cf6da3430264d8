package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idResponse struct {
	ID uint `json:"id"`
}

func TestChitLifecycleAPI(t *testing.T) {
	c := newClient(t)
	id := runID()
	username := fmt.Sprintf("it%d", id)

	var user idResponse
	status := c.call(http.MethodPost, "/auth/register", map[string]interface{}{
		"name":     "Integration Organiser",
		"username": username,
		"email":    username + "@example.com",
		"phone":    fmt.Sprintf("7%09d", id),
		"password": "secret123",
	}, &user)
	require.Equal(t, http.StatusCreated, status)

	var group idResponse
	status = c.call(http.MethodPost, "/chit-groups", map[string]interface{}{
		"user_id":          user.ID,
		"name":             "Integration chit",
		"total_amount":     30000,
		"total_members":    3,
		"monthly_amount":   10000,
		"duration_months":  3,
		"commission_type":  "PERCENT",
		"commission_value": 5,
		"round_off_value":  100,
	}, &group)
	require.Equal(t, http.StatusCreated, status)

	var tickets []uint
	for i := 1; i <= 3; i++ {
		var member, ticket idResponse
		require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/members", map[string]interface{}{
			"user_id": user.ID,
			"name":    fmt.Sprintf("Integration member %d", i),
		}, &member))
		require.Equal(t, http.StatusCreated, c.call(http.MethodPost, "/chit-members", map[string]interface{}{
			"member_id":     member.ID,
			"chit_group_id": group.ID,
			"ticket_number": i,
		}, &ticket))
		tickets = append(tickets, ticket.ID)
	}

	t.Run("Record auction", func(t *testing.T) {
		var auction struct {
			RoundoffDividend decimal.Decimal `json:"roundoff_dividend"`
			CarryNext        decimal.Decimal `json:"carry_next"`
		}
		status := c.call(http.MethodPost, "/auctions", map[string]interface{}{
			"chit_group_id":         group.ID,
			"month_number":          1,
			"winner_chit_member_id": tickets[0],
			"original_bid":          3000,
		}, &auction)
		require.Equal(t, http.StatusCreated, status)
		assert.True(t, decimal.NewFromInt(1600).Equal(auction.RoundoffDividend))
		assert.True(t, decimal.NewFromInt(50).Equal(auction.CarryNext))
	})

	t.Run("Collect payments", func(t *testing.T) {
		var receipt struct {
			Status    string          `json:"status"`
			Remaining decimal.Decimal `json:"remaining"`
		}
		status := c.call(http.MethodPost, "/payments", map[string]interface{}{
			"chit_group_id":  group.ID,
			"chit_member_id": tickets[1],
			"month_number":   1,
			"amount_paid":    "9466.67",
			"payment_method": "CASH",
		}, &receipt)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "COMPLETED", receipt.Status)
		assert.True(t, receipt.Remaining.IsZero())

		var sheet struct {
			CollectedTotal decimal.Decimal `json:"collected_total"`
		}
		status = c.call(http.MethodGet, fmt.Sprintf("/payments/tracking?chit_group_id=%d&month_number=1", group.ID), nil, &sheet)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, decimal.RequireFromString("9466.67").Equal(sheet.CollectedTotal))
	})
}
