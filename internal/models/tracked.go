package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func init() {
	// money goes over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// TrackedValue is a profile field that remembers when it last changed.
type TrackedValue struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpiID is one payment handle of a member.
type UpiID struct {
	Value    string    `json:"value"`
	AddedAt  time.Time `json:"added_at"`
	IsActive bool      `json:"is_active"`
}

// Tracked wraps value with the current time.
func Tracked(value string) datatypes.JSONType[TrackedValue] {
	return datatypes.NewJSONType(TrackedValue{Value: value, UpdatedAt: time.Now()})
}

// NewUpiIDs turns plain handles into active UPI entries.
func NewUpiIDs(values []string) datatypes.JSONType[[]UpiID] {
	now := time.Now()
	ids := make([]UpiID, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		ids = append(ids, UpiID{Value: v, AddedAt: now, IsActive: true})
	}
	return datatypes.NewJSONType(ids)
}
