package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRentalDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", date(2024, 1, 1), date(2024, 1, 1), 1},
		{"five inclusive days", date(2024, 1, 1), date(2024, 1, 5), 5},
		{"month boundary", date(2024, 1, 31), date(2024, 2, 1), 2},
		{"leap february", date(2024, 2, 28), date(2024, 3, 1), 3},
		{"reversed order still counts", date(2024, 1, 5), date(2024, 1, 1), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RentalDays(tc.start, tc.end))
		})
	}
}

func TestTotalRent(t *testing.T) {
	// 5 inclusive days at 100 cents/day.
	got := TotalRent(date(2024, 1, 1), date(2024, 1, 5), 100)
	assert.Equal(t, int64(500), got)

	// Single day bills one full day.
	assert.Equal(t, int64(2500), TotalRent(date(2024, 6, 10), date(2024, 6, 10), 2500))
}

func TestDisplayStatus(t *testing.T) {
	today := date(2024, 5, 10)
	cases := []struct {
		name     string
		status   string
		method   string
		start    time.Time
		end      time.Time
		expected string
	}{
		{"pending cash awaits staff", ContractPending, MethodCash, date(2024, 5, 1), date(2024, 5, 20), DisplayAwaitingPayment},
		{"pending without payment is unknown", ContractPending, "", date(2024, 5, 1), date(2024, 5, 20), DisplayUnknown},
		{"active covering today is in progress", ContractActive, MethodCard, date(2024, 5, 1), date(2024, 5, 20), DisplayInProgress},
		{"active starting today is in progress", ContractActive, MethodCard, today, date(2024, 5, 20), DisplayInProgress},
		{"active ending today is in progress", ContractActive, MethodCash, date(2024, 5, 1), today, DisplayInProgress},
		{"active in the future is pending", ContractActive, MethodCard, date(2024, 6, 1), date(2024, 6, 5), DisplayPending},
		{"active in the past is unknown until swept", ContractActive, MethodCard, date(2024, 4, 1), date(2024, 4, 5), DisplayUnknown},
		{"completed", ContractCompleted, MethodCash, date(2024, 4, 1), date(2024, 4, 5), DisplayCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DisplayStatus(tc.status, tc.method, today, tc.start, tc.end)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	in := time.Date(2024, 5, 10, 1, 30, 0, 0, loc) // 2024-05-09 22:30 UTC
	got := DateOnly(in)
	assert.Equal(t, date(2024, 5, 9), got)
	assert.Equal(t, time.UTC, got.Location())
}
