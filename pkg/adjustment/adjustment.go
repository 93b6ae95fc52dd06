package adjustment

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduledAdjustment is a user-queued category limit change that takes effect
// when the target month's budget snapshot is first created. It never touches
// the current month.
type ScheduledAdjustment struct {
	Id           string
	CategoryName string
	// CurrentLimit is the category's limit at the time of scheduling, kept for display.
	CurrentLimit decimal.Decimal
	NewLimit     decimal.Decimal
	TargetYear   int
	TargetMonth  int
	Reason       string
	CreatedAt    time.Time
}

// TargetsMonth reports whether the adjustment is aimed at the given month.
func (a ScheduledAdjustment) TargetsMonth(year int, month int) bool {
	return a.TargetYear == year && a.TargetMonth == month
}

// NextMonth returns the calendar month following the given moment,
// wrapping December into January of the next year.
func NextMonth(now time.Time) (year int, month int) {
	year = now.Year()
	month = int(now.Month()) + 1
	if month > 12 {
		month = 1
		year++
	}
	return year, month
}
