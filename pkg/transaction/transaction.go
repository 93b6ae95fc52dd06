package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a single recorded expense.
type Entry struct {
	Id           string
	CategoryName string
	Amount       decimal.Decimal
	Date         time.Time
	Note         string
	CreatedAt    time.Time
}

// CategorySpend is the amount spent in one category over a month.
type CategorySpend struct {
	CategoryName string
	Spent        decimal.Decimal
	EntryCount   int
}
