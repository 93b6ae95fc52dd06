package comparison

import (
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusAdded     Status = "added"
	StatusRemoved   Status = "removed"
	StatusIncreased Status = "increased"
	StatusDecreased Status = "decreased"
	StatusUnchanged Status = "unchanged"
)

// Entry describes one category's difference between the active template
// and a monthly budget.
type Entry struct {
	CategoryName  string
	TemplateLimit decimal.Decimal
	MonthLimit    decimal.Decimal
	Difference    decimal.Decimal
	PercentChange decimal.Decimal
	Status        Status
}

type Counts struct {
	Total    int
	Active   int
	Added    int
	Removed  int
	Adjusted int
}

type Result struct {
	Year            int
	Month           int
	Currency        string
	Entries         []Entry
	Counts          Counts
	TotalTemplate   decimal.Decimal
	TotalMonth      decimal.Decimal
	TotalDifference decimal.Decimal
}
