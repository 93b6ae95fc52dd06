package template

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryConfig is the per-category spending configuration shared by the
// template and by monthly snapshots.
type CategoryConfig struct {
	Name string
	// MonthlyLimit is the budgeted amount for one calendar month. Never negative.
	MonthlyLimit decimal.Decimal
	// WarningThreshold is the percentage of the limit (0-100) at which the user should be warned.
	WarningThreshold int
	IsActive         bool
	Color            string
	Description      string
}

type GlobalSettings struct {
	Currency        string
	NotifyOverspend bool
	NotifyWarning   bool
}

// Template is the user's standing budget configuration ("personal budget").
// Every edit produces a new version and deactivates the previous one;
// historical versions are never mutated.
type Template struct {
	Id         int
	Version    int
	IsActive   bool
	Categories map[string]CategoryConfig
	Settings   GlobalSettings
	CreatedAt  time.Time
}

// ActiveTotal returns the sum of monthly limits over active categories.
func (t Template) ActiveTotal() decimal.Decimal {
	total := decimal.Zero
	for _, category := range t.Categories {
		if category.IsActive {
			total = total.Add(category.MonthlyLimit)
		}
	}
	return total
}
