package snapshot

import (
	"github.com/centavo/centavo/pkg/template"
	"github.com/shopspring/decimal"
)

// Snapshot is one calendar month's materialized copy of the template
// ("monthly budget"). Categories are seeded from the template when the month
// is first accessed and their limits then diverge independently; metadata
// (color, threshold, active flag) is re-derived from the template on every
// read and never written back.
type Snapshot struct {
	Id         int
	Month      Month
	Categories map[string]template.CategoryConfig
	Settings   template.GlobalSettings
	// AdjustmentCount is the number of limit changes applied after creation.
	AdjustmentCount int
	IsLocked        bool
}

// ActiveTotal returns the sum of monthly limits over active categories.
// Inactive categories never contribute to aggregate sums.
func (s Snapshot) ActiveTotal() decimal.Decimal {
	total := decimal.Zero
	for _, category := range s.Categories {
		if category.IsActive {
			total = total.Add(category.MonthlyLimit)
		}
	}
	return total
}
