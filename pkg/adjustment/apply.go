package adjustment

import (
	"github.com/centavo/centavo/pkg/template"
	log "github.com/sirupsen/logrus"
)

// Apply overwrites category limits in the given mapping with the new limits of
// every adjustment targeting (year, month). Adjustments referencing a category
// absent from the mapping are dropped without error. Returns the number of
// adjustments applied.
func Apply(adjustments []ScheduledAdjustment, year int, month int, categories map[string]template.CategoryConfig) int {
	applied := 0
	for _, adj := range adjustments {
		if !adj.TargetsMonth(year, month) {
			continue
		}
		category, ok := categories[adj.CategoryName]
		if !ok {
			log.Debugf("dropping scheduled adjustment %s: category %q no longer exists", adj.Id, adj.CategoryName)
			continue
		}
		category.MonthlyLimit = adj.NewLimit
		categories[adj.CategoryName] = category
		applied++
	}
	return applied
}
