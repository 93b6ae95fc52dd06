package comparison

import (
	"sort"

	"github.com/centavo/centavo/pkg/snapshot"
	"github.com/centavo/centavo/pkg/template"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Compare diffs a monthly budget against the active template. Categories
// inactive in the template and absent from the month are not reported.
func Compare(tmpl template.Template, snap snapshot.Snapshot) Result {
	names := make(map[string]struct{}, len(tmpl.Categories)+len(snap.Categories))
	for name := range tmpl.Categories {
		names[name] = struct{}{}
	}
	for name := range snap.Categories {
		names[name] = struct{}{}
	}

	result := Result{
		Year:     snap.Month.Year,
		Month:    snap.Month.Month,
		Currency: tmpl.Settings.Currency,
		Entries:  make([]Entry, 0, len(names)),
	}

	for name := range names {
		tCfg, inTemplate := tmpl.Categories[name]
		sCfg, inMonth := snap.Categories[name]
		templateActive := inTemplate && tCfg.IsActive
		monthActive := inMonth && sCfg.IsActive

		if !templateActive && !inMonth {
			continue
		}

		entry := Entry{CategoryName: name}
		switch {
		case monthActive && templateActive:
			entry.TemplateLimit = tCfg.MonthlyLimit
			entry.MonthLimit = sCfg.MonthlyLimit
			entry.Difference = sCfg.MonthlyLimit.Sub(tCfg.MonthlyLimit)
			entry.PercentChange = percentChange(tCfg.MonthlyLimit, entry.Difference)
			switch entry.Difference.Sign() {
			case 1:
				entry.Status = StatusIncreased
			case -1:
				entry.Status = StatusDecreased
			default:
				entry.Status = StatusUnchanged
			}
		case monthActive:
			entry.MonthLimit = sCfg.MonthlyLimit
			entry.Difference = sCfg.MonthlyLimit
			entry.Status = StatusAdded
		default:
			// dropped from the month, either deactivated in place or
			// never carried over from the template
			if inTemplate {
				entry.TemplateLimit = tCfg.MonthlyLimit
			}
			entry.Difference = entry.TemplateLimit.Neg()
			entry.PercentChange = percentChange(entry.TemplateLimit, entry.Difference)
			entry.Status = StatusRemoved
		}
		result.Entries = append(result.Entries, entry)

		switch entry.Status {
		case StatusAdded:
			result.Counts.Added++
		case StatusRemoved:
			result.Counts.Removed++
		case StatusIncreased, StatusDecreased:
			result.Counts.Active++
			result.Counts.Adjusted++
		default:
			result.Counts.Active++
		}
	}
	result.Counts.Total = len(result.Entries)

	sort.Slice(result.Entries, func(i, j int) bool {
		return result.Entries[i].CategoryName < result.Entries[j].CategoryName
	})

	result.TotalTemplate = tmpl.ActiveTotal()
	result.TotalMonth = snap.ActiveTotal()
	result.TotalDifference = result.TotalMonth.Sub(result.TotalTemplate)
	return result
}

func percentChange(base, difference decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return difference.Div(base).Mul(hundred).Round(2)
}
