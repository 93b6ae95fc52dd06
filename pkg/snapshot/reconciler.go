package snapshot

import (
	"github.com/centavo/centavo/pkg/template"
)

// Reconcile merges a stored snapshot with the latest template and returns the
// mapping to display for the month. Limits already stored in the snapshot are
// never changed; only metadata is refreshed:
//
//   - categories present in both get IsActive, Color, Description, and
//     WarningThreshold from the template while keeping the snapshot's limit;
//   - categories only in the template are included only when
//     allowNewCategories is true (snapshot creation); an existing month never
//     picks up categories added to the template later;
//   - categories only in the snapshot (removed from the template) are kept
//     with IsActive forced to false;
//   - global settings always come from the template.
//
// The input snapshot is not modified.
func Reconcile(snap Snapshot, tmpl template.Template, allowNewCategories bool) Snapshot {
	result := snap
	result.Categories = make(map[string]template.CategoryConfig, len(snap.Categories))

	for name, stored := range snap.Categories {
		fromTemplate, inTemplate := tmpl.Categories[name]
		if inTemplate {
			stored.IsActive = fromTemplate.IsActive
			stored.Color = fromTemplate.Color
			stored.Description = fromTemplate.Description
			stored.WarningThreshold = fromTemplate.WarningThreshold
		} else {
			stored.IsActive = false
		}
		result.Categories[name] = stored
	}

	if allowNewCategories {
		for name, fromTemplate := range tmpl.Categories {
			if _, exists := result.Categories[name]; !exists {
				result.Categories[name] = fromTemplate
			}
		}
	}

	result.Settings = tmpl.Settings
	return result
}
