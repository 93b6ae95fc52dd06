package event_bus

// Event types published by the application.
const (
	TemplateVersionCreatedType EventType = "template.version.created"
	SnapshotCreatedType        EventType = "snapshot.created"
)

// TemplateVersionCreated is published whenever saving the personal budget
// produces a new template version. RemovedCategories lists category names that
// were present in the superseded version but are absent from the new one.
type TemplateVersionCreated struct {
	TemplateId        int
	Version           int
	RemovedCategories []string
}

// SnapshotCreated is published when a monthly budget is materialized from the
// template for the first time (month rollover).
type SnapshotCreated struct {
	SnapshotId       int
	Year             int
	Month            int
	AppliedCount     int
	CategoriesSeeded int
}
