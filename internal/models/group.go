package models

// Group is a topic community. The slug is the stable identifier used in URLs
// and as the chat routing key; it never changes after creation.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
}

// GroupShape selects the field set a response carries.
type GroupShape int

const (
	// GroupShapeSummary is the reduced shape served for listings.
	GroupShapeSummary GroupShape = iota
	// GroupShapeDetail is the full record, served for a single group.
	GroupShapeDetail
)

// GroupSummary carries the listing fields. The slug stays in because it is
// the URL identifier clients navigate with.
type GroupSummary struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Render maps the requested shape to the serialized form of the group.
func (g *Group) Render(shape GroupShape) any {
	if shape == GroupShapeSummary {
		return GroupSummary{Title: g.Title, Slug: g.Slug, Description: g.Description}
	}
	return g
}
