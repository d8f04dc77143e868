package query

// SortField is one ORDER BY term expressed as a view field name.
type SortField struct {
	Field      string
	Descending bool
}
