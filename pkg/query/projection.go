// Package query builds parameterized PostgreSQL statements from a projection
// of table columns onto view field names.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view field names to qualified table columns.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []string
	byView  map[string]string
}

func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		byView: make(map[string]string),
	}
}

// Project adds column under viewName. Projection order defines SELECT order.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns = append(p.columns, qualified)
	p.byView[viewName] = qualified
	return p
}

func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the schema-qualified table with its alias.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column resolves a view name. Unknown names are returned unchanged.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.byView[viewName]; ok {
		return col
	}
	return viewName
}

func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

func (p *ProjectionMap) ColumnList() []string {
	out := make([]string, len(p.columns))
	copy(out, p.columns)
	return out
}
