package query_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/philatopia/pkg/query"
)

func stampProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "stamps", "s").
		Project("id", "ID").
		Project("name", "Name").
		Project("user_id", "UserID").
		Project("created_at", "CreatedAt")
}

func TestProjectionMap(t *testing.T) {
	pm := stampProjection()

	if pm.Alias() != "s" {
		t.Errorf("Alias() = %q, want s", pm.Alias())
	}
	if pm.Table() != "public.stamps s" {
		t.Errorf("Table() = %q, want public.stamps s", pm.Table())
	}
	if pm.Column("UserID") != "s.user_id" {
		t.Errorf("Column(UserID) = %q, want s.user_id", pm.Column("UserID"))
	}
	if pm.Column("Unknown") != "Unknown" {
		t.Errorf("Column(Unknown) = %q, want input unchanged", pm.Column("Unknown"))
	}
	if pm.Columns() != "s.id, s.name, s.user_id, s.created_at" {
		t.Errorf("Columns() = %q", pm.Columns())
	}

	list := pm.ColumnList()
	list[0] = "mutated"
	if pm.ColumnList()[0] != "s.id" {
		t.Error("ColumnList() exposes internal slice")
	}
}

func TestBuilder_BuildCount(t *testing.T) {
	sql, args := query.NewBuilder(stampProjection()).BuildCount()

	if sql != "SELECT COUNT(*) FROM public.stamps s" {
		t.Errorf("BuildCount() = %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilder_BuildPage(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		want       string
	}{
		{"first page", 1, 8, "LIMIT 8 OFFSET 0"},
		{"second page", 2, 8, "LIMIT 8 OFFSET 8"},
		{"third page of ten", 3, 10, "LIMIT 10 OFFSET 20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(stampProjection(),
				query.SortField{Field: "CreatedAt"},
				query.SortField{Field: "ID"},
			)
			sql, _ := b.BuildPage(tt.page, tt.size)

			if !strings.HasSuffix(sql, tt.want) {
				t.Errorf("BuildPage() = %q, want suffix %q", sql, tt.want)
			}
			if !strings.Contains(sql, "ORDER BY s.created_at ASC, s.id ASC") {
				t.Errorf("BuildPage() missing default order, got %q", sql)
			}
		})
	}
}

func TestBuilder_WhereEquals(t *testing.T) {
	owner := "6f1c2d3e-0000-0000-0000-000000000001"
	var missing *string

	b := query.NewBuilder(stampProjection(), query.SortField{Field: "Name"}).
		WhereEquals("UserID", &owner).
		WhereEquals("Name", missing).
		WhereEquals("ID", nil).
		WhereEquals("Name", "Penny Black")

	sql, args := b.Build()

	want := "SELECT s.id, s.name, s.user_id, s.created_at FROM public.stamps s WHERE s.user_id = $1 AND s.name = $2 ORDER BY s.name ASC"
	if sql != want {
		t.Errorf("Build() =\n%q\nwant\n%q", sql, want)
	}
	if len(args) != 2 || args[0] != owner || args[1] != "Penny Black" {
		t.Errorf("args = %v, want [%s Penny Black]", args, owner)
	}
}

func TestBuilder_OrderBy(t *testing.T) {
	pm := stampProjection()

	sql, _ := query.NewBuilder(pm, query.SortField{Field: "Name"}).OrderBy("CreatedAt", true).Build()
	if !strings.HasSuffix(sql, "ORDER BY s.created_at DESC") {
		t.Errorf("OrderBy() = %q", sql)
	}

	sql, _ = query.NewBuilder(pm, query.SortField{Field: "Name"}).OrderBy("", true).Build()
	if !strings.HasSuffix(sql, "ORDER BY s.name ASC") {
		t.Errorf("empty OrderBy() should use default, got %q", sql)
	}

	sql, _ = query.NewBuilder(pm).Build()
	if strings.Contains(sql, "ORDER BY") {
		t.Errorf("Build() without sort should not order, got %q", sql)
	}
}

func TestBuilder_BuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(stampProjection()).BuildSingle("ID", "abc")

	if !strings.HasSuffix(sql, "WHERE s.id = $1") {
		t.Errorf("BuildSingle() = %q", sql)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args = %v, want [abc]", args)
	}
}
