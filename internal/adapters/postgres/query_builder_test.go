package postgres

import (
	"testing"

	"catalog-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestApplyFilters(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		where, args := applyFilters(nil)
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("one trait", func(t *testing.T) {
		where, args := applyFilters(domain.AttributeFilters{"Model": {"A", "B"}})

		assert.Equal(t, "WHERE EXISTS (SELECT 1 FROM jsonb_array_elements("+attributesArrayExpr+") AS a(elem) "+
			"WHERE a.elem->>'trait_type' = $2::text AND COALESCE(a.elem->>'value', '') = ANY($1::text[]))", where)
		assert.Contains(t, where, "WHEN 'string' THEN")
		assert.Equal(t, []interface{}{[]string{"A", "B"}, "Model"}, args)
	})

	t.Run("traits are ANDed in sorted order", func(t *testing.T) {
		where, args := applyFilters(domain.AttributeFilters{
			"Symbol":   {"Star"},
			"Backdrop": {"Blue"},
		})

		assert.Contains(t, where, " AND ")
		assert.Contains(t, where, "$1::text[]")
		assert.Contains(t, where, "$4::text")
		assert.Equal(t, []interface{}{[]string{"Blue"}, "Backdrop", []string{"Star"}, "Symbol"}, args)
	})

	t.Run("values never reach SQL text", func(t *testing.T) {
		where, _ := applyFilters(domain.AttributeFilters{"Model'; DROP TABLE x; --": {"' OR 1=1"}})
		assert.NotContains(t, where, "DROP")
		assert.NotContains(t, where, "1=1")
	})
}

func TestOrderByClause(t *testing.T) {
	tests := []struct {
		sort domain.SortOrder
		want string
	}{
		{sort: domain.DefaultSort, want: "ORDER BY t.id ASC"},
		{sort: domain.SortOrder{Field: domain.SortByID, Descending: true}, want: "ORDER BY t.id DESC"},
		{sort: domain.SortOrder{Field: domain.SortByName}, want: "ORDER BY t.base_name ASC, t.id ASC"},
		{sort: domain.SortOrder{Field: domain.SortByName, Descending: true}, want: "ORDER BY t.base_name DESC, t.id DESC"},
		{sort: domain.SortOrder{Field: "price"}, want: "ORDER BY t.id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, orderByClause(tt.sort))
		})
	}
}

func TestTableIdentifier(t *testing.T) {
	assert.Equal(t, `"gifts"."plushpepes"`, tableIdentifier("gifts", "plushpepes"))
	assert.Equal(t, `"plushpepes"`, tableIdentifier("", "plushpepes"))
	assert.Equal(t, `"gifts"."bad""name"`, tableIdentifier("gifts", `bad"name`))
}

func TestCreateCollectionTableSQL(t *testing.T) {
	stmts := createCollectionTableSQL("gifts", "plushpepes")
	assert.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], `CREATE TABLE IF NOT EXISTS "gifts"."plushpepes"`)
	assert.Contains(t, stmts[1], `"plushpepes_attributes_gin"`)
	assert.Contains(t, stmts[1], "jsonb_path_ops")

	assert.Contains(t, upsertItemSQL("gifts", "plushpepes"), "ON CONFLICT (id) DO UPDATE")
}
