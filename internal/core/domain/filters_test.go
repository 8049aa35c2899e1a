package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeFiltersNormalize(t *testing.T) {
	f := AttributeFilters{
		"Model":    {"A", "", "A", "B"},
		"Backdrop": {},
		"Symbol":   {""},
		" ":        {"x"},
	}

	got := f.Normalize()

	assert.Equal(t, AttributeFilters{"Model": {"A", "B"}}, got)
	assert.Equal(t, []string{"Model"}, got.Traits())
}

func TestAttributeFiltersTraitsSorted(t *testing.T) {
	f := AttributeFilters{"Symbol": {"s"}, "Backdrop": {"b"}, "Model": {"m"}}
	assert.Equal(t, []string{"Backdrop", "Model", "Symbol"}, f.Traits())
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw     string
		want    SortOrder
		wantErr bool
	}{
		{raw: "", want: DefaultSort},
		{raw: "id-asc", want: SortOrder{Field: SortByID}},
		{raw: "id-desc", want: SortOrder{Field: SortByID, Descending: true}},
		{raw: "NAME-DESC", want: SortOrder{Field: SortByName, Descending: true}},
		{raw: "name", want: SortOrder{Field: SortByName}},
		{raw: "price-asc", wantErr: true},
		{raw: "id;drop table x-asc", wantErr: true},
		{raw: "id-sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseSort(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortOrderString(t *testing.T) {
	assert.Equal(t, "id-asc", DefaultSort.String())
	assert.Equal(t, "name-desc", SortOrder{Field: SortByName, Descending: true}.String())
}

func TestPaging(t *testing.T) {
	assert.Equal(t, 5, TotalPagesFor(50, 12))
	assert.Equal(t, 3, TotalPagesFor(25, 12))
	assert.Equal(t, 0, TotalPagesFor(0, 12))
	assert.Equal(t, 1, TotalPagesFor(1, 0))

	q := ItemsQuery{Page: 3, Limit: 12}
	assert.Equal(t, 24, q.Offset())
}

func TestItemName(t *testing.T) {
	assert.Equal(t, "Plush Pepe #17", Item{ID: 17, BaseName: "Plush Pepe"}.Name())
}
