package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportedItemBaseName(t *testing.T) {
	tests := []struct {
		name string
		item ImportedItem
		want string
	}{
		{name: "explicit name", item: ImportedItem{Collection: "Plush Pepe", Name: "Plush Pepe Gold"}, want: "Plush Pepe Gold"},
		{name: "missing name uses collection", item: ImportedItem{Collection: "Plush Pepe", ID: 17}, want: "Plush Pepe"},
		{name: "blank name uses collection", item: ImportedItem{Collection: " Plush Pepe ", Name: "   "}, want: "Plush Pepe"},
		{name: "nothing but table", item: ImportedItem{ID: 3}, want: "Plushpepe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.BaseName("plushpepes"))
		})
	}

	item := Item{ID: 17, BaseName: ImportedItem{Collection: "Plush Pepe", ID: 17}.BaseName("plushpepes")}
	assert.Equal(t, "Plush Pepe #17", item.Name())
}
