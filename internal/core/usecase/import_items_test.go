package usecase

import (
	"context"
	"errors"
	"testing"

	"catalog-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportItemsGroupsByTable(t *testing.T) {
	store := &fakeImportStore{}
	uc := NewImportItemsUseCase(store)

	stats, err := uc.Execute(context.Background(), []domain.ImportedItem{
		{Collection: "Plush Pepe", ID: 1},
		{Collection: "Plush Pepe", ID: 2},
		{Collection: "plush pepe", ID: 3},
		{Collection: "Jelly Bunny", ID: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, &domain.ImportStats{Tables: 2, Upserted: 4}, stats)
	assert.Equal(t, map[string]int{"plushpepes": 3, "jellybunnys": 1}, store.calls)
}

func TestImportItemsErrors(t *testing.T) {
	t.Run("item without collection", func(t *testing.T) {
		uc := NewImportItemsUseCase(&fakeImportStore{})
		_, err := uc.Execute(context.Background(), []domain.ImportedItem{{ID: 1}})
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("storage failure", func(t *testing.T) {
		uc := NewImportItemsUseCase(&fakeImportStore{err: errors.New("disk full")})
		_, err := uc.Execute(context.Background(), []domain.ImportedItem{{Collection: "Plush Pepe", ID: 1}})
		assert.ErrorContains(t, err, "disk full")
	})
}
