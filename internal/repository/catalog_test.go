package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizza-store/internal/apperr"
	"pizza-store/internal/domain"
)

func TestCatalogByPriceCeilingBuildsParameterizedQuery(t *testing.T) {
	fr := &fakeRunner{}
	fr.rowsResults = [][][]string{{{"Coke", "2.50"}, {"Fries", "4.00"}}}
	repo := NewCatalog(fr)

	items, err := repo.ByPriceCeiling(context.Background(), 5.00)
	require.NoError(t, err)
	assert.Equal(t, []domain.MenuItem{
		{Name: "Coke", Price: 2.50},
		{Name: "Fries", Price: 4.00},
	}, items)

	require.Len(t, fr.calls, 1)
	assert.Equal(t, "SELECT itemName, price FROM Items WHERE price <= $1", normalize(fr.calls[0].stmt))
	assert.Equal(t, []any{5.00}, fr.calls[0].args)
}

func TestCatalogByCategoryBuildsParameterizedQuery(t *testing.T) {
	fr := &fakeRunner{}
	repo := NewCatalog(fr)

	_, err := repo.ByCategory(context.Background(), "pizza")
	require.NoError(t, err)

	require.Len(t, fr.calls, 1)
	assert.Equal(t, "SELECT itemName, price FROM Items WHERE typeOfItem = $1", normalize(fr.calls[0].stmt))
	assert.Equal(t, []any{"pizza"}, fr.calls[0].args)
}

func TestCatalogSorted(t *testing.T) {
	fr := &fakeRunner{}
	repo := NewCatalog(fr)

	_, err := repo.Sorted(context.Background(), "sideways")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, fr.calls)

	_, err = repo.Sorted(context.Background(), SortDesc)
	require.NoError(t, err)
	require.Len(t, fr.calls, 1)
	assert.Equal(t, "SELECT itemName, price FROM Items ORDER BY price DESC", normalize(fr.calls[0].stmt))
}

func TestCatalogGet(t *testing.T) {
	fr := &fakeRunner{}
	fr.rowsResults = [][][]string{{
		{"Margherita", "tomato, mozzarella", "pizza", "10.00", "classic"},
	}}
	repo := NewCatalog(fr)

	it, err := repo.Get(context.Background(), "Margherita")
	require.NoError(t, err)
	assert.Equal(t, domain.MenuItem{
		Name:        "Margherita",
		Ingredients: "tomato, mozzarella",
		Category:    "pizza",
		Price:       10.00,
		Description: "classic",
	}, it)

	_, err = repo.Get(context.Background(), "Calzone")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCatalogRenamePatchesOrderLinesInSameTx(t *testing.T) {
	fr := &fakeRunner{}
	repo := NewCatalog(fr)

	require.NoError(t, repo.Rename(context.Background(), "Margherita", "Regina"))
	assert.Equal(t, 1, fr.commits)
	assert.Equal(t, 0, fr.rollbacks)

	require.Len(t, fr.calls, 2)
	assert.Equal(t, "UPDATE Items SET itemName = $1 WHERE itemName = $2", normalize(fr.calls[0].stmt))
	assert.Equal(t, "UPDATE ItemsInOrder SET itemName = $1 WHERE itemName = $2", normalize(fr.calls[1].stmt))
	for _, c := range fr.calls {
		assert.Equal(t, []any{"Regina", "Margherita"}, c.args)
	}
}

func TestCatalogSetPrice(t *testing.T) {
	fr := &fakeRunner{}
	repo := NewCatalog(fr)

	require.NoError(t, repo.SetPrice(context.Background(), "Margherita", 12.50))
	require.Len(t, fr.calls, 1)
	assert.Equal(t, "UPDATE Items SET price = $1 WHERE itemName = $2", normalize(fr.calls[0].stmt))
	assert.Equal(t, []any{12.50, "Margherita"}, fr.calls[0].args)
}
