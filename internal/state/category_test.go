package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCategoryDuplicate(t *testing.T) {
	tree := NewCategoryTree()

	require.NoError(t, tree.AddCategory(1, "Electronics", RootCategoryID))
	err := tree.AddCategory(1, "Electronics", RootCategoryID)
	assert.ErrorIs(t, err, ErrDuplicateCategory)

	// The root id is pre-taken by the synthetic root.
	assert.ErrorIs(t, tree.AddCategory(RootCategoryID, "All", 0), ErrDuplicateCategory)
}

func TestAddCategoryUnknownParentFallsBackToRoot(t *testing.T) {
	tree := NewCategoryTree()

	require.NoError(t, tree.AddCategory(7, "Orphans", 999))

	tree.AddProduct(7, 42)
	assert.ElementsMatch(t, []int64{42}, tree.ProductsIn(RootCategoryID))

	view := tree.Tree()
	require.Len(t, view.Children, 1)
	assert.Equal(t, int64(7), view.Children[0].ID)
}

func TestSubtreeAggregation(t *testing.T) {
	tree := NewCategoryTree()
	require.NoError(t, tree.AddCategory(1, "Electronics", RootCategoryID))
	require.NoError(t, tree.AddCategory(5, "Smartphones", 1))

	tree.AddProduct(5, 100)

	assert.ElementsMatch(t, []int64{100}, tree.ProductsIn(5))
	assert.ElementsMatch(t, []int64{100}, tree.ProductsIn(1))
	assert.ElementsMatch(t, []int64{100}, tree.ProductsIn(RootCategoryID))
}

func TestRootMirrorsAllProducts(t *testing.T) {
	tree := NewCategoryTree()
	require.NoError(t, tree.AddCategory(1, "Electronics", RootCategoryID))
	require.NoError(t, tree.AddCategory(2, "Clothing", RootCategoryID))
	require.NoError(t, tree.AddCategory(5, "Smartphones", 1))

	tree.AddProduct(1, 10)
	tree.AddProduct(2, 20)
	tree.AddProduct(5, 30)

	assert.ElementsMatch(t, []int64{10, 20, 30}, tree.ProductsIn(RootCategoryID))
}

func TestLeafSubtreeIsOwnSet(t *testing.T) {
	tree := NewCategoryTree()
	require.NoError(t, tree.AddCategory(3, "Books", RootCategoryID))

	tree.AddProduct(3, 1)
	tree.AddProduct(3, 2)
	tree.AddProduct(3, 2) // idempotent

	assert.ElementsMatch(t, []int64{1, 2}, tree.ProductsIn(3))
}

func TestProductsInUnknownCategory(t *testing.T) {
	tree := NewCategoryTree()
	assert.Empty(t, tree.ProductsIn(404))
}

func TestAddProductUnknownCategoryStillReachesRoot(t *testing.T) {
	tree := NewCategoryTree()

	tree.AddProduct(404, 7)

	assert.ElementsMatch(t, []int64{7}, tree.ProductsIn(RootCategoryID))
}

func TestRemoveProduct(t *testing.T) {
	tree := NewCategoryTree()
	require.NoError(t, tree.AddCategory(1, "Electronics", RootCategoryID))

	tree.AddProduct(1, 10)
	tree.AddProduct(1, 11)
	tree.RemoveProduct(10)

	assert.ElementsMatch(t, []int64{11}, tree.ProductsIn(1))
	assert.ElementsMatch(t, []int64{11}, tree.ProductsIn(RootCategoryID))
}

func TestTreeView(t *testing.T) {
	tree := NewCategoryTree()
	require.NoError(t, tree.AddCategory(1, "Electronics", RootCategoryID))
	require.NoError(t, tree.AddCategory(5, "Smartphones", 1))

	tree.AddProduct(5, 100)

	view := tree.Tree()
	assert.Equal(t, int64(RootCategoryID), view.ID)
	assert.Equal(t, "All Categories", view.Name)
	assert.Equal(t, 1, view.ProductCount)

	require.Len(t, view.Children, 1)
	electronics := view.Children[0]
	assert.Equal(t, "Electronics", electronics.Name)
	assert.Equal(t, 0, electronics.ProductCount)

	require.Len(t, electronics.Children, 1)
	assert.Equal(t, "Smartphones", electronics.Children[0].Name)
	assert.Equal(t, 1, electronics.Children[0].ProductCount)
}
