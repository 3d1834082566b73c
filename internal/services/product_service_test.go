// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecraft/pagecraft-backend/internal/cache"
	"github.com/pagecraft/pagecraft-backend/internal/models"
	"github.com/pagecraft/pagecraft-backend/internal/utils"
)

func TestCreateProductDerivesSlugFromName(t *testing.T) {
	db := openTestDB(t)
	svc := NewProductService(db, cache.NoopCache{})

	product, err := svc.CreateProduct(&CreateProductRequest{Name: "Widget Docs 2.0"})
	require.NoError(t, err)
	assert.Equal(t, "widget-docs-2-0", product.Slug)
	assert.False(t, product.IsPublished)
}

func TestCreateProductDuplicateNamesGetSuffixedSlugs(t *testing.T) {
	db := openTestDB(t)
	svc := NewProductService(db, cache.NoopCache{})

	first, err := svc.CreateProduct(&CreateProductRequest{Name: "Getting Started"})
	require.NoError(t, err)
	second, err := svc.CreateProduct(&CreateProductRequest{Name: "Getting Started"})
	require.NoError(t, err)
	third, err := svc.CreateProduct(&CreateProductRequest{Name: "Getting Started"})
	require.NoError(t, err)

	assert.Equal(t, "getting-started", first.Slug)
	assert.Equal(t, "getting-started-2", second.Slug)
	assert.Equal(t, "getting-started-3", third.Slug)
}

func TestCreateProductRejectsEmptyName(t *testing.T) {
	db := openTestDB(t)
	svc := NewProductService(db, cache.NoopCache{})

	_, err := svc.CreateProduct(&CreateProductRequest{Name: ""})

	var validationErrs ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestUpdateProductSlugConflictRejected(t *testing.T) {
	db := openTestDB(t)
	svc := NewProductService(db, cache.NoopCache{})

	_, err := svc.CreateProduct(&CreateProductRequest{Name: "Alpha"})
	require.NoError(t, err)
	beta, err := svc.CreateProduct(&CreateProductRequest{Name: "Beta"})
	require.NoError(t, err)

	// Renames never auto-suffix: taking an occupied slug is an error.
	_, err = svc.UpdateProduct(beta.ID, &UpdateProductRequest{Slug: strPtr("alpha")})

	var conflict *SlugConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "alpha", conflict.Slug)

	unchanged, err := svc.GetProduct(beta.ID)
	require.NoError(t, err)
	assert.Equal(t, "beta", unchanged.Slug)
}

func TestUpdateProductPartialPatch(t *testing.T) {
	db := openTestDB(t)
	svc := NewProductService(db, cache.NoopCache{})

	product, err := svc.CreateProduct(&CreateProductRequest{Name: "Docs", Description: "old"})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(product.ID, &UpdateProductRequest{
		Description: strPtr("new"),
		IsPublished: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Docs", updated.Name)
	assert.Equal(t, "new", updated.Description)
	assert.True(t, updated.IsPublished)
}

func TestUpdateProductNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := NewProductService(db, cache.NoopCache{})

	_, err := svc.UpdateProduct(uuid.New(), &UpdateProductRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProductCascades(t *testing.T) {
	db := openTestDB(t)
	svc := NewProductService(db, cache.NoopCache{})
	blocks := NewBlockService(db, cache.NoopCache{})

	product, _, subsection := newTestTree(t, db)

	_, err := blocks.CreateBlock(subsection.ID, &CreateBlockRequest{
		Type:        models.BlockTypeParagraph,
		BlockFields: BlockFields{Text: strPtr("body")},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(product.ID))

	var count int64
	db.Model(&models.Section{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Subsection{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Block{}).Count(&count)
	assert.Zero(t, count)
}

func TestListProductsSearchAndPagination(t *testing.T) {
	db := openTestDB(t)
	svc := NewProductService(db, cache.NoopCache{})

	for _, name := range []string{"Widget Guide", "Widget API", "Gadget Manual"} {
		_, err := svc.CreateProduct(&CreateProductRequest{Name: name})
		require.NoError(t, err)
	}

	results, total, err := svc.ListProducts(utils.PaginationParams{
		Page: 1, Limit: 10, Sort: "name", Order: "asc", Search: "widget",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, results, 2)
	assert.Equal(t, "Widget API", results[0].Name)

	page, total, err := svc.ListProducts(utils.PaginationParams{
		Page: 2, Limit: 2, Sort: "name", Order: "asc",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 1)
}
