// internal/services/block_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecraft/pagecraft-backend/internal/cache"
	"github.com/pagecraft/pagecraft-backend/internal/models"
)

func TestCreateBlockHeading(t *testing.T) {
	db := openTestDB(t)
	svc := NewBlockService(db, cache.NoopCache{})
	_, _, subsection := newTestTree(t, db)

	block, err := svc.CreateBlock(subsection.ID, &CreateBlockRequest{
		Type:        models.BlockTypeHeading,
		BlockFields: BlockFields{HeadingLevel: intPtr(2), Text: strPtr("Install")},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, block.OrderIndex)
	assert.Equal(t, models.AlignLeft, block.Align)

	content, ok := block.Content().(models.HeadingContent)
	require.True(t, ok)
	assert.Equal(t, 2, content.Level)
	assert.Equal(t, "Install", content.Text)
}

func TestCreateBlockRejectsForeignFields(t *testing.T) {
	db := openTestDB(t)
	svc := NewBlockService(db, cache.NoopCache{})
	_, _, subsection := newTestTree(t, db)

	// A heading carrying list fields must be rejected, not silently trimmed
	_, err := svc.CreateBlock(subsection.ID, &CreateBlockRequest{
		Type: models.BlockTypeHeading,
		BlockFields: BlockFields{
			HeadingLevel: intPtr(1),
			Text:         strPtr("Title"),
			ListItems:    []string{"a", "b"},
		},
	})

	var validationErrs ValidationErrors
	require.ErrorAs(t, err, &validationErrs)

	fields := make([]string, len(validationErrs))
	for i, fe := range validationErrs {
		fields[i] = fe.Field
	}
	assert.Contains(t, fields, "list_items")
}

func TestCreateBlockValidatesPerType(t *testing.T) {
	db := openTestDB(t)
	svc := NewBlockService(db, cache.NoopCache{})
	_, _, subsection := newTestTree(t, db)

	cases := []struct {
		name string
		req  CreateBlockRequest
	}{
		{"heading level out of range", CreateBlockRequest{
			Type:        models.BlockTypeHeading,
			BlockFields: BlockFields{HeadingLevel: intPtr(7), Text: strPtr("x")},
		}},
		{"paragraph without text", CreateBlockRequest{
			Type: models.BlockTypeParagraph,
		}},
		{"image without path", CreateBlockRequest{
			Type:        models.BlockTypeImage,
			BlockFields: BlockFields{ImageWidth: intPtr(400)},
		}},
		{"image with non-positive width", CreateBlockRequest{
			Type:        models.BlockTypeImage,
			BlockFields: BlockFields{ImagePath: strPtr("a.png"), ImageWidth: intPtr(0)},
		}},
		{"list without items", CreateBlockRequest{
			Type:        models.BlockTypeList,
			BlockFields: BlockFields{ListStyle: stylePtr(models.ListStyleBullet)},
		}},
		{"richtext without html", CreateBlockRequest{
			Type: models.BlockTypeRichText,
		}},
		{"unknown type", CreateBlockRequest{
			Type: models.BlockType("video"),
		}},
	}

	for _, tc := range cases {
		_, err := svc.CreateBlock(subsection.ID, &tc.req)
		var validationErrs ValidationErrors
		assert.ErrorAs(t, err, &validationErrs, tc.name)
	}
}

func TestCreateBlockListRoundTrip(t *testing.T) {
	db := openTestDB(t)
	svc := NewBlockService(db, cache.NoopCache{})
	_, _, subsection := newTestTree(t, db)

	block, err := svc.CreateBlock(subsection.ID, &CreateBlockRequest{
		Type: models.BlockTypeList,
		BlockFields: BlockFields{
			ListStyle: stylePtr(models.ListStyleNumbered),
			ListItems: []string{"clone", "build", "run"},
		},
	})
	require.NoError(t, err)

	reloaded, err := svc.GetBlock(block.ID)
	require.NoError(t, err)

	content, ok := reloaded.Content().(models.ListContent)
	require.True(t, ok)
	assert.Equal(t, models.ListStyleNumbered, content.Style)
	assert.Equal(t, []string{"clone", "build", "run"}, content.Items)
}

func TestUpdateBlockTypeIsImmutable(t *testing.T) {
	db := openTestDB(t)
	svc := NewBlockService(db, cache.NoopCache{})
	_, _, subsection := newTestTree(t, db)

	block, err := svc.CreateBlock(subsection.ID, &CreateBlockRequest{
		Type:        models.BlockTypeParagraph,
		BlockFields: BlockFields{Text: strPtr("body")},
	})
	require.NoError(t, err)

	_, err = svc.UpdateBlock(block.ID, &UpdateBlockRequest{
		Type:        models.BlockTypeHeading,
		BlockFields: BlockFields{HeadingLevel: intPtr(1)},
	})

	var validationErrs ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Equal(t, "type", validationErrs[0].Field)
}

func TestUpdateBlockMergesPartialPatch(t *testing.T) {
	db := openTestDB(t)
	svc := NewBlockService(db, cache.NoopCache{})
	_, _, subsection := newTestTree(t, db)

	block, err := svc.CreateBlock(subsection.ID, &CreateBlockRequest{
		Type:        models.BlockTypeHeading,
		BlockFields: BlockFields{HeadingLevel: intPtr(2), Text: strPtr("Old")},
	})
	require.NoError(t, err)

	// Patch only the text; the level must survive the merge
	updated, err := svc.UpdateBlock(block.ID, &UpdateBlockRequest{
		BlockFields: BlockFields{Text: strPtr("New")},
	})
	require.NoError(t, err)

	content := updated.Content().(models.HeadingContent)
	assert.Equal(t, 2, content.Level)
	assert.Equal(t, "New", content.Text)
}

func TestDeleteBlockRenumbersRemaining(t *testing.T) {
	db := openTestDB(t)
	svc := NewBlockService(db, cache.NoopCache{})
	_, _, subsection := newTestTree(t, db)

	var ids []uuid.UUID
	for _, text := range []string{"one", "two", "three"} {
		block, err := svc.CreateBlock(subsection.ID, &CreateBlockRequest{
			Type:        models.BlockTypeParagraph,
			BlockFields: BlockFields{Text: strPtr(text)},
		})
		require.NoError(t, err)
		ids = append(ids, block.ID)
	}

	require.NoError(t, svc.DeleteBlock(ids[1]))

	listed, err := svc.ListBySubsection(subsection.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, ids[0], listed[0].ID)
	assert.Equal(t, 1, listed[0].OrderIndex)
	assert.Equal(t, ids[2], listed[1].ID)
	assert.Equal(t, 2, listed[1].OrderIndex)
}

func TestReorderBlocksRotation(t *testing.T) {
	db := openTestDB(t)
	svc := NewBlockService(db, cache.NoopCache{})
	_, _, subsection := newTestTree(t, db)

	var ids []uuid.UUID
	for _, text := range []string{"one", "two", "three"} {
		block, err := svc.CreateBlock(subsection.ID, &CreateBlockRequest{
			Type:        models.BlockTypeParagraph,
			BlockFields: BlockFields{Text: strPtr(text)},
		})
		require.NoError(t, err)
		ids = append(ids, block.ID)
	}

	require.NoError(t, svc.ReorderBlocks(subsection.ID, []uuid.UUID{ids[2], ids[0], ids[1]}))

	listed, err := svc.ListBySubsection(subsection.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, ids[2], listed[0].ID)
	assert.Equal(t, ids[0], listed[1].ID)
	assert.Equal(t, ids[1], listed[2].ID)
}

func TestBlockMutationsInvalidateCache(t *testing.T) {
	db := openTestDB(t)
	renderCache := cache.NewBlockCache(4)
	svc := NewBlockService(db, renderCache)
	_, _, subsection := newTestTree(t, db)

	prime := func() {
		renderCache.Set(subsection.ID, []models.Block{})
	}
	cached := func() bool {
		_, ok := renderCache.Get(subsection.ID)
		return ok
	}

	prime()
	block, err := svc.CreateBlock(subsection.ID, &CreateBlockRequest{
		Type:        models.BlockTypeParagraph,
		BlockFields: BlockFields{Text: strPtr("body")},
	})
	require.NoError(t, err)
	assert.False(t, cached(), "create must invalidate")

	prime()
	_, err = svc.UpdateBlock(block.ID, &UpdateBlockRequest{
		BlockFields: BlockFields{Text: strPtr("edited")},
	})
	require.NoError(t, err)
	assert.False(t, cached(), "update must invalidate")

	prime()
	require.NoError(t, svc.ReorderBlocks(subsection.ID, []uuid.UUID{block.ID}))
	assert.False(t, cached(), "reorder must invalidate")

	prime()
	require.NoError(t, svc.DeleteBlock(block.ID))
	assert.False(t, cached(), "delete must invalidate")
}
