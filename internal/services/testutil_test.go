// internal/services/testutil_test.go
package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pagecraft/pagecraft-backend/internal/cache"
	"github.com/pagecraft/pagecraft-backend/internal/models"
)

var testDBCounter int64

// openTestDB returns an isolated in-memory database with the full schema.
// TranslateError is on so unique violations surface as gorm.ErrDuplicatedKey,
// same as against Postgres.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:servicetest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Section{},
		&models.Subsection{},
		&models.Block{},
	))

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newTestTree(t *testing.T, db *gorm.DB) (*models.Product, *models.Section, *models.Subsection) {
	t.Helper()

	products := NewProductService(db, cache.NoopCache{})
	sections := NewSectionService(db, cache.NoopCache{})
	subsections := NewSubsectionService(db, cache.NoopCache{})

	product, err := products.CreateProduct(&CreateProductRequest{Name: "Test Product", IsPublished: true})
	require.NoError(t, err)

	section, err := sections.CreateSection(product.ID, &CreateSectionRequest{Title: "Test Section", IsPublished: true})
	require.NoError(t, err)

	subsection, err := subsections.CreateSubsection(section.ID, &CreateSubsectionRequest{Title: "Test Subsection", IsPublished: true})
	require.NoError(t, err)

	return product, section, subsection
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func stylePtr(s models.ListStyle) *models.ListStyle { return &s }
