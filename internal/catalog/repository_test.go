package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/willowrootwellness/willowroot-backend/pkg/db/models"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		Slug:          fmt.Sprintf("herb-%s", uuid.NewString()),
		Name:          "Chamomile Tincture",
		Category:      enums.ProductCategoryTincture,
		Price:         12.99,
		StockQuantity: 10,
		IsActive:      true,
	}
	if mutate != nil {
		mutate(product)
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestRepositoryFindBySlugSkipsInactive(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	active := seedProduct(t, db, nil)
	inactive := seedProduct(t, db, func(p *models.Product) { p.IsActive = false })

	found, err := repo.FindBySlug(ctx, active.Slug)
	if err != nil {
		t.Fatalf("find active by slug: %v", err)
	}
	if found.ID != active.ID {
		t.Fatalf("expected product %s, got %s", active.ID, found.ID)
	}

	if _, err := repo.FindBySlug(ctx, inactive.Slug); err == nil {
		t.Fatal("expected inactive product to be invisible by slug")
	}
}

func TestRepositoryFindActiveByIDs(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	active := seedProduct(t, db, nil)
	inactive := seedProduct(t, db, func(p *models.Product) { p.IsActive = false })

	found, err := repo.FindActiveByIDs(ctx, []uuid.UUID{active.ID, inactive.ID})
	if err != nil {
		t.Fatalf("find active by ids: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 active product, got %d", len(found))
	}
	if _, ok := found[active.ID]; !ok {
		t.Fatal("expected the active product to be returned")
	}
}

func TestRepositoryListFiltersAndPaginates(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		created := base.Add(time.Duration(i) * time.Minute)
		seedProduct(t, db, func(p *models.Product) {
			p.Category = enums.ProductCategoryTea
			p.Name = fmt.Sprintf("Tea %d", i)
			p.CreatedAt = created
			p.UpdatedAt = created
		})
	}
	seedProduct(t, db, func(p *models.Product) { p.Category = enums.ProductCategoryTopical })

	tea := enums.ProductCategoryTea
	firstPage, err := repo.List(ctx, ListInput{
		Filters:    ListFilters{Category: &tea},
		Pagination: pagination.Params{Limit: 2},
	})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	// Limit 2 plus the lookahead row.
	if len(firstPage) != 3 {
		t.Fatalf("expected 3 rows (2 + buffer), got %d", len(firstPage))
	}
	if firstPage[0].Name != "Tea 3" {
		t.Fatalf("expected newest-first ordering, got %q first", firstPage[0].Name)
	}

	cursor := pagination.EncodeCursor(pagination.Cursor{
		CreatedAt: firstPage[1].CreatedAt,
		ID:        firstPage[1].ID,
	})
	secondPage, err := repo.List(ctx, ListInput{
		Filters:    ListFilters{Category: &tea},
		Pagination: pagination.Params{Limit: 2, Cursor: cursor},
	})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(secondPage) != 2 {
		t.Fatalf("expected 2 remaining rows, got %d", len(secondPage))
	}
	if secondPage[0].Name != "Tea 1" {
		t.Fatalf("expected Tea 1 after the cursor, got %q", secondPage[0].Name)
	}
}

func TestRepositoryListSearchQuery(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedProduct(t, db, func(p *models.Product) { p.Name = "Elderberry Syrup" })
	seedProduct(t, db, func(p *models.Product) { p.Name = "Nettle Leaf Tea" })

	rows, err := repo.List(ctx, ListInput{
		Filters:    ListFilters{Query: "elderberry"},
		Pagination: pagination.Params{Limit: 10},
	})
	if err != nil {
		t.Fatalf("list with query: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Elderberry Syrup" {
		t.Fatalf("expected only the elderberry product, got %d rows", len(rows))
	}
}

func TestRepositoryDecrementStockConditional(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, func(p *models.Product) { p.StockQuantity = 5 })

	affected, err := repo.DecrementStock(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("decrement stock: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	// Remaining stock is 2; asking for 3 must not match the row.
	affected, err = repo.DecrementStock(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("decrement stock again: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected conditional decrement to miss, got %d rows", affected)
	}

	var current models.Product
	if err := db.First(&current, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if current.StockQuantity != 2 {
		t.Fatalf("expected stock 2, got %d", current.StockQuantity)
	}
}
