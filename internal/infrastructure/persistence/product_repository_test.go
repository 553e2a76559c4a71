package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aishop/storefront/internal/domain/catalog"
	"github.com/aishop/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestProduct(t *testing.T, name string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductParams{
		Name: name,
		PricingTiers: []catalog.PricingTier{
			{Duration: "1 tháng", RequestLimit: "Vô Hạn", Price: 150000},
			{Duration: "7 ngày", RequestLimit: "500 Request", Price: 50000},
		},
		Features:    []string{"Fast requests"},
		ContactLink: "https://zalo.me/0944568913",
	})
	require.NoError(t, err)
	return p
}

func TestGormProductRepository_CreateAndFind(t *testing.T) {
	db := setupStorefrontTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := newTestProduct(t, "Cursor Pro")
	require.NoError(t, repo.Create(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Name, found.Name)
	assert.Equal(t, product.PricingTiers, found.PricingTiers)
	assert.Equal(t, product.Features, found.Features)
	assert.Equal(t, catalog.CurrencyVND, found.Currency)
	assert.Equal(t, catalog.IconBrain, found.Icon)
	assert.Empty(t, found.ImageURL)
	assert.Equal(t, catalog.TagNone, found.Tag)
	assert.Equal(t, 0, found.SortOrder)
	assert.True(t, product.CreatedAt.Equal(found.CreatedAt))
	assert.True(t, found.CreatedAt.Equal(found.UpdatedAt))
}

func TestGormProductRepository_FindByID_NotFound(t *testing.T) {
	db := setupStorefrontTestDB(t)
	repo := NewGormProductRepository(db)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_FindAll_Order(t *testing.T) {
	db := setupStorefrontTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	first := newTestProduct(t, "First")
	second := newTestProduct(t, "Second")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	pinned := newTestProduct(t, "Pinned")
	pinned.SortOrder = -1

	for _, p := range []*catalog.Product{second, first, pinned} {
		require.NoError(t, repo.Create(ctx, p))
	}

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Pinned", products[0].Name)
	assert.Equal(t, "First", products[1].Name)
	assert.Equal(t, "Second", products[2].Name)
}

func TestGormProductRepository_Reorder(t *testing.T) {
	db := setupStorefrontTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	a := newTestProduct(t, "A")
	b := newTestProduct(t, "B")
	c := newTestProduct(t, "C")
	untouched := newTestProduct(t, "Untouched")
	untouched.SortOrder = 7
	for _, p := range []*catalog.Product{a, b, c, untouched} {
		require.NoError(t, repo.Create(ctx, p))
	}

	t.Run("list follows the supplied order", func(t *testing.T) {
		require.NoError(t, repo.Reorder(ctx, []string{c.ID, a.ID, b.ID}))

		products, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, products, 4)
		assert.Equal(t, []string{c.ID, a.ID, b.ID, untouched.ID}, []string{
			products[0].ID, products[1].ID, products[2].ID, products[3].ID,
		})
		assert.Equal(t, 7, products[3].SortOrder)
		assert.True(t, products[0].UpdatedAt.After(c.UpdatedAt) || products[0].UpdatedAt.Equal(c.UpdatedAt))
	})

	t.Run("unknown ids are ignored", func(t *testing.T) {
		require.NoError(t, repo.Reorder(ctx, []string{"ghost", b.ID}))

		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.SortOrder)
	})
}

func TestGormProductRepository_Update(t *testing.T) {
	db := setupStorefrontTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := newTestProduct(t, "Augment")
	product.Tag = catalog.TagHot
	product.ImageURL = "https://cdn.example.com/augment.png"
	require.NoError(t, repo.Create(ctx, product))

	t.Run("clears optional fields", func(t *testing.T) {
		empty := ""
		changes := catalog.ProductChanges{Tag: &empty, ImageURL: &empty}
		require.NoError(t, product.Apply(changes))
		require.NoError(t, repo.Update(ctx, product, changes.Fields()))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.TagNone, found.Tag)
		assert.Empty(t, found.ImageURL)
		assert.True(t, product.CreatedAt.Equal(found.CreatedAt))
	})

	t.Run("keeps columns written since the product was loaded", func(t *testing.T) {
		other := newTestProduct(t, "Other")
		require.NoError(t, repo.Create(ctx, other))

		loaded, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Reorder(ctx, []string{other.ID, product.ID}))

		name := "Augment Code"
		changes := catalog.ProductChanges{Name: &name}
		require.NoError(t, loaded.Apply(changes))
		require.NoError(t, repo.Update(ctx, loaded, changes.Fields()))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Augment Code", found.Name)
		assert.Equal(t, 1, found.SortOrder)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		err := repo.Update(ctx, product, []catalog.ProductField{"created_at"})
		require.Error(t, err)
	})

	t.Run("missing product", func(t *testing.T) {
		ghost := newTestProduct(t, "Ghost")
		err := repo.Update(ctx, ghost, []catalog.ProductField{catalog.FieldName})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := setupStorefrontTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	kept := newTestProduct(t, "Kept")
	require.NoError(t, repo.Create(ctx, kept))

	require.NoError(t, repo.Delete(ctx, "nonexistent-id"))

	products, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, kept.ID, products[0].ID)

	require.NoError(t, repo.Delete(ctx, kept.ID))
	products, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock
}

func TestGormProductRepository_SQL(t *testing.T) {
	t.Run("FindAll orders by sort_order then created_at", func(t *testing.T) {
		repo, mock := newMockProductRepository(t)

		mock.ExpectQuery(`SELECT \* FROM "products" ORDER BY sort_order ASC,created_at ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "pricing_tiers", "features"}).
				AddRow("p1", "Cursor Pro", `[{"duration":"1 tháng","requestLimit":"Vô Hạn","price":150000}]`, `["Fast"]`))

		products, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, int64(150000), products[0].PricingTiers[0].Price)
		assert.Equal(t, []string{"Fast"}, products[0].Features)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete issues unconditional delete by id", func(t *testing.T) {
		repo, mock := newMockProductRepository(t)

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs("nonexistent-id").
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.Delete(context.Background(), "nonexistent-id"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reorder runs inside one transaction", func(t *testing.T) {
		repo, mock := newMockProductRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "products" SET "sort_order"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs(0, sqlmock.AnyArg(), "b").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "products" SET "sort_order"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs(1, sqlmock.AnyArg(), "a").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Reorder(context.Background(), []string{"b", "a"}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reorder rolls back on failure", func(t *testing.T) {
		repo, mock := newMockProductRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.Reorder(context.Background(), []string{"a", "b"})
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
