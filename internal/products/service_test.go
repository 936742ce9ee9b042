package product

import (
	"context"
	"testing"

	"github.com/angelmondragon/utmart-backend/internal/categories"
	"github.com/angelmondragon/utmart-backend/pkg/db"
	"github.com/angelmondragon/utmart-backend/pkg/db/dbtest"
	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	"github.com/angelmondragon/utmart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), categories.NewRepository(client.DB()), client)
	require.NoError(t, err)
	return svc, client
}

func createInput(title, price, category string) CreateProductInput {
	return CreateProductInput{
		Title:       title,
		Price:       decimal.RequireFromString(price),
		Description: title + " description",
		Category:    category,
		Image:       "https://img.example/" + title + ".png",
	}
}

func TestCreateProductAutoCreatesCategory(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, createInput("Greek Yogurt", "4.25", "  Dairy "))
	require.NoError(t, err)
	assert.Equal(t, "dairy", created.Category)
	assert.Equal(t, DefaultStock, created.Stock)
	assert.Equal(t, 4.25, created.Price)
	assert.Zero(t, created.Rating.Rate)
	assert.Zero(t, created.Rating.Count)
	assert.False(t, created.Featured)
	require.NotNil(t, created.CategoryID)

	var category models.Category
	require.NoError(t, client.DB().First(&category, "name = ?", "dairy").Error)
	assert.Equal(t, *created.CategoryID, category.ID)
	require.NotNil(t, category.Description)
	assert.Equal(t, "Dairy category", *category.Description)
	assert.Equal(t, models.DefaultCategoryIcon, category.Icon)

	second, err := svc.CreateProduct(ctx, createInput("Cheddar", "6.00", "DAIRY"))
	require.NoError(t, err)
	assert.Equal(t, category.ID, *second.CategoryID)

	var count int64
	require.NoError(t, client.DB().Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateProductKeepsExplicitValues(t *testing.T) {
	svc, _ := newTestService(t)

	input := createInput("Basmati Rice", "12.99", "grains")
	stock, rate, ratingCount, featured := 0, 4.5, 120, true
	input.Stock = &stock
	input.RatingRate = &rate
	input.RatingCount = &ratingCount
	input.Featured = &featured

	created, err := svc.CreateProduct(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 0, created.Stock)
	assert.Equal(t, 4.5, created.Rating.Rate)
	assert.Equal(t, 120, created.Rating.Count)
	assert.True(t, created.Featured)
}

func TestCreateProductValidates(t *testing.T) {
	svc, _ := newTestService(t)

	input := createInput("", "-1", "")
	_, err := svc.CreateProduct(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "price")
	assert.Contains(t, details, "category")
}

func TestListProductsSortOrders(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, in := range []CreateProductInput{
		createInput("banana", "1.20", "fruits"),
		createInput("Apple", "3.50", "fruits"),
		createInput("carrot", "0.80", "vegetables"),
	} {
		_, err := svc.CreateProduct(ctx, in)
		require.NoError(t, err)
	}

	titles := func(sort enums.ProductSort) []string {
		rows, err := svc.ListProducts(ctx, sort)
		require.NoError(t, err)
		out := make([]string, 0, len(rows))
		for _, row := range rows {
			out = append(out, row.Title)
		}
		return out
	}

	assert.Equal(t, []string{"banana", "Apple", "carrot"}, titles(enums.ProductSortFeatured))
	assert.Equal(t, []string{"carrot", "banana", "Apple"}, titles(enums.ProductSortPriceLow))
	assert.Equal(t, []string{"Apple", "banana", "carrot"}, titles(enums.ProductSortPriceHigh))
	assert.Equal(t, []string{"Apple", "banana", "carrot"}, titles(enums.ProductSortName))
}

func TestListByCategoryIsCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, createInput("Milk", "1.99", "dairy"))
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, createInput("Bread", "2.49", "bakery"))
	require.NoError(t, err)

	rows, err := svc.ListByCategory(ctx, " DAIRY", enums.ProductSortFeatured)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Milk", rows[0].Title)

	rows, err = svc.ListByCategory(ctx, "snacks", enums.ProductSortFeatured)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateProductKeepsBlankFieldsAndMovesCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, createInput("Orange Juice", "3.10", "beverages"))
	require.NoError(t, err)

	blank := "  "
	price := decimal.Zero
	category := "Breakfast"
	stock := 3
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{
		Title:       &blank,
		Description: &blank,
		Price:       &price,
		Category:    &category,
		Stock:       &stock,
	})
	require.NoError(t, err)
	assert.Equal(t, "Orange Juice", updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, float64(0), updated.Price)
	assert.Equal(t, "breakfast", updated.Category)
	assert.Equal(t, 3, updated.Stock)
	require.NotNil(t, updated.CategoryID)
	assert.NotEqual(t, *created.CategoryID, *updated.CategoryID)

	fetched, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", fetched.Category)
	assert.Equal(t, 3, fetched.Stock)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	title := "ghost"
	_, err := svc.UpdateProduct(context.Background(), 404, UpdateProductInput{Title: &title})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, createInput("Paneer", "5.00", "dairy"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	_, err = svc.GetProduct(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = svc.DeleteProduct(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
