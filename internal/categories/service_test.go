package categories

import (
	"context"
	"testing"

	"github.com/angelmondragon/utmart-backend/pkg/db"
	"github.com/angelmondragon/utmart-backend/pkg/db/dbtest"
	"github.com/angelmondragon/utmart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/utmart-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), client)
	require.NoError(t, err)
	return svc, client
}

func mustCreateProduct(t *testing.T, client *db.Client, categoryID uint, title string) {
	t.Helper()
	product := &models.Product{
		Title:       title,
		Price:       decimal.RequireFromString("2.50"),
		Description: title + " description",
		Category:    "dairy",
		Image:       "https://img.example/" + title + ".png",
		Stock:       10,
		CategoryID:  &categoryID,
	}
	require.NoError(t, client.DB().Create(product).Error)
}

func TestCreateNormalizesAndDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCategoryInput{Name: "  Dairy "})
	require.NoError(t, err)
	assert.Equal(t, "dairy", created.Name)
	assert.Equal(t, models.DefaultCategoryIcon, created.Icon)
	assert.Equal(t, models.DefaultCategoryColor, created.Color)
	assert.Nil(t, created.Description)

	names, err := svc.ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"dairy"}, names)
}

func TestCreateDuplicateNameConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCategoryInput{Name: "fruits"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateCategoryInput{Name: "FRUITS"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "   "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateKeepsBlankFieldsAndRejectsTakenName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	desc := "Fresh milk and cheese"
	dairy, err := svc.Create(ctx, CreateCategoryInput{Name: "dairy", Description: &desc, Icon: "🥛"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateCategoryInput{Name: "bakery"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, dairy.ID, UpdateCategoryInput{Color: "bg-blue-100 text-blue-800"})
	require.NoError(t, err)
	assert.Equal(t, "dairy", updated.Name)
	assert.Equal(t, "🥛", updated.Icon)
	assert.Equal(t, "bg-blue-100 text-blue-800", updated.Color)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)

	_, err = svc.Update(ctx, dairy.ID, UpdateCategoryInput{Name: "Bakery"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)

	renamed, err := svc.Update(ctx, dairy.ID, UpdateCategoryInput{Name: "Milk Products"})
	require.NoError(t, err)
	assert.Equal(t, "milk products", renamed.Name)

	_, err = svc.Update(ctx, 9999, UpdateCategoryInput{Name: "ghost"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteRejectedWhileProductsReferenceCategory(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	dairy, err := svc.Create(ctx, CreateCategoryInput{Name: "dairy"})
	require.NoError(t, err)
	mustCreateProduct(t, client, dairy.ID, "milk")
	mustCreateProduct(t, client, dairy.ID, "cheese")

	err = svc.Delete(ctx, dairy.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, map[string]any{"count": int64(2)}, typed.Details())

	names, err := svc.ListNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "dairy")
}

func TestDeleteUnusedCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	empty, err := svc.Create(ctx, CreateCategoryInput{Name: "seasonal"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, empty.ID))

	_, err = svc.Get(ctx, empty.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, empty.ID), pkgerrors.CodeNotFound))
}

func TestGetAndListIncludeProducts(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	dairy, err := svc.Create(ctx, CreateCategoryInput{Name: "dairy"})
	require.NoError(t, err)
	mustCreateProduct(t, client, dairy.ID, "milk")

	got, err := svc.Get(ctx, dairy.ID)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "milk", got.Products[0].Title)
	assert.Equal(t, 2.5, got.Products[0].Price)

	list, err := svc.ListWithProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []ProductRefDTO{{ID: got.Products[0].ID, Title: "milk"}}, list[0].Products)
}

func TestResolveCreatesOnceWithGeneratedDescription(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	first, err := repo.Resolve(ctx, " Snacks ")
	require.NoError(t, err)
	assert.Equal(t, "snacks", first.Name)
	require.NotNil(t, first.Description)
	assert.Equal(t, "Snacks category", *first.Description)

	second, err := repo.Resolve(ctx, "SNACKS")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = repo.Resolve(ctx, " ")
	assert.Error(t, err)
}

func TestRenameKeepsProductCategoryString(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	dairy, err := svc.Create(ctx, CreateCategoryInput{Name: "dairy"})
	require.NoError(t, err)
	mustCreateProduct(t, client, dairy.ID, "paneer")

	_, err = svc.Update(ctx, dairy.ID, UpdateCategoryInput{Name: "Milk Products"})
	require.NoError(t, err)

	var product models.Product
	require.NoError(t, client.DB().Where("title = ?", "paneer").Take(&product).Error)
	assert.Equal(t, "dairy", product.Category)
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, dairy.ID, *product.CategoryID)
}
