package cartControllers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/napzon/napzon-api/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) models.Product {
	t.Helper()
	product := models.Product{
		SellerID: 99,
		Name:     "Air Runner",
		Brand:    "NapZon",
		Category: "men",
		Price:    decimal.NewFromInt(1500),
		Sizes:    models.StringList{"8", "9", "10"},
		Colors:   models.StringList{"Black", "White"},
		Stock:    stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestAddToCartMergesExistingLine(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, 5)

	input := AddToCartInput{ProductID: product.ID, Size: "9", Color: "Black", Quantity: 2}
	require.NoError(t, AddToCart(db, 1, input))
	require.NoError(t, AddToCart(db, 1, input))

	var items []models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)

	// The merged quantity may not exceed stock.
	err := AddToCart(db, 1, input)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddToCartSeparateLinesPerVariant(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, 10)

	require.NoError(t, AddToCart(db, 1, AddToCartInput{ProductID: product.ID, Size: "9", Color: "Black", Quantity: 1}))
	require.NoError(t, AddToCart(db, 1, AddToCartInput{ProductID: product.ID, Size: "9", Color: "White", Quantity: 1}))
	require.NoError(t, AddToCart(db, 1, AddToCartInput{ProductID: product.ID, Size: "10", Color: "Black", Quantity: 1}))

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestAddToCartValidation(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, 2)

	err := AddToCart(db, 1, AddToCartInput{ProductID: 12345, Size: "9", Color: "Black", Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)

	err = AddToCart(db, 1, AddToCartInput{ProductID: product.ID, Size: "9", Color: "Black", Quantity: 3})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Quantity defaults to one.
	require.NoError(t, AddToCart(db, 1, AddToCartInput{ProductID: product.ID, Size: "9", Color: "Black"}))
	var item models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).First(&item).Error)
	assert.Equal(t, 1, item.Quantity)
}

func TestUpdateCartItem(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, 5)

	require.NoError(t, AddToCart(db, 1, AddToCartInput{ProductID: product.ID, Size: "9", Color: "Black", Quantity: 1}))
	var item models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).First(&item).Error)

	require.NoError(t, UpdateCartItem(db, 1, item.ID, 5))
	require.NoError(t, db.First(&item, item.ID).Error)
	assert.Equal(t, 5, item.Quantity)

	// Over stock.
	assert.ErrorIs(t, UpdateCartItem(db, 1, item.ID, 6), ErrInsufficientStock)

	// Another user's cart line is invisible.
	assert.ErrorIs(t, UpdateCartItem(db, 2, item.ID, 1), ErrCartItemNotFound)
}

func TestRemoveCartItem(t *testing.T) {
	db := openTestDB(t)
	product := seedProduct(t, db, 5)

	require.NoError(t, AddToCart(db, 1, AddToCartInput{ProductID: product.ID, Size: "9", Color: "Black", Quantity: 1}))
	var item models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).First(&item).Error)

	// Ownership check first.
	assert.ErrorIs(t, RemoveCartItem(db, 2, item.ID), ErrCartItemNotFound)

	require.NoError(t, RemoveCartItem(db, 1, item.ID))
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	assert.ErrorIs(t, RemoveCartItem(db, 1, item.ID), ErrCartItemNotFound)
}
