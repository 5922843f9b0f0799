package orderControllers

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
		&models.SellerInfo{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	var count int64
	db.Model(&models.User{}).Count(&count)
	user := models.User{
		Email:        fmt.Sprintf("%s%d@example.com", role, count+1),
		PasswordHash: "x",
		FullName:     "Test " + role,
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedSellerProduct(t *testing.T, db *gorm.DB, sellerID uint, price int64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		SellerID: sellerID,
		Name:     fmt.Sprintf("Shoe %d", stock),
		Brand:    "NapZon",
		Category: "men",
		Price:    decimal.NewFromInt(price),
		Sizes:    models.StringList{"8", "9"},
		Colors:   models.StringList{"Black"},
		Stock:    stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func addCartLine(t *testing.T, db *gorm.DB, userID, productID uint, qty int) {
	t.Helper()
	require.NoError(t, db.Create(&models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Size:      "9",
		Color:     "Black",
		Quantity:  qty,
	}).Error)
}

func validCheckoutInput() CheckoutInput {
	return CheckoutInput{
		FullName:      "Juan Dela Cruz",
		Email:         "juan@example.com",
		Phone:         "09171234567",
		Address:       "123 Mabini St",
		City:          "Manila",
		PostalCode:    "1000",
		PaymentMethod: "cod",
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	shoes := seedSellerProduct(t, db, seller.ID, 1500, 10)
	boots := seedSellerProduct(t, db, seller.ID, 2000, 8)
	addCartLine(t, db, buyer.ID, shoes.ID, 2)
	addCartLine(t, db, buyer.ID, boots.ID, 1)

	order, err := PlaceOrder(db, buyer.ID, validCheckoutInput())
	require.NoError(t, err)
	require.NotNil(t, order)

	// Order totals: subtotal from live prices, flat shipping fee.
	var saved models.Order
	require.NoError(t, db.Preload("Items").First(&saved, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, saved.Status)
	assert.True(t, saved.TotalAmount.Equal(decimal.NewFromInt(5000)), "got %s", saved.TotalAmount)
	assert.True(t, saved.ShippingFee.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, models.PaymentMethodCOD, saved.PaymentMethod)
	assert.NotEmpty(t, saved.OrderRef)
	require.Len(t, saved.Items, 2)

	// Price snapshots match the products at checkout time.
	for _, item := range saved.Items {
		switch item.ProductID {
		case shoes.ID:
			assert.True(t, item.PriceAtTime.Equal(decimal.NewFromInt(1500)))
			assert.Equal(t, 2, item.Quantity)
		case boots.ID:
			assert.True(t, item.PriceAtTime.Equal(decimal.NewFromInt(2000)))
			assert.Equal(t, 1, item.Quantity)
		default:
			t.Fatalf("unexpected order item for product %d", item.ProductID)
		}
	}

	// Stock decremented by exactly the ordered quantities.
	var p models.Product
	require.NoError(t, db.First(&p, shoes.ID).Error)
	assert.Equal(t, 8, p.Stock)
	p = models.Product{}
	require.NoError(t, db.First(&p, boots.ID).Error)
	assert.Equal(t, 7, p.Stock)

	// Cart emptied.
	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Count(&cartCount).Error)
	assert.EqualValues(t, 0, cartCount)

	// Seller notified once about the new order.
	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", seller.ID, models.NotificationOrderUpdates).
		Find(&notifications).Error)
	assert.Len(t, notifications, 1)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	shoes := seedSellerProduct(t, db, seller.ID, 1500, 10)
	boots := seedSellerProduct(t, db, seller.ID, 2000, 1)
	addCartLine(t, db, buyer.ID, shoes.ID, 2)
	addCartLine(t, db, buyer.ID, boots.ID, 3) // over stock

	_, err := PlaceOrder(db, buyer.ID, validCheckoutInput())
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Contains(t, stockErr.Error(), "Not enough stock for")

	// No order, no items, no stock change, cart intact.
	var orderCount, itemCount, cartCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Count(&cartCount).Error)
	assert.EqualValues(t, 0, orderCount)
	assert.EqualValues(t, 0, itemCount)
	assert.EqualValues(t, 2, cartCount)

	var p models.Product
	require.NoError(t, db.First(&p, shoes.ID).Error)
	assert.Equal(t, 10, p.Stock)
	p = models.Product{}
	require.NoError(t, db.First(&p, boots.ID).Error)
	assert.Equal(t, 1, p.Stock)
}

func TestPlaceOrderCompetingCheckouts(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	first := seedUser(t, db, models.RoleBuyer)
	second := seedUser(t, db, models.RoleBuyer)
	shoes := seedSellerProduct(t, db, seller.ID, 1500, 5)
	addCartLine(t, db, first.ID, shoes.ID, 3)
	addCartLine(t, db, second.ID, shoes.ID, 3)

	// Both carts passed validation when they were filled; the
	// conditional decrement decides the winner.
	_, err := PlaceOrder(db, first.ID, validCheckoutInput())
	require.NoError(t, err)

	_, err = PlaceOrder(db, second.ID, validCheckoutInput())
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	var p models.Product
	require.NoError(t, db.First(&p, shoes.ID).Error)
	assert.Equal(t, 2, p.Stock)

	var secondOrders int64
	require.NoError(t, db.Model(&models.Order{}).Where("user_id = ?", second.ID).Count(&secondOrders).Error)
	assert.EqualValues(t, 0, secondOrders)

	// The loser keeps their cart so they can adjust quantities.
	var cartCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", second.ID).Count(&cartCount).Error)
	assert.EqualValues(t, 1, cartCount)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	shoes := seedSellerProduct(t, db, seller.ID, 1500, 5)
	addCartLine(t, db, buyer.ID, shoes.ID, 1)

	// Missing shipping fields abort before any side effect.
	input := validCheckoutInput()
	input.Address = ""
	input.City = ""
	_, err := PlaceOrder(db, buyer.ID, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address")
	assert.Contains(t, err.Error(), "city")

	// Unknown payment method.
	input = validCheckoutInput()
	input.PaymentMethod = "card"
	_, err = PlaceOrder(db, buyer.ID, input)
	require.Error(t, err)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, 0, orderCount)

	var p models.Product
	require.NoError(t, db.First(&p, shoes.ID).Error)
	assert.Equal(t, 5, p.Stock)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := openTestDB(t)
	buyer := seedUser(t, db, models.RoleBuyer)

	_, err := PlaceOrder(db, buyer.ID, validCheckoutInput())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderLowStockNotification(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	shoes := seedSellerProduct(t, db, seller.ID, 1500, 7)
	addCartLine(t, db, buyer.ID, shoes.ID, 3) // leaves 4, below threshold

	_, err := PlaceOrder(db, buyer.ID, validCheckoutInput())
	require.NoError(t, err)

	var lowStock []models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", seller.ID, models.NotificationLowStock).
		Find(&lowStock).Error)
	require.Len(t, lowStock, 1)
	assert.Contains(t, lowStock[0].Message, "running low on stock")
}
