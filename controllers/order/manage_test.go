package orderControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/napzon/napzon-api/models"
)

// placedOrder checks out a one-line cart (qty 2 against stock 10) and
// returns the pending order plus its product.
func placedOrder(t *testing.T, db *gorm.DB, sellerID, buyerID uint) (models.Order, models.Product) {
	t.Helper()
	product := seedSellerProduct(t, db, sellerID, 1500, 10)
	addCartLine(t, db, buyerID, product.ID, 2)
	order, err := PlaceOrder(db, buyerID, validCheckoutInput())
	require.NoError(t, err)
	return *order, product
}

func currentStock(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	return product.Stock
}

func orderStatus(t *testing.T, db *gorm.DB, orderID uint) models.OrderStatus {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	return order.Status
}

func TestManageOrderAccept(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	order, product := placedOrder(t, db, seller.ID, buyer.ID)

	newStatus, err := ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Action: "accept"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, newStatus)
	assert.Equal(t, models.OrderStatusProcessing, orderStatus(t, db, order.ID))
	// Accepting does not touch stock.
	assert.Equal(t, 8, currentStock(t, db, product.ID))

	// The buyer hears about it.
	var notification models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", buyer.ID, models.NotificationOrderStatus).
		Order("created_at DESC").First(&notification).Error)
	assert.Contains(t, notification.Message, "accepted")
}

func TestManageOrderDeclineRestoresStock(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	order, product := placedOrder(t, db, seller.ID, buyer.ID)
	require.Equal(t, 8, currentStock(t, db, product.ID))

	newStatus, err := ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Action: "decline"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, newStatus)
	assert.Equal(t, 10, currentStock(t, db, product.ID))
}

func TestManageOrderActionRequiresPending(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	order, product := placedOrder(t, db, seller.ID, buyer.ID)

	_, err := ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Action: "accept"})
	require.NoError(t, err)

	// Accept and decline are no-ops once the order left pending.
	_, err = ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Action: "accept"})
	assert.ErrorIs(t, err, ErrActionNotPending)
	_, err = ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Action: "decline"})
	assert.ErrorIs(t, err, ErrActionNotPending)

	assert.Equal(t, models.OrderStatusProcessing, orderStatus(t, db, order.ID))
	assert.Equal(t, 8, currentStock(t, db, product.ID))
}

func TestManageOrderStatusTransitions(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	order, _ := placedOrder(t, db, seller.ID, buyer.ID)

	// Skipping ahead is rejected.
	_, err := ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Status: "delivered"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Setting the current status again is rejected.
	_, err = ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Status: "pending"})
	assert.ErrorIs(t, err, ErrNoStatusChange)

	// The dropdown path walks the same table as accept/decline.
	for _, next := range []string{"processing", "shipped", "delivered"} {
		_, err = ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Status: next})
		require.NoError(t, err, "transition to %s", next)
	}
	assert.Equal(t, models.OrderStatusDelivered, orderStatus(t, db, order.ID))

	// Delivered is terminal.
	_, err = ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestManageOrderCancelFromProcessingRestoresStock(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	order, product := placedOrder(t, db, seller.ID, buyer.ID)

	_, err := ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Action: "accept"})
	require.NoError(t, err)

	// Stock is still held while processing; cancelling returns it.
	_, err = ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, 10, currentStock(t, db, product.ID))
}

func TestManageOrderOwnership(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	otherSeller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	order, _ := placedOrder(t, db, seller.ID, buyer.ID)

	_, err := ManageOrder(db, otherSeller.ID, ManageOrderInput{OrderID: order.ID, Action: "accept"})
	assert.ErrorIs(t, err, ErrOrderNotOwned)
	assert.Equal(t, models.OrderStatusPending, orderStatus(t, db, order.ID))
}

func TestCancelOrder(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	order, product := placedOrder(t, db, seller.ID, buyer.ID)
	require.Equal(t, 8, currentStock(t, db, product.ID))

	require.NoError(t, CancelOrder(db, buyer.ID, order.ID))
	assert.Equal(t, models.OrderStatusCancelled, orderStatus(t, db, order.ID))
	assert.Equal(t, 10, currentStock(t, db, product.ID))

	// Cancelling again must not restore twice.
	assert.ErrorIs(t, CancelOrder(db, buyer.ID, order.ID), ErrOrderNotCancellable)
	assert.Equal(t, 10, currentStock(t, db, product.ID))
}

func TestCancelOrderRequiresPendingAndOwnership(t *testing.T) {
	db := openTestDB(t)
	seller := seedUser(t, db, models.RoleSeller)
	buyer := seedUser(t, db, models.RoleBuyer)
	stranger := seedUser(t, db, models.RoleBuyer)
	order, product := placedOrder(t, db, seller.ID, buyer.ID)

	// Not the buyer's order.
	assert.ErrorIs(t, CancelOrder(db, stranger.ID, order.ID), ErrOrderNotCancellable)

	// Once accepted, the buyer can no longer cancel.
	_, err := ManageOrder(db, seller.ID, ManageOrderInput{OrderID: order.ID, Action: "accept"})
	require.NoError(t, err)
	assert.ErrorIs(t, CancelOrder(db, buyer.ID, order.ID), ErrOrderNotCancellable)
	assert.Equal(t, 8, currentStock(t, db, product.ID))
}
