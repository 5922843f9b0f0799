package orderControllers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/napzon/napzon-api/middleware"
	"github.com/napzon/napzon-api/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	feedMu      sync.Mutex
	sellerFeeds = make(map[*websocket.Conn]uint) // conn -> seller id
)

// GET /seller/orders/feed
//
// Sellers keep this socket open from the back-office; new orders that
// include their products are pushed as they are placed.
func OrderFeedHandler(c *gin.Context) {
	auth, _ := middleware.GetAuth(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	feedMu.Lock()
	sellerFeeds[conn] = auth.UserID
	feedMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			feedMu.Lock()
			delete(sellerFeeds, conn)
			feedMu.Unlock()
			break
		}
	}
}

// broadcastNewOrder pushes a freshly placed order to every connected
// seller with a product in it. Best effort only.
func broadcastNewOrder(db *gorm.DB, orderID uint) {
	var order models.Order
	if err := db.Preload("Items").Preload("Items.Product").First(&order, orderID).Error; err != nil {
		log.Printf("order feed: failed to load order %d: %v", orderID, err)
		return
	}

	sellers := make(map[uint]bool)
	for _, item := range order.Items {
		sellers[item.Product.SellerID] = true
	}

	data, err := json.Marshal(order)
	if err != nil {
		return
	}

	feedMu.Lock()
	defer feedMu.Unlock()
	for conn, sellerID := range sellerFeeds {
		if !sellers[sellerID] {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(sellerFeeds, conn)
		}
	}
}
