package sellerControllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/napzon/napzon-api/middleware"
	"github.com/napzon/napzon-api/models"
)

// Cancelled orders are excluded from every figure below.

type OverallStats struct {
	TotalOrders     int64           `json:"total_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	UniqueCustomers int64           `json:"unique_customers"`
}

type CategoryStat struct {
	Category   string          `json:"category"`
	OrderCount int64           `json:"order_count"`
	ItemsSold  int64           `json:"items_sold"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type MonthlyStat struct {
	Month      string          `json:"month"` // YYYY-MM
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type TopProduct struct {
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	OrderCount   int64           `json:"order_count"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

func overallStats(db *gorm.DB, sellerID uint) (OverallStats, error) {
	var stats OverallStats
	err := db.Raw(`
		SELECT COUNT(DISTINCT o.id) AS total_orders,
		       COALESCE(SUM(oi.quantity * oi.price_at_time), 0) AS total_revenue,
		       COUNT(DISTINCT o.user_id) AS unique_customers
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		JOIN products p ON oi.product_id = p.id
		WHERE p.seller_id = ? AND o.status <> ?`,
		sellerID, models.OrderStatusCancelled).Scan(&stats).Error
	return stats, err
}

func categoryStats(db *gorm.DB, sellerID uint) ([]CategoryStat, error) {
	var stats []CategoryStat
	err := db.Raw(`
		SELECT p.category,
		       COUNT(DISTINCT o.id) AS order_count,
		       SUM(oi.quantity) AS items_sold,
		       SUM(oi.quantity * oi.price_at_time) AS revenue
		FROM products p
		JOIN order_items oi ON p.id = oi.product_id
		JOIN orders o ON oi.order_id = o.id
		WHERE p.seller_id = ? AND o.status <> ?
		GROUP BY p.category
		ORDER BY revenue DESC`,
		sellerID, models.OrderStatusCancelled).Scan(&stats).Error
	return stats, err
}

// monthlySales buckets the last 12 months in Go so the query stays
// portable across the Postgres deployment and the sqlite test harness.
func monthlySales(db *gorm.DB, sellerID uint) ([]MonthlyStat, error) {
	since := time.Now().AddDate(-1, 0, 0)

	var rows []struct {
		OrderID   uint
		CreatedAt time.Time
		Revenue   decimal.Decimal
	}
	err := db.Raw(`
		SELECT o.id AS order_id,
		       o.created_at,
		       oi.quantity * oi.price_at_time AS revenue
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		JOIN products p ON oi.product_id = p.id
		WHERE p.seller_id = ? AND o.status <> ? AND o.created_at >= ?`,
		sellerID, models.OrderStatusCancelled, since).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	type bucket struct {
		orders  map[uint]bool
		revenue decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	for _, row := range rows {
		month := row.CreatedAt.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &bucket{orders: make(map[uint]bool), revenue: decimal.Zero}
			buckets[month] = b
		}
		b.orders[row.OrderID] = true
		b.revenue = b.revenue.Add(row.Revenue)
	}

	stats := make([]MonthlyStat, 0, len(buckets))
	for month, b := range buckets {
		stats = append(stats, MonthlyStat{
			Month:      month,
			OrderCount: int64(len(b.orders)),
			Revenue:    b.revenue,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Month < stats[j].Month })
	return stats, nil
}

func topProducts(db *gorm.DB, sellerID uint) ([]TopProduct, error) {
	var stats []TopProduct
	err := db.Raw(`
		SELECT p.name, p.brand,
		       COUNT(DISTINCT o.id) AS order_count,
		       SUM(oi.quantity) AS quantity_sold,
		       SUM(oi.quantity * oi.price_at_time) AS revenue
		FROM products p
		JOIN order_items oi ON p.id = oi.product_id
		JOIN orders o ON oi.order_id = o.id
		WHERE p.seller_id = ? AND o.status <> ?
		GROUP BY p.id, p.name, p.brand
		ORDER BY quantity_sold DESC
		LIMIT 5`,
		sellerID, models.OrderStatusCancelled).Scan(&stats).Error
	return stats, err
}

// GET /seller/analytics
func GetAnalyticsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		overall, err := overallStats(db, auth.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch overall statistics"})
			return
		}
		categories, err := categoryStats(db, auth.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch category statistics"})
			return
		}
		monthly, err := monthlySales(db, auth.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch monthly sales"})
			return
		}
		top, err := topProducts(db, auth.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch top products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"overall":       overall,
			"by_category":   categories,
			"monthly_sales": monthly,
			"top_products":  top,
		})
	}
}

// GET /seller/analytics/export
func ExportAnalyticsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		overall, err := overallStats(db, auth.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to build report"})
			return
		}
		categories, err := categoryStats(db, auth.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to build report"})
			return
		}
		monthly, err := monthlySales(db, auth.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to build report"})
			return
		}
		top, err := topProducts(db, auth.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to build report"})
			return
		}

		file := xlsx.NewFile()

		overview, err := file.AddSheet("Overview")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to build report"})
			return
		}
		row := overview.AddRow()
		row.AddCell().SetValue("Total Orders")
		row.AddCell().SetValue(overall.TotalOrders)
		row = overview.AddRow()
		row.AddCell().SetValue("Total Revenue")
		row.AddCell().SetValue(overall.TotalRevenue.StringFixed(2))
		row = overview.AddRow()
		row.AddCell().SetValue("Unique Customers")
		row.AddCell().SetValue(overall.UniqueCustomers)

		catSheet, _ := file.AddSheet("Categories")
		header := catSheet.AddRow()
		for _, h := range []string{"Category", "Orders", "Items Sold", "Revenue"} {
			header.AddCell().SetValue(h)
		}
		for _, stat := range categories {
			row := catSheet.AddRow()
			row.AddCell().SetValue(stat.Category)
			row.AddCell().SetValue(stat.OrderCount)
			row.AddCell().SetValue(stat.ItemsSold)
			row.AddCell().SetValue(stat.Revenue.StringFixed(2))
		}

		monthSheet, _ := file.AddSheet("Monthly Sales")
		header = monthSheet.AddRow()
		for _, h := range []string{"Month", "Orders", "Revenue"} {
			header.AddCell().SetValue(h)
		}
		for _, stat := range monthly {
			row := monthSheet.AddRow()
			row.AddCell().SetValue(stat.Month)
			row.AddCell().SetValue(stat.OrderCount)
			row.AddCell().SetValue(stat.Revenue.StringFixed(2))
		}

		topSheet, _ := file.AddSheet("Top Products")
		header = topSheet.AddRow()
		for _, h := range []string{"Name", "Brand", "Orders", "Quantity Sold", "Revenue"} {
			header.AddCell().SetValue(h)
		}
		for _, stat := range top {
			row := topSheet.AddRow()
			row.AddCell().SetValue(stat.Name)
			row.AddCell().SetValue(stat.Brand)
			row.AddCell().SetValue(stat.OrderCount)
			row.AddCell().SetValue(stat.QuantitySold)
			row.AddCell().SetValue(stat.Revenue.StringFixed(2))
		}

		c.Header("Content-Disposition", "attachment; filename=analytics.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to write report"})
		}
	}
}
