package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/threadline/shopapi/pkg/models"
)

// DashboardStats is the read-side summary the admin dashboard polls for.
type DashboardStats struct {
	Products      int64   `json:"products"`
	Categories    int64   `json:"categories"`
	Orders        int64   `json:"orders"`
	PendingOrders int64   `json:"pending_orders"`
	Users         int64   `json:"users"`
	Revenue       float64 `json:"revenue"`
}

// DailySales is one day of order volume.
type DailySales struct {
	Day     string  `json:"day" bson:"_id"`
	Orders  int     `json:"orders" bson:"orders"`
	Revenue float64 `json:"revenue" bson:"revenue"`
}

func GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.Products, err = GetCollection(productsCollection).CountDocuments(ctx, bson.D{}); err != nil {
		return nil, err
	}
	if stats.Categories, err = GetCollection(categoriesCollection).CountDocuments(ctx, bson.D{}); err != nil {
		return nil, err
	}
	if stats.Orders, err = GetCollection(ordersCollection).CountDocuments(ctx, bson.D{}); err != nil {
		return nil, err
	}
	if stats.PendingOrders, err = GetCollection(ordersCollection).CountDocuments(ctx,
		bson.D{{Key: "status", Value: models.OrderPending}}); err != nil {
		return nil, err
	}
	if stats.Users, err = GetCollection(usersCollection).CountDocuments(ctx, bson.D{}); err != nil {
		return nil, err
	}

	// Revenue counts every non-cancelled order.
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "status", Value: bson.D{{Key: "$ne", Value: models.OrderCancelled}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$totals.grand_total"}}},
		}}},
	}
	cursor, err := GetCollection(ordersCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) > 0 {
		stats.Revenue = results[0].Revenue
	}
	return stats, nil
}

// GetSalesByDay groups non-cancelled orders of the last n days by calendar
// day.
func GetSalesByDay(ctx context.Context, days int) ([]DailySales, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}},
			{Key: "status", Value: bson.D{{Key: "$ne", Value: models.OrderCancelled}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$created_at"},
			}}}},
			{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$totals.grand_total"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := GetCollection(ordersCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sales := []DailySales{}
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}
