package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/threadline/shopapi/pkg/models"
)

const ordersCollection = "orders"

// InsertOrder writes an order. The sparse unique index on idempotency_key
// collapses a double-submitted "Place Order" into one record: on a
// duplicate-key error the already-stored order is returned instead.
func InsertOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	_, err := GetCollection(ordersCollection).InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		var existing models.Order
		findErr := GetCollection(ordersCollection).FindOne(ctx,
			bson.D{{Key: "idempotency_key", Value: order.IdempotencyKey}}).Decode(&existing)
		if findErr != nil {
			return nil, err
		}
		return &existing, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func GetOrderByID(ctx context.Context, id bson.ObjectID) (*models.Order, error) {
	var order models.Order
	err := GetCollection(ordersCollection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderForUser fetches an order only if it belongs to the given user; a
// foreign order reads as not found rather than forbidden.
func GetOrderForUser(ctx context.Context, id, userID bson.ObjectID) (*models.Order, error) {
	var order models.Order
	err := GetCollection(ordersCollection).FindOne(ctx, bson.D{
		{Key: "_id", Value: id},
		{Key: "user_id", Value: userID},
	}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func ListOrdersByUser(ctx context.Context, userID bson.ObjectID) ([]models.Order, error) {
	cursor, err := GetCollection(ordersCollection).Find(ctx,
		bson.D{{Key: "user_id", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func ListAllOrders(ctx context.Context) ([]models.Order, error) {
	cursor, err := GetCollection(ordersCollection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus advances the order state machine. Delivering a
// cash-on-delivery order also settles its payment.
func UpdateOrderStatus(ctx context.Context, id bson.ObjectID, newStatus string) (*models.Order, error) {
	order, err := GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionStatus(order.Status, newStatus) {
		return nil, ErrBadTransition
	}

	set := bson.D{
		{Key: "status", Value: newStatus},
		{Key: "updated_at", Value: time.Now()},
	}
	if newStatus == models.OrderDelivered && order.Payment.Status == models.PaymentPending {
		set = append(set, bson.E{Key: "payment.status", Value: models.PaymentPaid})
	}

	var updated models.Order
	err = GetCollection(ordersCollection).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
