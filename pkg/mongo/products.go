package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/threadline/shopapi/pkg/models"
)

const productsCollection = "products"

// ListProducts returns the products matching every set filter field. Search
// is a case-insensitive substring match over name, brand and description.
// Page/limit are optional; when unset the full filtered set is returned.
func ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := bson.D{}

	if filter.CategoryID != "" {
		categoryID, err := bson.ObjectIDFromHex(filter.CategoryID)
		if err != nil {
			return nil, ErrNotFound
		}
		query = append(query, bson.E{Key: "category_id", Value: categoryID})
	}
	if filter.Featured != nil {
		query = append(query, bson.E{Key: "featured", Value: *filter.Featured})
	}
	if filter.OnSale != nil {
		query = append(query, bson.E{Key: "on_sale", Value: *filter.OnSale})
	}
	if filter.Search != "" {
		pattern := regexp.QuoteMeta(filter.Search)
		search := bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}
		query = append(query, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: search}},
			bson.D{{Key: "brand", Value: search}},
			bson.D{{Key: "description", Value: search}},
		}})
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		findOpts = findOpts.SetSkip(int64((page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cursor, err := GetCollection(productsCollection).Find(ctx, query, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func GetProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	var product models.Product
	err := GetCollection(productsCollection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := GetCollection(productsCollection).FindOne(ctx, bson.D{{Key: "slug", Value: slug}}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a product; a duplicate slug maps to
// ErrDuplicateSlug via the unique index.
func CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	_, err := GetCollection(productsCollection).InsertOne(ctx, product)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies a partial update and returns the updated document.
// Immutable fields are expected to be stripped by the caller.
func UpdateProduct(ctx context.Context, id bson.ObjectID, updates bson.M) (*models.Product, error) {
	updates["updated_at"] = time.Now()

	var updated models.Product
	err := GetCollection(productsCollection).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: updates}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func DeleteProduct(ctx context.Context, id bson.ObjectID) error {
	result, err := GetCollection(productsCollection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
