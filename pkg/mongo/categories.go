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

const categoriesCollection = "categories"

func ListCategories(ctx context.Context) ([]models.Category, error) {
	cursor, err := GetCollection(categoriesCollection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func GetCategoryByID(ctx context.Context, id bson.ObjectID) (*models.Category, error) {
	var category models.Category
	err := GetCollection(categoriesCollection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// categorySource is the slice of the store the tree rules read. The live
// store implements it; tests substitute an in-memory one.
type categorySource interface {
	GetCategoryByID(ctx context.Context, id bson.ObjectID) (*models.Category, error)
	CountChildren(ctx context.Context, id bson.ObjectID) (int64, error)
}

type liveCategories struct{}

func (liveCategories) GetCategoryByID(ctx context.Context, id bson.ObjectID) (*models.Category, error) {
	return GetCategoryByID(ctx, id)
}

func (liveCategories) CountChildren(ctx context.Context, id bson.ObjectID) (int64, error) {
	return GetCollection(categoriesCollection).CountDocuments(ctx, bson.D{{Key: "parent_id", Value: id}})
}

// validateParent enforces the two-level tree on the parent side: the parent
// must exist and must itself be a root category.
func validateParent(ctx context.Context, src categorySource, parentID bson.ObjectID) error {
	parent, err := src.GetCategoryByID(ctx, parentID)
	if err != nil {
		return ErrInvalidParent
	}
	if parent.IsSubcategory() {
		return ErrInvalidParent
	}
	return nil
}

// validateReparent additionally enforces the child side when an existing
// category gains a parent: a category that already has children must stay a
// root, otherwise its children would sit three levels deep. Together with
// validateParent this also keeps cycles unrepresentable.
func validateReparent(ctx context.Context, src categorySource, id, parentID bson.ObjectID) error {
	if parentID == id {
		return ErrInvalidParent
	}
	if err := validateParent(ctx, src, parentID); err != nil {
		return err
	}
	children, err := src.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrInvalidParent
	}
	return nil
}

func CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.IsSubcategory() {
		if err := validateParent(ctx, liveCategories{}, category.ParentID); err != nil {
			return nil, err
		}
	}

	_, err := GetCollection(categoriesCollection).InsertOne(ctx, category)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateSlug
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func UpdateCategory(ctx context.Context, id bson.ObjectID, updates bson.M) (*models.Category, error) {
	if rawParent, ok := updates["parent_id"]; ok {
		parentHex, _ := rawParent.(string)
		if parentHex == "" {
			delete(updates, "parent_id")
			updates["$unsetParent"] = true
		} else {
			parentID, err := bson.ObjectIDFromHex(parentHex)
			if err != nil {
				return nil, ErrInvalidParent
			}
			if err := validateReparent(ctx, liveCategories{}, id, parentID); err != nil {
				return nil, err
			}
			updates["parent_id"] = parentID
		}
	}

	update := bson.D{}
	if _, ok := updates["$unsetParent"]; ok {
		delete(updates, "$unsetParent")
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{Key: "parent_id", Value: ""}}})
	}
	updates["updated_at"] = time.Now()
	update = append(update, bson.E{Key: "$set", Value: updates})

	var updated models.Category
	err := GetCollection(categoriesCollection).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		update,
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

func DeleteCategory(ctx context.Context, id bson.ObjectID) error {
	result, err := GetCollection(categoriesCollection).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
