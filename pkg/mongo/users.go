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

const usersCollection = "users"

func CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	_, err := GetCollection(usersCollection).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := GetCollection(usersCollection).FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	err := GetCollection(usersCollection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserProfile applies the mutable profile fields only; email, role and
// password never change through this path.
func UpdateUserProfile(ctx context.Context, id bson.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	set := bson.D{{Key: "updated_at", Value: time.Now()}}
	if req.FirstName != "" {
		set = append(set, bson.E{Key: "first_name", Value: req.FirstName})
	}
	if req.LastName != "" {
		set = append(set, bson.E{Key: "last_name", Value: req.LastName})
	}
	if req.Phone != "" {
		set = append(set, bson.E{Key: "phone", Value: req.Phone})
	}

	var updated models.User
	err := GetCollection(usersCollection).FindOneAndUpdate(ctx,
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

func ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := GetCollection(usersCollection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func UpdateUserRole(ctx context.Context, id bson.ObjectID, role string) (*models.User, error) {
	var updated models.User
	err := GetCollection(usersCollection).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "role", Value: role},
			{Key: "updated_at", Value: time.Now()},
		}}},
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
