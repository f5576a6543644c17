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

const settingsCollection = "settings"

// One settings document for the whole store.
const settingsDocID = "store"

// GetSettings returns the store settings, falling back to the defaults when
// no admin has saved any yet.
func GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := GetCollection(settingsCollection).FindOne(ctx, bson.D{{Key: "_id", Value: settingsDocID}}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func UpdateSettings(ctx context.Context, settings *models.Settings) (*models.Settings, error) {
	settings.UpdatedAt = time.Now()
	_, err := GetCollection(settingsCollection).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: settingsDocID}},
		settings,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}
	return settings, nil
}
