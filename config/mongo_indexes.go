package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profiles := db.Collection("profiles")
	_, err := profiles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// one profile per user
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_user_id").
				SetUnique(true),
		},
		// handle is optional; sparse keeps profiles without one out of the index
		{
			Keys: bson.D{{Key: "handle", Value: 1}},
			Options: options.Index().
				SetName("uniq_handle").
				SetUnique(true).
				SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetName("by_created"),
		},
	})
	return err
}
