package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The duplicate-name guard lives entirely in the unique indexes:
// creates do a bare insert and rely on the storage layer to reject
// duplicates. Index bootstrap failures are therefore fatal upstream.

func EnsureCustomerIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetName("date_asc"),
		},
		{
			Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
			Options: options.Index().SetName("location_2dsphere"),
		},
	}

	_, err := db.Collection("customers").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Error().Err(err).Msg("EnsureCustomerIndexes failed")
		return err
	}
	log.Info().Msg("customer indexes ensured")
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_unique").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "description", Value: "text"},
			},
			Options: options.Index().SetName("name_description_text"),
		},
	}

	_, err := db.Collection("products").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Error().Err(err).Msg("EnsureProductIndexes failed")
		return err
	}
	log.Info().Msg("product indexes ensured")
	return nil
}

func EnsureCredentialIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	usernameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetName("username_unique").SetUnique(true),
	}

	_, err := db.Collection("auth").Indexes().CreateOne(ctx, usernameIndex)
	if err != nil {
		log.Error().Err(err).Msg("EnsureCredentialIndexes failed")
		return err
	}
	log.Info().Msg("credential indexes ensured")
	return nil
}
