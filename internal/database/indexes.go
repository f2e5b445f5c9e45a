package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}
	usernameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
		Options: options.Index().
			SetName("username_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique and username_unique indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{emailIndex, usernameIndex})
	if err != nil {
		log.Println("EnsureUserIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureCollectorIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("collectors").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().
			SetName("userId_unique").
			SetUnique(true),
	}

	log.Println("EnsureCollectorIndexes: creating userId_unique index")
	_, err := indexes.CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureCollectorIndexes: userId index error:", err)
		return err
	}
	return nil
}

func EnsureBookingIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("bookings").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_index"),
	}
	collectorIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "collectorId", Value: 1}},
		Options: options.Index().SetName("collectorId_index"),
	}

	log.Println("EnsureBookingIndexes: creating userId_index and collectorId_index indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{userIDIndex, collectorIDIndex})
	if err != nil {
		log.Println("EnsureBookingIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureInvoiceIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("invoices").Indexes()

	bookingIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "bookingId", Value: 1}},
		Options: options.Index().SetName("bookingId_index"),
	}

	log.Println("EnsureInvoiceIndexes: creating bookingId_index index")
	_, err := indexes.CreateOne(ctx, bookingIDIndex)
	if err != nil {
		log.Println("EnsureInvoiceIndexes: bookingId index error:", err)
		return err
	}
	return nil
}
