package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"garbage-backend/internal/models"
)

// freeServiceThreshold is the number of completed collections that grants a
// resident one free booking.
const freeServiceThreshold = 10

func remainingForFreeService(completed int) int {
	remaining := freeServiceThreshold - completed
	if remaining < 0 {
		return 0
	}
	return remaining
}

type completeCollectionRequest struct {
	BookingID   string `json:"bookingId" binding:"required"`
	CollectorID string `json:"collectorId" binding:"required"`
}

// CompleteCollection marks a booking as completed by its assigned collector,
// records the collector's commission, advances the resident's loyalty counter
// and frees the collector.
func CompleteCollection(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /collectors/complete-collection"
		defer handlePanic(c, route)

		var req completeCollectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		bookingID, err := primitive.ObjectIDFromHex(req.BookingID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid bookingId")
			return
		}
		collectorID, err := primitive.ObjectIDFromHex(req.CollectorID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid collectorId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var booking models.Booking
		err = db.Collection("bookings").FindOne(ctx, bson.M{
			"_id":         bookingID,
			"collectorId": collectorID,
		}).Decode(&booking)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "booking not found or not assigned to this collector")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var binCategory models.BinCategory
		if err := db.Collection("bin_categories").FindOne(ctx, bson.M{"_id": booking.BinCategoryID}).Decode(&binCategory); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "bin category not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		income, err := collectorIncome(binCategory.Category, binCategory.Quantity)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		// Guarded on status so a booking cannot be completed twice.
		res, err := db.Collection("bookings").UpdateOne(ctx, bson.M{
			"_id":    bookingID,
			"status": models.BookingBooked,
		}, bson.M{"$set": bson.M{
			"status": models.BookingCompleted,
			"income": income,
		}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusConflict, route, "booking is not in a completable state")
			return
		}

		if err := creditCompletedService(ctx, db, booking.UserID); err != nil {
			log.Println("[COLLECTOR] [ERROR] loyalty credit failed:", err)
		}

		releaseCollector(ctx, db, collectorID)

		log.Println("[COLLECTOR] [INFO] collection completed:", bookingID.Hex())
		c.JSON(http.StatusOK, gin.H{
			"message": "Collection completed successfully",
			"income":  income,
		})
	}
}

// creditCompletedService increments the resident's completed-services counter
// and, once the loyalty threshold is reached, marks their oldest booking that
// is not already free as Free.
func creditCompletedService(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) error {
	var user models.User
	err := db.Collection("users").FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$inc": bson.M{"completedServices": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return err
	}

	if user.CompletedServices < freeServiceThreshold {
		return nil
	}

	var next models.Booking
	err = db.Collection("bookings").FindOne(ctx,
		bson.M{"userId": userID, "status": bson.M{"$ne": models.BookingFree}},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	).Decode(&next)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Println("[COLLECTOR] [INFO] no eligible booking for free service:", userID.Hex())
			return nil
		}
		return err
	}

	_, err = db.Collection("bookings").UpdateOne(ctx,
		bson.M{"_id": next.ID},
		bson.M{"$set": bson.M{"status": models.BookingFree}})
	return err
}

// GetCollectorDetails returns the collector profile owned by a user.
func GetCollectorDetails(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var collector models.Collector
		if err := db.Collection("collectors").FindOne(ctx, bson.M{"userId": userID}).Decode(&collector); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "collector details not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, collector)
	}
}

// CollectorDashboard lists the bookings assigned to a collector.
func CollectorDashboard(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		collectorID, err := primitive.ObjectIDFromHex(c.Param("collectorId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collectorId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("bookings").Find(ctx, bson.M{"collectorId": collectorID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Bookings could not be fetched"})
			return
		}
		defer cursor.Close(ctx)

		var bookings []models.Booking
		if err := cursor.All(ctx, &bookings); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse bookings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"bookings": bookings})
	}
}

// ViewCompletedServices reports a resident's loyalty progress.
func ViewCompletedServices(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"completedServices":                user.CompletedServices,
			"remainingBookingsForFreeService": remainingForFreeService(user.CompletedServices),
		})
	}
}

func listCollectors(db *mongo.Database, filter bson.M) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("collectors").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Collectors could not be fetched"})
			return
		}
		defer cursor.Close(ctx)

		var collectors []models.Collector
		if err := cursor.All(ctx, &collectors); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse collectors"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"collectors": collectors})
	}
}

// GetAvailableCollectors returns collectors that are available and verified.
func GetAvailableCollectors(db *mongo.Database) gin.HandlerFunc {
	return listCollectors(db, bson.M{"status": models.CollectorAvailable, "verified": true})
}

// GetBookedCollectors returns collectors currently assigned to a booking.
func GetBookedCollectors(db *mongo.Database) gin.HandlerFunc {
	return listCollectors(db, bson.M{"status": models.CollectorBooked})
}

// GetVerifiedCollectors returns all admin-verified collectors.
func GetVerifiedCollectors(db *mongo.Database) gin.HandlerFunc {
	return listCollectors(db, bson.M{"verified": true})
}

// VerifyCollector marks a collector as verified. Admin only; idempotent.
func VerifyCollector(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/collectors/:id/verify"

		collectorID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("collectors").UpdateOne(ctx,
			bson.M{"_id": collectorID},
			bson.M{"$set": bson.M{"verified": true}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "collector not found")
			return
		}

		log.Println("[ADMIN] [INFO] collector verified:", collectorID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "Collector verified successfully"})
	}
}
