package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"garbage-backend/internal/models"
)

type createBookingRequest struct {
	UserID        string `json:"userId" binding:"required"`
	BinCategoryID string `json:"binCategoryId" binding:"required"`
	ScheduleDate  string `json:"scheduleDate" binding:"required"`
	ScheduleTime  string `json:"scheduleTime" binding:"required"`
}

// CreateBooking matches a resident's bin category request to the best-fit
// available collector in their location and persists the booking.
func CreateBooking(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /bookings"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}
		binCategoryID, err := primitive.ObjectIDFromHex(req.BinCategoryID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid binCategoryId")
			return
		}

		if err := validateSlot(req.ScheduleDate, req.ScheduleTime); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "user not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var binCategory models.BinCategory
		if err := db.Collection("bin_categories").FindOne(ctx, bson.M{"_id": binCategoryID}).Decode(&binCategory); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "bin category not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		payment, err := totalPayment(binCategory.Category, binCategory.Quantity)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		candidates, err := loadBookingCandidates(ctx, db)
		if err != nil {
			log.Println("[BOOKING] [ERROR] candidate lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		ranked := rankEligibleCollectors(candidates, user.Location, binCategory.Quantity)
		if len(ranked) == 0 {
			respondWithError(c, http.StatusNotFound, route, noCollectorAvailableError{
				Location: user.Location,
				Quantity: binCategory.Quantity,
			}.Error())
			return
		}

		// Reserve the best-fit candidate. The status filter makes the write a
		// compare-and-set: a concurrent booking that won the same collector
		// leaves MatchedCount at zero and we move on to the next candidate.
		selected, reserved := reserveCollector(ctx, db, ranked)
		if !reserved {
			respondWithError(c, http.StatusNotFound, route, noCollectorAvailableError{
				Location: user.Location,
				Quantity: binCategory.Quantity,
			}.Error())
			return
		}

		booking := models.Booking{
			UserID:        userID,
			BinCategoryID: binCategoryID,
			CollectorID:   selected.Collector.ID,
			CollectorName: selected.OwnerName,
			Location:      user.Location,
			ScheduleDate:  req.ScheduleDate,
			ScheduleTime:  req.ScheduleTime,
			TotalPayment:  payment,
			Status:        models.BookingBooked,
			CreatedAt:     time.Now(),
		}

		res, err := db.Collection("bookings").InsertOne(ctx, booking)
		if err != nil {
			// Release the reservation so the collector is not stranded.
			releaseCollector(ctx, db, selected.Collector.ID)
			log.Println("[BOOKING] [ERROR] booking insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			booking.ID = id
		}

		log.Println("[BOOKING] [INFO] booking created for user:", userID.Hex(),
			"collector:", selected.Collector.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"message": "Booking created successfully",
			"booking": booking,
		})
	}
}

// loadBookingCandidates fetches available verified collectors joined with
// their owning users' location and name.
func loadBookingCandidates(ctx context.Context, db *mongo.Database) ([]collectorCandidate, error) {
	cursor, err := db.Collection("collectors").Find(ctx, bson.M{
		"status":   models.CollectorAvailable,
		"verified": true,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var collectors []models.Collector
	if err := cursor.All(ctx, &collectors); err != nil {
		return nil, err
	}
	if len(collectors) == 0 {
		return nil, nil
	}

	ownerIDs := make([]primitive.ObjectID, 0, len(collectors))
	for _, col := range collectors {
		ownerIDs = append(ownerIDs, col.UserID)
	}

	userCursor, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ownerIDs}})
	if err != nil {
		return nil, err
	}
	defer userCursor.Close(ctx)

	var owners []models.User
	if err := userCursor.All(ctx, &owners); err != nil {
		return nil, err
	}

	ownerByID := make(map[primitive.ObjectID]models.User, len(owners))
	for _, owner := range owners {
		ownerByID[owner.ID] = owner
	}

	candidates := make([]collectorCandidate, 0, len(collectors))
	for _, col := range collectors {
		owner, ok := ownerByID[col.UserID]
		if !ok {
			continue
		}
		candidates = append(candidates, collectorCandidate{
			Collector: col,
			OwnerName: owner.Username,
			Location:  owner.Location,
		})
	}
	return candidates, nil
}

// reserveCollector walks the ranked candidates in order and flips the first
// one that is still available to booked.
func reserveCollector(ctx context.Context, db *mongo.Database, ranked []collectorCandidate) (collectorCandidate, bool) {
	for _, cand := range ranked {
		res, err := db.Collection("collectors").UpdateOne(ctx, bson.M{
			"_id":    cand.Collector.ID,
			"status": models.CollectorAvailable,
		}, bson.M{"$set": bson.M{"status": models.CollectorBooked}})
		if err != nil {
			log.Println("[BOOKING] [ERROR] collector reserve failed:", err)
			continue
		}
		if res.MatchedCount == 0 {
			// Lost the race for this collector; try the next best fit.
			continue
		}
		return cand, true
	}
	return collectorCandidate{}, false
}

func releaseCollector(ctx context.Context, db *mongo.Database, collectorID primitive.ObjectID) {
	_, err := db.Collection("collectors").UpdateOne(ctx, bson.M{
		"_id":    collectorID,
		"status": models.CollectorBooked,
	}, bson.M{"$set": bson.M{"status": models.CollectorAvailable}})
	if err != nil {
		log.Println("[BOOKING] [ERROR] collector release failed:", err)
	}
}

// GetBookingsByUser returns a resident's bookings with bin category details
// attached.
func GetBookingsByUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("bookings").Find(ctx, bson.M{"userId": userID})
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

		categoryIDs := make([]primitive.ObjectID, 0, len(bookings))
		for _, b := range bookings {
			categoryIDs = append(categoryIDs, b.BinCategoryID)
		}

		categoryByID := make(map[primitive.ObjectID]models.BinCategory)
		if len(categoryIDs) > 0 {
			catCursor, err := db.Collection("bin_categories").Find(ctx, bson.M{"_id": bson.M{"$in": categoryIDs}})
			if err == nil {
				var categories []models.BinCategory
				if err := catCursor.All(ctx, &categories); err == nil {
					for _, cat := range categories {
						categoryByID[cat.ID] = cat
					}
				}
				catCursor.Close(ctx)
			}
		}

		type bookingView struct {
			models.Booking
			BinCategory *models.BinCategory `json:"binCategory,omitempty"`
		}

		views := make([]bookingView, 0, len(bookings))
		for _, b := range bookings {
			view := bookingView{Booking: b}
			if cat, ok := categoryByID[b.BinCategoryID]; ok {
				view.BinCategory = &cat
			}
			views = append(views, view)
		}

		c.JSON(http.StatusOK, gin.H{"bookings": views})
	}
}

// CancelBooking moves a booked booking to cancelled and frees its collector.
func CancelBooking(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /bookings/:id/cancel"
		defer handlePanic(c, route)

		bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var booking models.Booking
		if err := db.Collection("bookings").FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "booking not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if models.IsTerminal(booking.Status) {
			respondWithError(c, http.StatusConflict, route,
				fmt.Sprintf("booking is already %s", booking.Status))
			return
		}

		res, err := db.Collection("bookings").UpdateOne(ctx, bson.M{
			"_id":    bookingID,
			"status": models.BookingBooked,
		}, bson.M{"$set": bson.M{"status": models.BookingCancelled}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusConflict, route, "booking is no longer cancellable")
			return
		}

		releaseCollector(ctx, db, booking.CollectorID)

		log.Println("[BOOKING] [INFO] booking cancelled:", bookingID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
	}
}

type noCollectorAvailableError struct {
	Location string
	Quantity int
}

func (e noCollectorAvailableError) Error() string {
	return fmt.Sprintf("no available collector in %s for %d sacks", e.Location, e.Quantity)
}
