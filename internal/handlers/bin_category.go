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

type binCategoryRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Category string `json:"category" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type binQuantityError struct {
	Quantity int
}

func (e binQuantityError) Error() string {
	return fmt.Sprintf("residents can book a maximum of %d quantities per booking, got %d",
		models.MaxBinQuantity, e.Quantity)
}

// CreateBinCategory stores a resident's waste declaration. Only residents may
// create one, and the quantity is capped per booking.
func CreateBinCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /bin-categories"
		defer handlePanic(c, route)

		var req binCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}

		if _, err := unitPrice(req.Category); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if req.Quantity < 1 {
			respondWithError(c, http.StatusBadRequest, route, "quantity must be greater than zero")
			return
		}
		if req.Quantity > models.MaxBinQuantity {
			respondWithError(c, http.StatusBadRequest, route, binQuantityError{Quantity: req.Quantity}.Error())
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

		if !user.HasRole(models.RoleResident) {
			respondWithError(c, http.StatusBadRequest, route, "only residents are allowed to create bin categories")
			return
		}

		binCategory := models.BinCategory{
			UserID:    userID,
			Category:  req.Category,
			Quantity:  req.Quantity,
			CreatedAt: time.Now(),
		}

		res, err := db.Collection("bin_categories").InsertOne(ctx, binCategory)
		if err != nil {
			log.Println("[BINCATEGORY] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			binCategory.ID = id
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":     "Bin category created successfully",
			"binCategory": binCategory,
		})
	}
}

func GetAllBinCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("bin_categories").Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Bin categories could not be fetched"})
			return
		}
		defer cursor.Close(ctx)

		var categories []models.BinCategory
		if err := cursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse bin categories"})
			return
		}

		c.JSON(http.StatusOK, categories)
	}
}

func GetBinCategoryByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var binCategory models.BinCategory
		if err := db.Collection("bin_categories").FindOne(ctx, bson.M{"_id": id}).Decode(&binCategory); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "bin category not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, binCategory)
	}
}

// GetBinCategoriesByUser returns a resident's bin categories with an owner
// summary attached.
func GetBinCategoriesByUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("bin_categories").Find(ctx, bson.M{"userId": userID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Bin categories could not be fetched"})
			return
		}
		defer cursor.Close(ctx)

		var categories []models.BinCategory
		if err := cursor.All(ctx, &categories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse bin categories"})
			return
		}

		if len(categories) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "bin categories not found for the user"})
			return
		}

		var owner models.User
		ownerSummary := gin.H{}
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&owner); err == nil {
			ownerSummary = gin.H{
				"username": owner.Username,
				"roles":    owner.Roles,
				"location": owner.Location,
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"binCategories": categories,
			"owner":         ownerSummary,
		})
	}
}

func UpdateBinCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /bin-categories/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req binCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}
		if _, err := unitPrice(req.Category); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if req.Quantity < 1 || req.Quantity > models.MaxBinQuantity {
			respondWithError(c, http.StatusBadRequest, route, binQuantityError{Quantity: req.Quantity}.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("bin_categories").UpdateOne(ctx, bson.M{"_id": id}, bson.M{
			"$set": bson.M{
				"userId":   userID,
				"category": req.Category,
				"quantity": req.Quantity,
			},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "bin category not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Bin category updated successfully"})
	}
}

func DeleteBinCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("bin_categories").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "bin category not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Bin category deleted successfully"})
	}
}
