package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"garbage-backend/internal/models"
)

type createInvoiceRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

type updateInvoiceStatusRequest struct {
	InvoiceID string `json:"invoiceId" binding:"required"`
}

type duplicateInvoiceError struct {
	BookingID primitive.ObjectID
}

func (e duplicateInvoiceError) Error() string {
	return fmt.Sprintf("invoice already exists for booking %s", e.BookingID.Hex())
}

// CreateInvoice creates the single pending invoice for a booking, carrying
// the booking's total payment as amount.
func CreateInvoice(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /invoices"
		defer handlePanic(c, route)

		var req createInvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		bookingID, err := primitive.ObjectIDFromHex(req.BookingID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid bookingId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("invoices").CountDocuments(ctx, bson.M{"bookingId": bookingID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, duplicateInvoiceError{BookingID: bookingID}.Error())
			return
		}

		var booking models.Booking
		if err := db.Collection("bookings").FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking); err != nil {
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "booking not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		invoice := models.Invoice{
			BookingID: bookingID,
			Number:    uuid.NewString(),
			Amount:    booking.TotalPayment,
			Status:    models.InvoicePending,
			CreatedAt: time.Now(),
		}

		res, err := db.Collection("invoices").InsertOne(ctx, invoice)
		if err != nil {
			log.Println("[INVOICE] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			invoice.ID = id
		}

		log.Println("[INVOICE] [INFO] invoice created for booking:", bookingID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"message": "Invoice created successfully",
			"invoice": invoice,
		})
	}
}

// UpdateInvoiceStatus moves an invoice to Paid.
func UpdateInvoiceStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /invoices/status"

		var req updateInvoiceStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		invoiceID, err := primitive.ObjectIDFromHex(req.InvoiceID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid invoiceId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("invoices").UpdateOne(ctx,
			bson.M{"_id": invoiceID},
			bson.M{"$set": bson.M{"status": models.InvoicePaid}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "invoice not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Invoice status updated successfully"})
	}
}

func GetInvoiceByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("invoiceId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoiceId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var invoice models.Invoice
		if err := db.Collection("invoices").FindOne(ctx, bson.M{"_id": id}).Decode(&invoice); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"invoice": invoice})
	}
}
