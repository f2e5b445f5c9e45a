package handlers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"garbage-backend/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type updateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Contact  string `json:"contact" binding:"required"`
	Location string `json:"location" binding:"required"`
	Password string `json:"password"`
}

type feedbackRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Feedback string `json:"feedback" binding:"required"`
}

// Register creates a resident or collector account from a multipart form,
// subject to the per-location registration counters. Optional document
// attachments are resolved in one flat pass before anything is persisted.
func Register(db *mongo.Database, counters *RegistrationCounters) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		username := strings.TrimSpace(c.PostForm("username"))
		email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
		password := strings.TrimSpace(c.PostForm("password"))
		contact := strings.TrimSpace(c.PostForm("contact"))
		location := strings.TrimSpace(c.PostForm("location"))
		role := strings.TrimSpace(c.PostForm("role"))

		if username == "" || email == "" || password == "" || contact == "" || location == "" || role == "" {
			respondWithError(c, http.StatusBadRequest, route,
				"username, email, password, contact, location and role are required")
			return
		}

		if role != models.RoleResident && role != models.RoleCollector {
			respondWithError(c, http.StatusBadRequest, route, "role must be resident or collector")
			return
		}

		if !isValidLocation(location) {
			respondWithError(c, http.StatusBadRequest, route,
				"the provided location is not in the list of service locations")
			return
		}

		var vehicleType string
		var quantityGarbageSack int
		if role == models.RoleCollector {
			vehicleType = strings.TrimSpace(c.PostForm("vehicleType"))
			quantityValue := strings.TrimSpace(c.PostForm("quantityGarbageSack"))
			if vehicleType == "" || quantityValue == "" {
				respondWithError(c, http.StatusBadRequest, route,
					"vehicleType and quantityGarbageSack are required for collector registration")
				return
			}
			if !models.IsValidVehicleType(vehicleType) {
				respondWithError(c, http.StatusBadRequest, route,
					"invalid vehicle type, choose from: "+strings.Join(models.VehicleTypes, ", "))
				return
			}
			parsed, err := strconv.Atoi(quantityValue)
			if err != nil || parsed < 1 {
				respondWithError(c, http.StatusBadRequest, route, "quantityGarbageSack must be a positive number")
				return
			}
			quantityGarbageSack = parsed
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{
			"$or": []bson.M{{"email": email}, {"username": username}},
		})
		if err != nil {
			log.Println("[AUTH] [ERROR] register lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "username or email is already registered")
			return
		}

		switch role {
		case models.RoleResident:
			err = counters.RegisterResident(location)
		case models.RoleCollector:
			err = counters.RegisterCollector(location)
		}
		if err != nil {
			var capErr capacityExceededError
			var holdErr registrationOnHoldError
			if errors.As(err, &capErr) || errors.As(err, &holdErr) {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "registration failed")
			return
		}

		fields := userAttachmentFields
		if role == models.RoleCollector {
			fields = append(append([]string{}, userAttachmentFields...), collectorAttachmentFields...)
		}
		attachments, attachErrs := collectAttachments(c, fields)
		if len(attachErrs) > 0 {
			details := make([]string, 0, len(attachErrs))
			for _, attachErr := range attachErrs {
				details = append(details, attachErr.Error())
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "attachment upload failed",
				"details": details,
			})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] register password hash failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "password hash failed")
			return
		}

		now := time.Now()
		user := models.User{
			Username:         username,
			Email:            email,
			PasswordHash:     string(hash),
			Contact:          contact,
			Location:         location,
			Roles:            models.StringList{role},
			ProfilePicture:   attachments["profilePicture"],
			IDPicture:        attachments["idPicture"],
			License:          attachments["license"],
			Biodata:          attachments["biodata"],
			BirthCertificate: attachments["birthCertificate"],
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			log.Println("[AUTH] [ERROR] register insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		userID, _ := res.InsertedID.(primitive.ObjectID)

		if role == models.RoleCollector {
			collector := models.Collector{
				UserID:              userID,
				VehicleType:         vehicleType,
				QuantityGarbageSack: quantityGarbageSack,
				Status:              models.CollectorAvailable,
				Verified:            false,
				CreatedAt:           now,
			}
			if _, err := db.Collection("collectors").InsertOne(ctx, collector); err != nil {
				log.Println("[AUTH] [ERROR] collector insert failed:", err)
				_, _ = db.Collection("users").DeleteOne(ctx, bson.M{"_id": userID})
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
		}

		log.Println("[AUTH] [INFO] user registered:", email, "role:", role)
		c.JSON(http.StatusCreated, gin.H{"message": "User registration submitted for verification"})
	}
}

func Login(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			log.Println("[AUTH] [ERROR] login user lookup failed:", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials for:", email)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		tokens, err := issueTokens(c, db, user, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			return
		}

		log.Println("[AUTH] [INFO] user login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"accessToken":  tokens.AccessToken,
			"refreshToken": tokens.RefreshToken,
			"expiresIn":    tokens.ExpiresIn,
			"user": gin.H{
				"id":       user.ID.Hex(),
				"username": user.Username,
				"email":    user.Email,
				"roles":    user.Roles,
				"location": user.Location,
			},
		})
	}
}

func Refresh(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		plain := strings.TrimSpace(req.RefreshToken)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		hash := hashToken(plain)
		var token models.RefreshToken
		if err := db.Collection("refresh_tokens").FindOne(ctx, bson.M{
			"tokenHash": hash,
			"revoked":   false,
		}).Decode(&token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		if time.Now().After(token.ExpiresAt) {
			_, _ = db.Collection("refresh_tokens").UpdateByID(ctx, token.ID, bson.M{"$set": bson.M{"revoked": true}})
			c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token expired"})
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": token.UserID}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		newTokens, err := issueTokens(c, db, user, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			return
		}

		_, _ = db.Collection("refresh_tokens").UpdateByID(ctx, token.ID, bson.M{
			"$set": bson.M{
				"revoked":         true,
				"replacedByToken": newTokens.RefreshTokenID,
			},
		})

		c.JSON(http.StatusOK, gin.H{
			"accessToken":  newTokens.AccessToken,
			"refreshToken": newTokens.RefreshToken,
			"expiresIn":    newTokens.ExpiresIn,
		})
	}
}

func Logout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		hash := hashToken(strings.TrimSpace(req.RefreshToken))
		res, err := db.Collection("refresh_tokens").UpdateOne(ctx, bson.M{
			"tokenHash": hash,
			"revoked":   false,
		}, bson.M{"$set": bson.M{"revoked": true}})

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPassword emails a reset link carrying a short-lived token.
func ForgotPassword(db *mongo.Database, jwtSecret string, resetTTL time.Duration, mailFrom string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req forgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		claims := jwt.MapClaims{
			"email": user.Email,
			"exp":   time.Now().Add(resetTTL).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		resetLink := fmt.Sprintf("%s://%s/reset-password?token=%s", "https", c.Request.Host, token)
		if err := sendResetEmail(mailFrom, user.Username, user.Email, resetLink); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send reset email"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset link has been sent to your email"})
	}
}

// ResetPassword verifies the reset token and stores the new password hash.
func ResetPassword(db *mongo.Database, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		token, err := jwt.Parse(req.Token, func(t *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired reset token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid reset token"})
			return
		}
		email, _ := claims["email"].(string)
		if strings.TrimSpace(email) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid reset token"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(req.Password)), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"email": email},
			bson.M{"$set": bson.M{"passwordHash": string(hash), "updatedAt": time.Now()}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
	}
}

// UpdateUserProfile updates a user's own profile fields.
func UpdateUserProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /auth/users/:id"

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !isValidLocation(strings.TrimSpace(req.Location)) {
			respondWithError(c, http.StatusBadRequest, route,
				"the provided location is not in the list of service locations")
			return
		}

		update := bson.M{
			"username":  strings.TrimSpace(req.Username),
			"email":     strings.ToLower(strings.TrimSpace(req.Email)),
			"contact":   strings.TrimSpace(req.Contact),
			"location":  strings.TrimSpace(req.Location),
			"updatedAt": time.Now(),
		}

		if strings.TrimSpace(req.Password) != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(req.Password)), bcrypt.DefaultCost)
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "password hash failed")
				return
			}
			update["passwordHash"] = string(hash)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
	}
}

func SubmitFeedback(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req feedbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		feedback := models.Feedback{
			UserID:    userID,
			Feedback:  strings.TrimSpace(req.Feedback),
			CreatedAt: time.Now(),
		}

		if _, err := db.Collection("feedback").InsertOne(ctx, feedback); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Feedback submitted successfully"})
	}
}

func GetAllFeedbacks(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("feedback").Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Feedbacks could not be fetched"})
			return
		}
		defer cursor.Close(ctx)

		var feedbacks []models.Feedback
		if err := cursor.All(ctx, &feedbacks); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse feedbacks"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"feedbacks": feedbacks})
	}
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

type issuedTokens struct {
	AccessToken    string
	RefreshToken   string
	RefreshTokenID primitive.ObjectID
	ExpiresIn      int64
}

func issueTokens(c *gin.Context, db *mongo.Database, user models.User, secret string, accessTTL, refreshTTL time.Duration) (*issuedTokens, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": user.ID.Hex(),
		"roles":  []string(user.Roles),
		"email":  user.Email,
		"exp":    now.Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(secret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return nil, err
	}

	plainRefresh := generateRefreshString()
	if plainRefresh == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return nil, errors.New("could not generate refresh token")
	}
	hashed := hashToken(plainRefresh)

	refresh := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashed,
		ExpiresAt: now.Add(refreshTTL),
		Revoked:   false,
		CreatedAt: now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := db.Collection("refresh_tokens").InsertOne(ctx, refresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return nil, err
	}

	refreshID := res.InsertedID.(primitive.ObjectID)
	return &issuedTokens{
		AccessToken:    accessToken,
		RefreshToken:   plainRefresh,
		RefreshTokenID: refreshID,
		ExpiresIn:      int64(accessTTL.Seconds()),
	}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateRefreshString() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
