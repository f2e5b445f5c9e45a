package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"garbage-backend/internal/models"
)

type adminRegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterAdmin creates the single admin account. A second registration is
// rejected.
func RegisterAdmin(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/register"
		defer handlePanic(c, route)

		var req adminRegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("admins").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "an admin account already exists")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "password hash failed")
			return
		}

		admin := models.Admin{
			Username:     strings.TrimSpace(req.Username),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		}

		if _, err := db.Collection("admins").InsertOne(ctx, admin); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[ADMIN] [INFO] admin registered:", admin.Email)
		c.JSON(http.StatusCreated, gin.H{"message": "Admin registered successfully"})
	}
}

// AdminLogin authenticates the admin and issues a long-lived admin token.
func AdminLogin(db *mongo.Database, jwtSecret string, adminTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var admin models.Admin
		if err := db.Collection("admins").FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
			log.Println("[ADMIN] [ERROR] admin lookup failed:", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		claims := jwt.MapClaims{
			"adminId": admin.ID.Hex(),
			"roles":   []string{models.RoleAdmin},
			"exp":     time.Now().Add(adminTTL).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		log.Println("[ADMIN] [INFO] admin login succeeded:", admin.Email)
		c.JSON(http.StatusOK, gin.H{
			"id":          admin.ID.Hex(),
			"email":       admin.Email,
			"accessToken": token,
		})
	}
}

// GetAllUsers lists users, paginated.
func GetAllUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination parameters"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOpts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("users").Find(ctx, bson.M{}, findOpts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Users could not be fetched"})
			return
		}
		defer cursor.Close(ctx)

		var users []models.User
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse users"})
			return
		}

		total, err := db.Collection("users").CountDocuments(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"users": users,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// GetUserByID returns a single user's profile summary.
func GetUserByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
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
			"username":          user.Username,
			"email":             user.Email,
			"roles":             user.Roles,
			"contact":           user.Contact,
			"location":          user.Location,
			"profilePicture":    user.ProfilePicture,
			"completedServices": user.CompletedServices,
		})
	}
}

type updateUserRolesRequest struct {
	Roles []string `json:"roles" binding:"required"`
}

// UpdateUserRoles replaces a user's role list.
func UpdateUserRoles(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/users/:id"

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateUserRolesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		for _, role := range req.Roles {
			if role != models.RoleResident && role != models.RoleCollector && role != models.RoleAdmin {
				respondWithError(c, http.StatusBadRequest, route, "unknown role: "+role)
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": userID},
			bson.M{"$set": bson.M{"roles": models.StringList(req.Roles), "updatedAt": time.Now()}})
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

// DeleteUser removes a user; deleting a collector user also removes the
// collector profile and any stored document attachments.
func DeleteUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/users/:id"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
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

		if user.HasRole(models.RoleCollector) {
			if _, err := db.Collection("collectors").DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
				log.Println("[ADMIN] [ERROR] collector cascade delete failed:", err)
			}
		}

		for _, relPath := range []string{user.ProfilePicture, user.IDPicture, user.License, user.Biodata, user.BirthCertificate} {
			if err := safeDeleteUpload(relPath); err != nil {
				log.Println("[ADMIN] [ERROR] attachment delete failed:", err)
			}
		}

		result, err := db.Collection("users").DeleteOne(ctx, bson.M{"_id": userID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		log.Println("[ADMIN] [INFO] user deleted:", userID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

type announcementRequest struct {
	RoleName string `json:"roleName" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// PostAnnouncementByRole stores an announcement targeted at one role and logs
// a notification per targeted user.
func PostAnnouncementByRole(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/announcements"

		var req announcementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		role := strings.TrimSpace(req.RoleName)
		if role != models.RoleResident && role != models.RoleCollector {
			respondWithError(c, http.StatusBadRequest, route, "unknown role: "+role)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		announcement := models.Announcement{
			Title:       strings.TrimSpace(req.Title),
			Content:     strings.TrimSpace(req.Content),
			TargetRoles: models.StringList{role},
			CreatedAt:   time.Now(),
		}

		if _, err := db.Collection("announcements").InsertOne(ctx, announcement); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("users").Find(ctx, bson.M{"roles": role})
		if err == nil {
			var users []models.User
			if err := cursor.All(ctx, &users); err == nil {
				for _, user := range users {
					log.Printf("[ADMIN] [INFO] notifying user %s about announcement %q", user.Username, announcement.Title)
				}
			}
			cursor.Close(ctx)
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Announcement posted and sent to users with specified role successfully"})
	}
}

// GetAnnouncementsByRole lists announcements targeted at a role.
func GetAnnouncementsByRole(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := strings.TrimSpace(c.Param("roleName"))
		if role != models.RoleResident && role != models.RoleCollector {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role: " + role})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("announcements").Find(ctx, bson.M{"targetRoles": role})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Announcements could not be fetched"})
			return
		}
		defer cursor.Close(ctx)

		var announcements []models.Announcement
		if err := cursor.All(ctx, &announcements); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse announcements"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"announcements": announcements})
	}
}
