package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"garbage-backend/internal/config"
	"garbage-backend/internal/database"
	"garbage-backend/internal/handlers"
	"garbage-backend/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureCollectorIndexes(db); err != nil {
		log.Printf("⚠️ collector index warning: %v", err)
	}
	if err := database.EnsureBookingIndexes(db); err != nil {
		log.Printf("⚠️ booking index warning: %v", err)
	}
	if err := database.EnsureInvoiceIndexes(db); err != nil {
		log.Printf("⚠️ invoice index warning: %v", err)
	}

	counters := handlers.NewRegistrationCounters()

	r := gin.Default()
	r.Static("/public", "./public")

	r.POST("/auth/register", handlers.Register(db, counters))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))
	r.POST("/auth/forgot-password", handlers.ForgotPassword(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.ResetTokenTTL,
		config.AppEnv.MailFrom,
	))
	r.POST("/auth/reset-password", handlers.ResetPassword(db, config.AppEnv.JWTSecret))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	r.POST("/admin/register", handlers.RegisterAdmin(db))
	r.POST("/admin/login", handlers.AdminLogin(db, config.AppEnv.JWTSecret, config.AppEnv.AdminTokenTTL))

	user := r.Group("/")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.PUT("/auth/users/:id", handlers.UpdateUserProfile(db))
		user.POST("/feedback", handlers.SubmitFeedback(db))
		user.GET("/feedback", handlers.GetAllFeedbacks(db))

		user.POST("/bin-categories", handlers.CreateBinCategory(db))
		user.GET("/bin-categories", handlers.GetAllBinCategories(db))
		user.GET("/bin-categories/:id", handlers.GetBinCategoryByID(db))
		user.GET("/bin-categories/user/:userId", handlers.GetBinCategoriesByUser(db))
		user.PUT("/bin-categories/:id", handlers.UpdateBinCategory(db))
		user.DELETE("/bin-categories/:id", handlers.DeleteBinCategory(db))

		user.POST("/bookings", handlers.CreateBooking(db))
		user.GET("/bookings/user/:userId", handlers.GetBookingsByUser(db))
		user.PUT("/bookings/:id/cancel", handlers.CancelBooking(db))
		user.GET("/completed-services/:userId", handlers.ViewCompletedServices(db))

		user.POST("/invoices", handlers.CreateInvoice(db))
		user.PUT("/invoices/status", handlers.UpdateInvoiceStatus(db))
		user.GET("/invoices/:invoiceId", handlers.GetInvoiceByID(db))

		user.GET("/announcements/:roleName", handlers.GetAnnouncementsByRole(db))
	}

	collector := r.Group("/collectors")
	collector.Use(middleware.CollectorAuth(config.AppEnv.JWTSecret))
	{
		collector.GET("/by-user/:userId", handlers.GetCollectorDetails(db))
		collector.GET("/dashboard/:collectorId", handlers.CollectorDashboard(db))
		collector.PUT("/complete-collection", handlers.CompleteCollection(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/users", handlers.GetAllUsers(db))
		admin.GET("/users/:id", handlers.GetUserByID(db))
		admin.PUT("/users/:id", handlers.UpdateUserRoles(db))
		admin.DELETE("/users/:id", handlers.DeleteUser(db))

		admin.PUT("/collectors/:id/verify", handlers.VerifyCollector(db))
		admin.GET("/collectors/available", handlers.GetAvailableCollectors(db))
		admin.GET("/collectors/booked", handlers.GetBookedCollectors(db))
		admin.GET("/collectors/verified", handlers.GetVerifiedCollectors(db))

		admin.POST("/announcements", handlers.PostAnnouncementByRole(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
