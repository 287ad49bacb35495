package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/middleware"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupCatalogRoutes(v1, c)
		setupReaderRoutes(v1, c)
		setupCirculationRoutes(v1, c)
		setupStaffRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.AuthHandler.Register)
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/staff/login", c.AuthHandler.StaffLogin)
		auth.POST("/refresh", c.AuthHandler.Refresh)
	}
}

// Catalog reads are public, but the resolved book status depends on who
// is looking, so they run behind OptionalAuth. Writes are staff only.
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("", middleware.OptionalAuth(c.JWTManager), c.BookHandler.ListBooks)
		books.GET("/:id", middleware.OptionalAuth(c.JWTManager), c.BookHandler.GetBook)

		staff := books.Group("")
		staff.Use(middleware.AuthMiddleware(c.JWTManager), middleware.StaffOnly())
		{
			staff.POST("", c.BookHandler.CreateBook)
			staff.PUT("/:id", c.BookHandler.UpdateBook)
			staff.DELETE("/:id", c.BookHandler.DeleteBook)
			staff.POST("/:id/cover", c.BookHandler.UploadCover)
			staff.GET("/:id/availability", c.BorrowHandler.GetAvailability)
		}
	}

	v1.GET("/genres", c.BookHandler.ListGenres)
}

// Reader self-service routes.
func setupReaderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	me := v1.Group("/readers/me")
	me.Use(middleware.AuthMiddleware(c.JWTManager), middleware.ReaderOnly())
	{
		me.GET("", c.ReaderHandler.GetProfile)
		me.PUT("", c.ReaderHandler.UpdateProfile)
		me.GET("/holds", c.HoldHandler.ListMyHolds)
		me.POST("/holds", c.HoldHandler.PlaceHold)
		me.GET("/holds/:bookId", c.HoldHandler.CheckHold)
		me.DELETE("/holds/:bookId", c.HoldHandler.CancelHold)
		me.GET("/borrows", c.BorrowHandler.GetMyHistory)
	}
}

// Circulation desk routes, staff only.
func setupCirculationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	borrows := v1.Group("/borrows")
	borrows.Use(middleware.AuthMiddleware(c.JWTManager), middleware.StaffOnly())
	{
		borrows.POST("", c.BorrowHandler.BorrowBook)
		borrows.POST("/accept-hold", c.BorrowHandler.AcceptHold)
		borrows.POST("/:id/return", c.BorrowHandler.ReturnBook)
		borrows.GET("", c.BorrowHandler.ListBorrows)
		borrows.GET("/:id", c.BorrowHandler.GetBorrow)
	}

	holds := v1.Group("/holds")
	holds.Use(middleware.AuthMiddleware(c.JWTManager), middleware.StaffOnly())
	{
		holds.GET("", c.HoldHandler.ListHolds)
	}

	readers := v1.Group("/readers")
	readers.Use(middleware.AuthMiddleware(c.JWTManager), middleware.StaffOnly())
	{
		readers.GET("", c.ReaderHandler.ListReaders)
		readers.GET("/by-code/:code", c.ReaderHandler.GetReaderByCode)
		readers.GET("/:id/borrows", c.BorrowHandler.GetReaderHistory)
	}
}

// Staff account management, admin only.
func setupStaffRoutes(v1 *gin.RouterGroup, c *container.Container) {
	staff := v1.Group("/staff")
	staff.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminOnly())
	{
		staff.POST("", c.StaffHandler.CreateStaff)
		staff.GET("", c.StaffHandler.ListStaff)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "ok", "cache": "ok"}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			checks["cache"] = err.Error()
		}

		ctx.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	}
}
