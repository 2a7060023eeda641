package transport

import (
	"time"

	"github.com/roombook/reservation-service/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

func InitRoutes(reservationHandler *ReservationHandler, availabilityHandler *AvailabilityHandler, requestTimeout time.Duration) *gin.Engine {

	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(requestTimeout))

	// Reservation routes
	reservation := router.Group("/reservation")
	{
		reservation.POST("", reservationHandler.CreateReservation)
		reservation.GET("", reservationHandler.SearchReservations)
		reservation.GET("/:id", reservationHandler.GetReservation)
		reservation.PUT("/:id", reservationHandler.UpdateReservation)
		reservation.DELETE("/:id/cancel", reservationHandler.CancelReservation)
		reservation.POST("/:id/approve", reservationHandler.ApproveReservation)

		reservation.POST("/availability/check", availabilityHandler.CheckAvailability)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return router
}
