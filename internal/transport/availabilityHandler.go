package transport

import (
	"net/http"

	"github.com/roombook/reservation-service/internal/entity"
	"github.com/roombook/reservation-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AvailabilityStatus string

const (
	AvailabilityStatusAvailable AvailabilityStatus = "AVAILABLE"
	AvailabilityStatusReserved  AvailabilityStatus = "RESERVED"
)

type AvailabilityHandler struct {
	availabilityService service.AvailabilityService
}

func NewAvailabilityHandler(availabilityService service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// CheckAvailabilityRequest представляет запрос на проверку доступности комнаты
type CheckAvailabilityRequest struct {
	RoomID    int64       `json:"roomId" binding:"required"`
	StartDate entity.Date `json:"startDate" binding:"required"`
	EndDate   entity.Date `json:"endDate" binding:"required"`
}

// CheckAvailabilityResponse представляет результат проверки доступности
type CheckAvailabilityResponse struct {
	Message string             `json:"message"`
	Status  AvailabilityStatus `json:"status"`
}

// CheckAvailability проверяет, свободна ли комната на интервал дат
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	var req CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("invalid request body", err))
		return
	}

	available, err := h.availabilityService.IsAvailable(c.Request.Context(), req.RoomID, req.StartDate, req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	response := CheckAvailabilityResponse{
		Message: "Room available",
		Status:  AvailabilityStatusAvailable,
	}
	if !available {
		response.Message = "Room not available"
		response.Status = AvailabilityStatusReserved
	}

	c.JSON(http.StatusOK, response)
}
