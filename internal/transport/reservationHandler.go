package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/roombook/reservation-service/internal/entity"
	"github.com/roombook/reservation-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	reservationService service.ReservationService
}

func NewReservationHandler(reservationService service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Message         string    `json:"message"`
	DetailedMessage string    `json:"detailedMessage"`
	ErrorTime       time.Time `json:"errorTime"`
}

func newErrorResponse(message string, err error) ErrorResponse {
	return ErrorResponse{
		Message:         message,
		DetailedMessage: err.Error(),
		ErrorTime:       time.Now(),
	}
}

// respondError переводит доменную ошибку в HTTP-статус
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, newErrorResponse("reservation not found", err))
	case errors.Is(err, entity.ErrReservationConflict):
		c.JSON(http.StatusConflict, newErrorResponse("reservation conflict", err))
	case errors.Is(err, entity.ErrNotPending),
		errors.Is(err, entity.ErrCancelApproved),
		errors.Is(err, entity.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, newErrorResponse("invalid reservation state", err))
	case errors.Is(err, entity.ErrInvalidDateRange),
		errors.Is(err, entity.ErrIDNotEmpty),
		errors.Is(err, entity.ErrStatusNotEmpty),
		errors.Is(err, entity.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, newErrorResponse("invalid request", err))
	default:
		c.JSON(http.StatusInternalServerError, newErrorResponse("internal server error", err))
	}
}

func parseReservationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("invalid reservation id", err))
		return 0, false
	}
	return id, true
}

func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := parseReservationID(c)
	if !ok {
		return
	}

	reservation, err := h.reservationService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// SearchReservations возвращает страницу броней по опциональным фильтрам
func (h *ReservationHandler) SearchReservations(c *gin.Context) {
	filter := &entity.SearchFilter{}

	if roomIDStr := c.Query("roomId"); roomIDStr != "" {
		roomID, err := strconv.ParseInt(roomIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, newErrorResponse("invalid roomId", err))
			return
		}
		filter.RoomID = &roomID
	}

	if userIDStr := c.Query("userId"); userIDStr != "" {
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, newErrorResponse("invalid userId", err))
			return
		}
		filter.UserID = &userID
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "0"))
	if err != nil || pageSize < 0 {
		pageSize = 0
	}
	filter.PageSize = pageSize

	pageNumber, err := strconv.Atoi(c.DefaultQuery("pageNumber", "0"))
	if err != nil || pageNumber < 0 {
		pageNumber = 0
	}
	filter.PageNumber = pageNumber

	reservations, err := h.reservationService.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req service.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("invalid request body", err))
		return
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	id, ok := parseReservationID(c)
	if !ok {
		return
	}

	var req service.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse("invalid request body", err))
		return
	}

	reservation, err := h.reservationService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// CancelReservation отменяет бронь, статус меняется на CANCELLED
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, ok := parseReservationID(c)
	if !ok {
		return
	}

	if err := h.reservationService.Cancel(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reservation cancelled successfully"})
}

// ApproveReservation подтверждает бронь при отсутствии конфликтов
func (h *ReservationHandler) ApproveReservation(c *gin.Context) {
	id, ok := parseReservationID(c)
	if !ok {
		return
	}

	reservation, err := h.reservationService.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}
