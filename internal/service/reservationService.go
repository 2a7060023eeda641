package service

import (
	"context"
	"fmt"

	repository "github.com/roombook/reservation-service/internal/database/postgres"
	"github.com/roombook/reservation-service/internal/entity"

	"github.com/sirupsen/logrus"
)

// CreateReservationRequest представляет данные для создания брони.
// Поля id и status объявлены указателями: клиент не вправе задавать их сам,
// и сервис должен отличать отсутствующее значение от нулевого.
type CreateReservationRequest struct {
	ID        *int64                    `json:"id"`
	UserID    int64                     `json:"userId" binding:"required"`
	RoomID    int64                     `json:"roomId" binding:"required"`
	StartDate entity.Date               `json:"startDate" binding:"required"`
	EndDate   entity.Date               `json:"endDate" binding:"required"`
	Status    *entity.ReservationStatus `json:"status"`
}

// UpdateReservationRequest представляет данные для изменения брони
type UpdateReservationRequest struct {
	UserID    int64       `json:"userId" binding:"required"`
	RoomID    int64       `json:"roomId" binding:"required"`
	StartDate entity.Date `json:"startDate" binding:"required"`
	EndDate   entity.Date `json:"endDate" binding:"required"`
}

type ReservationServiceConfig struct {
	DefaultPageSize int
}

type reservationService struct {
	repo   repository.ReservationRepository
	cache  ReservationCache
	config *ReservationServiceConfig
}

// NewReservationService создает новый экземпляр ReservationService
func NewReservationService(
	repo repository.ReservationRepository,
	cache ReservationCache,
	config *ReservationServiceConfig,
) ReservationService {
	return &reservationService{
		repo:   repo,
		cache:  cache,
		config: config,
	}
}

// Create регистрирует новую бронь в статусе PENDING
func (s *reservationService) Create(ctx context.Context, req *CreateReservationRequest) (*entity.Reservation, error) {
	if req.ID != nil {
		return nil, fmt.Errorf("cannot create reservation with id = %d: %w", *req.ID, entity.ErrIDNotEmpty)
	}
	if req.Status != nil {
		return nil, fmt.Errorf("cannot create reservation with status = %s: %w", *req.Status, entity.ErrStatusNotEmpty)
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("start date = %s, end date = %s: %w", req.StartDate, req.EndDate, entity.ErrInvalidDateRange)
	}

	reservation := &entity.Reservation{
		UserID:    req.UserID,
		RoomID:    req.RoomID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    entity.ReservationStatusPending,
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"room_id":        reservation.RoomID,
		"user_id":        reservation.UserID,
	}).Info("Reservation created")

	s.cacheSet(ctx, reservation)

	return reservation, nil
}

// GetByID возвращает бронь по идентификатору
func (s *reservationService) GetByID(ctx context.Context, id int64) (*entity.Reservation, error) {
	if s.cache != nil {
		cached, err := s.cache.GetReservation(ctx, id)
		if err == nil {
			return cached, nil
		}
	}

	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("not found reservation by id = %d: %w", id, err)
	}

	s.cacheSet(ctx, reservation)

	return reservation, nil
}

// Search возвращает страницу броней по фильтру
func (s *reservationService) Search(ctx context.Context, filter *entity.SearchFilter) ([]*entity.Reservation, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = s.config.DefaultPageSize
	}
	if filter.PageNumber < 0 {
		filter.PageNumber = 0
	}

	reservations, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search reservations: %w", err)
	}
	return reservations, nil
}

// Update перезаписывает изменяемые поля брони и возвращает ее в статус PENDING
func (s *reservationService) Update(ctx context.Context, id int64, req *UpdateReservationRequest) (*entity.Reservation, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("not found reservation by id = %d: %w", id, err)
	}

	if current.Status != entity.ReservationStatusPending {
		return nil, fmt.Errorf("cannot modify reservation with id = %d status = %s: %w",
			id, current.Status, entity.ErrNotPending)
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("start date = %s, end date = %s: %w", req.StartDate, req.EndDate, entity.ErrInvalidDateRange)
	}

	reservation := &entity.Reservation{
		ID:        id,
		UserID:    req.UserID,
		RoomID:    req.RoomID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    entity.ReservationStatusPending,
	}

	if err := s.repo.Update(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	logrus.WithField("reservation_id", id).Info("Reservation updated")

	s.cacheSet(ctx, reservation)

	return reservation, nil
}

// Approve переводит бронь в статус APPROVED при отсутствии конфликтов
func (s *reservationService) Approve(ctx context.Context, id int64) (*entity.Reservation, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("not found reservation by id = %d: %w", id, err)
	}

	if current.Status != entity.ReservationStatusPending {
		return nil, fmt.Errorf("cannot modify reservation with id = %d status = %s: %w",
			id, current.Status, entity.ErrNotPending)
	}

	conflictIDs, err := s.repo.FindApprovedOverlapping(ctx, current.RoomID, current.StartDate, current.EndDate, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicting reservations: %w", err)
	}
	if len(conflictIDs) > 0 {
		logrus.WithFields(logrus.Fields{
			"reservation_id": id,
			"conflict_ids":   conflictIDs,
		}).Info("Found conflicting reservations")
		return nil, fmt.Errorf("cannot approve reservation with id = %d: %w", id, entity.ErrReservationConflict)
	}

	// The repository re-checks status and conflicts under a lock, two
	// concurrent approvals for overlapping dates cannot both commit.
	approved, err := s.repo.Approve(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot approve reservation with id = %d: %w", id, err)
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": id,
		"room_id":        approved.RoomID,
	}).Info("Reservation approved")

	s.cacheSet(ctx, approved)

	return approved, nil
}

// Cancel переводит бронь в статус CANCELLED
func (s *reservationService) Cancel(ctx context.Context, id int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("not found reservation by id = %d: %w", id, err)
	}

	switch current.Status {
	case entity.ReservationStatusApproved:
		return fmt.Errorf("reservation with id = %d: %w", id, entity.ErrCancelApproved)
	case entity.ReservationStatusCancelled:
		return fmt.Errorf("reservation with id = %d: %w", id, entity.ErrAlreadyCancelled)
	}

	if err := s.repo.SetStatus(ctx, id, entity.ReservationStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}

	logrus.WithField("reservation_id", id).Info("Reservation cancelled")

	if s.cache != nil {
		if err := s.cache.DeleteReservation(ctx, id); err != nil {
			logrus.Warnf("Failed to invalidate reservation cache: %v", err)
		}
	}

	return nil
}

// cacheSet обновляет запись в кэше, ошибки кэша не прерывают операцию
func (s *reservationService) cacheSet(ctx context.Context, reservation *entity.Reservation) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetReservation(ctx, reservation); err != nil {
		logrus.Warnf("Failed to cache reservation %d: %v", reservation.ID, err)
	}
}
