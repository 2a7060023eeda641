package service

import (
	"context"
	"fmt"

	repository "github.com/roombook/reservation-service/internal/database/postgres"
	"github.com/roombook/reservation-service/internal/entity"

	"github.com/sirupsen/logrus"
)

type availabilityService struct {
	repo repository.ReservationRepository
}

// NewAvailabilityService создает новый экземпляр AvailabilityService
func NewAvailabilityService(repo repository.ReservationRepository) AvailabilityService {
	return &availabilityService{repo: repo}
}

// IsAvailable проверяет, свободна ли комната на заданный интервал дат.
// Блокируют только брони в статусе APPROVED.
func (s *availabilityService) IsAvailable(ctx context.Context, roomID int64, start, end entity.Date) (bool, error) {
	if !end.After(start) {
		return false, fmt.Errorf("start date = %s, end date = %s: %w", start, end, entity.ErrInvalidDateRange)
	}

	conflictIDs, err := s.repo.FindApprovedOverlapping(ctx, roomID, start, end, 0)
	if err != nil {
		return false, fmt.Errorf("failed to check room availability: %w", err)
	}

	if len(conflictIDs) > 0 {
		logrus.WithFields(logrus.Fields{
			"room_id":      roomID,
			"conflict_ids": conflictIDs,
		}).Info("Room is not available")
		return false, nil
	}

	return true, nil
}
