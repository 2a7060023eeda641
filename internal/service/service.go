package service

import (
	"context"

	"github.com/roombook/reservation-service/internal/entity"
)

// ReservationService определяет интерфейс для операций с бронями
type ReservationService interface {
	// Основные операции
	Create(ctx context.Context, req *CreateReservationRequest) (*entity.Reservation, error)
	GetByID(ctx context.Context, id int64) (*entity.Reservation, error)
	Update(ctx context.Context, id int64, req *UpdateReservationRequest) (*entity.Reservation, error)
	Approve(ctx context.Context, id int64) (*entity.Reservation, error)
	Cancel(ctx context.Context, id int64) error

	// Поиск и списки
	Search(ctx context.Context, filter *entity.SearchFilter) ([]*entity.Reservation, error)
}

// AvailabilityService определяет интерфейс для проверки доступности комнат
type AvailabilityService interface {
	IsAvailable(ctx context.Context, roomID int64, start, end entity.Date) (bool, error)
}

// ReservationCache интерфейс для кэширования броней
type ReservationCache interface {
	GetReservation(ctx context.Context, id int64) (*entity.Reservation, error)
	SetReservation(ctx context.Context, reservation *entity.Reservation) error
	DeleteReservation(ctx context.Context, id int64) error
}
