package repository

import (
	"context"

	"github.com/roombook/reservation-service/internal/entity"
)

type ReservationRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, id int64) (*entity.Reservation, error)
	Update(ctx context.Context, reservation *entity.Reservation) error
	SetStatus(ctx context.Context, id int64, status entity.ReservationStatus) error

	// Approve atomically re-checks that the reservation is still pending and
	// that no approved reservation for the same room overlaps its dates, then
	// writes the approved status. The read-check-write sequence must be
	// serialized by the implementation, otherwise two concurrent approvals
	// can both pass the conflict check.
	Approve(ctx context.Context, id int64) (*entity.Reservation, error)

	// Query operations
	FindApprovedOverlapping(ctx context.Context, roomID int64, start, end entity.Date, excludeID int64) ([]int64, error)
	Search(ctx context.Context, filter *entity.SearchFilter) ([]*entity.Reservation, error)
}
