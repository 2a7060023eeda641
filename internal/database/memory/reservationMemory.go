package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	repository "github.com/roombook/reservation-service/internal/database/postgres"
	"github.com/roombook/reservation-service/internal/entity"
)

// reservationRepository keeps reservations in a mutex-guarded map. It backs
// the same interface as the Postgres store, so the service stays runnable
// without a database and tests do not need one. The mutex serializes the
// read-check-write sequence inside Approve the same way the row lock does in
// Postgres.
type reservationRepository struct {
	mu           sync.RWMutex
	reservations map[int64]*entity.Reservation
	lastID       atomic.Int64
}

func NewReservationRepository() repository.ReservationRepository {
	return &reservationRepository{
		reservations: make(map[int64]*entity.Reservation),
	}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	reservation.ID = r.lastID.Add(1)
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	stored := *reservation
	r.reservations[reservation.ID] = &stored
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*entity.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reservation, ok := r.reservations[id]
	if !ok {
		return nil, entity.ErrReservationNotFound
	}

	found := *reservation
	return &found, nil
}

func (r *reservationRepository) Update(ctx context.Context, reservation *entity.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.reservations[reservation.ID]
	if !ok {
		return entity.ErrReservationNotFound
	}

	reservation.CreatedAt = current.CreatedAt
	reservation.UpdatedAt = time.Now()

	stored := *reservation
	r.reservations[reservation.ID] = &stored
	return nil
}

func (r *reservationRepository) SetStatus(ctx context.Context, id int64, status entity.ReservationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reservation, ok := r.reservations[id]
	if !ok {
		return entity.ErrReservationNotFound
	}

	reservation.Status = status
	reservation.UpdatedAt = time.Now()
	return nil
}

func (r *reservationRepository) Approve(ctx context.Context, id int64) (*entity.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reservation, ok := r.reservations[id]
	if !ok {
		return nil, entity.ErrReservationNotFound
	}

	if reservation.Status != entity.ReservationStatusPending {
		return nil, entity.ErrNotPending
	}

	for _, existing := range r.reservations {
		if existing.ID == id || existing.RoomID != reservation.RoomID {
			continue
		}
		if existing.Status != entity.ReservationStatusApproved {
			continue
		}
		if existing.Overlaps(reservation.StartDate, reservation.EndDate) {
			return nil, entity.ErrReservationConflict
		}
	}

	reservation.Status = entity.ReservationStatusApproved
	reservation.UpdatedAt = time.Now()

	approved := *reservation
	return &approved, nil
}

func (r *reservationRepository) FindApprovedOverlapping(ctx context.Context, roomID int64, start, end entity.Date, excludeID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []int64
	for _, reservation := range r.reservations {
		if reservation.ID == excludeID || reservation.RoomID != roomID {
			continue
		}
		if reservation.Status != entity.ReservationStatusApproved {
			continue
		}
		if reservation.Overlaps(start, end) {
			ids = append(ids, reservation.ID)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *reservationRepository) Search(ctx context.Context, filter *entity.SearchFilter) ([]*entity.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*entity.Reservation, 0)
	for _, reservation := range r.reservations {
		if filter.RoomID != nil && reservation.RoomID != *filter.RoomID {
			continue
		}
		if filter.UserID != nil && reservation.UserID != *filter.UserID {
			continue
		}
		found := *reservation
		matched = append(matched, &found)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	start := filter.PageNumber * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], nil
}
