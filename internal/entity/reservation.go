package entity

import (
	"time"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusApproved  ReservationStatus = "APPROVED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// IsValid проверяет, является ли значение допустимым статусом брони
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusApproved, ReservationStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is defined from the status.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusApproved || s == ReservationStatusCancelled
}

type Reservation struct {
	ID        int64             `json:"id" db:"id"`
	UserID    int64             `json:"userId" db:"user_id"`
	RoomID    int64             `json:"roomId" db:"room_id"`
	StartDate Date              `json:"startDate" db:"start_date"`
	EndDate   Date              `json:"endDate" db:"end_date"`
	Status    ReservationStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`
}

// Overlaps reports whether two half-open date intervals [start, end)
// intersect. Touching boundaries do not overlap, so a reservation ending on
// the day another one starts is allowed.
func (r *Reservation) Overlaps(start, end Date) bool {
	return start.Before(r.EndDate) && r.StartDate.Before(end)
}

// SearchFilter представляет фильтр для поиска броней
type SearchFilter struct {
	RoomID     *int64
	UserID     *int64
	PageSize   int
	PageNumber int
}
