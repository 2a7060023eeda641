package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roombook/reservation-service/internal/entity"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// Create inserts a new reservation and populates the generated id
func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (
			user_id, room_id, start_date, end_date, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		reservation.UserID,
		reservation.RoomID,
		reservation.StartDate,
		reservation.EndDate,
		reservation.Status,
		now,
		now,
	).Scan(&reservation.ID)

	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	return nil
}

// GetByID retrieves a reservation by its ID
func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*entity.Reservation, error) {
	query := `
		SELECT
			id, user_id, room_id, start_date, end_date, status, created_at, updated_at
		FROM reservations
		WHERE id = $1
	`

	var reservation entity.Reservation
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.RoomID,
		&reservation.StartDate,
		&reservation.EndDate,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return &reservation, nil
}

// Update overwrites all mutable fields of an existing reservation
func (r *reservationRepository) Update(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		UPDATE reservations
		SET user_id = $1, room_id = $2, start_date = $3, end_date = $4,
		    status = $5, updated_at = $6
		WHERE id = $7
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		reservation.UserID,
		reservation.RoomID,
		reservation.StartDate,
		reservation.EndDate,
		reservation.Status,
		now,
		reservation.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrReservationNotFound
	}

	reservation.UpdatedAt = now
	return nil
}

// SetStatus updates only the status of a reservation
func (r *reservationRepository) SetStatus(ctx context.Context, id int64, status entity.ReservationStatus) error {
	query := `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return entity.ErrReservationNotFound
	}

	return nil
}

// Approve performs the status transition to approved within a single
// transaction. The target row is locked with FOR UPDATE and a room-level
// advisory lock serializes approvals across reservations of the same room,
// so the overlap check always sees committed approved rows.
func (r *reservationRepository) Approve(ctx context.Context, id int64) (*entity.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT
			id, user_id, room_id, start_date, end_date, status, created_at, updated_at
		FROM reservations
		WHERE id = $1
		FOR UPDATE
	`

	var reservation entity.Reservation
	err = tx.QueryRowContext(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.RoomID,
		&reservation.StartDate,
		&reservation.EndDate,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock reservation: %w", err)
	}

	if reservation.Status != entity.ReservationStatusPending {
		return nil, entity.ErrNotPending
	}

	// The row lock above only serializes approvals of the same reservation.
	// Approvals of different reservations for the same room must also
	// serialize, otherwise both overlap checks pass before either status
	// write commits. The advisory lock is keyed on room_id and held until
	// the transaction ends.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, reservation.RoomID); err != nil {
		return nil, fmt.Errorf("failed to lock room: %w", err)
	}

	// Half-open overlap test: touching boundaries do not conflict
	query = `
		SELECT COUNT(*) FROM reservations
		WHERE room_id = $1 AND status = $2 AND id <> $3
		  AND $4 < end_date AND start_date < $5
	`

	var conflicts int
	err = tx.QueryRowContext(ctx, query,
		reservation.RoomID,
		entity.ReservationStatusApproved,
		id,
		reservation.StartDate,
		reservation.EndDate,
	).Scan(&conflicts)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicting reservations: %w", err)
	}
	if conflicts > 0 {
		return nil, entity.ErrReservationConflict
	}

	now := time.Now()
	query = `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := tx.ExecContext(ctx, query, entity.ReservationStatusApproved, now, id); err != nil {
		return nil, fmt.Errorf("failed to approve reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	reservation.Status = entity.ReservationStatusApproved
	reservation.UpdatedAt = now
	return &reservation, nil
}

// FindApprovedOverlapping returns ids of approved reservations for the room
// whose [start_date, end_date) interval intersects the given one
func (r *reservationRepository) FindApprovedOverlapping(ctx context.Context, roomID int64, start, end entity.Date, excludeID int64) ([]int64, error) {
	query := `
		SELECT id FROM reservations
		WHERE room_id = $1 AND status = $2 AND id <> $3
		  AND $4 < end_date AND start_date < $5
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, roomID, entity.ReservationStatusApproved, excludeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping reservations: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var conflictID int64
		if err := rows.Scan(&conflictID); err != nil {
			return nil, fmt.Errorf("failed to scan reservation id: %w", err)
		}
		ids = append(ids, conflictID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overlapping reservations: %w", err)
	}

	return ids, nil
}

// Search returns a page of reservations matching the filter, absent filter
// fields match everything
func (r *reservationRepository) Search(ctx context.Context, filter *entity.SearchFilter) ([]*entity.Reservation, error) {
	query := `
		SELECT
			id, user_id, room_id, start_date, end_date, status, created_at, updated_at
		FROM reservations
		WHERE ($1::bigint IS NULL OR room_id = $1)
		  AND ($2::bigint IS NULL OR user_id = $2)
		ORDER BY id
		LIMIT $3 OFFSET $4
	`

	offset := filter.PageNumber * filter.PageSize
	rows, err := r.db.QueryContext(ctx, query, filter.RoomID, filter.UserID, filter.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]*entity.Reservation, 0)
	for rows.Next() {
		var reservation entity.Reservation
		err := rows.Scan(
			&reservation.ID,
			&reservation.UserID,
			&reservation.RoomID,
			&reservation.StartDate,
			&reservation.EndDate,
			&reservation.Status,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, &reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reservations: %w", err)
	}

	return reservations, nil
}
