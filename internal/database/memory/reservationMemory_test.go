package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/roombook/reservation-service/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReservation(userID, roomID int64, startDay, endDay int) *entity.Reservation {
	return &entity.Reservation{
		UserID:    userID,
		RoomID:    roomID,
		StartDate: entity.NewDate(2025, time.June, startDay),
		EndDate:   entity.NewDate(2025, time.June, endDay),
		Status:    entity.ReservationStatusPending,
	}
}

// TestMemoryCreateAndGet тестирует создание и чтение брони
func TestMemoryCreateAndGet(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()

	reservation := newTestReservation(1, 40, 10, 15)
	require.NoError(t, repo.Create(ctx, reservation))
	assert.Equal(t, int64(1), reservation.ID)

	second := newTestReservation(2, 40, 15, 20)
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, int64(2), second.ID)

	found, err := repo.GetByID(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.ID, found.ID)
	assert.Equal(t, entity.ReservationStatusPending, found.Status)
	assert.True(t, found.StartDate.Equal(reservation.StartDate))

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, entity.ErrReservationNotFound)
}

// TestMemoryGetReturnsCopy проверяет, что чтение возвращает копию записи
func TestMemoryGetReturnsCopy(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()

	reservation := newTestReservation(1, 40, 10, 15)
	require.NoError(t, repo.Create(ctx, reservation))

	found, err := repo.GetByID(ctx, reservation.ID)
	require.NoError(t, err)

	// Мутация копии не должна затрагивать хранилище
	found.Status = entity.ReservationStatusCancelled

	again, err := repo.GetByID(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusPending, again.Status)
}

// TestMemoryUpdate тестирует обновление брони
func TestMemoryUpdate(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()

	reservation := newTestReservation(1, 40, 10, 15)
	require.NoError(t, repo.Create(ctx, reservation))

	updated := newTestReservation(1, 41, 12, 17)
	updated.ID = reservation.ID
	require.NoError(t, repo.Update(ctx, updated))

	found, err := repo.GetByID(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(41), found.RoomID)
	assert.True(t, found.StartDate.Equal(entity.NewDate(2025, time.June, 12)))

	missing := newTestReservation(1, 40, 10, 15)
	missing.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, missing), entity.ErrReservationNotFound)
}

// TestMemoryApprove тестирует подтверждение брони с проверкой конфликтов
func TestMemoryApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("approve pending reservation", func(t *testing.T) {
		repo := NewReservationRepository()
		reservation := newTestReservation(1, 40, 10, 15)
		require.NoError(t, repo.Create(ctx, reservation))

		approved, err := repo.Approve(ctx, reservation.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ReservationStatusApproved, approved.Status)
	})

	t.Run("approve missing reservation", func(t *testing.T) {
		repo := NewReservationRepository()
		_, err := repo.Approve(ctx, 999)
		assert.ErrorIs(t, err, entity.ErrReservationNotFound)
	})

	t.Run("approve twice fails", func(t *testing.T) {
		repo := NewReservationRepository()
		reservation := newTestReservation(1, 40, 10, 15)
		require.NoError(t, repo.Create(ctx, reservation))

		_, err := repo.Approve(ctx, reservation.ID)
		require.NoError(t, err)

		_, err = repo.Approve(ctx, reservation.ID)
		assert.ErrorIs(t, err, entity.ErrNotPending)
	})

	t.Run("conflicting approval fails", func(t *testing.T) {
		repo := NewReservationRepository()
		first := newTestReservation(1, 40, 10, 15)
		second := newTestReservation(2, 40, 12, 17)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		_, err := repo.Approve(ctx, first.ID)
		require.NoError(t, err)

		_, err = repo.Approve(ctx, second.ID)
		assert.ErrorIs(t, err, entity.ErrReservationConflict)
	})

	t.Run("touching intervals both approve", func(t *testing.T) {
		repo := NewReservationRepository()
		first := newTestReservation(1, 40, 10, 15)
		second := newTestReservation(2, 40, 15, 20)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		_, err := repo.Approve(ctx, first.ID)
		require.NoError(t, err)

		_, err = repo.Approve(ctx, second.ID)
		assert.NoError(t, err)
	})

	t.Run("other room does not block", func(t *testing.T) {
		repo := NewReservationRepository()
		first := newTestReservation(1, 40, 10, 15)
		second := newTestReservation(2, 41, 10, 15)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		_, err := repo.Approve(ctx, first.ID)
		require.NoError(t, err)

		_, err = repo.Approve(ctx, second.ID)
		assert.NoError(t, err)
	})

	t.Run("cancelled reservation does not block", func(t *testing.T) {
		repo := NewReservationRepository()
		first := newTestReservation(1, 40, 10, 15)
		second := newTestReservation(2, 40, 10, 15)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		require.NoError(t, repo.SetStatus(ctx, first.ID, entity.ReservationStatusCancelled))

		_, err := repo.Approve(ctx, second.ID)
		assert.NoError(t, err)
	})
}

// TestMemoryApproveConcurrent проверяет, что из двух конкурирующих
// подтверждений на пересекающиеся даты выигрывает ровно одно
func TestMemoryApproveConcurrent(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()

	const competitors = 10

	ids := make([]int64, 0, competitors)
	for i := 0; i < competitors; i++ {
		reservation := newTestReservation(int64(i+1), 40, 10, 15)
		require.NoError(t, repo.Create(ctx, reservation))
		ids = append(ids, reservation.ID)
	}

	var wg sync.WaitGroup
	errs := make([]error, competitors)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, errs[i] = repo.Approve(ctx, id)
		}(i, id)
	}
	wg.Wait()

	approved := 0
	for _, err := range errs {
		if err == nil {
			approved++
		} else {
			assert.ErrorIs(t, err, entity.ErrReservationConflict)
		}
	}
	assert.Equal(t, 1, approved)
}

// TestMemoryFindApprovedOverlapping тестирует поиск конфликтующих броней
func TestMemoryFindApprovedOverlapping(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()

	approved := newTestReservation(1, 40, 10, 15)
	require.NoError(t, repo.Create(ctx, approved))
	_, err := repo.Approve(ctx, approved.ID)
	require.NoError(t, err)

	pending := newTestReservation(2, 40, 10, 15)
	require.NoError(t, repo.Create(ctx, pending))

	t.Run("finds approved conflict", func(t *testing.T) {
		ids, err := repo.FindApprovedOverlapping(ctx, 40,
			entity.NewDate(2025, time.June, 12), entity.NewDate(2025, time.June, 17), 0)
		require.NoError(t, err)
		assert.Equal(t, []int64{approved.ID}, ids)
	})

	t.Run("pending reservations are ignored", func(t *testing.T) {
		ids, err := repo.FindApprovedOverlapping(ctx, 40,
			entity.NewDate(2025, time.June, 10), entity.NewDate(2025, time.June, 15), approved.ID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("touching interval is not a conflict", func(t *testing.T) {
		ids, err := repo.FindApprovedOverlapping(ctx, 40,
			entity.NewDate(2025, time.June, 15), entity.NewDate(2025, time.June, 20), 0)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("other room is not a conflict", func(t *testing.T) {
		ids, err := repo.FindApprovedOverlapping(ctx, 41,
			entity.NewDate(2025, time.June, 10), entity.NewDate(2025, time.June, 15), 0)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

// TestMemorySearch тестирует фильтрацию и пагинацию поиска
func TestMemorySearch(t *testing.T) {
	repo := NewReservationRepository()
	ctx := context.Background()

	// Три брони в комнате 40 от пользователя 1, одна в комнате 41 от пользователя 2
	require.NoError(t, repo.Create(ctx, newTestReservation(1, 40, 1, 3)))
	require.NoError(t, repo.Create(ctx, newTestReservation(1, 40, 5, 7)))
	require.NoError(t, repo.Create(ctx, newTestReservation(1, 40, 9, 11)))
	require.NoError(t, repo.Create(ctx, newTestReservation(2, 41, 1, 3)))

	roomID := int64(40)
	userID := int64(2)

	t.Run("filter by room", func(t *testing.T) {
		found, err := repo.Search(ctx, &entity.SearchFilter{RoomID: &roomID, PageSize: 10})
		require.NoError(t, err)
		assert.Len(t, found, 3)
	})

	t.Run("filter by user", func(t *testing.T) {
		found, err := repo.Search(ctx, &entity.SearchFilter{UserID: &userID, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, int64(41), found[0].RoomID)
	})

	t.Run("pagination returns ordered pages", func(t *testing.T) {
		page0, err := repo.Search(ctx, &entity.SearchFilter{PageSize: 2, PageNumber: 0})
		require.NoError(t, err)
		require.Len(t, page0, 2)
		assert.Equal(t, int64(1), page0[0].ID)
		assert.Equal(t, int64(2), page0[1].ID)

		page1, err := repo.Search(ctx, &entity.SearchFilter{PageSize: 2, PageNumber: 1})
		require.NoError(t, err)
		require.Len(t, page1, 2)
		assert.Equal(t, int64(3), page1[0].ID)
		assert.Equal(t, int64(4), page1[1].ID)
	})

	t.Run("page beyond data is empty", func(t *testing.T) {
		found, err := repo.Search(ctx, &entity.SearchFilter{PageSize: 10, PageNumber: 5})
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}
