package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/nowtown/NT-BookingService/internal/domain"
	"github.com/nowtown/NT-BookingService/pkg/dbmetrics"
	"github.com/nowtown/NT-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий capacity ledger и токенов резервирования
// Единственная точка записи в ledger: ни один другой компонент не мутирует
// ни учет мест, ни early-bird квоту напрямую
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ledger
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// EnsureSlot создает запись ledger для слота, если её еще нет
// totalUnits = 0 означает неограниченную вместимость
func (r *Repository) EnsureSlot(ctx context.Context, listingID int64, slotStart time.Time, totalUnits, earlyBirdTotal int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("capacity_ledger").
		Columns("listing_id", "slot_start", "total_units", "reserved_units", "early_bird_total", "early_bird_used").
		Values(listingID, slotStart, totalUnits, 0, earlyBirdTotal, 0).
		Suffix("ON CONFLICT (listing_id, slot_start) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: EnsureSlot - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: EnsureSlot - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetSlot читает запись ledger для слота
// Внутри транзакции добавляет FOR UPDATE: проверка вместимости и запись
// резерва выполняются под блокировкой строки, закрывая check-then-act гонку
func (r *Repository) GetSlot(ctx context.Context, listingID int64, slotStart time.Time) (*domain.CapacityLedger, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"listing_id",
		"slot_start",
		"total_units",
		"reserved_units",
		"early_bird_total",
		"early_bird_used",
		"created_at",
		"updated_at",
	).
		From("capacity_ledger").
		Where(squirrel.Eq{"listing_id": listingID, "slot_start": slotStart})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlot - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.CapacityLedger
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.ListingID,
		&slot.SlotStart,
		&slot.TotalUnits,
		&slot.ReservedUnits,
		&slot.EarlyBirdTotal,
		&slot.EarlyBirdUsed,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSlot - scan slot: %v", ErrScanRow, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// Reserve атомарно резервирует quantity мест в слоте
// Обязан вызываться внутри serializable-транзакции: строка ledger блокируется,
// проверка остатка и инкремент выполняются как одна операция. Конкурирующие
// запросы на тот же слот сериализуются; при нехватке мест - ErrSoldOut,
// частичный резерв не выполняется
//
// claimEarlyBird = true дополнительно списывает early-bird квоту: списывается
// min(quantity, остаток квоты). Запрос, исчерпывающий квоту, скидку получает;
// следующий за ним - уже нет
func (r *Repository) Reserve(ctx context.Context, listingID int64, slotStart time.Time, quantity int, claimEarlyBird bool) (*domain.CapacityReservation, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrNotInTransaction
	}

	slot, err := r.GetSlot(ctx, listingID, slotStart)
	if err != nil {
		return nil, err
	}

	// total_units = 0 означает неограниченную вместимость
	if slot.TotalUnits > 0 && slot.Remaining() < quantity {
		return nil, ErrSoldOut
	}

	earlyBirdUnits := 0
	if claimEarlyBird {
		remaining := slot.EarlyBirdRemaining()
		if remaining > 0 {
			earlyBirdUnits = quantity
			if remaining < quantity {
				earlyBirdUnits = remaining
			}
		}
	}

	if err := r.applyDelta(ctx, slot.ID, quantity, earlyBirdUnits); err != nil {
		return nil, err
	}

	return r.insertReservation(ctx, listingID, slotStart, quantity, earlyBirdUnits)
}

// Release освобождает резервирование и возвращает места в слот
// Идемпотентно: повторный вызов для уже освобожденного токена - no-op
// Обязан вызываться внутри транзакции
func (r *Repository) Release(ctx context.Context, reservationID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	// CAS по статусу: только активный токен переходит в released
	query, args, err := psqlbuilder.Update("capacity_reservations").
		Set("status", domain.ReservationReleased).
		Set("released_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": reservationID, "status": domain.ReservationActive}).
		Suffix("RETURNING listing_id, slot_start, quantity, early_bird_units").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	var listingID int64
	var slotStart time.Time
	var quantity, earlyBirdUnits int

	err = executor.QueryRowContext(ctx, query, args...).Scan(&listingID, &slotStart, &quantity, &earlyBirdUnits)
	if err == sql.ErrNoRows {
		// Токен либо не существует, либо уже освобожден
		reservation, getErr := r.GetReservation(ctx, reservationID)
		if getErr != nil {
			return getErr
		}
		if reservation.Status == domain.ReservationReleased {
			return nil
		}
		return fmt.Errorf("%w: Release - unexpected reservation status %s", ErrExecQuery, reservation.Status)
	}
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrScanRow, err)
	}

	slot, err := r.GetSlot(ctx, listingID, slotStart)
	if err != nil {
		return err
	}

	return r.applyDelta(ctx, slot.ID, -quantity, -earlyBirdUnits)
}

// GetReservation получает токен резервирования по ID
func (r *Repository) GetReservation(ctx context.Context, id int64) (*domain.CapacityReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"listing_id",
		"slot_start",
		"quantity",
		"early_bird_units",
		"status",
		"created_at",
		"released_at",
	).
		From("capacity_reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetReservation - build select query: %v", ErrBuildQuery, err)
	}

	var reservation domain.CapacityReservation
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&reservation.ID,
		&reservation.ListingID,
		&reservation.SlotStart,
		&reservation.Quantity,
		&reservation.EarlyBirdUnits,
		&reservation.Status,
		&createdAt,
		&reservation.ReleasedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetReservation - scan reservation: %v", ErrScanRow, err)
	}

	reservation.CreatedAt = createdAt.Time

	return &reservation, nil
}

// applyDelta изменяет счетчики слота на указанные дельты
func (r *Repository) applyDelta(ctx context.Context, slotID int64, units, earlyBirdUnits int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("capacity_ledger").
		Set("reserved_units", squirrel.Expr("reserved_units + ?", units)).
		Set("early_bird_used", squirrel.Expr("early_bird_used + ?", earlyBirdUnits)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: applyDelta - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: applyDelta - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: applyDelta - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func (r *Repository) insertReservation(ctx context.Context, listingID int64, slotStart time.Time, quantity, earlyBirdUnits int) (*domain.CapacityReservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("capacity_reservations").
		Columns("listing_id", "slot_start", "quantity", "early_bird_units", "status").
		Values(listingID, slotStart, quantity, earlyBirdUnits, domain.ReservationActive).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: insertReservation - build insert query: %v", ErrBuildQuery, err)
	}

	reservation := &domain.CapacityReservation{
		ListingID:      listingID,
		SlotStart:      slotStart,
		Quantity:       quantity,
		EarlyBirdUnits: earlyBirdUnits,
		Status:         domain.ReservationActive,
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&reservation.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: insertReservation - execute insert: %v", ErrExecQuery, err)
	}
	reservation.CreatedAt = createdAt.Time

	return reservation, nil
}
