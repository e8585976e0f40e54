package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"resource_id",
	"user_id",
	"title",
	"start_time",
	"end_time",
	"requested_quantity",
	"allocated_quantity",
	"booking_type",
	"status",
	"priority",
	"approved_by_id",
	"rejection_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Создание с проверкой емкости обязано выполняться внутри сериализуемой
// транзакции вместе с GetOverlapping - иначе два конкурентных запроса могут
// оба увидеть достаточную емкость и оба вставить бронирование (check-then-act).
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"resource_id",
			"user_id",
			"title",
			"start_time",
			"end_time",
			"requested_quantity",
			"allocated_quantity",
			"booking_type",
			"status",
			"priority",
			"approved_by_id",
		).
		Values(
			booking.ResourceID,
			booking.UserID,
			booking.Title,
			booking.StartTime,
			booking.EndTime,
			booking.RequestedQuantity,
			booking.AllocatedQuantity,
			booking.BookingType,
			booking.Status,
			booking.Priority,
			booking.ApprovedByID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetOverlapping получает бронирования ресурса, действительно пересекающиеся
// с интервалом [start, end) и удерживающие емкость (pending/approved/active).
//
// Пересечение считается по строгим неравенствам: бронирование, заканчивающееся
// ровно в момент начала интервала (или начинающееся ровно в момент его конца),
// пересечением НЕ является.
//
// При обновлении существующего бронирования его собственный id передается
// в excludeID и исключается из выборки.
//
// Внутри транзакции выборка выполняется с FOR UPDATE - блокировка строк
// сериализует конкурентные решения о допуске для одного ресурса
// (межресурсной конкуренции нет, блокировка всегда локальна ресурсу).
func (r *Repository) GetOverlapping(ctx context.Context, resourceID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"status": capacityHoldingStatusStrings()}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetUserBookingsBetween получает удерживающие емкость бронирования пользователя,
// чьё время начала попадает в [from, to). Используется для подсчета часовых
// и дневных квот в окне дня/недели/месяца.
func (r *Repository) GetUserBookingsBetween(ctx context.Context, userID int64, from, to time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"status": capacityHoldingStatusStrings()}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to}).
		OrderBy("start_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetUserBookingsBetween - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetUserBookingsBetween - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetUserOverlapping получает удерживающие емкость бронирования пользователя
// (по всем ресурсам), пересекающиеся с интервалом [start, end).
// Используется для проверки лимита одновременных бронирований.
func (r *Repository) GetUserOverlapping(ctx context.Context, userID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"status": capacityHoldingStatusStrings()}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetUserOverlapping - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetUserOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByResourceWithFilter получает бронирования ресурса с гибкой фильтрацией
// по периоду, статусу и включению терминальных бронирований
func (r *Repository) GetByResourceWithFilter(ctx context.Context, filter domain.ResourceBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"resource_id": filter.ResourceID})

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_time": *filter.To})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		// Без явного статуса и без запроса неактивных - только удерживающие емкость
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": capacityHoldingStatusStrings()})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceWithFilter - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Approve подтверждает бронирование, фиксируя выделенное количество и администратора
func (r *Repository) Approve(ctx context.Context, id int64, allocatedQuantity int, adminID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusApproved).
		Set("allocated_quantity", allocatedQuantity).
		Set("approved_by_id", adminID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Approve - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Approve")
}

// Reject отклоняет бронирование с указанием причины
func (r *Repository) Reject(ctx context.Context, id int64, adminID int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusRejected).
		Set("rejection_reason", reason).
		Set("approved_by_id", adminID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reject - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Reject")
}

// Cancel отменяет бронирование
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel")
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus")
}

// UpdateReservation обновляет редактируемые владельцем поля бронирования
// (заголовок, интервал, количество, тип, приоритет, переназначенное количество).
// Должно вызываться внутри той же транзакции, что и повторная проверка емкости.
func (r *Repository) UpdateReservation(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("title", booking.Title).
		Set("start_time", booking.StartTime).
		Set("end_time", booking.EndTime).
		Set("requested_quantity", booking.RequestedQuantity).
		Set("allocated_quantity", booking.AllocatedQuantity).
		Set("booking_type", booking.BookingType).
		Set("priority", booking.Priority).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateReservation - build update query: %w", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateReservation - execute update: %w", ErrExecQuery, err)
	}

	booking.UpdatedAt = updatedAt.Time
	return booking, nil
}

// execExpectingRow выполняет UPDATE и проверяет, что ровно одна строка затронута
func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// scanBooking сканирует одну строку в модель бронирования
func (r *Repository) scanBooking(row *sql.Row) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ResourceID,
		&booking.UserID,
		&booking.Title,
		&booking.StartTime,
		&booking.EndTime,
		&booking.RequestedQuantity,
		&booking.AllocatedQuantity,
		&booking.BookingType,
		&booking.Status,
		&booking.Priority,
		&booking.ApprovedByID,
		&booking.RejectionReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.ResourceID,
			&booking.UserID,
			&booking.Title,
			&booking.StartTime,
			&booking.EndTime,
			&booking.RequestedQuantity,
			&booking.AllocatedQuantity,
			&booking.BookingType,
			&booking.Status,
			&booking.Priority,
			&booking.ApprovedByID,
			&booking.RejectionReason,
			&booking.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// capacityHoldingStatusStrings статусы, удерживающие емкость, в виде строк для SQL
func capacityHoldingStatusStrings() []string {
	statuses := make([]string, len(domain.CapacityHoldingStatuses))
	for i, s := range domain.CapacityHoldingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
