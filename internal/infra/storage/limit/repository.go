package limit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/psqlbuilder"
)

var limitColumns = []string{
	"id",
	"target_kind",
	"target_id",
	"resource_id",
	"max_hours_per_day",
	"max_hours_per_week",
	"max_hours_per_month",
	"max_concurrent_bookings",
	"max_bookings_per_day",
	"allowed_booking_types",
	"priority",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с лимитами использования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория лимитов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveForBooking получает все активные лимиты, применимые к бронированию:
// адресованные пользователю напрямую или любой из его групп, и относящиеся
// к указанному ресурсу либо глобальные (resource_id IS NULL).
// Синтетический системный лимит сюда не входит - его добавляет вызывающая сторона.
func (r *Repository) GetActiveForBooking(ctx context.Context, userID int64, groupIDs []int64, resourceID int64) ([]*domain.ResourceLimit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	targetCond := squirrel.Or{
		squirrel.And{
			squirrel.Eq{"target_kind": string(domain.LimitTargetUser)},
			squirrel.Eq{"target_id": userID},
		},
	}

	if len(groupIDs) > 0 {
		targetCond = append(targetCond, squirrel.And{
			squirrel.Eq{"target_kind": []string{
				string(domain.LimitTargetGroup),
				string(domain.LimitTargetGroupPerPerson),
			}},
			squirrel.Eq{"target_id": groupIDs},
		})
	}

	query, args, err := psqlbuilder.Select(limitColumns...).
		From("resource_limits").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Or{
			squirrel.Eq{"resource_id": resourceID},
			squirrel.Eq{"resource_id": nil},
		}).
		Where(targetCond).
		OrderBy("priority DESC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForBooking - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveForBooking - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanLimits(rows)
}

// scanLimits сканирует результаты запроса в слайс лимитов
func (r *Repository) scanLimits(rows *sql.Rows) ([]*domain.ResourceLimit, error) {
	limits := make([]*domain.ResourceLimit, 0)

	for rows.Next() {
		var limit domain.ResourceLimit
		var allowedTypes pq.StringArray
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&limit.ID,
			&limit.TargetKind,
			&limit.TargetID,
			&limit.ResourceID,
			&limit.MaxHoursPerDay,
			&limit.MaxHoursPerWeek,
			&limit.MaxHoursPerMonth,
			&limit.MaxConcurrentBookings,
			&limit.MaxBookingsPerDay,
			&allowedTypes,
			&limit.Priority,
			&limit.IsActive,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanLimits - scan row: %w", ErrScanRow, err)
		}

		limit.AllowedBookingTypes = make([]domain.BookingType, 0, len(allowedTypes))
		for _, t := range allowedTypes {
			limit.AllowedBookingTypes = append(limit.AllowedBookingTypes, domain.BookingType(t))
		}

		limit.CreatedAt = createdAt.Time
		limit.UpdatedAt = updatedAt.Time

		limits = append(limits, &limit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanLimits - rows error: %w", ErrScanRow, err)
	}

	return limits, nil
}
