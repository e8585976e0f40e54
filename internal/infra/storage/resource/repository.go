package resource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/psqlbuilder"
)

var resourceColumns = []string{
	"id",
	"name",
	"type",
	"description",
	"total_capacity",
	"capacity_unit",
	"is_indivisible",
	"min_allocation",
	"max_allocation",
	"status",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с ресурсами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый ресурс
func (r *Repository) Create(ctx context.Context, resource *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("resources").
		Columns(
			"name",
			"type",
			"description",
			"total_capacity",
			"capacity_unit",
			"is_indivisible",
			"min_allocation",
			"max_allocation",
			"status",
			"is_active",
		).
		Values(
			resource.Name,
			resource.Type,
			resource.Description,
			resource.TotalCapacity,
			resource.CapacityUnit,
			resource.IsIndivisible,
			resource.MinAllocation,
			resource.MaxAllocation,
			resource.Status,
			resource.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&resource.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	resource.CreatedAt = createdAt.Time
	resource.UpdatedAt = updatedAt.Time

	return resource, nil
}

// GetByID получает ресурс по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	var resource domain.Resource
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&resource.ID,
		&resource.Name,
		&resource.Type,
		&resource.Description,
		&resource.TotalCapacity,
		&resource.CapacityUnit,
		&resource.IsIndivisible,
		&resource.MinAllocation,
		&resource.MaxAllocation,
		&resource.Status,
		&resource.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %w", ErrScanRow, err)
	}

	resource.CreatedAt = createdAt.Time
	resource.UpdatedAt = updatedAt.Time

	return &resource, nil
}

// List получает список ресурсов
// При onlyActive = true возвращает только активные ресурсы
func (r *Repository) List(ctx context.Context, onlyActive bool) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(resourceColumns...).
		From("resources").
		OrderBy("name ASC")

	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)

	for rows.Next() {
		var resource domain.Resource
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&resource.ID,
			&resource.Name,
			&resource.Type,
			&resource.Description,
			&resource.TotalCapacity,
			&resource.CapacityUnit,
			&resource.IsIndivisible,
			&resource.MinAllocation,
			&resource.MaxAllocation,
			&resource.Status,
			&resource.IsActive,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}

		resource.CreatedAt = createdAt.Time
		resource.UpdatedAt = updatedAt.Time

		resources = append(resources, &resource)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return resources, nil
}

// Update обновляет ресурс
func (r *Repository) Update(ctx context.Context, id int64, resource *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("resources").
		Set("name", resource.Name).
		Set("type", resource.Type).
		Set("description", resource.Description).
		Set("total_capacity", resource.TotalCapacity).
		Set("capacity_unit", resource.CapacityUnit).
		Set("is_indivisible", resource.IsIndivisible).
		Set("min_allocation", resource.MinAllocation).
		Set("max_allocation", resource.MaxAllocation).
		Set("status", resource.Status).
		Set("is_active", resource.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	resource.ID = id
	resource.CreatedAt = createdAt.Time
	resource.UpdatedAt = updatedAt.Time

	return resource, nil
}
