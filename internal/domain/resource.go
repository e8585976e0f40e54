package domain

import (
	"errors"
	"time"
)

// ResourceStatus represents the operational status of a resource
type ResourceStatus string

const (
	ResourceStatusAvailable   ResourceStatus = "available"
	ResourceStatusMaintenance ResourceStatus = "maintenance"
	ResourceStatusOffline     ResourceStatus = "offline"
)

// Ошибки валидации ресурса. Тексты отдаются клиенту как есть.
var (
	ErrRequiresFullAllocation = errors.New("indivisible resource requires full allocation")

	ErrIndivisibleExclusiveOnly = errors.New("indivisible resources can only be booked exclusively")

	ErrBelowMinAllocation = errors.New("requested quantity is below the minimum allocation")

	ErrAboveMaxAllocation = errors.New("requested quantity is above the maximum allocation")

	ErrExclusiveRequiresFullCapacity = errors.New("exclusive bookings require full capacity")

	ErrResourceDisabled = errors.New("resource is disabled")

	ErrResourceInMaintenance = errors.New("resource is in maintenance")

	ErrResourceNotAvailable = errors.New("resource not available")
)

// Resource represents a bookable capacity pool (GPUs, servers, storage, ...)
type Resource struct {
	ID            int64
	Name          string
	Type          string
	Description   *string
	TotalCapacity int    // положительное целое
	CapacityUnit  string // например "GPU", "GB", "slots"
	IsIndivisible bool   // true = бронируется только целиком и эксклюзивно
	MinAllocation *int
	MaxAllocation *int
	Status        ResourceStatus
	IsActive      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CheckAllocation validates a proposed (quantity, bookingType) pair against the
// resource constraints. The checks mirror the admission order: indivisibility
// first, then min/max bounds, then the exclusive-implies-full-capacity rule.
func (r *Resource) CheckAllocation(quantity int, bookingType BookingType) error {
	if r.IsIndivisible && quantity != r.TotalCapacity {
		return ErrRequiresFullAllocation
	}

	if r.IsIndivisible && bookingType != BookingTypeExclusive {
		return ErrIndivisibleExclusiveOnly
	}

	if r.MinAllocation != nil && quantity < *r.MinAllocation {
		return ErrBelowMinAllocation
	}

	if r.MaxAllocation != nil && quantity > *r.MaxAllocation {
		return ErrAboveMaxAllocation
	}

	if bookingType == BookingTypeExclusive && !r.IsIndivisible && quantity != r.TotalCapacity {
		return ErrExclusiveRequiresFullCapacity
	}

	return nil
}

// CheckBookable validates that the resource currently accepts bookings
func (r *Resource) CheckBookable() error {
	if !r.IsActive {
		return ErrResourceDisabled
	}

	switch r.Status {
	case ResourceStatusAvailable:
		return nil
	case ResourceStatusMaintenance:
		return ErrResourceInMaintenance
	default:
		return ErrResourceNotAvailable
	}
}

// ParseResourceStatus конвертирует строку в ResourceStatus с валидацией
func ParseResourceStatus(s string) (ResourceStatus, error) {
	switch ResourceStatus(s) {
	case ResourceStatusAvailable, ResourceStatusMaintenance, ResourceStatusOffline:
		return ResourceStatus(s), nil
	default:
		return "", errors.New("invalid resource status")
	}
}
