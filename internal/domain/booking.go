package domain

import (
	"errors"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRejected  BookingStatus = "rejected"
)

// BookingType represents how a booking claims capacity
type BookingType string

const (
	BookingTypeShared    BookingType = "shared"
	BookingTypeExclusive BookingType = "exclusive"
)

// BookingPriority represents the scheduling priority of a booking
type BookingPriority string

const (
	PriorityLow      BookingPriority = "low"
	PriorityNormal   BookingPriority = "normal"
	PriorityHigh     BookingPriority = "high"
	PriorityCritical BookingPriority = "critical"
)

var (
	// ErrInvalidStatus возвращается при неизвестном статусе бронирования
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidBookingType возвращается при неизвестном типе бронирования
	ErrInvalidBookingType = errors.New("invalid booking type")

	// ErrInvalidPriority возвращается при неизвестном приоритете
	ErrInvalidPriority = errors.New("invalid booking priority")

	// ErrInvalidTimeRange возвращается, когда endTime не позже startTime
	ErrInvalidTimeRange = errors.New("end time must be after start time")
)

// Booking represents a reservation of resource capacity for a time window.
// The interval is half-open: [StartTime, EndTime).
type Booking struct {
	ID                int64
	ResourceID        int64
	UserID            int64
	Title             string
	StartTime         time.Time
	EndTime           time.Time
	RequestedQuantity int
	AllocatedQuantity *int // устанавливается при подтверждении, <= RequestedQuantity
	BookingType       BookingType
	Status            BookingStatus
	Priority          BookingPriority

	ApprovedByID    *int64
	RejectionReason *string
	CancelledAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// legalTransitions таблица допустимых переходов статусов
// Терминальные статусы (completed/cancelled/rejected) переходов не имеют
var legalTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusActive, StatusCancelled},
	StatusActive:   {StatusCompleted},
}

// CanTransitionTo returns true if the status transition is legal
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range legalTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HoldsCapacity returns true if the booking counts against resource capacity
// (pending, approved or active)
func (b *Booking) HoldsCapacity() bool {
	return b.Status == StatusPending || b.Status == StatusApproved || b.Status == StatusActive
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusRejected
}

// CanBeCancelled returns true if the booking can be cancelled (time aside)
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// CanBeUpdated returns true if owner edits are still allowed (time aside)
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// HasEnded returns true if the booking window is already in the past
func (b *Booking) HasEnded(now time.Time) bool {
	return !b.EndTime.After(now)
}

// EffectiveQuantity returns the capacity the booking holds: the allocated
// quantity once set, otherwise the requested quantity
func (b *Booking) EffectiveQuantity() int {
	if b.AllocatedQuantity != nil {
		return *b.AllocatedQuantity
	}
	return b.RequestedQuantity
}

// Overlaps reports whether the booking interval truly overlaps [start, end).
// Strict inequalities: a booking ending exactly where another starts does NOT
// overlap it, both intervals being half-open.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// DurationHours returns the booking duration in hours
func (b *Booking) DurationHours() float64 {
	return b.EndTime.Sub(b.StartTime).Hours()
}

// ValidateInterval проверяет, что интервал корректен (end строго позже start)
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidTimeRange
	}
	if !end.After(start) {
		return ErrInvalidTimeRange
	}
	return nil
}

// ResourceBookingsFilter фильтр для выборки бронирований ресурса
type ResourceBookingsFilter struct {
	ResourceID      int64          // Обязательный параметр
	From            *time.Time     // Начало периода (опционально)
	To              *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли терминальные бронирования
}

// ParseBookingStatus конвертирует строку в BookingStatus с валидацией
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusApproved, StatusActive, StatusCompleted, StatusCancelled, StatusRejected:
		return BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// ParseBookingType конвертирует строку в BookingType с валидацией
func ParseBookingType(s string) (BookingType, error) {
	switch BookingType(s) {
	case BookingTypeShared, BookingTypeExclusive:
		return BookingType(s), nil
	default:
		return "", ErrInvalidBookingType
	}
}

// ParseBookingPriority конвертирует строку в BookingPriority с валидацией
// Пустая строка трактуется как normal
func ParseBookingPriority(s string) (BookingPriority, error) {
	if s == "" {
		return PriorityNormal, nil
	}
	switch BookingPriority(s) {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical:
		return BookingPriority(s), nil
	default:
		return "", ErrInvalidPriority
	}
}
