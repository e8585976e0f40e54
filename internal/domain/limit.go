package domain

import (
	"errors"
	"time"
)

// LimitTargetKind discriminates whom a limit applies to
type LimitTargetKind string

const (
	// LimitTargetUser лимит на конкретного пользователя
	LimitTargetUser LimitTargetKind = "user"

	// LimitTargetGroup лимит, привязанный к группе: квоты применяются
	// к собственному потреблению каждого участника группы
	LimitTargetGroup LimitTargetKind = "group"

	// LimitTargetGroupPerPerson лимит на каждого участника группы по отдельности
	LimitTargetGroupPerPerson LimitTargetKind = "group_per_person"
)

// ErrInvalidLimitTarget возвращается при неизвестном виде цели лимита
var ErrInvalidLimitTarget = errors.New("invalid limit target kind")

// ResourceLimit describes usage quotas applied to a target (user or group)
// for one resource or globally (ResourceID == nil).
// All caps are optional: nil means "no cap of this kind".
type ResourceLimit struct {
	ID         int64
	TargetKind LimitTargetKind
	TargetID   int64
	ResourceID *int64 // nil = применяется ко всем ресурсам

	MaxHoursPerDay   *int
	MaxHoursPerWeek  *int
	MaxHoursPerMonth *int

	MaxConcurrentBookings *int
	MaxBookingsPerDay     *int

	AllowedBookingTypes []BookingType // пустой список = разрешены все типы

	Priority int // выше = раньше в порядке применения
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesToResource returns true if the limit covers the given resource
func (l *ResourceLimit) AppliesToResource(resourceID int64) bool {
	return l.ResourceID == nil || *l.ResourceID == resourceID
}

// AllowsBookingType returns true if the booking type passes the allow-list.
// An empty allow-list permits every type.
func (l *ResourceLimit) AllowsBookingType(t BookingType) bool {
	if len(l.AllowedBookingTypes) == 0 {
		return true
	}
	for _, allowed := range l.AllowedBookingTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// IsSystemDefault returns true for the synthetic configuration-sourced limit
func (l *ResourceLimit) IsSystemDefault() bool {
	return l.ID == SystemDefaultLimitID && l.Priority == SystemDefaultLimitPriority
}

// DefaultQuotas системные квоты по умолчанию из глобальной конфигурации
// Нулевое значение означает отсутствие соответствующего ограничения
type DefaultQuotas struct {
	MaxHoursPerDay        int
	MaxHoursPerWeek       int
	MaxHoursPerMonth      int
	MaxConcurrentBookings int
	MaxBookingsPerDay     int
}

// SystemDefaultLimit synthesizes the implicit per-user limit from global
// configuration. It is a pure function: the limit is constructed on the fly
// with a reserved id and the lowest priority, never stored as a row, so every
// user has baseline quotas even with zero explicit limits configured.
func SystemDefaultLimit(userID int64, q DefaultQuotas) ResourceLimit {
	limit := ResourceLimit{
		ID:         SystemDefaultLimitID,
		TargetKind: LimitTargetUser,
		TargetID:   userID,
		Priority:   SystemDefaultLimitPriority,
		IsActive:   true,
	}

	if q.MaxHoursPerDay > 0 {
		v := q.MaxHoursPerDay
		limit.MaxHoursPerDay = &v
	}
	if q.MaxHoursPerWeek > 0 {
		v := q.MaxHoursPerWeek
		limit.MaxHoursPerWeek = &v
	}
	if q.MaxHoursPerMonth > 0 {
		v := q.MaxHoursPerMonth
		limit.MaxHoursPerMonth = &v
	}
	if q.MaxConcurrentBookings > 0 {
		v := q.MaxConcurrentBookings
		limit.MaxConcurrentBookings = &v
	}
	if q.MaxBookingsPerDay > 0 {
		v := q.MaxBookingsPerDay
		limit.MaxBookingsPerDay = &v
	}

	return limit
}

// ParseLimitTargetKind конвертирует строку в LimitTargetKind с валидацией
func ParseLimitTargetKind(s string) (LimitTargetKind, error) {
	switch LimitTargetKind(s) {
	case LimitTargetUser, LimitTargetGroup, LimitTargetGroupPerPerson:
		return LimitTargetKind(s), nil
	default:
		return "", ErrInvalidLimitTarget
	}
}
