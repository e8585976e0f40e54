package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

func TestSystemDefaultLimit(t *testing.T) {
	quotas := DefaultQuotas{
		MaxHoursPerDay:        24,
		MaxHoursPerWeek:       60,
		MaxConcurrentBookings: 10,
	}

	limit := SystemDefaultLimit(42, quotas)

	assert.Equal(t, int64(SystemDefaultLimitID), limit.ID)
	assert.Equal(t, SystemDefaultLimitPriority, limit.Priority)
	assert.Equal(t, LimitTargetUser, limit.TargetKind)
	assert.Equal(t, int64(42), limit.TargetID)
	assert.True(t, limit.IsActive)
	assert.True(t, limit.IsSystemDefault())

	require.NotNil(t, limit.MaxHoursPerDay)
	assert.Equal(t, 24, *limit.MaxHoursPerDay)
	require.NotNil(t, limit.MaxHoursPerWeek)
	assert.Equal(t, 60, *limit.MaxHoursPerWeek)
	require.NotNil(t, limit.MaxConcurrentBookings)
	assert.Equal(t, 10, *limit.MaxConcurrentBookings)

	// Нулевые квоты означают отсутствие ограничения
	assert.Nil(t, limit.MaxHoursPerMonth)
	assert.Nil(t, limit.MaxBookingsPerDay)
}

func TestSystemDefaultLimit_ZeroQuotas(t *testing.T) {
	limit := SystemDefaultLimit(1, DefaultQuotas{})

	assert.Nil(t, limit.MaxHoursPerDay)
	assert.Nil(t, limit.MaxHoursPerWeek)
	assert.Nil(t, limit.MaxHoursPerMonth)
	assert.Nil(t, limit.MaxConcurrentBookings)
	assert.Nil(t, limit.MaxBookingsPerDay)
	assert.True(t, limit.IsActive)
}

func TestResourceLimit_AppliesToResource(t *testing.T) {
	global := ResourceLimit{}
	assert.True(t, global.AppliesToResource(5))
	assert.True(t, global.AppliesToResource(99))

	scoped := ResourceLimit{ResourceID: ptr.Ptr(int64(5))}
	assert.True(t, scoped.AppliesToResource(5))
	assert.False(t, scoped.AppliesToResource(6))
}

func TestResourceLimit_AllowsBookingType(t *testing.T) {
	// Пустой список разрешает все типы
	open := ResourceLimit{}
	assert.True(t, open.AllowsBookingType(BookingTypeShared))
	assert.True(t, open.AllowsBookingType(BookingTypeExclusive))

	sharedOnly := ResourceLimit{AllowedBookingTypes: []BookingType{BookingTypeShared}}
	assert.True(t, sharedOnly.AllowsBookingType(BookingTypeShared))
	assert.False(t, sharedOnly.AllowsBookingType(BookingTypeExclusive))
}

func TestParseLimitTargetKind(t *testing.T) {
	kind, err := ParseLimitTargetKind("group")
	require.NoError(t, err)
	assert.Equal(t, LimitTargetGroup, kind)

	kind, err = ParseLimitTargetKind("group_per_person")
	require.NoError(t, err)
	assert.Equal(t, LimitTargetGroupPerPerson, kind)

	_, err = ParseLimitTargetKind("team")
	assert.ErrorIs(t, err, ErrInvalidLimitTarget)
}
