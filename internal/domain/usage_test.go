package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

// 2025-06-10 - вторник; неделя начинается в воскресенье 2025-06-08
var testDay = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func hourBooking(start time.Time, hours int, status BookingStatus) *Booking {
	return &Booking{
		Status:            status,
		RequestedQuantity: 1,
		StartTime:         start,
		EndTime:           start.Add(time.Duration(hours) * time.Hour),
	}
}

func TestEvaluateLimits_DailyHoursExceeded(t *testing.T) {
	// Пользователь уже занял 20 часов сегодня, просит еще 5 при дневном лимите 24
	in := LimitCheckInput{
		StartTime:   testDay.Add(18 * time.Hour),
		EndTime:     testDay.Add(23 * time.Hour),
		BookingType: BookingTypeShared,
		WindowBookings: []*Booking{
			hourBooking(testDay.Add(2*time.Hour), 12, StatusApproved),
			hourBooking(testDay.Add(14*time.Hour), 8, StatusActive),
		},
	}

	limits := []ResourceLimit{
		{IsActive: true, MaxHoursPerDay: ptr.Ptr(24)},
	}

	result := EvaluateLimits(limits, in)

	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t,
		"would exceed daily limit of 24h: current 20.00h, requested 5.00h",
		result.Violations[0])
	assert.InDelta(t, 20.0, result.Usage.DailyHours, 0.001)
}

func TestEvaluateLimits_DailyHoursWithinLimit(t *testing.T) {
	in := LimitCheckInput{
		StartTime:   testDay.Add(18 * time.Hour),
		EndTime:     testDay.Add(22 * time.Hour),
		BookingType: BookingTypeShared,
		WindowBookings: []*Booking{
			hourBooking(testDay.Add(2*time.Hour), 12, StatusApproved),
			hourBooking(testDay.Add(14*time.Hour), 8, StatusActive),
		},
	}

	result := EvaluateLimits([]ResourceLimit{
		{IsActive: true, MaxHoursPerDay: ptr.Ptr(24)},
	}, in)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
}

func TestEvaluateLimits_ConcurrentBookings(t *testing.T) {
	start := testDay.Add(10 * time.Hour)
	end := testDay.Add(12 * time.Hour)

	in := LimitCheckInput{
		StartTime:   start,
		EndTime:     end,
		BookingType: BookingTypeShared,
		OverlappingBookings: []*Booking{
			hourBooking(testDay.Add(9*time.Hour), 2, StatusApproved),  // [9, 11) пересекается
			hourBooking(testDay.Add(11*time.Hour), 2, StatusPending),  // [11, 13) пересекается
			hourBooking(testDay.Add(12*time.Hour), 1, StatusApproved), // [12, 13) смежное - не считается
			hourBooking(testDay.Add(10*time.Hour), 1, StatusCancelled),
		},
	}

	result := EvaluateLimits([]ResourceLimit{
		{IsActive: true, MaxConcurrentBookings: ptr.Ptr(2)},
	}, in)

	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t,
		"would exceed concurrent bookings limit of 2: 2 overlapping booking(s) already exist",
		result.Violations[0])
	assert.Equal(t, 2, result.Usage.ConcurrentBookings)
}

func TestEvaluateLimits_DailyBookingsCount(t *testing.T) {
	in := LimitCheckInput{
		StartTime:   testDay.Add(18 * time.Hour),
		EndTime:     testDay.Add(19 * time.Hour),
		BookingType: BookingTypeShared,
		WindowBookings: []*Booking{
			hourBooking(testDay.Add(8*time.Hour), 1, StatusApproved),
			hourBooking(testDay.Add(10*time.Hour), 1, StatusApproved),
			hourBooking(testDay.Add(12*time.Hour), 1, StatusPending),
		},
	}

	result := EvaluateLimits([]ResourceLimit{
		{IsActive: true, MaxBookingsPerDay: ptr.Ptr(3)},
	}, in)

	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t,
		"would exceed daily bookings limit of 3: 3 booking(s) already start on this day",
		result.Violations[0])
}

func TestEvaluateLimits_BookingTypeNotAllowed(t *testing.T) {
	in := LimitCheckInput{
		StartTime:   testDay.Add(10 * time.Hour),
		EndTime:     testDay.Add(12 * time.Hour),
		BookingType: BookingTypeExclusive,
	}

	result := EvaluateLimits([]ResourceLimit{
		{IsActive: true, AllowedBookingTypes: []BookingType{BookingTypeShared}},
	}, in)

	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, `booking type "exclusive" is not allowed`, result.Violations[0])
}

// Все совпадающие активные лимиты проверяются независимо: прохождение
// высокоприоритетного лимита не отменяет нарушение низкоприоритетного
func TestEvaluateLimits_Conjunctive(t *testing.T) {
	in := LimitCheckInput{
		StartTime:   testDay.Add(10 * time.Hour),
		EndTime:     testDay.Add(20 * time.Hour), // 10 часов
		BookingType: BookingTypeShared,
	}

	result := EvaluateLimits([]ResourceLimit{
		{IsActive: true, Priority: 100, MaxHoursPerDay: ptr.Ptr(48)}, // проходит
		{IsActive: true, Priority: 0, MaxHoursPerDay: ptr.Ptr(8)},    // нарушается
	}, in)

	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Contains(t, result.Violations[0], "daily limit of 8h")
}

// Нарушения отдаются в детерминированном порядке: по убыванию приоритета лимита
func TestEvaluateLimits_ViolationsOrderedByPriority(t *testing.T) {
	in := LimitCheckInput{
		StartTime:   testDay.Add(10 * time.Hour),
		EndTime:     testDay.Add(20 * time.Hour), // 10 часов
		BookingType: BookingTypeShared,
	}

	limits := []ResourceLimit{
		SystemDefaultLimit(1, DefaultQuotas{MaxHoursPerDay: 4}), // priority -1000
		{IsActive: true, Priority: 50, MaxHoursPerWeek: ptr.Ptr(8)},
	}

	result := EvaluateLimits(limits, in)

	require.Len(t, result.Violations, 2)
	assert.Contains(t, result.Violations[0], "weekly limit of 8h")
	assert.Contains(t, result.Violations[1], "daily limit of 4h")
}

func TestEvaluateLimits_InactiveLimitSkipped(t *testing.T) {
	in := LimitCheckInput{
		StartTime:   testDay.Add(10 * time.Hour),
		EndTime:     testDay.Add(20 * time.Hour),
		BookingType: BookingTypeShared,
	}

	result := EvaluateLimits([]ResourceLimit{
		{IsActive: false, MaxHoursPerDay: ptr.Ptr(1)},
	}, in)

	assert.True(t, result.Valid)
}

func TestEvaluateLimits_NoLimits(t *testing.T) {
	in := LimitCheckInput{
		StartTime:   testDay.Add(10 * time.Hour),
		EndTime:     testDay.Add(12 * time.Hour),
		BookingType: BookingTypeShared,
	}

	result := EvaluateLimits(nil, in)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
}

func TestComputeUsageStats_Windows(t *testing.T) {
	// Предлагаемое бронирование во вторник 2025-06-10
	in := LimitCheckInput{
		StartTime:   testDay.Add(10 * time.Hour),
		EndTime:     testDay.Add(12 * time.Hour),
		BookingType: BookingTypeShared,
		WindowBookings: []*Booking{
			// Тот же день
			hourBooking(testDay.Add(2*time.Hour), 2, StatusApproved),
			// Понедельник той же недели
			hourBooking(testDay.AddDate(0, 0, -1).Add(9*time.Hour), 3, StatusApproved),
			// Воскресенье 2025-06-08 - начало недели, входит в неделю
			hourBooking(time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC), 4, StatusApproved),
			// Суббота 2025-06-07 - прошлая неделя, но тот же месяц
			hourBooking(time.Date(2025, 6, 7, 9, 0, 0, 0, time.UTC), 5, StatusApproved),
		},
	}

	stats := ComputeUsageStats(in)

	assert.InDelta(t, 2.0, stats.DailyHours, 0.001)
	assert.InDelta(t, 9.0, stats.WeeklyHours, 0.001) // 2 + 3 + 4
	assert.InDelta(t, 14.0, stats.MonthlyHours, 0.001)
	assert.Equal(t, 1, stats.DailyBookings)
}

func TestStartOfWeek_Sunday(t *testing.T) {
	// Вторник -> предыдущее воскресенье
	tuesday := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), StartOfWeek(tuesday))

	// Воскресенье - уже начало недели
	sunday := time.Date(2025, 6, 8, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday))
}

func TestUsageWindow(t *testing.T) {
	// Середина месяца: окно покрывает месяц целиком
	from, to := UsageWindow(testDay.Add(10 * time.Hour))
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), to)

	// Начало месяца: неделя начинается в прошлом месяце, окно расширяется влево
	july1 := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC) // вторник
	from, to = UsageWindow(july1)
	assert.Equal(t, time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), to)
}

// EvaluateLimits - чистая функция: повторный вызов на том же входе
// дает идентичный результат, включая порядок нарушений
func TestEvaluateLimits_DeterministicOnSameInput(t *testing.T) {
	in := LimitCheckInput{
		StartTime:   testDay.Add(18 * time.Hour),
		EndTime:     testDay.Add(23 * time.Hour),
		BookingType: BookingTypeShared,
		WindowBookings: []*Booking{
			hourBooking(testDay.Add(2*time.Hour), 12, StatusApproved),
			hourBooking(testDay.Add(14*time.Hour), 8, StatusActive),
		},
	}

	limits := []ResourceLimit{
		{IsActive: true, MaxHoursPerDay: ptr.Ptr(24), Priority: 1},
		{IsActive: true, MaxBookingsPerDay: ptr.Ptr(2), Priority: 10},
	}

	first := EvaluateLimits(limits, in)
	require.False(t, first.Valid)
	require.Len(t, first.Violations, 2)

	second := EvaluateLimits(limits, in)
	assert.Equal(t, first, second)
}
