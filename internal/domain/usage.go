package domain

import (
	"fmt"
	"sort"
	"time"
)

// UsageStats текущее использование квот пользователем
// Часы считаются по бронированиям, чьё время начала попадает в окно
// (день/неделя/месяц), выведенное из даты предлагаемого бронирования
type UsageStats struct {
	DailyHours         float64
	WeeklyHours        float64
	MonthlyHours       float64
	ConcurrentBookings int
	DailyBookings      int
}

// LimitCheckInput входные данные проверки лимитов. Все списки бронирований
// собираются вызывающей стороной; сама проверка чистая и детерминированная,
// поэтому превью и принудительная проверка внутри транзакции используют
// один и тот же код.
type LimitCheckInput struct {
	StartTime   time.Time
	EndTime     time.Time
	BookingType BookingType

	// WindowBookings бронирования пользователя, чьё время начала попадает
	// в окно UsageWindow(StartTime); из них считаются часовые и дневные квоты.
	// При обновлении бронирования его собственный id исключается вызывающим.
	WindowBookings []*Booking

	// OverlappingBookings бронирования пользователя, пересекающиеся с
	// предлагаемым интервалом; из них считается конкурентная квота
	OverlappingBookings []*Booking
}

// LimitCheckResult результат проверки лимитов
type LimitCheckResult struct {
	Valid      bool
	Violations []string
	Usage      UsageStats
}

// EvaluateLimits checks the proposed booking against every active limit.
// Limits are sorted by priority descending, which fixes the order violations
// are reported in; every matching active limit contributes independently
// (conjunctive policy - all must pass, not a single-winner override).
func EvaluateLimits(limits []ResourceLimit, in LimitCheckInput) LimitCheckResult {
	usage := ComputeUsageStats(in)
	proposedHours := in.EndTime.Sub(in.StartTime).Hours()

	sorted := make([]ResourceLimit, len(limits))
	copy(sorted, limits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	violations := make([]string, 0)

	for i := range sorted {
		limit := &sorted[i]
		if !limit.IsActive {
			continue
		}

		if !limit.AllowsBookingType(in.BookingType) {
			violations = append(violations,
				fmt.Sprintf("booking type %q is not allowed", in.BookingType))
		}

		if limit.MaxHoursPerDay != nil && usage.DailyHours+proposedHours > float64(*limit.MaxHoursPerDay) {
			violations = append(violations,
				fmt.Sprintf("would exceed daily limit of %dh: current %.2fh, requested %.2fh",
					*limit.MaxHoursPerDay, usage.DailyHours, proposedHours))
		}

		if limit.MaxHoursPerWeek != nil && usage.WeeklyHours+proposedHours > float64(*limit.MaxHoursPerWeek) {
			violations = append(violations,
				fmt.Sprintf("would exceed weekly limit of %dh: current %.2fh, requested %.2fh",
					*limit.MaxHoursPerWeek, usage.WeeklyHours, proposedHours))
		}

		if limit.MaxHoursPerMonth != nil && usage.MonthlyHours+proposedHours > float64(*limit.MaxHoursPerMonth) {
			violations = append(violations,
				fmt.Sprintf("would exceed monthly limit of %dh: current %.2fh, requested %.2fh",
					*limit.MaxHoursPerMonth, usage.MonthlyHours, proposedHours))
		}

		if limit.MaxConcurrentBookings != nil && usage.ConcurrentBookings >= *limit.MaxConcurrentBookings {
			violations = append(violations,
				fmt.Sprintf("would exceed concurrent bookings limit of %d: %d overlapping booking(s) already exist",
					*limit.MaxConcurrentBookings, usage.ConcurrentBookings))
		}

		if limit.MaxBookingsPerDay != nil && usage.DailyBookings >= *limit.MaxBookingsPerDay {
			violations = append(violations,
				fmt.Sprintf("would exceed daily bookings limit of %d: %d booking(s) already start on this day",
					*limit.MaxBookingsPerDay, usage.DailyBookings))
		}
	}

	return LimitCheckResult{
		Valid:      len(violations) == 0,
		Violations: violations,
		Usage:      usage,
	}
}

// ComputeUsageStats derives current usage anchored to the proposed booking's
// start, not "now": day, week (starting Sunday) and month windows all contain
// in.StartTime. Only capacity-holding bookings count.
func ComputeUsageStats(in LimitCheckInput) UsageStats {
	dayStart := StartOfDay(in.StartTime)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekStart := StartOfWeek(in.StartTime)
	weekEnd := weekStart.AddDate(0, 0, 7)
	monthStart := StartOfMonth(in.StartTime)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var stats UsageStats

	for _, b := range in.WindowBookings {
		if !b.HoldsCapacity() {
			continue
		}

		hours := b.DurationHours()

		if withinWindow(b.StartTime, dayStart, dayEnd) {
			stats.DailyHours += hours
			stats.DailyBookings++
		}
		if withinWindow(b.StartTime, weekStart, weekEnd) {
			stats.WeeklyHours += hours
		}
		if withinWindow(b.StartTime, monthStart, monthEnd) {
			stats.MonthlyHours += hours
		}
	}

	for _, b := range in.OverlappingBookings {
		if !b.HoldsCapacity() {
			continue
		}
		if b.Overlaps(in.StartTime, in.EndTime) {
			stats.ConcurrentBookings++
		}
	}

	return stats
}

// UsageWindow возвращает минимальное окно [from, to), покрывающее дневное,
// недельное и месячное окна для указанного времени начала. Используется
// для одной выборки бронирований пользователя из БД.
func UsageWindow(start time.Time) (time.Time, time.Time) {
	weekStart := StartOfWeek(start)
	weekEnd := weekStart.AddDate(0, 0, 7)
	monthStart := StartOfMonth(start)
	monthEnd := monthStart.AddDate(0, 1, 0)

	from := monthStart
	if weekStart.Before(from) {
		from = weekStart
	}

	to := monthEnd
	if weekEnd.After(to) {
		to = weekEnd
	}

	return from, to
}

// StartOfDay возвращает начало календарного дня для t
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek возвращает начало недели (воскресенье) для t
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// StartOfMonth возвращает начало календарного месяца для t
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func withinWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
