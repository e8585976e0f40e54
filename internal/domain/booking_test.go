package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking_CanTransitionTo(t *testing.T) {
	allStatuses := []BookingStatus{
		StatusPending, StatusApproved, StatusActive,
		StatusCompleted, StatusCancelled, StatusRejected,
	}

	allowed := map[BookingStatus]map[BookingStatus]bool{
		StatusPending:  {StatusApproved: true, StatusRejected: true, StatusCancelled: true},
		StatusApproved: {StatusActive: true, StatusCancelled: true},
		StatusActive:   {StatusCompleted: true},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			b := &Booking{Status: from}
			want := allowed[from][to]
			assert.Equal(t, want, b.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBooking_TerminalStatusesHaveNoTransitions(t *testing.T) {
	for _, status := range TerminalStatuses {
		b := &Booking{Status: status}
		assert.True(t, b.IsTerminal(), "status %s", status)
		for _, next := range []BookingStatus{
			StatusPending, StatusApproved, StatusActive,
			StatusCompleted, StatusCancelled, StatusRejected,
		} {
			assert.False(t, b.CanTransitionTo(next), "%s -> %s must be illegal", status, next)
		}
	}
}

func TestBooking_HoldsCapacity(t *testing.T) {
	holding := map[BookingStatus]bool{
		StatusPending:   true,
		StatusApproved:  true,
		StatusActive:    true,
		StatusCompleted: false,
		StatusCancelled: false,
		StatusRejected:  false,
	}

	for status, want := range holding {
		b := &Booking{Status: status}
		assert.Equal(t, want, b.HoldsCapacity(), "status %s", status)
	}
}

func TestBooking_Overlaps(t *testing.T) {
	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	booking := &Booking{
		StartTime: base,                    // 10:00
		EndTime:   base.Add(2 * time.Hour), // 12:00
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"полное совпадение", base, base.Add(2 * time.Hour), true},
		{"частичное пересечение справа", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"частичное пересечение слева", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"вложенный интервал", base.Add(30 * time.Minute), base.Add(90 * time.Minute), true},
		{"охватывающий интервал", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		// Полуоткрытые интервалы: граница не считается пересечением
		{"смежный справа", base.Add(2 * time.Hour), base.Add(4 * time.Hour), false},
		{"смежный слева", base.Add(-2 * time.Hour), base, false},
		{"далеко в будущем", base.Add(5 * time.Hour), base.Add(6 * time.Hour), false},
		{"далеко в прошлом", base.Add(-5 * time.Hour), base.Add(-3 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(tt.start, tt.end))
		})
	}
}

func TestBooking_EffectiveQuantity(t *testing.T) {
	requested := &Booking{RequestedQuantity: 10}
	assert.Equal(t, 10, requested.EffectiveQuantity())

	allocated := 7
	approved := &Booking{RequestedQuantity: 10, AllocatedQuantity: &allocated}
	assert.Equal(t, 7, approved.EffectiveQuantity())
}

func TestBooking_HasEnded(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	past := &Booking{EndTime: now.Add(-time.Hour)}
	assert.True(t, past.HasEnded(now))

	// Конец ровно сейчас - интервал полуоткрытый, бронирование уже закончилось
	boundary := &Booking{EndTime: now}
	assert.True(t, boundary.HasEnded(now))

	future := &Booking{EndTime: now.Add(time.Hour)}
	assert.False(t, future.HasEnded(now))
}

func TestBooking_CanBeCancelledAndUpdated(t *testing.T) {
	editable := map[BookingStatus]bool{
		StatusPending:   true,
		StatusApproved:  true,
		StatusActive:    false,
		StatusCompleted: false,
		StatusCancelled: false,
		StatusRejected:  false,
	}

	for status, want := range editable {
		b := &Booking{Status: status}
		assert.Equal(t, want, b.CanBeCancelled(), "CanBeCancelled, status %s", status)
		assert.Equal(t, want, b.CanBeUpdated(), "CanBeUpdated, status %s", status)
	}
}

func TestValidateInterval(t *testing.T) {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	require.NoError(t, ValidateInterval(start, start.Add(time.Hour)))

	assert.ErrorIs(t, ValidateInterval(start, start), ErrInvalidTimeRange)
	assert.ErrorIs(t, ValidateInterval(start, start.Add(-time.Hour)), ErrInvalidTimeRange)
	assert.ErrorIs(t, ValidateInterval(time.Time{}, start), ErrInvalidTimeRange)
	assert.ErrorIs(t, ValidateInterval(start, time.Time{}), ErrInvalidTimeRange)
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, status)

	_, err = ParseBookingStatus("unknown")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseBookingStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseBookingType(t *testing.T) {
	bt, err := ParseBookingType("exclusive")
	require.NoError(t, err)
	assert.Equal(t, BookingTypeExclusive, bt)

	_, err = ParseBookingType("partial")
	assert.ErrorIs(t, err, ErrInvalidBookingType)
}

func TestParseBookingPriority(t *testing.T) {
	// Пустая строка трактуется как normal
	p, err := ParseBookingPriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityNormal, p)

	p, err = ParseBookingPriority("critical")
	require.NoError(t, err)
	assert.Equal(t, PriorityCritical, p)

	_, err = ParseBookingPriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}
