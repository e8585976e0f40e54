package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

func TestResource_CheckAllocation(t *testing.T) {
	tests := []struct {
		name        string
		resource    Resource
		quantity    int
		bookingType BookingType
		wantErr     error
	}{
		{
			name:        "обычное разделяемое бронирование",
			resource:    Resource{TotalCapacity: 10},
			quantity:    4,
			bookingType: BookingTypeShared,
		},
		{
			name:        "неделимый ресурс требует полной емкости",
			resource:    Resource{TotalCapacity: 10, IsIndivisible: true},
			quantity:    4,
			bookingType: BookingTypeExclusive,
			wantErr:     ErrRequiresFullAllocation,
		},
		{
			name:        "неделимый ресурс бронируется только эксклюзивно",
			resource:    Resource{TotalCapacity: 10, IsIndivisible: true},
			quantity:    10,
			bookingType: BookingTypeShared,
			wantErr:     ErrIndivisibleExclusiveOnly,
		},
		{
			name:        "неделимый ресурс целиком и эксклюзивно",
			resource:    Resource{TotalCapacity: 10, IsIndivisible: true},
			quantity:    10,
			bookingType: BookingTypeExclusive,
		},
		{
			name:        "меньше минимальной аллокации",
			resource:    Resource{TotalCapacity: 10, MinAllocation: ptr.Ptr(2)},
			quantity:    1,
			bookingType: BookingTypeShared,
			wantErr:     ErrBelowMinAllocation,
		},
		{
			name:        "больше максимальной аллокации",
			resource:    Resource{TotalCapacity: 10, MaxAllocation: ptr.Ptr(5)},
			quantity:    6,
			bookingType: BookingTypeShared,
			wantErr:     ErrAboveMaxAllocation,
		},
		{
			name:        "граница минимальной аллокации включительно",
			resource:    Resource{TotalCapacity: 10, MinAllocation: ptr.Ptr(2)},
			quantity:    2,
			bookingType: BookingTypeShared,
		},
		{
			name:        "эксклюзивное бронирование требует полной емкости",
			resource:    Resource{TotalCapacity: 10},
			quantity:    5,
			bookingType: BookingTypeExclusive,
			wantErr:     ErrExclusiveRequiresFullCapacity,
		},
		{
			name:        "эксклюзивное бронирование полной емкости",
			resource:    Resource{TotalCapacity: 10},
			quantity:    10,
			bookingType: BookingTypeExclusive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.resource.CheckAllocation(tt.quantity, tt.bookingType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResource_CheckBookable(t *testing.T) {
	available := Resource{Status: ResourceStatusAvailable, IsActive: true}
	require.NoError(t, available.CheckBookable())

	disabled := Resource{Status: ResourceStatusAvailable, IsActive: false}
	assert.ErrorIs(t, disabled.CheckBookable(), ErrResourceDisabled)

	maintenance := Resource{Status: ResourceStatusMaintenance, IsActive: true}
	assert.ErrorIs(t, maintenance.CheckBookable(), ErrResourceInMaintenance)

	offline := Resource{Status: ResourceStatusOffline, IsActive: true}
	assert.ErrorIs(t, offline.CheckBookable(), ErrResourceNotAvailable)
}

func TestParseResourceStatus(t *testing.T) {
	status, err := ParseResourceStatus("maintenance")
	require.NoError(t, err)
	assert.Equal(t, ResourceStatusMaintenance, status)

	_, err = ParseResourceStatus("broken")
	assert.Error(t, err)
}
