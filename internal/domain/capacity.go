package domain

// CapacityInfo результат расчета доступной емкости ресурса на интервале
type CapacityInfo struct {
	TotalCapacity       int
	CurrentAllocation   int // суммарная занятая емкость на интервале (может превышать TotalCapacity)
	AvailableCapacity   int // доступная емкость, не ниже 0
	ConflictingBookings int // количество пересекающихся бронирований
}

// CalculateCapacity computes available capacity for a resource given the set
// of overlapping capacity-holding bookings. The available value is clamped at
// zero for display; over-allocation detection uses CurrentAllocation against
// TotalCapacity directly. The result is always recomputed from the overlap
// set, never cached: any concurrent booking invalidates a previous read.
func CalculateCapacity(resource *Resource, overlapping []*Booking) CapacityInfo {
	info := CapacityInfo{
		TotalCapacity: resource.TotalCapacity,
	}

	for _, b := range overlapping {
		if !b.HoldsCapacity() {
			continue
		}
		info.CurrentAllocation += b.EffectiveQuantity()
		info.ConflictingBookings++
	}

	available := resource.TotalCapacity - info.CurrentAllocation
	if available < 0 {
		available = 0
	}
	info.AvailableCapacity = available

	return info
}

// Fits reports whether the requested quantity fits into the remaining capacity.
// Works on the raw (unclamped) allocation so an already over-allocated
// resource never admits more.
func (c CapacityInfo) Fits(quantity int) bool {
	return c.CurrentAllocation+quantity <= c.TotalCapacity
}
