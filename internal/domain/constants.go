package domain

// Business validation constants
const (
	MaxTitleLength           = 200
	MaxRejectionReasonLength = 500
)

// System default limit constants
const (
	// SystemDefaultLimitID reserved id of the synthetic default limit (never stored)
	SystemDefaultLimitID = 0

	// SystemDefaultLimitPriority lowest priority so any explicit limit sorts above it
	SystemDefaultLimitPriority = -1000
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CapacityHoldingStatuses статусы, в которых бронирование удерживает емкость ресурса
// Используется при подсчете пересечений и использования квот
var CapacityHoldingStatuses = []BookingStatus{
	StatusPending,
	StatusApproved,
	StatusActive,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}
