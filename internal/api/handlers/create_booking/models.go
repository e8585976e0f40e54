package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-ResourceBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ResourceID        int64   `json:"resourceId"`
	Title             string  `json:"title"`
	StartTime         string  `json:"startTime"` // RFC 3339, например "2026-03-01T10:00:00Z"
	EndTime           string  `json:"endTime"`   // RFC 3339
	RequestedQuantity int     `json:"requestedQuantity"`
	BookingType       string  `json:"bookingType"` // shared | exclusive
	Priority          *string `json:"priority,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                int64  `json:"id"`
	ResourceID        int64  `json:"resourceId"`
	UserID            int64  `json:"userId"`
	Title             string `json:"title"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	RequestedQuantity int    `json:"requestedQuantity"`
	AllocatedQuantity *int   `json:"allocatedQuantity,omitempty"`
	BookingType       string `json:"bookingType"`
	Status            string `json:"status"`
	Priority          string `json:"priority"`
	ApprovedByID      *int64 `json:"approvedById,omitempty"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

// ViolationsResponse тело ответа 422 при нарушении квот
type ViolationsResponse struct {
	Error      string         `json:"error"`
	Violations []string       `json:"violations"`
	Usage      UsageStatsView `json:"usage"`
}

// UsageStatsView текущее использование квот в ответе
type UsageStatsView struct {
	DailyHours         float64 `json:"dailyHours"`
	WeeklyHours        float64 `json:"weeklyHours"`
	MonthlyHours       float64 `json:"monthlyHours"`
	ConcurrentBookings int     `json:"concurrentBookings"`
	DailyBookings      int     `json:"dailyBookings"`
}

// FromDomainUsage конвертирует domain статистику использования в HTTP view
func FromDomainUsage(u domain.UsageStats) UsageStatsView {
	return UsageStatsView{
		DailyHours:         u.DailyHours,
		WeeklyHours:        u.WeeklyHours,
		MonthlyHours:       u.MonthlyHours,
		ConcurrentBookings: u.ConcurrentBookings,
		DailyBookings:      u.DailyBookings,
	}
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:            userID,
		ResourceID:        r.ResourceID,
		Title:             r.Title,
		StartTime:         startTime,
		EndTime:           endTime,
		RequestedQuantity: r.RequestedQuantity,
		BookingType:       r.BookingType,
		Priority:          r.Priority,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		ResourceID:        resp.ResourceID,
		UserID:            resp.UserID,
		Title:             resp.Title,
		StartTime:         resp.StartTime.Format(time.RFC3339),
		EndTime:           resp.EndTime.Format(time.RFC3339),
		RequestedQuantity: resp.RequestedQuantity,
		AllocatedQuantity: resp.AllocatedQuantity,
		BookingType:       resp.BookingType,
		Status:            resp.Status,
		Priority:          resp.Priority,
		ApprovedByID:      resp.ApprovedByID,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
