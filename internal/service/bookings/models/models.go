package models

import (
	"time"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// Request модели

// ApproveBookingRequest запрос на подтверждение бронирования
type ApproveBookingRequest struct {
	AdminID           int64 `json:"adminId"`
	AllocatedQuantity *int  `json:"allocatedQuantity,omitempty"` // nil = выделить запрошенное количество
}

// RejectBookingRequest запрос на отклонение бронирования
type RejectBookingRequest struct {
	AdminID int64  `json:"adminId"`
	Reason  string `json:"reason"`
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CallerID int64 `json:"callerId"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID   int64   `json:"userId"`
	CallerID int64   `json:"callerId"`
	Status   *string `json:"status,omitempty"`
}

// GetResourceBookingsRequest запрос на получение бронирований ресурса
type GetResourceBookingsRequest struct {
	ResourceID      int64      `json:"resourceId"`
	CallerID        int64      `json:"callerId"`
	From            *time.Time `json:"from,omitempty"`            // Начало периода (опционально)
	To              *time.Time `json:"to,omitempty"`              // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить терминальные бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetResourceBookingsRequest) ToDomainFilter() (domain.ResourceBookingsFilter, error) {
	filter := domain.ResourceBookingsFilter{
		ResourceID:      r.ResourceID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                int64  `json:"id"`
	ResourceID        int64  `json:"resourceId"`
	UserID            int64  `json:"userId"`
	Title             string `json:"title"`
	StartTime         string `json:"startTime"` // RFC 3339
	EndTime           string `json:"endTime"`   // RFC 3339
	RequestedQuantity int    `json:"requestedQuantity"`
	AllocatedQuantity *int   `json:"allocatedQuantity,omitempty"`
	BookingType       string `json:"bookingType"`
	Status            string `json:"status"`
	Priority          string `json:"priority"`

	ApprovedByID    *int64  `json:"approvedById,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	CancelledAt     *string `json:"cancelledAt,omitempty"` // RFC 3339

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                b.ID,
		ResourceID:        b.ResourceID,
		UserID:            b.UserID,
		Title:             b.Title,
		StartTime:         b.StartTime.Format(time.RFC3339),
		EndTime:           b.EndTime.Format(time.RFC3339),
		RequestedQuantity: b.RequestedQuantity,
		AllocatedQuantity: b.AllocatedQuantity,
		BookingType:       string(b.BookingType),
		Status:            string(b.Status),
		Priority:          string(b.Priority),
		ApprovedByID:      b.ApprovedByID,
		RejectionReason:   b.RejectionReason,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}
