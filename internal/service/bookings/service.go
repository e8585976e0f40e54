package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	userClient "github.com/m04kA/SMC-ResourceBookingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	userClient  UserServiceClient
	timeNow     TimeProvider
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	userClient UserServiceClient,
	timeNow TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		userClient:  userClient,
		timeNow:     timeNow,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь может видеть только своё бронирование
// или если он является администратором
func (s *Service) GetByID(ctx context.Context, id int64, callerID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, callerID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkOwnerOrAdmin(ctx, booking, callerID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", callerID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Пользователь может смотреть только свою историю, администратор - любую
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, caller=%d", req.UserID, req.CallerID)

	if req.CallerID != req.UserID {
		if err := s.checkAdminAccess(ctx, req.CallerID); err != nil {
			s.logger.Warn("GetUserBookings: access denied for caller=%d to user=%d history", req.CallerID, req.UserID)
			return nil, err
		}
	}

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetResourceBookings получает бронирования ресурса с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению терминальных бронирований
// Доступно только администраторам
func (s *Service) GetResourceBookings(ctx context.Context, req *models.GetResourceBookingsRequest) (*models.BookingListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("GetResourceBookings: fetching bookings for resource=%d, caller=%d", req.ResourceID, req.CallerID)
	if req.From != nil && req.To != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	// Проверяем права доступа администратора
	if err := s.checkAdminAccess(ctx, req.CallerID); err != nil {
		s.logger.Warn("GetResourceBookings: access denied for caller=%d", req.CallerID)
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetResourceBookings: invalid filter for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByResourceWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetResourceBookings: repository error for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: GetResourceBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetResourceBookings: successfully fetched %d bookings for resource=%d", len(bookings), req.ResourceID)
	return models.FromDomainBookingList(bookings), nil
}

// Approve подтверждает ожидающее бронирование
// Доступно только администраторам. Выделяемое количество не может превышать
// запрошенное, а для exclusive-бронирований должно совпадать с ним
func (s *Service) Approve(ctx context.Context, bookingID int64, req *models.ApproveBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Approve: approving booking id=%d by admin=%d", bookingID, req.AdminID)

	if err := s.checkAdminAccess(ctx, req.AdminID); err != nil {
		s.logger.Warn("Approve: access denied for user=%d", req.AdminID)
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Approve: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Approve: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Approve - repository error: %v", ErrInternal, err)
	}

	// Подтверждать можно только из статуса pending
	if !booking.CanTransitionTo(domain.StatusApproved) {
		s.logger.Warn("Approve: booking id=%d cannot be approved, status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: cannot approve booking in status %q", ErrIllegalTransition, booking.Status)
	}

	// Определяем выделяемое количество: по умолчанию - запрошенное
	allocated := ptr.Deref(req.AllocatedQuantity, booking.RequestedQuantity)

	if allocated <= 0 || allocated > booking.RequestedQuantity {
		s.logger.Warn("Approve: invalid allocated quantity=%d for booking id=%d (requested=%d)",
			allocated, bookingID, booking.RequestedQuantity)
		return nil, fmt.Errorf("%w: allocated quantity must be in range [1, %d]", ErrInvalidAllocation, booking.RequestedQuantity)
	}

	// Exclusive-бронирование получает ровно запрошенное количество
	if booking.BookingType == domain.BookingTypeExclusive && allocated != booking.RequestedQuantity {
		s.logger.Warn("Approve: partial allocation rejected for exclusive booking id=%d", bookingID)
		return nil, fmt.Errorf("%w: exclusive booking requires full requested quantity", ErrInvalidAllocation)
	}

	if err := s.bookingRepo.Approve(ctx, bookingID, allocated, req.AdminID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Approve: booking id=%d not found during approval", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Approve: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Approve - repository error: %v", ErrInternal, err)
	}

	updated, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("Approve: failed to reload booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Approve - failed to reload booking: %v", ErrInternal, err)
	}

	s.logger.Info("Approve: successfully approved booking id=%d, allocated=%d", bookingID, allocated)
	return models.FromDomainBooking(updated), nil
}

// Reject отклоняет ожидающее бронирование с обязательной причиной
// Доступно только администраторам
func (s *Service) Reject(ctx context.Context, bookingID int64, req *models.RejectBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Reject: rejecting booking id=%d by admin=%d", bookingID, req.AdminID)

	if err := s.checkAdminAccess(ctx, req.AdminID); err != nil {
		s.logger.Warn("Reject: access denied for user=%d", req.AdminID)
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		s.logger.Warn("Reject: empty reason for booking id=%d", bookingID)
		return nil, ErrReasonRequired
	}
	if len(reason) > domain.MaxRejectionReasonLength {
		s.logger.Warn("Reject: reason too long for booking id=%d", bookingID)
		return nil, fmt.Errorf("%w: rejection reason exceeds %d characters", ErrInvalidInput, domain.MaxRejectionReasonLength)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Reject: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Reject: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Reject - repository error: %v", ErrInternal, err)
	}

	// Отклонять можно только из статуса pending
	if !booking.CanTransitionTo(domain.StatusRejected) {
		s.logger.Warn("Reject: booking id=%d cannot be rejected, status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: cannot reject booking in status %q", ErrIllegalTransition, booking.Status)
	}

	if err := s.bookingRepo.Reject(ctx, bookingID, req.AdminID, reason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Reject: booking id=%d not found during rejection", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Reject: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Reject - repository error: %v", ErrInternal, err)
	}

	updated, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("Reject: failed to reload booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Reject - failed to reload booking: %v", ErrInternal, err)
	}

	s.logger.Info("Reject: successfully rejected booking id=%d", bookingID)
	return models.FromDomainBooking(updated), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить только своё бронирование, администратор - любое
// Отменить можно только неначавшееся бронирование в статусе pending или approved
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.CallerID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkOwnerOrAdmin(ctx, booking, req.CallerID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.CallerID, bookingID)
		return err
	}

	// Проверяем, можно ли отменить бронирование
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return fmt.Errorf("%w: cannot cancel booking in status %q", ErrIllegalTransition, booking.Status)
	}

	if booking.HasEnded(s.timeNow.Now()) {
		s.logger.Warn("Cancel: booking id=%d has already ended", bookingID)
		return ErrBookingEnded
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// Вспомогательные методы

// checkOwnerOrAdmin проверяет, что пользователь имеет доступ к бронированию
// Пользователь может видеть своё бронирование или если он администратор
func (s *Service) checkOwnerOrAdmin(ctx context.Context, booking *domain.Booking, callerID int64) error {
	// Если пользователь владелец бронирования - доступ разрешён
	if booking.UserID == callerID {
		return nil
	}

	if err := s.checkAdminAccess(ctx, callerID); err != nil {
		// Ошибка уже залогирована в checkAdminAccess
		return ErrAccessDenied
	}

	return nil
}

// checkAdminAccess проверяет, что пользователь является администратором
func (s *Service) checkAdminAccess(ctx context.Context, userID int64) error {
	// Получаем пользователя через UserService
	user, err := s.userClient.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			s.logger.Warn("checkAdminAccess: user id=%d not found", userID)
			return ErrUserNotFound
		}
		s.logger.Error("checkAdminAccess: failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: checkAdminAccess - failed to get user: %v", ErrInternal, err)
	}

	if !user.IsAdmin() {
		s.logger.Warn("checkAdminAccess: user=%d is not an admin", userID)
		return ErrAccessDenied
	}

	return nil
}
