package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ResourceBookingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ResourceBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

// --- фейки ---

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	m := make(map[int64]*domain.Booking, len(bookings))
	for _, b := range bookings {
		m[b.ID] = b
	}
	return &fakeBookingRepo{bookings: m}
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) GetByResourceWithFilter(_ context.Context, filter domain.ResourceBookingsFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.ResourceID == filter.ResourceID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) Approve(_ context.Context, id int64, allocatedQuantity int, adminID int64) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusApproved
	b.AllocatedQuantity = &allocatedQuantity
	b.ApprovedByID = &adminID
	return nil
}

func (f *fakeBookingRepo) Reject(_ context.Context, id int64, adminID int64, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusRejected
	b.RejectionReason = &reason
	b.ApprovedByID = &adminID
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancelledAt = &now
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

type fakeUserClient struct {
	users map[int64]*userservice.User
}

func (f *fakeUserClient) GetUser(_ context.Context, userID int64) (*userservice.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	return u, nil
}

type fixedTime struct {
	t time.Time
}

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- окружение ---

const (
	ownerID = int64(10)
	adminID = int64(1)
	otherID = int64(20)
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newService(repo *fakeBookingRepo) *Service {
	users := &fakeUserClient{users: map[int64]*userservice.User{
		ownerID: {ID: ownerID, Role: userservice.RoleUser, IsActive: true},
		adminID: {ID: adminID, Role: userservice.RoleAdmin, IsActive: true},
		otherID: {ID: otherID, Role: userservice.RoleUser, IsActive: true},
	}}
	return NewService(repo, users, fixedTime{testNow}, nopLogger{})
}

func pendingBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:                id,
		ResourceID:        1,
		UserID:            ownerID,
		Title:             "experiment",
		StartTime:         testNow.Add(time.Hour),
		EndTime:           testNow.Add(3 * time.Hour),
		RequestedQuantity: 4,
		BookingType:       domain.BookingTypeShared,
		Status:            domain.StatusPending,
		Priority:          domain.PriorityNormal,
	}
}

// --- тесты ---

func TestGetByID_OwnerAndAdmin(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	svc := newService(repo)

	// Владелец видит своё бронирование
	resp, err := svc.GetByID(context.Background(), 1, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	// Администратор видит любое
	_, err = svc.GetByID(context.Background(), 1, adminID)
	require.NoError(t, err)

	// Посторонний пользователь - нет
	_, err = svc.GetByID(context.Background(), 1, otherID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newService(newFakeBookingRepo())

	_, err := svc.GetByID(context.Background(), 99, ownerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetUserBookings_AccessControl(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	svc := newService(repo)

	// Своя история доступна
	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID:   ownerID,
		CallerID: ownerID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	// Чужая история доступна администратору
	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID:   ownerID,
		CallerID: adminID,
	})
	require.NoError(t, err)

	// Но не обычному пользователю
	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID:   ownerID,
		CallerID: otherID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	svc := newService(newFakeBookingRepo())

	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID:   ownerID,
		CallerID: ownerID,
		Status:   ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetResourceBookings_AdminOnly(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	svc := newService(repo)

	resp, err := svc.GetResourceBookings(context.Background(), &models.GetResourceBookingsRequest{
		ResourceID: 1,
		CallerID:   adminID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	_, err = svc.GetResourceBookings(context.Background(), &models.GetResourceBookingsRequest{
		ResourceID: 1,
		CallerID:   ownerID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestApprove(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	svc := newService(repo)

	resp, err := svc.Approve(context.Background(), 1, &models.ApproveBookingRequest{AdminID: adminID})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resp.Status)
	require.NotNil(t, resp.AllocatedQuantity)
	// По умолчанию выделяется запрошенное количество
	assert.Equal(t, 4, *resp.AllocatedQuantity)
	require.NotNil(t, resp.ApprovedByID)
	assert.Equal(t, adminID, *resp.ApprovedByID)
}

func TestApprove_PartialAllocation(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	svc := newService(repo)

	resp, err := svc.Approve(context.Background(), 1, &models.ApproveBookingRequest{
		AdminID:           adminID,
		AllocatedQuantity: ptr.Ptr(2),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, *resp.AllocatedQuantity)
}

func TestApprove_InvalidAllocation(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	svc := newService(repo)

	// Больше запрошенного
	_, err := svc.Approve(context.Background(), 1, &models.ApproveBookingRequest{
		AdminID:           adminID,
		AllocatedQuantity: ptr.Ptr(5),
	})
	assert.ErrorIs(t, err, ErrInvalidAllocation)

	// Ноль
	_, err = svc.Approve(context.Background(), 1, &models.ApproveBookingRequest{
		AdminID:           adminID,
		AllocatedQuantity: ptr.Ptr(0),
	})
	assert.ErrorIs(t, err, ErrInvalidAllocation)
}

func TestApprove_ExclusiveRequiresFullQuantity(t *testing.T) {
	b := pendingBooking(1)
	b.BookingType = domain.BookingTypeExclusive
	svc := newService(newFakeBookingRepo(b))

	_, err := svc.Approve(context.Background(), 1, &models.ApproveBookingRequest{
		AdminID:           adminID,
		AllocatedQuantity: ptr.Ptr(2),
	})
	assert.ErrorIs(t, err, ErrInvalidAllocation)
}

func TestApprove_IllegalTransition(t *testing.T) {
	b := pendingBooking(1)
	b.Status = domain.StatusCancelled
	svc := newService(newFakeBookingRepo(b))

	_, err := svc.Approve(context.Background(), 1, &models.ApproveBookingRequest{AdminID: adminID})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestApprove_NonAdminDenied(t *testing.T) {
	svc := newService(newFakeBookingRepo(pendingBooking(1)))

	_, err := svc.Approve(context.Background(), 1, &models.ApproveBookingRequest{AdminID: ownerID})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestReject(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	svc := newService(repo)

	resp, err := svc.Reject(context.Background(), 1, &models.RejectBookingRequest{
		AdminID: adminID,
		Reason:  "maintenance window",
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRejected), resp.Status)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "maintenance window", *resp.RejectionReason)
}

func TestReject_ReasonRequired(t *testing.T) {
	svc := newService(newFakeBookingRepo(pendingBooking(1)))

	_, err := svc.Reject(context.Background(), 1, &models.RejectBookingRequest{
		AdminID: adminID,
		Reason:  "   ",
	})
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestCancel(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	svc := newService(repo)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CallerID: ownerID})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.bookings[1].Status)
	assert.NotNil(t, repo.bookings[1].CancelledAt)
}

func TestCancel_AdminCanCancelAnyBooking(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	svc := newService(repo)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CallerID: adminID})
	require.NoError(t, err)
}

func TestCancel_StrangerDenied(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(1))
	svc := newService(repo)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CallerID: otherID})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, repo.bookings[1].Status)
}

func TestCancel_EndedBooking(t *testing.T) {
	b := pendingBooking(1)
	b.StartTime = testNow.Add(-3 * time.Hour)
	b.EndTime = testNow.Add(-time.Hour)
	svc := newService(newFakeBookingRepo(b))

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CallerID: ownerID})
	assert.ErrorIs(t, err, ErrBookingEnded)
}

func TestCancel_TerminalStatus(t *testing.T) {
	b := pendingBooking(1)
	b.Status = domain.StatusCompleted
	svc := newService(newFakeBookingRepo(b))

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CallerID: ownerID})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}
