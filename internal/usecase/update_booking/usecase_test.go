package update_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/booking"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

// --- фейки ---

type fakeBookingRepo struct {
	booking         *domain.Booking
	overlapping     []*domain.Booking
	windowBookings  []*domain.Booking
	userOverlapping []*domain.Booking

	overlapExcludeID *int64
	windowExcludeID  *int64
	userOverlExclID  *int64

	saved *domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.booking == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) GetOverlapping(_ context.Context, _ int64, _, _ time.Time, excludeID *int64) ([]*domain.Booking, error) {
	f.overlapExcludeID = excludeID
	return f.overlapping, nil
}

func (f *fakeBookingRepo) GetUserBookingsBetween(_ context.Context, _ int64, _, _ time.Time, excludeID *int64) ([]*domain.Booking, error) {
	f.windowExcludeID = excludeID
	return f.windowBookings, nil
}

func (f *fakeBookingRepo) GetUserOverlapping(_ context.Context, _ int64, _, _ time.Time, excludeID *int64) ([]*domain.Booking, error) {
	f.userOverlExclID = excludeID
	return f.userOverlapping, nil
}

func (f *fakeBookingRepo) UpdateReservation(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	saved := *b
	saved.UpdatedAt = time.Now()
	f.saved = &saved
	return &saved, nil
}

type fakeResourceRepo struct {
	resource *domain.Resource
}

func (f *fakeResourceRepo) GetByID(_ context.Context, _ int64) (*domain.Resource, error) {
	if f.resource == nil {
		return nil, resourceRepo.ErrResourceNotFound
	}
	return f.resource, nil
}

type fakeLimitRepo struct {
	limits []*domain.ResourceLimit
}

func (f *fakeLimitRepo) GetActiveForBooking(_ context.Context, _ int64, _ []int64, _ int64) ([]*domain.ResourceLimit, error) {
	return f.limits, nil
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

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

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

var bookingStart = time.Date(2099, 6, 10, 10, 0, 0, 0, time.UTC)

type env struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	resource *fakeResourceRepo
	limits   *fakeLimitRepo
}

func newEnv() *env {
	e := &env{
		bookings: &fakeBookingRepo{
			booking: &domain.Booking{
				ID:                5,
				ResourceID:        1,
				UserID:            ownerID,
				Title:             "experiment",
				StartTime:         bookingStart,
				EndTime:           bookingStart.Add(2 * time.Hour),
				RequestedQuantity: 10,
				BookingType:       domain.BookingTypeShared,
				Status:            domain.StatusPending,
				Priority:          domain.PriorityNormal,
			},
		},
		resource: &fakeResourceRepo{
			resource: &domain.Resource{ID: 1, TotalCapacity: 100, Status: domain.ResourceStatusAvailable, IsActive: true},
		},
		limits: &fakeLimitRepo{},
	}
	users := &fakeUserClient{users: map[int64]*userservice.User{
		ownerID: {ID: ownerID, Role: userservice.RoleUser, IsActive: true},
		adminID: {ID: adminID, Role: userservice.RoleAdmin, IsActive: true},
		otherID: {ID: otherID, Role: userservice.RoleUser, IsActive: true},
	}}
	e.uc = NewUseCase(
		e.bookings, e.resource, e.limits, users,
		fakeTxManager{}, domain.DefaultQuotas{}, nopLogger{},
	)
	return e
}

// --- тесты ---

func TestExecute_OwnerUpdatesQuantity(t *testing.T) {
	e := newEnv()

	resp, err := e.uc.Execute(context.Background(), &Request{
		BookingID:         5,
		CallerID:          ownerID,
		RequestedQuantity: ptr.Ptr(20),
	})

	require.NoError(t, err)
	assert.Equal(t, 20, resp.RequestedQuantity)
	// Ожидающее бронирование остаётся без выделения
	assert.Nil(t, resp.AllocatedQuantity)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestExecute_ApprovedBookingKeepsFullAllocation(t *testing.T) {
	e := newEnv()
	e.bookings.booking.Status = domain.StatusApproved
	e.bookings.booking.AllocatedQuantity = ptr.Ptr(10)

	resp, err := e.uc.Execute(context.Background(), &Request{
		BookingID:         5,
		CallerID:          ownerID,
		RequestedQuantity: ptr.Ptr(30),
	})

	require.NoError(t, err)
	require.NotNil(t, resp.AllocatedQuantity)
	assert.Equal(t, 30, *resp.AllocatedQuantity)
}

// Собственное бронирование исключается из пересечений и из подсчета
// использования: иначе сдвиг интервала блокировался бы старой версией
func TestExecute_ExcludesOwnBookingFromChecks(t *testing.T) {
	e := newEnv()

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: 5,
		CallerID:  ownerID,
		StartTime: ptr.Ptr(bookingStart.Add(time.Hour)),
		EndTime:   ptr.Ptr(bookingStart.Add(3 * time.Hour)),
	})

	require.NoError(t, err)
	require.NotNil(t, e.bookings.overlapExcludeID)
	assert.Equal(t, int64(5), *e.bookings.overlapExcludeID)
	require.NotNil(t, e.bookings.windowExcludeID)
	assert.Equal(t, int64(5), *e.bookings.windowExcludeID)
	require.NotNil(t, e.bookings.userOverlExclID)
	assert.Equal(t, int64(5), *e.bookings.userOverlExclID)
}

func TestExecute_StrangerDenied(t *testing.T) {
	e := newEnv()

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: 5,
		CallerID:  otherID,
		Title:     ptr.Ptr("hijack"),
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, e.bookings.saved)
}

func TestExecute_AdminCanUpdateAnyBooking(t *testing.T) {
	e := newEnv()

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: 5,
		CallerID:  adminID,
		Title:     ptr.Ptr("rescheduled"),
	})

	require.NoError(t, err)
}

func TestExecute_NotUpdatable(t *testing.T) {
	e := newEnv()
	e.bookings.booking.Status = domain.StatusActive

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: 5,
		CallerID:  ownerID,
		Title:     ptr.Ptr("late edit"),
	})

	assert.ErrorIs(t, err, ErrNotUpdatable)
}

func TestExecute_EndedBooking(t *testing.T) {
	e := newEnv()
	past := time.Now().Add(-3 * time.Hour)
	e.bookings.booking.StartTime = past
	e.bookings.booking.EndTime = past.Add(time.Hour)

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: 5,
		CallerID:  ownerID,
		Title:     ptr.Ptr("too late"),
	})

	assert.ErrorIs(t, err, ErrBookingEnded)
}

func TestExecute_InsufficientCapacityAfterChange(t *testing.T) {
	e := newEnv()
	e.bookings.overlapping = []*domain.Booking{
		{Status: domain.StatusApproved, RequestedQuantity: 90},
	}

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID:         5,
		CallerID:          ownerID,
		RequestedQuantity: ptr.Ptr(20),
	})

	assert.ErrorIs(t, err, ErrInsufficientCapacity)
	assert.Nil(t, e.bookings.saved)
}

func TestExecute_LimitViolation(t *testing.T) {
	e := newEnv()
	e.limits.limits = []*domain.ResourceLimit{
		{IsActive: true, MaxHoursPerDay: ptr.Ptr(1)},
	}

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: 5,
		CallerID:  ownerID,
		EndTime:   ptr.Ptr(bookingStart.Add(4 * time.Hour)),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	var violation *LimitViolationError
	require.ErrorAs(t, err, &violation)
	assert.NotEmpty(t, violation.Violations)
}

func TestExecute_NoFieldsProvided(t *testing.T) {
	e := newEnv()

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: 5,
		CallerID:  ownerID,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_MergedIntervalValidated(t *testing.T) {
	e := newEnv()

	// Новый конец раньше существующего начала
	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: 5,
		CallerID:  ownerID,
		EndTime:   ptr.Ptr(bookingStart.Add(-time.Hour)),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_BookingNotFound(t *testing.T) {
	e := newEnv()
	e.bookings.booking = nil

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: 5,
		CallerID:  ownerID,
		Title:     ptr.Ptr("anything"),
	})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}
