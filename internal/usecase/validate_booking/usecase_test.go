package validate_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceBookingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ResourceBookingService/pkg/ptr"
)

type fakeBookingRepo struct {
	windowBookings  []*domain.Booking
	userOverlapping []*domain.Booking
}

func (f *fakeBookingRepo) GetUserBookingsBetween(_ context.Context, _ int64, _, _ time.Time, _ *int64) ([]*domain.Booking, error) {
	return f.windowBookings, nil
}

func (f *fakeBookingRepo) GetUserOverlapping(_ context.Context, _ int64, _, _ time.Time, _ *int64) ([]*domain.Booking, error) {
	return f.userOverlapping, nil
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
	user *userservice.User
}

func (f *fakeUserClient) GetUser(_ context.Context, _ int64) (*userservice.User, error) {
	if f.user == nil {
		return nil, userservice.ErrUserNotFound
	}
	return f.user, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type env struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	resource *fakeResourceRepo
	limits   *fakeLimitRepo
	users    *fakeUserClient
}

func newEnv() *env {
	e := &env{
		bookings: &fakeBookingRepo{},
		resource: &fakeResourceRepo{
			resource: &domain.Resource{ID: 1, TotalCapacity: 100, Status: domain.ResourceStatusAvailable, IsActive: true},
		},
		limits: &fakeLimitRepo{},
		users:  &fakeUserClient{user: &userservice.User{ID: 7, Role: userservice.RoleUser, IsActive: true}},
	}
	e.uc = NewUseCase(
		e.bookings, e.resource, e.limits, e.users,
		fakeTxManager{}, domain.DefaultQuotas{}, nopLogger{},
	)
	return e
}

func validRequest() *Request {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	return &Request{
		UserID:      7,
		ResourceID:  1,
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		BookingType: "shared",
	}
}

func TestExecute_ValidWhenNoLimits(t *testing.T) {
	e := newEnv()

	resp, err := e.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Violations)
}

func TestExecute_ReportsViolationsWithoutCreating(t *testing.T) {
	e := newEnv()
	req := validRequest()
	e.limits.limits = []*domain.ResourceLimit{
		{IsActive: true, MaxHoursPerDay: ptr.Ptr(1)},
	}
	e.bookings.windowBookings = []*domain.Booking{
		{
			Status:            domain.StatusApproved,
			RequestedQuantity: 1,
			StartTime:         req.StartTime.Add(-4 * time.Hour),
			EndTime:           req.StartTime.Add(-2 * time.Hour),
		},
	}

	resp, err := e.uc.Execute(context.Background(), req)

	// Нарушение квоты - корректный ответ превью, а не ошибка
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	require.NotEmpty(t, resp.Violations)
	assert.Contains(t, resp.Violations[0], "daily limit of 1h")
	assert.InDelta(t, 2.0, resp.Usage.DailyHours, 0.001)
}

// Превью и принудительная проверка при создании используют одну и ту же
// чистую функцию оценки квот: вердикты на одинаковом снимке данных совпадают
func TestExecute_MatchesEnforcementVerdict(t *testing.T) {
	e := newEnv()
	req := validRequest()
	e.uc.defaultQuotas = domain.DefaultQuotas{MaxConcurrentBookings: 1}
	e.bookings.userOverlapping = []*domain.Booking{
		{
			Status:            domain.StatusPending,
			RequestedQuantity: 1,
			StartTime:         req.StartTime,
			EndTime:           req.EndTime,
		},
	}

	resp, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.Valid)

	// Тот же снимок через прямой вызов доменной проверки дает тот же вердикт
	check := domain.EvaluateLimits(
		[]domain.ResourceLimit{domain.SystemDefaultLimit(7, e.uc.defaultQuotas)},
		domain.LimitCheckInput{
			StartTime:           req.StartTime,
			EndTime:             req.EndTime,
			BookingType:         domain.BookingTypeShared,
			OverlappingBookings: e.bookings.userOverlapping,
		},
	)
	assert.Equal(t, check.Valid, resp.Valid)
	assert.Equal(t, check.Violations, resp.Violations)
	assert.Equal(t, check.Usage, resp.Usage)
}

func TestExecute_ResourceNotFound(t *testing.T) {
	e := newEnv()
	e.resource.resource = nil

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_UserNotFound(t *testing.T) {
	e := newEnv()
	e.users.user = nil

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// Повторная проверка при неизменном состоянии возвращает идентичный результат:
// превью ничего не записывает и зависит только от снимка данных
func TestExecute_RepeatedCallsReturnIdenticalVerdict(t *testing.T) {
	e := newEnv()
	req := validRequest()
	e.limits.limits = []*domain.ResourceLimit{
		{IsActive: true, MaxHoursPerDay: ptr.Ptr(1), Priority: 10},
		{IsActive: true, MaxBookingsPerDay: ptr.Ptr(1), Priority: 5},
	}
	e.bookings.windowBookings = []*domain.Booking{
		{
			Status:            domain.StatusApproved,
			RequestedQuantity: 1,
			StartTime:         req.StartTime.Add(-4 * time.Hour),
			EndTime:           req.StartTime.Add(-2 * time.Hour),
		},
	}

	first, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.False(t, first.Valid)
	require.NotEmpty(t, first.Violations)

	second, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := e.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestExecute_InvalidInput(t *testing.T) {
	e := newEnv()
	req := validRequest()
	req.EndTime = req.StartTime

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
