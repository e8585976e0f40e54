package limit

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceBookingService/internal/domain"
)

// capturingExecutor записывает параметры запроса и возвращает ошибку,
// чтобы выполнение остановилось до сканирования строк
type capturingExecutor struct {
	query string
	args  []interface{}
	err   error
}

func (c *capturingExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	c.query = query
	c.args = args
	return nil, c.err
}

func (c *capturingExecutor) QueryContext(_ context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	c.query = query
	c.args = args
	return nil, c.err
}

func (c *capturingExecutor) QueryRowContext(_ context.Context, _ string, _ ...interface{}) *sql.Row {
	return nil
}

// Для пользователя в группах запрос должен охватывать все три вида целей:
// user для самого пользователя, group и group_per_person для его групп.
// Набор видов зафиксирован также CHECK-ограничением в схеме resource_limits.
func TestGetActiveForBooking_QueriesAllTargetKinds(t *testing.T) {
	executor := &capturingExecutor{err: errors.New("stop before scan")}
	repo := NewRepository(executor)

	_, err := repo.GetActiveForBooking(context.Background(), 42, []int64{7, 9}, 3)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrExecQuery)

	assert.Contains(t, executor.query, "target_kind")
	assert.Contains(t, executor.query, "resource_limits")

	kinds := make(map[string]bool)
	for _, arg := range executor.args {
		if s, ok := arg.(string); ok {
			kinds[s] = true
		}
	}
	assert.True(t, kinds[string(domain.LimitTargetUser)])
	assert.True(t, kinds[string(domain.LimitTargetGroup)])
	assert.True(t, kinds[string(domain.LimitTargetGroupPerPerson)])
}

// Без групп запрос адресует лимиты только пользователю напрямую
func TestGetActiveForBooking_NoGroups_QueriesUserKindOnly(t *testing.T) {
	executor := &capturingExecutor{err: errors.New("stop before scan")}
	repo := NewRepository(executor)

	_, err := repo.GetActiveForBooking(context.Background(), 42, nil, 3)
	require.Error(t, err)

	kinds := make(map[string]bool)
	for _, arg := range executor.args {
		if s, ok := arg.(string); ok {
			kinds[s] = true
		}
	}
	assert.True(t, kinds[string(domain.LimitTargetUser)])
	assert.False(t, kinds[string(domain.LimitTargetGroup)])
	assert.False(t, kinds[string(domain.LimitTargetGroupPerPerson)])
}
