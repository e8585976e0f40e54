package txmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	serializationErr := &pq.Error{Code: "40001"}

	assert.True(t, isSerializationFailure(serializationErr))

	// Ошибка фиксации оборачивается с сохранением цепочки - конфликт
	// на COMMIT должен распознаваться для повтора DoSerializable
	commitErr := fmt.Errorf("%w: commit: %w", ErrTransaction, serializationErr)
	assert.True(t, isSerializationFailure(commitErr))

	// Конфликт внутри транзакции проходит через обертки репозитория
	// и usecase; цепочка должна переживать оба уровня
	repoErr := fmt.Errorf("%w: GetOverlapping - execute query: %w",
		errors.New("booking.repository: failed to execute query"), serializationErr)
	usecaseErr := fmt.Errorf("%w: failed to get overlapping bookings: %w",
		errors.New("create_booking: internal error"), repoErr)
	assert.True(t, isSerializationFailure(usecaseErr))

	assert.False(t, isSerializationFailure(nil))
	assert.False(t, isSerializationFailure(errors.New("plain error")))
	assert.False(t, isSerializationFailure(&pq.Error{Code: "23505"}))
	// Обертка без %w разрывает цепочку и не распознается
	assert.False(t, isSerializationFailure(fmt.Errorf("commit: %v", serializationErr)))
}
