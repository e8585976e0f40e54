package simpletxmanager

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

	// Обертка ошибки фиксации сохраняет цепочку для повтора DoSerializable
	commitErr := fmt.Errorf("%w: commit: %w", ErrTransaction, serializationErr)
	assert.True(t, isSerializationFailure(commitErr))

	assert.False(t, isSerializationFailure(nil))
	assert.False(t, isSerializationFailure(errors.New("plain error")))
	assert.False(t, isSerializationFailure(&pq.Error{Code: "23505"}))
}
