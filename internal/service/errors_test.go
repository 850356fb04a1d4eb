package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := Errf(KindInsufficientStock, "insufficient stock for product %s", "Clavier")
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Equal(t, "insufficient stock for product Clavier", err.Error())

	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, KindInsufficientStock, KindOf(wrapped))

	assert.Equal(t, KindPersistence, KindOf(errors.New("boom")))
}

func TestWrapErrKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapErr(KindPersistence, cause, "failed to load order")

	assert.Equal(t, KindPersistence, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
