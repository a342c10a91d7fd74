package models

import (
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckedAdd(t *testing.T) {
	sum, err := CheckedAdd(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sum)

	sum, err = CheckedAdd(math.MaxUint64, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	_, err = CheckedAdd(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestCheckedSub(t *testing.T) {
	diff, err := CheckedSub(5, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), diff)

	_, err = CheckedSub(4, 5)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestCheckedMul(t *testing.T) {
	product, err := CheckedMul(500, 150)
	require.NoError(t, err)
	assert.Equal(t, uint64(75000), product)

	product, err = CheckedMul(0, math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), product)

	_, err = CheckedMul(math.MaxUint64, 2)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusForError(ErrUnauthorized))
	assert.Equal(t, http.StatusUnauthorized, StatusForError(ErrDelegationInvalid))
	assert.Equal(t, http.StatusConflict, StatusForError(ErrRecordAlreadyExists))
	assert.Equal(t, http.StatusBadRequest, StatusForError(ErrInsufficientBalance))
	assert.Equal(t, http.StatusBadRequest, StatusForError(ErrBetNotExpired))
	assert.Equal(t, http.StatusBadRequest, StatusForError(ErrArithmeticOverflow))
	assert.Equal(t, http.StatusInternalServerError, StatusForError(assert.AnError))
}
