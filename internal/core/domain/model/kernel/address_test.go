package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("should create address with valid values", func(t *testing.T) {
		address, err := kernel.NewAddress("12 Baker Street", "London")

		require.NoError(t, err)
		require.NoError(t, address.Validate())
		assert.Equal(t, "12 Baker Street", address.Street())
		assert.Equal(t, "London", address.City())
		assert.Equal(t, "12 Baker Street, London", address.String())
	})

	t.Run("should reject empty street", func(t *testing.T) {
		_, err := kernel.NewAddress("", "London")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject empty city", func(t *testing.T) {
		_, err := kernel.NewAddress("12 Baker Street", "")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestAddress_Validate(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var address kernel.Address

		err := address.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrAddressIsNotConstructed, err)
	})
}

func TestAddress_IsEqual(t *testing.T) {
	first, err := kernel.NewAddress("12 Baker Street", "London")
	require.NoError(t, err)
	second, err := kernel.NewAddress("12 Baker Street", "London")
	require.NoError(t, err)
	third, err := kernel.NewAddress("1 Abbey Road", "London")
	require.NoError(t, err)

	assert.True(t, first.IsEqual(second))
	assert.False(t, first.IsEqual(third))
}
