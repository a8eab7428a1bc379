package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotEnoughResourcesCarriesFields(t *testing.T) {
	err := fmt.Errorf("sell: %w", &NotEnoughResourcesError{ProductID: "P1", Requested: 1000, Available: 20})

	var ne *NotEnoughResourcesError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "P1", ne.ProductID)
	assert.Equal(t, 1000, ne.Requested)
	assert.Equal(t, 20, ne.Available)
	assert.Contains(t, err.Error(), "requested 1000, available 20")
}

func TestIsUnknownKey(t *testing.T) {
	err := fmt.Errorf("lookup: %w", UnknownKey(ObjectProduct, "P9"))
	assert.True(t, IsUnknownKey(err, ObjectProduct))
	assert.False(t, IsUnknownKey(err, ObjectPartner))
	assert.False(t, IsUnknownKey(errors.New("boom"), ObjectProduct))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{UnknownKey(ObjectPartner, "x"), http.StatusNotFound},
		{&NotEnoughResourcesError{ProductID: "p"}, http.StatusConflict},
		{DuplicateKey(ObjectProduct, "p"), http.StatusConflict},
		{fmt.Errorf("pay: %w", ErrAlreadyPaid), http.StatusConflict},
		{Invalid("amount must be positive, got %d", 0), http.StatusBadRequest},
		{fmt.Errorf("login: %w", ErrUnauthorized), http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), c.err.Error())
	}
}
