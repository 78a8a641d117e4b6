package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/ramjee-dev/pizzeria-microservices-system/internal/errs"
)

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "not found",
			err:  fmt.Errorf("order not found with ID 9: %w", errs.ErrNotFound),
			want: fiber.StatusNotFound,
		},
		{
			name: "validation",
			err:  fmt.Errorf("user ID is required: %w", errs.ErrValidation),
			want: fiber.StatusBadRequest,
		},
		{
			name: "anything else",
			err:  errors.New("db exploded"),
			want: fiber.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, errorStatus(tc.err))
		})
	}
}
