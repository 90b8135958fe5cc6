package order_test

import (
	"fmt"
	"testing"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	t.Run("should have correct enum values", func(t *testing.T) {
		assert.Equal(t, 0, int(order.Unknown))
		assert.Equal(t, 1, int(order.Pending))
		assert.Equal(t, 4, int(order.InTransit))
		assert.Equal(t, 6, int(order.Cancelled))
	})

	t.Run("should list every valid status", func(t *testing.T) {
		assert.Len(t, order.AllStatuses(), 6)
		for _, s := range order.AllStatuses() {
			require.NoError(t, s.Validate())
		}
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should reject Unknown status", func(t *testing.T) {
		err := order.Unknown.Validate()

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
		assert.Contains(t, err.Error(), "0 is not a valid status")
	})

	t.Run("should reject out of range values", func(t *testing.T) {
		for _, s := range []order.Status{-1, 7, 100} {
			require.Error(t, s.Validate(), "status %d", int(s))
		}
	})
}

func TestStatus_StringAndParse(t *testing.T) {
	names := map[order.Status]string{
		order.Pending:        "pending",
		order.Preparing:      "preparing",
		order.ReadyForPickup: "ready_for_pickup",
		order.InTransit:      "in_transit",
		order.Delivered:      "delivered",
		order.Cancelled:      "cancelled",
	}

	for status, name := range names {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, status.String())

			parsed, err := order.ParseStatus(name)
			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		})
	}

	t.Run("unknown names are rejected", func(t *testing.T) {
		for _, name := range []string{"", "unknown", "In-Transit", "DELIVERED"} {
			_, err := order.ParseStatus(name)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, "name %q", name)
		}
	})

	assert.Equal(t, "unknown", order.Status(42).String())
}

func TestStatus_TransitionTable(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.Pending:        {order.Preparing, order.InTransit, order.Cancelled},
		order.Preparing:      {order.ReadyForPickup, order.InTransit, order.Cancelled},
		order.ReadyForPickup: {order.InTransit, order.Cancelled},
		order.InTransit:      {order.Delivered},
	}

	for _, from := range append(order.AllStatuses(), order.Unknown) {
		for _, to := range order.AllStatuses() {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}

			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				next, err := from.TransitionTo(to)

				if want {
					require.NoError(t, err)
					assert.Equal(t, to, next)
					return
				}
				require.ErrorIs(t, err, errs.ErrInvalidTransition)
				require.ErrorIs(t, err, errs.ErrConflict)
				assert.Equal(t, order.Unknown, next)
			})
		}
	}
}

func TestStatus_Predicates(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.InTransit.IsTerminal())

	assert.ElementsMatch(t, []order.Status{order.Pending, order.Preparing, order.ReadyForPickup}, order.ClaimableStatuses())
	for _, s := range order.ClaimableStatuses() {
		assert.True(t, s.IsClaimable())
		assert.False(t, s.RequiresDriver())
	}
	assert.False(t, order.InTransit.IsClaimable())
}

func TestStatus_ValidateCanHaveDriver(t *testing.T) {
	for _, s := range order.AllStatuses() {
		t.Run(s.String(), func(t *testing.T) {
			if s == order.InTransit || s == order.Delivered {
				require.NoError(t, s.ValidateCanHaveDriver(true))
				require.Error(t, s.ValidateCanHaveDriver(false))
				return
			}
			require.NoError(t, s.ValidateCanHaveDriver(false))
			err := s.ValidateCanHaveDriver(true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not a valid status to have a driver")
		})
	}
}
