package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleWalk(t *testing.T) {
	s := StatusPending
	var walked []Status
	for {
		next, ok := s.Next()
		if !ok {
			break
		}
		var err error
		s, err = s.Transition(next)
		require.NoError(t, err)
		walked = append(walked, s)
	}

	assert.Equal(t, []Status{StatusPaid, StatusPreparing, StatusShipped, StatusDelivering, StatusDelivered, StatusCompleted}, walked)
	assert.True(t, s.Terminal())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusShipped, false},
		{StatusPaid, StatusPending, false},
		{StatusShipped, StatusCancelled, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusDelivered, StatusCompleted, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusCancelled.Valid())
	assert.True(t, StatusDelivering.Valid())
	assert.False(t, Status("lost").Valid())
}

func TestMethods(t *testing.T) {
	assert.True(t, PaymentConvenience.Valid())
	assert.False(t, PaymentMethod("cash").Valid())
	assert.Equal(t, int64(500), ShippingExpress.Surcharge())
	assert.Equal(t, int64(300), ShippingScheduled.Surcharge())
	assert.Equal(t, int64(0), ShippingStandard.Surcharge())
	assert.False(t, ShippingMethod("drone").Valid())
}

func TestPayable(t *testing.T) {
	o := Order{TotalAmount: 3960, DiscountAmount: 396, ShippingFee: 500}
	assert.Equal(t, int64(4064), o.Payable())
}
