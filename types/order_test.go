package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"CONFIRM", "DELIVERING", "RECEIVED", "CANCEL"} {
		status, err := ParseOrderStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(valid), status)
	}

	for _, invalid := range []string{"", "confirm", "SHIPPED", "DONE"} {
		_, err := ParseOrderStatus(invalid)
		assert.Error(t, err, "value %q", invalid)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusConfirm, StatusDelivering, true},
		{StatusConfirm, StatusCancel, true},
		{StatusConfirm, StatusReceived, false},
		{StatusConfirm, StatusConfirm, false},
		{StatusDelivering, StatusReceived, true},
		{StatusDelivering, StatusCancel, true},
		{StatusDelivering, StatusConfirm, false},
		{StatusDelivering, StatusDelivering, false},
		{StatusReceived, StatusCancel, false},
		{StatusReceived, StatusConfirm, false},
		{StatusCancel, StatusDelivering, false},
		{StatusCancel, StatusReceived, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, StatusConfirm.Terminal())
	assert.False(t, StatusDelivering.Terminal())
	assert.True(t, StatusReceived.Terminal())
	assert.True(t, StatusCancel.Terminal())
}
