package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shipbid/apiserver/internal/store"
	"github.com/shipbid/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTransitionLegal(t *testing.T) {
	repo := &fakeOrderRepo{orders: map[int]types.Order{
		1: {ID: 1, AuctionID: 2, ShipperID: 3, CustomerID: 4, Status: types.StatusConfirm, Active: true},
	}}
	publisher := &capturePublisher{}
	service := NewOrderService(repo, publisher)

	updated, err := service.Transition(context.Background(), 1, types.StatusDelivering)
	require.NoError(t, err)
	assert.Equal(t, types.StatusDelivering, updated.Status)
	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, types.StatusConfirm, repo.lastFrom)
	assert.Equal(t, types.StatusDelivering, repo.lastTo)

	require.Len(t, publisher.channels, 1)
	assert.Equal(t, OrderEventsChannel, publisher.channels[0])

	var event OrderEvent
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &event))
	assert.Equal(t, EventOrderStatusChanged, event.Kind)
	assert.Equal(t, 1, event.OrderID)
	assert.Equal(t, types.StatusDelivering, event.Status)
	assert.Equal(t, types.StatusConfirm, event.PrevStatus)
}

func TestOrderTransitionIllegal(t *testing.T) {
	tests := []struct {
		name string
		from types.OrderStatus
		to   types.OrderStatus
	}{
		{"skip delivering", types.StatusConfirm, types.StatusReceived},
		{"repeat current", types.StatusConfirm, types.StatusConfirm},
		{"backwards", types.StatusDelivering, types.StatusConfirm},
		{"from received", types.StatusReceived, types.StatusCancel},
		{"from cancel", types.StatusCancel, types.StatusDelivering},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeOrderRepo{orders: map[int]types.Order{
				1: {ID: 1, Status: tt.from, Active: true},
			}}
			publisher := &capturePublisher{}
			service := NewOrderService(repo, publisher)

			_, err := service.Transition(context.Background(), 1, tt.to)
			assert.ErrorIs(t, err, store.ErrConflict)
			assert.Zero(t, repo.updateCalls, "illegal transition must not reach the repository")
			assert.Empty(t, publisher.channels)
		})
	}
}

func TestOrderTransitionMissingOrder(t *testing.T) {
	service := NewOrderService(&fakeOrderRepo{orders: map[int]types.Order{}}, nil)

	_, err := service.Transition(context.Background(), 42, types.StatusDelivering)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOrderTransitionLostRace(t *testing.T) {
	repo := &fakeOrderRepo{
		orders:    map[int]types.Order{1: {ID: 1, Status: types.StatusConfirm, Active: true}},
		updateErr: store.ErrConflict,
	}
	publisher := &capturePublisher{}
	service := NewOrderService(repo, publisher)

	_, err := service.Transition(context.Background(), 1, types.StatusDelivering)
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.Empty(t, publisher.channels)
}

func TestOrderTransitionWithoutPublisher(t *testing.T) {
	repo := &fakeOrderRepo{orders: map[int]types.Order{
		1: {ID: 1, Status: types.StatusDelivering, Active: true},
	}}
	service := NewOrderService(repo, nil)

	updated, err := service.Transition(context.Background(), 1, types.StatusReceived)
	require.NoError(t, err)
	assert.Equal(t, types.StatusReceived, updated.Status)
}
