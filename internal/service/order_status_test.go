package service

import (
	"errors"
	"testing"

	"github.com/foodhub-next/internal/constants"
)

func TestCheckOrderTransitionTable(t *testing.T) {
	cases := []struct {
		name        string
		current     constants.OrderStatus
		target      constants.OrderStatus
		fulfillment string
		noop        bool
		wantErr     error
	}{
		{"pending to preparing", constants.OrderStatusPending, constants.OrderStatusPreparing, constants.FulfillmentTypeDelivery, false, nil},
		{"preparing to in delivery", constants.OrderStatusPreparing, constants.OrderStatusInDelivery, constants.FulfillmentTypeDelivery, false, nil},
		{"preparing to ready for pickup", constants.OrderStatusPreparing, constants.OrderStatusReadyForPickup, constants.FulfillmentTypePickup, false, nil},
		{"skip to delivered", constants.OrderStatusPreparing, constants.OrderStatusDelivered, constants.FulfillmentTypeDelivery, false, nil},
		{"delivered to completed", constants.OrderStatusDelivered, constants.OrderStatusCompleted, constants.FulfillmentTypeDelivery, false, nil},
		{"same status", constants.OrderStatusDelivered, constants.OrderStatusDelivered, constants.FulfillmentTypeDelivery, true, nil},
		{"delivered back to preparing", constants.OrderStatusDelivered, constants.OrderStatusPreparing, constants.FulfillmentTypeDelivery, false, ErrInvalidTransition},
		{"in delivery to ready for pickup", constants.OrderStatusInDelivery, constants.OrderStatusReadyForPickup, constants.FulfillmentTypePickup, false, ErrInvalidTransition},
		{"delivery order to pickup", constants.OrderStatusPreparing, constants.OrderStatusReadyForPickup, constants.FulfillmentTypeDelivery, false, ErrFulfillmentTypeMismatch},
		{"pickup order to delivery", constants.OrderStatusPreparing, constants.OrderStatusInDelivery, constants.FulfillmentTypePickup, false, ErrFulfillmentTypeMismatch},
		{"cancel pending", constants.OrderStatusPending, constants.OrderStatusCancelled, constants.FulfillmentTypeDelivery, false, nil},
		{"cancel ready for pickup", constants.OrderStatusReadyForPickup, constants.OrderStatusCancelled, constants.FulfillmentTypePickup, false, nil},
		{"cancel in delivery", constants.OrderStatusInDelivery, constants.OrderStatusCancelled, constants.FulfillmentTypeDelivery, false, ErrInvalidTransition},
		{"cancel delivered", constants.OrderStatusDelivered, constants.OrderStatusCancelled, constants.FulfillmentTypeDelivery, false, ErrInvalidTransition},
		{"cancelled is terminal", constants.OrderStatusCancelled, constants.OrderStatusPreparing, constants.FulfillmentTypeDelivery, false, ErrInvalidTransition},
		{"unknown target", constants.OrderStatusPending, constants.OrderStatus("shipped"), constants.FulfillmentTypeDelivery, false, ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			noop, err := checkOrderTransition(tc.current, tc.target, tc.fulfillment)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("want error %v got %v", tc.wantErr, err)
			}
			if noop != tc.noop {
				t.Fatalf("noop want %v got %v", tc.noop, noop)
			}
		})
	}
}

func TestFulfillmentMismatchIsInvalidTransition(t *testing.T) {
	_, err := checkOrderTransition(constants.OrderStatusPreparing, constants.OrderStatusReadyForPickup, constants.FulfillmentTypeDelivery)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("fulfillment mismatch should also match ErrInvalidTransition, got %v", err)
	}
}

func TestReachesDelivered(t *testing.T) {
	if !reachesDelivered(constants.OrderStatusInDelivery, constants.OrderStatusDelivered) {
		t.Fatalf("in_delivery -> delivered should reach delivered")
	}
	if !reachesDelivered(constants.OrderStatusReadyForPickup, constants.OrderStatusCompleted) {
		t.Fatalf("skipping delivered should still count as reaching delivered")
	}
	if reachesDelivered(constants.OrderStatusDelivered, constants.OrderStatusCompleted) {
		t.Fatalf("delivered -> completed must not count twice")
	}
	if reachesDelivered(constants.OrderStatusPending, constants.OrderStatusCancelled) {
		t.Fatalf("cancellation never reaches delivered")
	}
}
