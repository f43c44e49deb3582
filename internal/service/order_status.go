package service

import (
	"fmt"

	"github.com/foodhub-next/internal/constants"
)

// orderStatusRank 履约顺序，同一层级的两个状态互斥
var orderStatusRank = map[constants.OrderStatus]int{
	constants.OrderStatusPending:        0,
	constants.OrderStatusPreparing:      1,
	constants.OrderStatusInDelivery:     2,
	constants.OrderStatusReadyForPickup: 2,
	constants.OrderStatusDelivered:      3,
	constants.OrderStatusCompleted:      4,
}

// cancellableStatuses 允许取消的状态；配送中、已送达、已完成不可取消
var cancellableStatuses = map[constants.OrderStatus]bool{
	constants.OrderStatusPending:        true,
	constants.OrderStatusPreparing:      true,
	constants.OrderStatusReadyForPickup: true,
}

const rankDelivered = 3

// checkOrderTransition 校验状态迁移。
// 返回 noop=true 表示目标与当前状态一致（重复确认）。
func checkOrderTransition(current, target constants.OrderStatus, fulfillmentType string) (bool, error) {
	if !target.Valid() {
		return false, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}
	if current == target {
		return true, nil
	}
	if current == constants.OrderStatusCancelled {
		return false, fmt.Errorf("%w: order already cancelled", ErrInvalidTransition)
	}
	if target == constants.OrderStatusCancelled {
		if !cancellableStatuses[current] {
			return false, fmt.Errorf("%w: %s cannot be cancelled", ErrInvalidTransition, current)
		}
		return false, nil
	}

	currentRank, ok := orderStatusRank[current]
	if !ok {
		return false, fmt.Errorf("%w: unknown current status %q", ErrInvalidTransition, current)
	}
	targetRank := orderStatusRank[target]
	if targetRank <= currentRank {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
	}
	if expected := dispatchStatusFor(fulfillmentType); targetRank == orderStatusRank[expected] && target != expected {
		return false, fmt.Errorf("%w: %s order cannot enter %s", ErrFulfillmentTypeMismatch, fulfillmentType, target)
	}
	return false, nil
}

// dispatchStatusFor 配送方式对应的出餐后状态
func dispatchStatusFor(fulfillmentType string) constants.OrderStatus {
	if fulfillmentType == constants.FulfillmentTypePickup {
		return constants.OrderStatusReadyForPickup
	}
	return constants.OrderStatusInDelivery
}

// reachesDelivered 是否首次进入已送达及之后的层级（供应商应付平台毛利在此时计入）
func reachesDelivered(current, target constants.OrderStatus) bool {
	if target == constants.OrderStatusCancelled {
		return false
	}
	currentRank, ok := orderStatusRank[current]
	if !ok {
		return false
	}
	return currentRank < rankDelivered && orderStatusRank[target] >= rankDelivered
}

// releasesSupplierCapacity 进入该状态后释放供应商产能
func releasesSupplierCapacity(status constants.OrderStatus) bool {
	switch status {
	case constants.OrderStatusDelivered, constants.OrderStatusCompleted, constants.OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// isActiveOrderStatus 是否仍占用供应商产能
func isActiveOrderStatus(status constants.OrderStatus) bool {
	for _, item := range constants.ActiveOrderStatuses {
		if item == status {
			return true
		}
	}
	return false
}
