package models

import (
	"time"

	"github.com/foodhub-next/internal/constants"
)

// Order 订单表（只追加，不删除）
// 创建后 items / promo / supplier 不再变化，仅 status、promo_status、settlement_status 可变。
type Order struct {
	ID               uint                  `gorm:"primarykey" json:"id"`                                                 // 主键
	Code             string                `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`                    // 订单编号
	SupplierID       uint                  `gorm:"not null;index:idx_orders_supplier_queue,priority:1" json:"supplier_id"` // 供应商ID
	CustomerName     string                `gorm:"type:varchar(100)" json:"customer_name"`                               // 顾客姓名
	CustomerPhone    string                `gorm:"type:varchar(32);index" json:"customer_phone"`                         // 顾客电话
	DeliveryAddress  string                `gorm:"type:varchar(255)" json:"delivery_address"`                            // 配送地址
	FulfillmentType  string                `gorm:"type:varchar(20);not null;default:'delivery'" json:"fulfillment_type"` // delivery / pickup
	Status           constants.OrderStatus `gorm:"type:varchar(32);not null;index:idx_orders_supplier_queue,priority:2" json:"status"` // 履约状态
	TotalAmount      Money                 `gorm:"type:decimal(20,2);default:0" json:"total_amount"`                     // 顾客实付
	TotalCost        Money                 `gorm:"type:decimal(20,2);default:0" json:"total_cost"`                       // 供应商成本合计
	DiscountAmount   Money                 `gorm:"type:decimal(20,2);default:0" json:"discount_amount"`                  // 顾客优惠合计
	PlatformMargin   Money                 `gorm:"type:decimal(20,2);default:0" json:"platform_margin"`                  // 供应商应付平台毛利
	PromoPartnerID   *uint                 `gorm:"index" json:"promo_partner_id,omitempty"`                              // 推广员ID
	PromoCode        string                `gorm:"type:varchar(32)" json:"promo_code,omitempty"`                         // 推广码
	PromoCommission  Money                 `gorm:"type:decimal(20,2);default:0" json:"promo_commission"`                 // 推广佣金
	PromoStatus      constants.PromoStatus `gorm:"type:varchar(20);index" json:"promo_status,omitempty"`                 // 佣金状态
	PromoPaidAt      *time.Time            `json:"promo_paid_at,omitempty"`                                              // 佣金入账时间
	SettlementStatus string                `gorm:"type:varchar(20);not null;default:'unpaid';index" json:"settlement_status"` // 结算状态
	SettlementID     *uint                 `gorm:"index" json:"settlement_id,omitempty"`                                 // 结算单ID
	CancelReason     string                `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`                     // 取消原因
	DeliveredAt      *time.Time            `gorm:"index" json:"delivered_at,omitempty"`                                  // 送达时间
	CompletedAt      *time.Time            `json:"completed_at,omitempty"`                                               // 完成时间
	CancelledAt      *time.Time            `json:"cancelled_at,omitempty"`                                               // 取消时间
	CreatedAt        time.Time             `gorm:"index:idx_orders_supplier_queue,priority:3" json:"created_at"`         // 创建时间
	UpdatedAt        time.Time             `gorm:"index" json:"updated_at"`                                              // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// HasPromo 订单是否携带推广信息
func (o *Order) HasPromo() bool {
	return o != nil && o.PromoPartnerID != nil && *o.PromoPartnerID > 0
}
