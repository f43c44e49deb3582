package models

import "time"

// OrderItem 订单项（下单时价格快照）
type OrderItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                  // 主键
	OrderID      uint      `gorm:"not null;index" json:"order_id"`                        // 订单ID
	ProductID    uint      `gorm:"not null;index" json:"product_id"`                      // 商品ID
	ProductName  string    `gorm:"type:varchar(200)" json:"product_name"`                 // 商品名称快照
	SellingPrice Money     `gorm:"type:decimal(20,2);default:0" json:"selling_price"`     // 标价
	UnitPrice    Money     `gorm:"type:decimal(20,2);default:0" json:"unit_price"`        // 成交单价（扣除优惠）
	UnitCost     Money     `gorm:"type:decimal(20,2);default:0" json:"unit_cost"`         // 供应商成本单价
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`                    // 数量
	Commission   Money     `gorm:"type:decimal(20,2);default:0" json:"commission"`        // 单件佣金
	Discount     Money     `gorm:"type:decimal(20,2);default:0" json:"discount"`          // 单件优惠
	TierName     string    `gorm:"type:varchar(64)" json:"tier_name,omitempty"`           // 计算时的推广等级
	CreatedAt    time.Time `json:"created_at"`                                            // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
