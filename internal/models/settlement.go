package models

import "time"

// Settlement 供应商结算声明
// 由供应商提交，管理员审核一次后终态。
type Settlement struct {
	ID                uint       `gorm:"primarykey" json:"id"`                                                                   // 主键
	SupplierID        uint       `gorm:"not null;index;uniqueIndex:idx_settlement_supplier_ref,priority:1" json:"supplier_id"`   // 供应商ID
	Amount            Money      `gorm:"type:decimal(20,2);not null" json:"amount"`                                              // 声明付款金额
	TransactionRef    string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_settlement_supplier_ref,priority:2" json:"transaction_ref"` // 转账流水号
	Status            string     `gorm:"type:varchar(20);not null;index" json:"status"`                                          // pending/approved/rejected
	ProcessedOrderIDs UintArray  `gorm:"type:json" json:"processed_order_ids"`                                                   // 本次核销订单
	ReconciledAmount  Money      `gorm:"type:decimal(20,2);default:0" json:"reconciled_amount"`                                  // 核销订单毛利合计
	RejectReason      string     `gorm:"type:varchar(255)" json:"reject_reason,omitempty"`                                       // 驳回原因
	ReviewedBy        *uint      `json:"reviewed_by,omitempty"`                                                                  // 审核管理员
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`                                                                  // 审核时间
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`                                                                // 创建时间
	UpdatedAt         time.Time  `gorm:"index" json:"updated_at"`                                                                // 更新时间

	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"` // 供应商
}

// TableName 指定表名
func (Settlement) TableName() string {
	return "settlements"
}
