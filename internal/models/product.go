package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品（供应商提交，管理员定价后上架）
type Product struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                                       // 主键
	SupplierID     uint           `gorm:"not null;index" json:"supplier_id"`                                          // 供应商ID
	Name           string         `gorm:"type:varchar(200);not null" json:"name"`                                     // 名称
	Description    string         `gorm:"type:text" json:"description"`                                               // 描述
	ImageURL       string         `gorm:"type:varchar(500)" json:"image_url"`                                         // 图片
	BuyingCost     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"buying_cost"`                   // 供应商成本价
	ProposedPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"proposed_price"`                // 供应商建议售价
	SellingPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"selling_price"`                 // 平台确定售价
	PlatformMargin Money          `gorm:"type:decimal(20,2);not null;default:0" json:"platform_margin"`               // 定价时冻结的毛利
	Status         string         `gorm:"type:varchar(32);not null;index;default:'pending_validation'" json:"status"` // 状态
	RejectReason   string         `gorm:"type:varchar(255)" json:"reject_reason,omitempty"`                           // 驳回原因
	ValidatedBy    *uint          `json:"validated_by,omitempty"`                                                     // 审核管理员
	ValidatedAt    *time.Time     `json:"validated_at,omitempty"`                                                     // 审核时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                                    // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                                    // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                             // 软删除时间

	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"` // 供应商
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
