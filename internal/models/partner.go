package models

import "time"

// Partner 推广合作伙伴档案
type Partner struct {
	ID                  uint      `gorm:"primarykey" json:"id"`                                          // 主键
	UserID              uint      `gorm:"not null;uniqueIndex" json:"user_id"`                           // 账号ID
	Name                string    `gorm:"type:varchar(120);not null" json:"name"`                        // 名称
	PromoCode           string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"promo_code"`       // 推广码
	IsActive            bool      `gorm:"not null;default:true;index" json:"is_active"`                  // 是否启用
	TotalValidatedSales int64     `gorm:"not null;default:0" json:"total_validated_sales"`               // 累计已确认销售笔数
	WalletBalance       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"wallet_balance"`   // 钱包余额
	TotalEarnings       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_earnings"`   // 累计佣金
	TotalWithdrawn      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_withdrawn"`  // 累计提现
	CreatedAt           time.Time `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt           time.Time `gorm:"index" json:"updated_at"`                                       // 更新时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 账号
}

// TableName 指定表名
func (Partner) TableName() string {
	return "partners"
}
