package models

import "time"

// Withdrawal 推广员提现申请
type Withdrawal struct {
	ID           uint       `gorm:"primarykey" json:"id"`                          // 主键
	PartnerID    uint       `gorm:"not null;index" json:"partner_id"`              // 推广员ID
	Amount       Money      `gorm:"type:decimal(20,2);not null" json:"amount"`     // 提现金额
	Channel      string     `gorm:"type:varchar(50);not null" json:"channel"`      // 收款渠道
	Account      string     `gorm:"type:varchar(255);not null" json:"account"`     // 收款账号
	Status       string     `gorm:"type:varchar(32);not null;index" json:"status"` // 状态
	RejectReason string     `gorm:"type:varchar(255)" json:"reject_reason,omitempty"` // 驳回原因
	ProcessedBy  *uint      `json:"processed_by,omitempty"`                        // 处理管理员
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`                        // 处理时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt    time.Time  `gorm:"index" json:"updated_at"`                       // 更新时间

	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"` // 推广员
}

// TableName 指定表名
func (Withdrawal) TableName() string {
	return "withdrawals"
}
