package models

import "time"

// PartnerWalletTransaction 推广钱包流水（只追加）
type PartnerWalletTransaction struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                         // 主键
	PartnerID     uint      `gorm:"not null;index" json:"partner_id"`                             // 推广员ID
	Type          string    `gorm:"type:varchar(32);not null;index" json:"type"`                  // 流水类型
	Direction     string    `gorm:"type:varchar(8);not null" json:"direction"`                    // in / out
	Amount        Money     `gorm:"type:decimal(20,2);not null" json:"amount"`                    // 变动金额
	BalanceAfter  Money     `gorm:"type:decimal(20,2);not null" json:"balance_after"`             // 变动后余额
	Reference     string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"`       // 业务幂等键
	OrderID       *uint     `gorm:"index" json:"order_id,omitempty"`                              // 关联订单
	WithdrawalID  *uint     `gorm:"index" json:"withdrawal_id,omitempty"`                         // 关联提现
	Remark        string    `gorm:"type:varchar(255)" json:"remark"`                              // 备注
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                      // 创建时间
}

// TableName 指定表名
func (PartnerWalletTransaction) TableName() string {
	return "partner_wallet_transactions"
}
