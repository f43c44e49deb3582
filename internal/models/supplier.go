package models

import "time"

// Supplier 供应商档案
type Supplier struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                             // 主键
	UserID       uint      `gorm:"not null;uniqueIndex" json:"user_id"`                              // 账号ID
	Name         string    `gorm:"type:varchar(120);not null" json:"name"`                           // 店铺名称
	Phone        string    `gorm:"type:varchar(32)" json:"phone"`                                    // 联系电话
	Address      string    `gorm:"type:varchar(255)" json:"address"`                                 // 地址
	Status       string    `gorm:"type:varchar(20);not null;index;default:'active'" json:"status"`   // 状态 active/suspended
	PlatformDebt Money     `gorm:"type:decimal(20,2);not null;default:0" json:"platform_debt"`       // 待结算平台毛利
	TotalSettled Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_settled"`       // 累计已结算
	SettledAt    *time.Time `json:"settled_at"`                                                      // 最近结算时间
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt    time.Time `gorm:"index" json:"updated_at"`                                          // 更新时间

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 账号
}

// TableName 指定表名
func (Supplier) TableName() string {
	return "suppliers"
}
