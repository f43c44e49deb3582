package models

import (
	"time"

	"gorm.io/gorm"
)

// User 平台账号（管理员 / 供应商 / 推广员）
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                 // 主键
	Username           string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"` // 登录名
	PasswordHash       string         `gorm:"not null" json:"-"`                                    // 密码哈希
	DisplayName        string         `gorm:"type:varchar(100);default:''" json:"display_name"`     // 显示名称
	Role               string         `gorm:"type:varchar(20);index;not null" json:"role"`          // 角色
	Status             string         `gorm:"type:varchar(20);default:'active'" json:"status"`      // 账号状态
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                          // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                                       // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                                        // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                              // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
