package repository

import (
	"strings"

	"github.com/foodhub-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 账号数据访问接口
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	List(filter UserListFilter) ([]models.User, int64, error)
	WithTx(tx *gorm.DB) UserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建账号仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetByID 按ID获取账号
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	return firstOrNil[models.User](r.db, id)
}

// GetByUsername 按登录名获取账号（不区分大小写）
func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(username))
	if normalized == "" {
		return nil, nil
	}
	return firstOrNil[models.User](r.db.Where("LOWER(username) = ?", normalized))
}

// Create 创建账号
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新账号
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// List 分页查询账号
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = applyKeyword(query, filter.Keyword, "username", "display_name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	if err := applyPagination(query, filter.Page, filter.PageSize).Order("id desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
