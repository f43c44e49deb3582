package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foodhub-next/internal/cache"
	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/repository"

	"gorm.io/gorm"
)

// RoleAssigner 账号角色挂载（由 authz 实现）
type RoleAssigner interface {
	SetUserRoles(userID uint, roles []string) error
}

// AccountService 平台账号管理
type AccountService struct {
	authService  *AuthService
	userRepo     repository.UserRepository
	supplierRepo repository.SupplierRepository
	partnerRepo  repository.PartnerRepository
	roles        RoleAssigner
}

// NewAccountService 创建账号服务
func NewAccountService(authService *AuthService, userRepo repository.UserRepository, supplierRepo repository.SupplierRepository, partnerRepo repository.PartnerRepository, roles RoleAssigner) *AccountService {
	return &AccountService{
		authService:  authService,
		userRepo:     userRepo,
		supplierRepo: supplierRepo,
		partnerRepo:  partnerRepo,
		roles:        roles,
	}
}

// CreateAccountInput 创建账号输入
type CreateAccountInput struct {
	Username    string
	Password    string
	DisplayName string
	Role        string
	// 供应商
	SupplierPhone   string
	SupplierAddress string
	// 推广员，为空时自动生成
	PromoCode string
}

// CreatedAccount 创建结果
type CreatedAccount struct {
	User     *models.User     `json:"user"`
	Supplier *models.Supplier `json:"supplier,omitempty"`
	Partner  *models.Partner  `json:"partner,omitempty"`
}

// CreateAccount 创建账号及对应的供应商/推广员档案
func (s *AccountService) CreateAccount(input CreateAccountInput) (*CreatedAccount, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username required", ErrValidation)
	}
	role := strings.ToLower(strings.TrimSpace(input.Role))
	switch role {
	case constants.RoleAdmin, constants.RoleSupplier, constants.RolePartner:
	default:
		return nil, ErrRoleInvalid
	}
	if err := s.authService.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	existing, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}

	var promoCode string
	if role == constants.RolePartner {
		promoCode, err = resolvePromoCode(s.partnerRepo, input.PromoCode, displayName)
		if err != nil {
			return nil, err
		}
	}

	hash, err := s.authService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	result := &CreatedAccount{}
	err = s.supplierRepo.Transaction(func(tx *gorm.DB) error {
		user := &models.User{
			Username:     username,
			PasswordHash: hash,
			DisplayName:  displayName,
			Role:         role,
			Status:       constants.UserStatusActive,
		}
		if err := s.userRepo.WithTx(tx).Create(user); err != nil {
			return err
		}
		result.User = user

		switch role {
		case constants.RoleSupplier:
			supplier := &models.Supplier{
				UserID:  user.ID,
				Name:    displayName,
				Phone:   strings.TrimSpace(input.SupplierPhone),
				Address: strings.TrimSpace(input.SupplierAddress),
				Status:  constants.SupplierStatusActive,
			}
			if err := s.supplierRepo.WithTx(tx).Create(supplier); err != nil {
				return err
			}
			result.Supplier = supplier
		case constants.RolePartner:
			partner := &models.Partner{
				UserID:    user.ID,
				Name:      displayName,
				PromoCode: promoCode,
				IsActive:  true,
			}
			if err := s.partnerRepo.WithTx(tx).Create(partner); err != nil {
				return err
			}
			result.Partner = partner
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.roles != nil {
		if err := s.roles.SetUserRoles(result.User.ID, []string{role}); err != nil {
			logger.Errorw("account_assign_role_failed", "user_id", result.User.ID, "role", role, "error", err)
			return nil, err
		}
	}
	logger.Infow("account_created", "user_id", result.User.ID, "role", role)
	return result, nil
}

// SetUserStatus 启用/禁用账号，禁用时旧 Token 立即失效
func (s *AccountService) SetUserStatus(userID uint, rawStatus string) (*models.User, error) {
	status := strings.ToLower(strings.TrimSpace(rawStatus))
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrValidation
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Status == status {
		return user, nil
	}
	user.Status = status
	if status == constants.UserStatusDisabled {
		now := time.Now()
		user.TokenVersion++
		user.TokenInvalidBefore = &now
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	logger.Infow("account_status_updated", "user_id", user.ID, "status", status)
	return user, nil
}

// ListUsers 账号列表
func (s *AccountService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}
