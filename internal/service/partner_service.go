package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	promoCodePrefixMaxLen = 4
	promoCodeSuffixLen    = 6
	promoCodeMaxAttempts  = 5
)

var (
	promoCodePattern     = regexp.MustCompile(`^[A-Z0-9]{4,32}$`)
	promoCodeNonAlphaNum = regexp.MustCompile(`[^A-Z0-9]`)
)

// PartnerService 推广员档案服务
type PartnerService struct {
	partnerRepo    repository.PartnerRepository
	withdrawalRepo repository.WithdrawalRepository
	settingService *SettingService
}

// NewPartnerService 创建推广员服务
func NewPartnerService(partnerRepo repository.PartnerRepository, withdrawalRepo repository.WithdrawalRepository, settingService *SettingService) *PartnerService {
	return &PartnerService{
		partnerRepo:    partnerRepo,
		withdrawalRepo: withdrawalRepo,
		settingService: settingService,
	}
}

// PartnerProfile 推广员档案与等级进度
type PartnerProfile struct {
	Partner           *models.Partner `json:"partner"`
	Tier              TierProgress    `json:"tier"`
	PendingWithdrawal models.Money    `json:"pending_withdrawal"`
	AvailableBalance  models.Money    `json:"available_balance"`
	MinPayout         models.Money    `json:"min_payout"`
}

// GetProfile 获取推广员档案
func (s *PartnerService) GetProfile(partnerID uint) (*PartnerProfile, error) {
	partner, err := s.partnerRepo.GetByID(partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrPartnerNotFound
	}
	rules, err := s.settingService.GetConfigRules()
	if err != nil {
		return nil, err
	}
	pending, err := s.withdrawalRepo.SumPendingByPartner(partner.ID)
	if err != nil {
		return nil, err
	}
	pendingAmount := decimal.NewFromFloat(pending).Round(2)
	available := partner.WalletBalance.Decimal.Sub(pendingAmount)
	if available.LessThan(decimal.Zero) {
		available = decimal.Zero
	}
	progress := ResolveTierProgress(partner.TotalValidatedSales, rules)
	return &PartnerProfile{
		Partner:           partner,
		Tier:              progress,
		PendingWithdrawal: models.NewMoneyFromDecimal(pendingAmount),
		AvailableBalance:  models.NewMoneyFromDecimal(available),
		MinPayout:         progress.Current.MinPayout,
	}, nil
}

// GetByUserID 按账号获取推广员
func (s *PartnerService) GetByUserID(userID uint) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrPartnerNotFound
	}
	return partner, nil
}

// SetActive 启用/停用推广员；停用后推广码失效，待入账佣金无法发放
func (s *PartnerService) SetActive(partnerID uint, active bool) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByID(partnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrPartnerNotFound
	}
	if err := s.partnerRepo.UpdateActive(partner.ID, active); err != nil {
		return nil, err
	}
	partner.IsActive = active
	logger.Infow("partner_active_updated", "partner_id", partner.ID, "is_active", active)
	return partner, nil
}

// ListPartners 推广员列表
func (s *PartnerService) ListPartners(filter repository.PartnerListFilter) ([]models.Partner, int64, error) {
	return s.partnerRepo.List(filter)
}

// ListTransactions 钱包流水
func (s *PartnerService) ListTransactions(filter repository.PartnerTransactionListFilter) ([]models.PartnerWalletTransaction, int64, error) {
	return s.partnerRepo.ListTransactions(filter)
}

// ResolvePromoCode 生成或校验推广码；raw 为空时按名称生成
func (s *PartnerService) ResolvePromoCode(raw, name string) (string, error) {
	return resolvePromoCode(s.partnerRepo, raw, name)
}

func resolvePromoCode(repo repository.PartnerRepository, raw, name string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code != "" {
		if !promoCodePattern.MatchString(code) {
			return "", fmt.Errorf("%w: promo code must be 4-32 letters or digits", ErrValidation)
		}
		existing, err := repo.GetByPromoCode(code)
		if err != nil {
			return "", err
		}
		if existing != nil {
			return "", fmt.Errorf("%w: promo code already taken", ErrValidation)
		}
		return code, nil
	}

	prefix := promoCodeNonAlphaNum.ReplaceAllString(strings.ToUpper(name), "")
	if len(prefix) > promoCodePrefixMaxLen {
		prefix = prefix[:promoCodePrefixMaxLen]
	}
	for i := 0; i < promoCodeMaxAttempts; i++ {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:promoCodeSuffixLen]
		candidate := prefix + suffix
		existing, err := repo.GetByPromoCode(candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("generate promo code failed after %d attempts", promoCodeMaxAttempts)
}
