package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/queue"
	"github.com/foodhub-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	withdrawChannelMaxLen = 50
	withdrawAccountMaxLen = 255
)

// WithdrawalService 推广员提现服务
type WithdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	partnerRepo    repository.PartnerRepository
	settingService *SettingService
	queueClient    *queue.Client
}

// NewWithdrawalService 创建提现服务
func NewWithdrawalService(withdrawalRepo repository.WithdrawalRepository, partnerRepo repository.PartnerRepository, settingService *SettingService, queueClient *queue.Client) *WithdrawalService {
	return &WithdrawalService{
		withdrawalRepo: withdrawalRepo,
		partnerRepo:    partnerRepo,
		settingService: settingService,
		queueClient:    queueClient,
	}
}

// ApplyWithdrawalInput 提现申请输入
type ApplyWithdrawalInput struct {
	PartnerID uint
	Amount    models.Money
	Channel   string
	Account   string
}

// ReviewWithdrawalInput 提现审核输入
type ReviewWithdrawalInput struct {
	WithdrawalID uint
	AdminID      uint
	Action       string
	Reason       string
}

// ApplyWithdrawal 推广员提交提现申请
// 金额需不低于当前等级最低提现额，且不超过余额减去审核中的申请。
func (s *WithdrawalService) ApplyWithdrawal(input ApplyWithdrawalInput) (*models.Withdrawal, error) {
	amount := input.Amount.Decimal.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	channel := strings.TrimSpace(input.Channel)
	account := strings.TrimSpace(input.Account)
	if channel == "" || account == "" {
		return nil, ErrWithdrawChannelRequired
	}
	if len(channel) > withdrawChannelMaxLen || len(account) > withdrawAccountMaxLen {
		return nil, fmt.Errorf("%w: withdraw channel or account too long", ErrValidation)
	}

	partner, err := s.partnerRepo.GetByID(input.PartnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrPartnerNotFound
	}
	if !partner.IsActive {
		return nil, ErrPartnerUnavailable
	}

	rules, err := s.settingService.GetConfigRules()
	if err != nil {
		return nil, err
	}
	tier := ResolveTier(partner.TotalValidatedSales, rules)
	if amount.LessThan(tier.MinPayout.Decimal) {
		return nil, ErrBelowMinimumPayout
	}

	var created *models.Withdrawal
	err = s.withdrawalRepo.Transaction(func(tx *gorm.DB) error {
		locked, err := s.partnerRepo.WithTx(tx).GetByIDForUpdate(partner.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrPartnerNotFound
		}
		withdrawalRepo := s.withdrawalRepo.WithTx(tx)
		pending, err := withdrawalRepo.SumPendingByPartner(locked.ID)
		if err != nil {
			return err
		}
		available := locked.WalletBalance.Decimal.Sub(decimal.NewFromFloat(pending).Round(2))
		if amount.GreaterThan(available) {
			return ErrInsufficientBalance
		}
		created = &models.Withdrawal{
			PartnerID: locked.ID,
			Amount:    models.NewMoneyFromDecimal(amount),
			Channel:   channel,
			Account:   account,
			Status:    constants.WithdrawStatusPendingReview,
		}
		return withdrawalRepo.Create(created)
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("withdrawal_applied",
		"withdrawal_id", created.ID,
		"partner_id", partner.ID,
		"amount", created.Amount.String(),
		"tier", tier.Name,
	)
	return created, nil
}

// ReviewWithdrawal 管理员审核提现：pay 扣减余额并记账，reject 不动资金
func (s *WithdrawalService) ReviewWithdrawal(input ReviewWithdrawalInput) (*models.Withdrawal, error) {
	action := strings.ToLower(strings.TrimSpace(input.Action))
	if action != constants.WithdrawReviewActionPay && action != constants.WithdrawReviewActionReject {
		return nil, ErrWithdrawReviewActionInvalid
	}
	reason := strings.TrimSpace(input.Reason)
	if action == constants.WithdrawReviewActionReject && reason == "" {
		return nil, fmt.Errorf("%w: reject reason required", ErrValidation)
	}

	withdrawal, err := s.withdrawalRepo.GetByID(input.WithdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrWithdrawalNotFound
	}
	if withdrawal.Status != constants.WithdrawStatusPendingReview {
		return nil, ErrWithdrawStatusInvalid
	}

	now := time.Now()
	adminID := input.AdminID
	status := constants.WithdrawStatusRejected
	if action == constants.WithdrawReviewActionPay {
		status = constants.WithdrawStatusPaid
	}

	err = s.withdrawalRepo.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       status,
			"processed_by": &adminID,
			"processed_at": now,
			"updated_at":   now,
		}
		if action == constants.WithdrawReviewActionReject {
			updates["reject_reason"] = reason
		}
		affected, err := s.withdrawalRepo.WithTx(tx).FinalizePending(withdrawal.ID, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrWithdrawStatusInvalid
		}
		if action == constants.WithdrawReviewActionReject {
			return nil
		}
		return s.payWithdrawal(tx, withdrawal, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("withdrawal_reviewed",
		"withdrawal_id", withdrawal.ID,
		"partner_id", withdrawal.PartnerID,
		"admin_id", adminID,
		"status", status,
		"amount", withdrawal.Amount.String(),
	)
	s.notifyReviewed(withdrawal, status)
	return s.withdrawalRepo.GetByID(withdrawal.ID)
}

func (s *WithdrawalService) payWithdrawal(tx *gorm.DB, withdrawal *models.Withdrawal, now time.Time) error {
	partnerRepo := s.partnerRepo.WithTx(tx)
	partner, err := partnerRepo.GetByIDForUpdate(withdrawal.PartnerID)
	if err != nil {
		return err
	}
	if partner == nil {
		return ErrPartnerNotFound
	}
	amount := withdrawal.Amount.Decimal
	affected, err := partnerRepo.DebitWallet(partner.ID, amount)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientBalance
	}
	withdrawalID := withdrawal.ID
	return partnerRepo.CreateTransaction(&models.PartnerWalletTransaction{
		PartnerID:    partner.ID,
		Type:         constants.PartnerTxnTypeWithdraw,
		Direction:    constants.PartnerTxnDirectionOut,
		Amount:       models.NewMoneyFromDecimal(amount),
		BalanceAfter: models.NewMoneyFromDecimal(partner.WalletBalance.Decimal.Sub(amount)),
		Reference:    fmt.Sprintf("withdraw:%d", withdrawal.ID),
		WithdrawalID: &withdrawalID,
		Remark:       withdrawal.Channel,
		CreatedAt:    now,
	})
}

// GetWithdrawal 获取提现单，partnerID 非 0 时校验归属
func (s *WithdrawalService) GetWithdrawal(withdrawalID, partnerID uint) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil || (partnerID != 0 && withdrawal.PartnerID != partnerID) {
		return nil, ErrWithdrawalNotFound
	}
	return withdrawal, nil
}

// ListWithdrawals 提现列表
func (s *WithdrawalService) ListWithdrawals(filter repository.WithdrawalListFilter) ([]models.Withdrawal, int64, error) {
	return s.withdrawalRepo.List(filter)
}

func (s *WithdrawalService) notifyReviewed(withdrawal *models.Withdrawal, status string) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueueWithdrawalReviewed(queue.WithdrawalReviewedPayload{
		WithdrawalID: withdrawal.ID,
		PartnerID:    withdrawal.PartnerID,
		Status:       status,
		Amount:       withdrawal.Amount.String(),
	}); err != nil {
		logger.Warnw("withdrawal_enqueue_reviewed_failed", "withdrawal_id", withdrawal.ID, "error", err)
	}
}
