package service

import (
	"strings"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/logger"
	"github.com/foodhub-next/internal/models"
	"github.com/foodhub-next/internal/repository"
)

// SupplierService 供应商档案服务
type SupplierService struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierService 创建供应商服务
func NewSupplierService(supplierRepo repository.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// GetSupplier 获取供应商
func (s *SupplierService) GetSupplier(supplierID uint) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrSupplierNotFound
	}
	return supplier, nil
}

// GetByUserID 按账号获取供应商
func (s *SupplierService) GetByUserID(userID uint) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrSupplierNotFound
	}
	return supplier, nil
}

// UpdateStatus 暂停/恢复供应商
// 暂停不影响进行中的订单，但无法再开始备餐或接收新订单。
func (s *SupplierService) UpdateStatus(supplierID uint, rawStatus string) (*models.Supplier, error) {
	status := strings.ToLower(strings.TrimSpace(rawStatus))
	if status != constants.SupplierStatusActive && status != constants.SupplierStatusSuspended {
		return nil, ErrValidation
	}
	supplier, err := s.GetSupplier(supplierID)
	if err != nil {
		return nil, err
	}
	if supplier.Status == status {
		return supplier, nil
	}
	if err := s.supplierRepo.UpdateStatus(supplier.ID, status); err != nil {
		return nil, err
	}
	logger.Infow("supplier_status_updated", "supplier_id", supplier.ID, "from", supplier.Status, "to", status)
	supplier.Status = status
	return supplier, nil
}

// ListSuppliers 供应商列表
func (s *SupplierService) ListSuppliers(filter repository.SupplierListFilter) ([]models.Supplier, int64, error) {
	return s.supplierRepo.List(filter)
}
