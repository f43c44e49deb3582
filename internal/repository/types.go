package repository

import (
	"time"

	"github.com/foodhub-next/internal/constants"
)

// UserListFilter 账号列表过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Role     string
	Status   string
	Keyword  string
}

// SupplierListFilter 供应商列表过滤条件
type SupplierListFilter struct {
	Page     int
	PageSize int
	Status   string
	Keyword  string
	HasDebt  bool
}

// PartnerListFilter 推广员列表过滤条件
type PartnerListFilter struct {
	Page     int
	PageSize int
	IsActive *bool
	Keyword  string
}

// PartnerTransactionListFilter 推广钱包流水过滤条件
type PartnerTransactionListFilter struct {
	Page      int
	PageSize  int
	PartnerID uint
	Type      string
}

// ProductListFilter 商品列表过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	SupplierID uint
	Status     string
	Keyword    string
}

// OrderListFilter 订单列表过滤条件
type OrderListFilter struct {
	Page             int
	PageSize         int
	SupplierID       uint
	PartnerID        uint
	Status           constants.OrderStatus
	SettlementStatus string
	Code             string
	CustomerPhone    string
	CreatedFrom      *time.Time
	CreatedTo        *time.Time
}

// SettlementListFilter 结算单列表过滤条件
type SettlementListFilter struct {
	Page       int
	PageSize   int
	SupplierID uint
	Status     string
}

// WithdrawalListFilter 提现列表过滤条件
type WithdrawalListFilter struct {
	Page      int
	PageSize  int
	PartnerID uint
	Status    string
}
