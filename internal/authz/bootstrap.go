package authz

import (
	"fmt"

	"github.com/foodhub-next/internal/constants"
)

// RoleAuditor 只读审计角色，admin 继承它的全部 GET 权限
const RoleAuditor = "readonly_auditor"

// RoleSeed 预置角色
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool // 内置策略不可撤销
}

var selfServicePolicies = []Policy{
	{Object: "/me", Action: "GET"},
	{Object: "/me/password", Action: "PUT"},
}

// BuiltinRoleSeeds 与账号角色一一对应的预置角色
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleAuditor,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
				{Object: "/me", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{RoleAuditor},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
				{Object: "/me/password", Action: "PUT"},
			},
			Immutable: true,
		},
		{
			Role: constants.RoleSupplier,
			Policies: append([]Policy{
				{Object: "/supplier/products", Action: "*"},
				{Object: "/supplier/products/:id", Action: "GET"},
				{Object: "/supplier/queue", Action: "GET"},
				{Object: "/supplier/orders", Action: "GET"},
				{Object: "/supplier/orders/:id", Action: "GET"},
				{Object: "/supplier/orders/:id/status", Action: "POST"},
				{Object: "/supplier/wallet", Action: "GET"},
				{Object: "/supplier/settlements", Action: "*"},
				{Object: "/supplier/settlements/:id", Action: "GET"},
			}, selfServicePolicies...),
			Immutable: true,
		},
		{
			Role: constants.RolePartner,
			Policies: append([]Policy{
				{Object: "/partner/profile", Action: "GET"},
				{Object: "/partner/wallet/transactions", Action: "GET"},
				{Object: "/partner/withdrawals", Action: "*"},
				{Object: "/partner/withdrawals/:id", Action: "GET"},
			}, selfServicePolicies...),
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 写入预置角色、继承关系与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role %s -> %s failed: %w", role, parentRole, err)
			}
		}
		for _, policy := range seed.Policies {
			act := NormalizeAction(policy.Action)
			if act == "" {
				return ErrActionRequired
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), act); err != nil {
				return fmt.Errorf("add builtin policy for %s failed: %w", role, err)
			}
		}
	}
	return nil
}

func isImmutableSeedPolicy(role, object, action string) bool {
	for _, seed := range BuiltinRoleSeeds() {
		if !seed.Immutable {
			continue
		}
		seedRole, err := NormalizeRole(seed.Role)
		if err != nil || seedRole != role {
			continue
		}
		for _, policy := range seed.Policies {
			if NormalizeObject(policy.Object) == object && NormalizeAction(policy.Action) == action {
				return true
			}
		}
	}
	return false
}
