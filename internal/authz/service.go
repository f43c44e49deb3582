package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix     = "/api/v1"
	casbinTableName = "casbin_rule"
	userSubjectFmt  = "user:%d"
	rolePrefix      = "role:"
	// roleAnchor 空角色也需要一条 g 记录才能被 ListRoles 发现
	roleAnchor = "role:__anchor__"
)

// 路径用 keyMatch2 匹配，:id 与 * 均可作为通配
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

var (
	ErrUnavailable     = errors.New("authz service unavailable")
	ErrRoleRequired    = errors.New("role is required")
	ErrReservedRole    = errors.New("reserved role is not allowed")
	ErrActionRequired  = errors.New("action is required")
	ErrUserRequired    = errors.New("user id is required")
	ErrImmutablePolicy = errors.New("builtin policy cannot be revoked")
)

// Policy 权限策略
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 基于 Casbin 的路由授权
// 账号以 user:<id> 为主体挂载到 role:admin / role:supplier / role:partner，策略持久化在 casbin_rule 表。
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务并加载已有策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// EnforceUser 判定账号能否以 act 访问 obj（obj 可带 /api/v1 前缀）
func (s *Service) EnforceUser(userID uint, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if userID == 0 {
		return false, ErrUserRequired
	}
	return s.enforcer.Enforce(SubjectForUser(userID), NormalizeObject(obj), NormalizeAction(act))
}

// EnsureRole 确保角色存在，返回带 role: 前缀的名称
func (s *Service) EnsureRole(role string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	normalized, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", normalized, roleAnchor); err != nil {
		return "", fmt.Errorf("create role failed: %w", err)
	}
	return normalized, nil
}

// ListRoles 列出全部角色
func (s *Service) ListRoles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 0)
	if err != nil {
		return nil, fmt.Errorf("list roles failed: %w", err)
	}
	seen := make(map[string]struct{})
	for _, rule := range rules {
		for _, name := range rule {
			if isRoleName(name) {
				seen[name] = struct{}{}
			}
		}
	}
	roles := make([]string, 0, len(seen))
	for role := range seen {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles, nil
}

// GrantRolePolicy 为角色授予策略，角色不存在时自动创建
func (s *Service) GrantRolePolicy(role, object, action string) error {
	normalizedRole, err := s.EnsureRole(role)
	if err != nil {
		return err
	}
	act := NormalizeAction(action)
	if act == "" {
		return ErrActionRequired
	}
	if _, err := s.enforcer.AddPolicy(normalizedRole, NormalizeObject(object), act); err != nil {
		return fmt.Errorf("grant policy failed: %w", err)
	}
	return nil
}

// RevokeRolePolicy 撤销角色策略，预置角色的内置策略不可撤销
func (s *Service) RevokeRolePolicy(role, object, action string) error {
	if err := s.ready(); err != nil {
		return err
	}
	normalizedRole, err := NormalizeRole(role)
	if err != nil {
		return err
	}
	act := NormalizeAction(action)
	if act == "" {
		return ErrActionRequired
	}
	obj := NormalizeObject(object)
	if isImmutableSeedPolicy(normalizedRole, obj, act) {
		return ErrImmutablePolicy
	}
	if _, err := s.enforcer.RemovePolicy(normalizedRole, obj, act); err != nil {
		return fmt.Errorf("revoke policy failed: %w", err)
	}
	return nil
}

// GetRolePolicies 查询角色直接持有的策略
func (s *Service) GetRolePolicies(role string) ([]Policy, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	normalizedRole, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, normalizedRole)
	if err != nil {
		return nil, fmt.Errorf("get role policies failed: %w", err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{Subject: rule[0], Object: rule[1], Action: rule[2]})
	}
	return policies, nil
}

// SetUserRoles 覆盖账号角色（账号创建、角色变更时调用）
func (s *Service) SetUserRoles(userID uint, roles []string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if userID == 0 {
		return ErrUserRequired
	}
	subject := SubjectForUser(userID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear user roles failed: %w", err)
	}
	for _, role := range roles {
		normalizedRole, err := s.EnsureRole(role)
		if err != nil {
			return err
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, normalizedRole); err != nil {
			return fmt.Errorf("assign user role failed: %w", err)
		}
	}
	return nil
}

// GetUserRoles 查询账号直接挂载的角色
func (s *Service) GetUserRoles(userID uint) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, ErrUserRequired
	}
	roles, err := s.enforcer.GetRolesForUser(SubjectForUser(userID))
	if err != nil {
		return nil, fmt.Errorf("get user roles failed: %w", err)
	}
	filtered := make([]string, 0, len(roles))
	for _, role := range roles {
		if isRoleName(role) {
			filtered = append(filtered, role)
		}
	}
	sort.Strings(filtered)
	return filtered, nil
}

// SubjectForUser 账号主体标识
func SubjectForUser(userID uint) string {
	return fmt.Sprintf(userSubjectFmt, userID)
}

// NormalizeRole 补齐 role: 前缀，空格替换为下划线
func NormalizeRole(role string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(role), rolePrefix)
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return "", ErrRoleRequired
	}
	normalized := rolePrefix + name
	if normalized == roleAnchor {
		return "", ErrReservedRole
	}
	return normalized, nil
}

// NormalizeObject 统一资源路径，去掉 /api/v1 前缀
func NormalizeObject(object string) string {
	normalized := strings.TrimSpace(object)
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if normalized == apiV1Prefix {
		return "/"
	}
	if strings.HasPrefix(normalized, apiV1Prefix+"/") {
		return strings.TrimPrefix(normalized, apiV1Prefix)
	}
	return normalized
}

// NormalizeAction 动作统一为大写 HTTP 方法
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}

func isRoleName(name string) bool {
	return strings.HasPrefix(name, rolePrefix) && name != roleAnchor
}
