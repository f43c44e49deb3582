package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foodhub-next/internal/constants"
	"github.com/foodhub-next/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// UserAuthState 账号鉴权快照
// 鉴权中间件每次请求都要核对账号状态与 token 版本，快照缓存在 Redis 以免回源数据库。
type UserAuthState struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	TokenVersion uint64 `json:"token_version"`
	// InvalidBefore 该 Unix 秒之前签发的 token 作废，0 表示未设置
	InvalidBefore int64 `json:"invalid_before"`
}

// UserLoader 缓存未命中时回源加载账号
type UserLoader func(userID uint) (*models.User, error)

func userAuthStateKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}

// BuildUserAuthState 从账号构建快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	state := &UserAuthState{
		UserID:       user.ID,
		Username:     user.Username,
		Role:         user.Role,
		Status:       user.Status,
		TokenVersion: user.TokenVersion,
	}
	if user.TokenInvalidBefore != nil {
		state.InvalidBefore = user.TokenInvalidBefore.Unix()
	}
	return state
}

// Active 账号是否处于启用状态
func (s *UserAuthState) Active() bool {
	return s != nil && strings.EqualFold(strings.TrimSpace(s.Status), constants.UserStatusActive)
}

// Accepts 判断 token 是否仍然有效：版本一致且签发时间不早于失效点
func (s *UserAuthState) Accepts(tokenVersion uint64, issuedAt *time.Time) bool {
	if s == nil || tokenVersion != s.TokenVersion {
		return false
	}
	if s.InvalidBefore <= 0 {
		return true
	}
	return issuedAt != nil && issuedAt.Unix() >= s.InvalidBefore
}

// LoadUserAuthState 先查缓存，未命中时经 loader 回源并回写缓存
// 账号不存在时返回 nil, nil。
func LoadUserAuthState(ctx context.Context, userID uint, loader UserLoader) (*UserAuthState, error) {
	if userID == 0 {
		return nil, nil
	}
	var cached UserAuthState
	if hit, err := GetJSON(ctx, userAuthStateKey(userID), &cached); err == nil && hit {
		return &cached, nil
	}
	if loader == nil {
		return nil, nil
	}
	user, err := loader(userID)
	if err != nil || user == nil {
		return nil, err
	}
	state := BuildUserAuthState(user)
	_ = SetUserAuthState(ctx, state)
	return state, nil
}

// SetUserAuthState 写入快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, userAuthStateKey(state.UserID), state, authStateCacheTTL)
}

// DelUserAuthState 删除快照，账号禁用或改密后调用
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, userAuthStateKey(userID))
}
