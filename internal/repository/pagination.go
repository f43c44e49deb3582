package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// likePattern 构建模糊查询参数，空关键字返回空串。
func likePattern(keyword string) string {
	trimmed := strings.TrimSpace(keyword)
	if trimmed == "" {
		return ""
	}
	return "%" + trimmed + "%"
}

// firstOrNil 取第一条记录，未找到时返回 nil, nil
func firstOrNil[T any](query *gorm.DB, conds ...interface{}) (*T, error) {
	var record T
	if err := query.First(&record, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
