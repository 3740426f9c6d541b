package db

import (
	"strings"

	"gorm.io/gorm"
)

// Paginate applies LIMIT/OFFSET for a 1-based page.
func Paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if page < 1 || pageSize < 1 {
			return tx
		}
		return tx.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}

// LikePattern escapes LIKE wildcards in s and wraps it for a contains match.
func LikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}
