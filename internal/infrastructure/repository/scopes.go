package repository

import (
	"github.com/sangkips/pos-terminal/pkg/pagination"
	"gorm.io/gorm"
)

// SessionScope restricts journal queries to one register session
func SessionScope(sessionID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("session_id = ?", sessionID)
	}
}

// Paginate applies offset and limit from validated pagination params
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}
