package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLite returns a connected GORM DB instance backed by an embedded sqlite
// file. TranslateError is enabled so unique-constraint failures surface as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func NewSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	return db, nil
}
