package database

import "gorm.io/gorm"

// FindByID is a generic point read of one record by primary key. It is the
// single entry point UI-facing code uses when it only needs one document.
func FindByID[T any](db *gorm.DB, id interface{}) (T, error) {
	var out T
	err := db.First(&out, "id = ?", id).Error
	return out, err
}
