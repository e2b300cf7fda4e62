package models

import "gorm.io/gorm"

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{&User{}, &Subject{}, &Subscription{}, &Post{}, &Comment{}}
}

// AutoMigrate creates or updates tables for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
