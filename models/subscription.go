package models

import "time"

// Subscription joins a user to a subject. A pair exists at most once.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uni_subscriptions_user_subject,priority:1" json:"user_id"`
	SubjectID uint      `gorm:"not null;uniqueIndex:uni_subscriptions_user_subject,priority:2;index" json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Subject   Subject   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"subject"`
}
