package models

// Subject is a topic posts belong to and users subscribe to.
type Subject struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex:uni_subjects_name" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// SubjectWithStatus is a subject left-joined with the caller's subscription row, if any.
type SubjectWithStatus struct {
	Subject
	SubscriptionID *uint `gorm:"column:subscription_id"`
}

// Subscribed reports whether the joined subscription row exists.
func (s SubjectWithStatus) Subscribed() bool {
	return s.SubscriptionID != nil
}
