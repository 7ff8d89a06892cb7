package models

import (
	"time"
)

// Notification corresponds to the notifications table. The only mutation
// after creation is flipping IsRead.
type Notification struct {
	ID          uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint       `json:"user_id" gorm:"column:user_id;not null;index:idx_notifications_user_id"`
	User        *User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ComplaintID *uint      `json:"complaint_id,omitempty" gorm:"column:complaint_id"`
	Complaint   *Complaint `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Message     string     `json:"message" gorm:"column:message;type:text;not null"`
	IsRead      bool       `json:"is_read" gorm:"column:is_read;not null;default:false"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName specifies the notifications table.
func (Notification) TableName() string {
	return "notifications"
}
