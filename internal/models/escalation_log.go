package models

import (
	"time"
)

// EscalationLog corresponds to the escalation_log table. Rows are append-only.
type EscalationLog struct {
	ID            uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	ComplaintID   uint       `json:"complaint_id" gorm:"column:complaint_id;not null;index:idx_escalation_log_complaint_id"`
	Complaint     *Complaint `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	EscalatedFrom *uint      `json:"escalated_from,omitempty" gorm:"column:escalated_from"`
	EscalatedTo   *uint      `json:"escalated_to,omitempty" gorm:"column:escalated_to"`
	Reason        string     `json:"reason" gorm:"column:reason;type:text"`
	EscalatedAt   time.Time  `json:"escalated_at" gorm:"column:escalated_at;not null"`
}

// TableName specifies the escalation_log table.
func (EscalationLog) TableName() string {
	return "escalation_log"
}
