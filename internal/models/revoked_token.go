package models

import "time"

// RevokedToken records the JTI of a logged-out token until it expires.
type RevokedToken struct {
	JTI       string    `gorm:"column:jti;primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
}

// TableName specifies the revoked_tokens table.
func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

// All returns every model managed by migrations, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Complaint{},
		&EscalationLog{},
		&Notification{},
		&RevokedToken{},
	}
}
