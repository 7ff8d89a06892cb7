package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/grievance_system/internal/core/lifecycle"
	"github.com/grievance_system/internal/core/priority"
)

// Complaint corresponds to the complaints table.
type Complaint struct {
	ID          uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint             `json:"user_id" gorm:"column:user_id;not null;index:idx_complaints_user_id"`
	User        *User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Title       string           `json:"title" gorm:"column:title;not null;size:255"`
	Description string           `json:"description" gorm:"column:description;type:text;not null"`
	Category    string           `json:"category" gorm:"column:category;not null;size:100"`
	Location    *string          `json:"location,omitempty" gorm:"column:location;size:255"`
	Priority    priority.Level   `json:"priority" gorm:"column:priority;not null;default:'Low';size:10;index:idx_complaints_priority;check:chk_complaints_priority,priority IN ('High','Medium','Low')"`
	Status      lifecycle.Status `json:"status" gorm:"column:status;not null;default:'Pending';size:20;index:idx_complaints_status;check:chk_complaints_status,status IN ('Pending','In Progress','Resolved','Closed','Escalated')"`
	AssignedTo  *uint            `json:"assigned_to,omitempty" gorm:"column:assigned_to"`
	SLADeadline *time.Time       `json:"sla_deadline,omitempty" gorm:"column:sla_deadline"`
	CreatedAt   time.Time        `json:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty" gorm:"column:updated_at;autoUpdateTime:false"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
	Version     uint             `json:"version" gorm:"column:version;not null;default:1"`

	// Overdue is computed on load, never stored.
	Overdue bool `json:"overdue" gorm:"-"`
}

// TableName specifies the complaints table.
func (Complaint) TableName() string {
	return "complaints"
}

// IsOverdue reports whether the SLA deadline has passed while the complaint
// is still open.
func (c *Complaint) IsOverdue(now time.Time) bool {
	return c.SLADeadline != nil && now.After(*c.SLADeadline) && lifecycle.IsOpen(c.Status)
}

// AfterFind fills the computed fields.
func (c *Complaint) AfterFind(tx *gorm.DB) error {
	c.Overdue = c.IsOverdue(time.Now())
	return nil
}

// ComplaintStats holds the dashboard counters.
type ComplaintStats struct {
	TotalUsers      int64 `json:"totalUsers"`
	TotalComplaints int64 `json:"totalComplaints"`
	Pending         int64 `json:"pending"`
	InProgress      int64 `json:"inProgress"`
	Escalated       int64 `json:"escalated"`
	Resolved        int64 `json:"resolved"`
	Overdue         int64 `json:"overdue"`
	HighPriority    int64 `json:"highPriority"`
	MediumPriority  int64 `json:"mediumPriority"`
	LowPriority     int64 `json:"lowPriority"`
}

// ComplaintFilter narrows the staff complaint listing.
type ComplaintFilter struct {
	Status     string
	Priority   string
	Category   string
	AssignedTo *uint
	Overdue    bool
	Page       int
	Limit      int
}

// ComplaintWithOwner is a complaint joined with its owner's contact details,
// as shown to staff.
type ComplaintWithOwner struct {
	Complaint
	UserName  string `json:"user_name" gorm:"column:user_name;->"`
	UserEmail string `json:"user_email" gorm:"column:user_email;->"`
	UserPhone string `json:"user_phone" gorm:"column:user_phone;->"`
}
