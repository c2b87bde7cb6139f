package model

import "time"

// Notification severities.
const (
	SeverityDanger = "danger"
	SeverityInfo   = "info"
)

// Notification audiences. An admins record fans out to every administrator
// at delivery time; an assignee record targets one team member.
const (
	AudienceAdmins   = "admins"
	AudienceAssignee = "assignee"
)

// NotificationRecord is one raised notification. At most one unread
// danger-severity record may exist per task at any time; the repository
// enforces that with a conditional insert.
type NotificationRecord struct {
	ID        uint   `gorm:"primaryKey"`
	TaskID    uint   `gorm:"index;not null"`
	Severity  string `gorm:"index;not null"`
	Message   string
	Audience  string `gorm:"not null"`
	MemberID  *uint  `gorm:"index"` // set when Audience is assignee
	Read      bool   `gorm:"default:false;index"`
	CreatedAt time.Time
}
