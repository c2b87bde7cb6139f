package model

import "time"

// TeamMember is a person reconciliations are assigned to. Members are not
// login accounts; they are the assignee directory and the recipients of
// assignee-addressed notifications.
type TeamMember struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Tasks     []Task `gorm:"foreignKey:AssignedTo"`
}
