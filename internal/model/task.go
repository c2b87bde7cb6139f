package model

import "time"

// Recurrence frequencies a reconciliation can carry.
const (
	FrequencyDaily   = "Daily"
	FrequencyWeekly  = "Weekly"
	FrequencyMonthly = "Monthly"
)

// Lifecycle statuses. Pending -> In Progress -> Completed is the happy path;
// On Hold and arbitrary overrides are admin-driven.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusOnHold     = "On Hold"
)

// Priorities are informational only; they never affect lifecycle decisions.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// ValidFrequency reports whether f is a known recurrence frequency.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

// Task is one recurring reconciliation assignment.
//
// DueTime is set only for Daily tasks; Weekly and Monthly tasks carry no
// time-of-day component and tip into overdue at the end of their due day.
// A Completed task always holds a NextDue computed at completion time.
type Task struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	Description     string
	Frequency       string `gorm:"not null;index"`
	Priority        string `gorm:"default:Medium"`
	Status          string `gorm:"default:Pending;index"`
	SourceSystem    string
	TargetSystem    string
	DueDate         *time.Time
	DueTime         string // "HH:MM", Daily tasks only
	NextDue         *time.Time
	LastCompletedAt *time.Time
	OverdueNotified bool        `gorm:"default:false"`
	AssignedTo      *uint       `gorm:"index"`
	Assignee        *TeamMember `gorm:"foreignKey:AssignedTo"`
	CompletionNotes string
	ItemsReconciled int `gorm:"default:0"`
	ExceptionsFound int `gorm:"default:0"`
	CompletedBy     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
