package model

import "time"

// CompletionHistoryEntry is an immutable snapshot written once per
// completion. Entries are append-only: they survive auto-resets and are
// never updated.
type CompletionHistoryEntry struct {
	ID              uint `gorm:"primaryKey"`
	TaskID          uint `gorm:"index;not null"`
	Frequency       string
	AssigneeName    string
	DueDate         *time.Time
	CompletedAt     time.Time
	CompletedBy     string
	ItemsReconciled int
	ExceptionsFound int
	Notes           string
	WasOverdue      bool
	DaysOverdue     int
	CreatedAt       time.Time
}
