package service

import "errors"

var (
	// ErrValidation marks boundary rejections: malformed input never reaches
	// the lifecycle engine.
	ErrValidation = errors.New("validation failed")

	// ErrPermissionDenied marks lifecycle operations the actor may not
	// perform; the task is left untouched.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAlreadyCompleted rejects completing a task twice in one cycle.
	ErrAlreadyCompleted = errors.New("task already completed")
)
