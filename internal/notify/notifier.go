package notify

import (
	"context"

	"recon-tracker/internal/model"
)

// Notifier attempts delivery of a raised notification record. A failed
// delivery is logged by the caller and retried on a later sweep; it never
// rolls back the record's creation.
type Notifier interface {
	// Deliver sends the record for the given task to the resolved email
	// addresses. Implementations that do not use email ignore addresses.
	Deliver(ctx context.Context, rec *model.NotificationRecord, task *model.Task, addresses []string) error
}
