// Package notify delivers the rendered report and the price-drop
// alert. Delivery is fire-and-forget from the tracker's perspective:
// a failed send is logged by the caller and never rolls back the
// already-saved ledger.
package notify

import "context"

// Notifier delivers the two run payloads to its configured recipients.
// Callers skip the calls entirely when a payload is empty.
type Notifier interface {
	SendReport(ctx context.Context, subject, body string) error
	SendAlert(ctx context.Context, body string) error
}
