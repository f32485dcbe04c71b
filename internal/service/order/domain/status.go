// internal/service/order/domain/status.go
package domain

import "fmt"

// Status is the order lifecycle status.
type Status string

const (
	StatusPending   Status = "PENDING"   // initial, set at creation
	StatusPaid      Status = "PAID"      // reached only through the payment event path
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus validates a status value coming in from the edge.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown order status: %q", s)
}

// AdminAssignable reports whether the status may be set through the
// administrative change-status operation. PAID is excluded: it is only
// reachable through payment reconciliation, which also sets the paid fields.
func (s Status) AdminAssignable() bool {
	return s != StatusPaid
}
