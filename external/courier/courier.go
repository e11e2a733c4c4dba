// Package courier delivers consent-request notification emails through an
// external mail service. Delivery is fire-and-forget from the tracker's
// point of view: a failed send never blocks or rolls back local state.
package courier

import "context"

// Delivery is the structured payload handed to the mail service.
type Delivery struct {
	RequestID      string `json:"requestId"`
	RecipientEmail string `json:"recipientEmail"`
	RecipientName  string `json:"recipientName"`
	RequesterName  string `json:"requesterName"`
	Activity       string `json:"activity"`
	Details        string `json:"details,omitempty"`
	Deadline       string `json:"deadline,omitempty"`
}

type Courier interface {
	Send(ctx context.Context, d Delivery) error
}
