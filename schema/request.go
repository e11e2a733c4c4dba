package schema

import (
	"regexp"
	"time"
)

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusCompleted RequestStatus = "completed"
	StatusDeclined  RequestStatus = "declined"
)

// urgentWindow is how close a deadline has to be for a request to count
// as urgent.
const urgentWindow = 7 * 24 * time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ConsentRequest is a solicitation from a requester principal to a
// recipient asking for consent to an activity.
//
// Status only ever moves pending -> completed (accept) or pending ->
// declined (decline). Cancellation removes the request outright and is
// only allowed while it is still pending, so a completed request that a
// record references can never be deleted.
type ConsentRequest struct {
	ID                   string        `json:"id"`
	RequesterEmail       string        `json:"requesterEmail"`
	RequesterDisplayName string        `json:"requesterDisplayName,omitempty"`
	RecipientEmail       string        `json:"recipientEmail"`
	RecipientName        string        `json:"recipientName"`
	Activity             string        `json:"activity"`
	Details              string        `json:"details,omitempty"`
	Deadline             string        `json:"deadline,omitempty"`
	Status               RequestStatus `json:"status"`
	CreatedAt            time.Time     `json:"createdAt"`
	ResolvedAt           *time.Time    `json:"resolvedAt,omitempty"`
}

// Urgent reports whether the request deadline falls within the next seven
// days of now. Requests without a parseable deadline are never urgent.
func (r ConsentRequest) Urgent(now time.Time) bool {
	if r.Deadline == "" {
		return false
	}
	d, err := time.Parse(DateLayout, r.Deadline)
	if err != nil {
		return false
	}
	return !d.After(now.Add(urgentWindow))
}

// RequestDraft carries the user-supplied fields of a new request.
type RequestDraft struct {
	RecipientEmail string `json:"recipientEmail"`
	RecipientName  string `json:"recipientName"`
	Activity       string `json:"activity"`
	Details        string `json:"details"`
	Deadline       string `json:"deadline"`
}
