// Package tracker holds the authoritative in-memory collection of consent
// requests and drives their lifecycle: pending -> completed via accept,
// pending -> declined via decline, and pending -> gone via cancel, which
// deletes the request outright. There is no transition out of a terminal
// status.
package tracker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/aurigandrea/consentd/external/courier"
	"github.com/aurigandrea/consentd/ledger"
	"github.com/aurigandrea/consentd/schema"
	"github.com/aurigandrea/consentd/store"
)

type Tracker struct {
	mu       sync.Mutex
	store    *store.Store
	courier  courier.Courier
	requests []schema.ConsentRequest

	clock func() time.Time
	newID func() string
}

// New loads the request collection and returns a tracker over it. The
// collection is process-scoped, not principal-scoped: a request must be
// visible to its recipient before the recipient ever logs in. A nil
// courier disables delivery.
func New(s *store.Store, c courier.Courier) *Tracker {
	return &Tracker{
		store:    s,
		courier:  c,
		requests: s.LoadRequests(),
		clock:    time.Now,
		newID:    uuid.NewString,
	}
}

// Create validates the draft, stores a pending request and attempts
// delivery through the courier. Delivery failure is reported as a wrapped
// schema.ErrDeliveryFailed alongside the created request; the request
// exists locally regardless of the delivery outcome.
func (t *Tracker) Create(ctx context.Context, requester schema.Principal, draft schema.RequestDraft) (*schema.ConsentRequest, error) {
	if strings.TrimSpace(draft.Activity) == "" {
		return nil, fmt.Errorf("%w: activity is required", schema.ErrValidation)
	}
	if strings.TrimSpace(draft.RecipientEmail) == "" {
		return nil, fmt.Errorf("%w: recipient email is required", schema.ErrValidation)
	}
	if !schema.ValidEmail(draft.RecipientEmail) {
		return nil, fmt.Errorf("%w: recipient email is malformed", schema.ErrValidation)
	}

	recipientName := strings.TrimSpace(draft.RecipientName)
	if recipientName == "" {
		recipientName = draft.RecipientEmail
	}

	t.mu.Lock()
	request := schema.ConsentRequest{
		ID:                   t.newID(),
		RequesterEmail:       requester.Email,
		RequesterDisplayName: requester.DisplayName,
		RecipientEmail:       draft.RecipientEmail,
		RecipientName:        recipientName,
		Activity:             draft.Activity,
		Details:              draft.Details,
		Deadline:             draft.Deadline,
		Status:               schema.StatusPending,
		CreatedAt:            t.clock().UTC(),
	}
	t.requests = append(t.requests, request)
	t.store.SaveRequests(t.requests)
	t.mu.Unlock()

	if t.courier == nil {
		log.WithField("prefix", "tracker").Debug("no courier configured, skipping delivery")
		return &request, nil
	}

	if err := t.courier.Send(ctx, courier.Delivery{
		RequestID:      request.ID,
		RecipientEmail: request.RecipientEmail,
		RecipientName:  request.RecipientName,
		RequesterName:  requester.Name(),
		Activity:       request.Activity,
		Details:        request.Details,
		Deadline:       request.Deadline,
	}); err != nil {
		log.WithField("prefix", "tracker").WithError(err).Warn("request stored but delivery failed")
		return &request, fmt.Errorf("%w: %s", schema.ErrDeliveryFailed, err)
	}

	return &request, nil
}

// Accept resolves a pending request addressed to the given principal:
// it appends a consent record with the request's activity, today's date
// and a back-reference to the request, then marks the request completed.
// If the append fails the request stays pending, so the two collections
// move together or not at all. A request that is absent, already
// resolved, or addressed to someone else is reported as not found.
func (t *Tracker) Accept(id string, recipient schema.Principal, led *ledger.Ledger, origin, userAgent string) (*schema.ConsentRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.findPending(id)
	if i < 0 || t.requests[i].RecipientEmail != recipient.Email {
		return nil, fmt.Errorf("%w: request %s", schema.ErrNotFound, id)
	}

	now := t.clock().UTC()
	record, err := led.Append(schema.RecordDraft{
		SubjectName:     t.requests[i].RecipientName,
		Activity:        t.requests[i].Activity,
		ConsentDate:     now.Format(schema.DateLayout),
		SourceRequestID: t.requests[i].ID,
		OriginAddress:   origin,
		UserAgent:       userAgent,
	})
	if err != nil {
		return nil, err
	}

	t.requests[i].Status = schema.StatusCompleted
	t.requests[i].ResolvedAt = &now
	t.store.SaveRequests(t.requests)

	return record, nil
}

// Decline marks a pending request declined. No record is created.
func (t *Tracker) Decline(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.findPending(id)
	if i < 0 {
		return fmt.Errorf("%w: request %s", schema.ErrNotFound, id)
	}

	now := t.clock().UTC()
	t.requests[i].Status = schema.StatusDeclined
	t.requests[i].ResolvedAt = &now
	t.store.SaveRequests(t.requests)
	return nil
}

// Cancel removes a pending request created by the given requester. A
// resolved request cannot be cancelled, which also guarantees that a
// completed request referenced by a record is never deleted.
func (t *Tracker) Cancel(id, requesterEmail string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.findPending(id)
	if i < 0 || t.requests[i].RequesterEmail != requesterEmail {
		return fmt.Errorf("%w: request %s", schema.ErrNotFound, id)
	}

	t.requests = append(t.requests[:i], t.requests[i+1:]...)
	t.store.SaveRequests(t.requests)
	return nil
}

// ListSentBy returns the pending requests created by the given principal,
// newest first.
func (t *Tracker) ListSentBy(principalEmail string) []schema.ConsentRequest {
	return t.listPending(func(r schema.ConsentRequest) bool {
		return r.RequesterEmail == principalEmail
	})
}

// ListReceivedBy returns the pending requests addressed to the given
// principal, newest first.
func (t *Tracker) ListReceivedBy(principalEmail string) []schema.ConsentRequest {
	return t.listPending(func(r schema.ConsentRequest) bool {
		return r.RecipientEmail == principalEmail
	})
}

func (t *Tracker) listPending(match func(schema.ConsentRequest) bool) []schema.ConsentRequest {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]schema.ConsentRequest, 0)
	for _, r := range t.requests {
		if r.Status == schema.StatusPending && match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// findPending returns the index of the pending request with the given id,
// or -1. Resolved requests are deliberately invisible here: they are no
// longer listed anywhere, so operations on them report not found.
func (t *Tracker) findPending(id string) int {
	for i, r := range t.requests {
		if r.ID == id && r.Status == schema.StatusPending {
			return i
		}
	}
	return -1
}
