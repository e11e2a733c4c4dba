// Package ledger holds the authoritative in-memory collection of consent
// records for the active session. Every logged-in principal sees the same
// ledger; the store key is shared across users on purpose.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aurigandrea/consentd/schema"
	"github.com/aurigandrea/consentd/store"
)

type Ledger struct {
	mu        sync.Mutex
	store     *store.Store
	principal schema.Principal
	records   []schema.ConsentRecord

	clock func() time.Time
	newID func() string
}

// New loads the record collection for the given principal and returns a
// ledger over it.
func New(s *store.Store, principal schema.Principal) *Ledger {
	return &Ledger{
		store:     s,
		principal: principal,
		records:   s.LoadRecords(principal.Email),
		clock:     time.Now,
		newID:     uuid.NewString,
	}
}

// Append validates the draft, creates a record with assigned id and
// timestamps, appends it and persists the collection. The record is
// immutable from here on.
func (l *Ledger) Append(draft schema.RecordDraft) (*schema.ConsentRecord, error) {
	if strings.TrimSpace(draft.SubjectName) == "" {
		return nil, fmt.Errorf("%w: subject name is required", schema.ErrValidation)
	}
	if strings.TrimSpace(draft.Activity) == "" {
		return nil, fmt.Errorf("%w: activity is required", schema.ErrValidation)
	}
	if strings.TrimSpace(draft.ConsentDate) == "" {
		return nil, fmt.Errorf("%w: consent date is required", schema.ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	record := schema.ConsentRecord{
		ID:              l.newID(),
		SubjectName:     draft.SubjectName,
		Activity:        draft.Activity,
		ConsentDate:     draft.ConsentDate,
		RecordedAt:      l.clock().UTC(),
		RecordedByEmail: l.principal.Email,
		SourceRequestID: draft.SourceRequestID,
		OriginAddress:   draft.OriginAddress,
		UserAgent:       draft.UserAgent,
	}

	l.records = append(l.records, record)
	l.store.SaveRecords(l.records, l.principal.Email)

	return &record, nil
}

// Withdraw removes the record with the given id and persists the
// collection. Withdrawal is irreversible.
func (l *Ledger) Withdraw(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, r := range l.records {
		if r.ID == id {
			l.records = append(l.records[:i], l.records[i+1:]...)
			l.store.SaveRecords(l.records, l.principal.Email)
			return nil
		}
	}
	return fmt.Errorf("%w: record %s", schema.ErrNotFound, id)
}

// List returns a snapshot of the collection sorted newest-first by
// RecordedAt. The stored insertion order is never mutated.
func (l *Ledger) List() []schema.ConsentRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Filter returns the records whose subject name, activity or recorder
// email contains the query, case-insensitively. An empty query matches
// everything.
func (l *Ledger) Filter(query string) []schema.ConsentRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.snapshot()
	if query == "" {
		return out
	}

	term := strings.ToLower(query)
	matched := out[:0]
	for _, r := range out {
		haystack := strings.ToLower(r.SubjectName + " " + r.Activity + " " + r.RecordedByEmail)
		if strings.Contains(haystack, term) {
			matched = append(matched, r)
		}
	}
	return matched
}

func (l *Ledger) snapshot() []schema.ConsentRecord {
	out := make([]schema.ConsentRecord, len(l.records))
	copy(out, l.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out
}
